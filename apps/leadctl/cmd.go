package main

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/admitdesk/core"
	backendsvc "github.com/trezcool/admitdesk/services/backend"
	sessionsvc "github.com/trezcool/admitdesk/services/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in, run `leadctl login` first")
)

type commandLine struct {
	conf     *core.Config
	logger   core.Logger
	validate *validator.Validate
	sessions *sessionsvc.Provider
	out      io.Writer
}

func (cli *commandLine) newClient() (*backendsvc.Client, error) {
	return backendsvc.NewClient(cli.conf.Backend.BaseURL, cli.conf.Backend.Timeout, cli.sessions, cli.logger)
}

func (cli *commandLine) rootCommand(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Manage admission leads from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.loginCommand(ctx),
		cli.logoutCommand(ctx),
		cli.whoamiCommand(ctx),
		cli.leadsCommand(ctx),
		cli.setStatusCommand(ctx),
	)
	return root
}

// run executes the command line `args`, program name included.
func (cli *commandLine) run(ctx context.Context, args []string) error {
	root := cli.rootCommand(ctx)
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}
