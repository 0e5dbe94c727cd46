package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/admitdesk/core"
)

type loginOptions struct {
	Name  string
	Email string
	Role  string
}

func (cli *commandLine) loginCommand(ctx context.Context) *cobra.Command {
	opts := &loginOptions{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the backend token and your profile",
		Long:  "Store the backend token and your profile. The token is prompted for and never echoed.",
		Example: `
leadctl login --name "Asha Rao" --email asha@school.in --role counsellor
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "Enter backend token:")
			tok, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return errors.Wrap(err, "reading token")
			}
			return cli.login(ctx, string(tok), *opts)
		},
	}
	cmd.Flags().StringVar(&opts.Name, "name", "", "Your display name.")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Your e-mail address.")
	cmd.Flags().StringVar(&opts.Role, "role", "", "Your role, e.g. counsellor or admin.")
	return cmd
}

func (cli *commandLine) login(ctx context.Context, token string, opts loginOptions) error {
	sess := core.Session{
		Token: core.CleanString(token),
		Name:  core.CleanString(opts.Name),
		Email: core.CleanString(opts.Email, true /* lower */),
		Role:  core.CleanString(opts.Role, true /* lower */),
	}
	if sess.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "token", Error: "this field is required"})
	}
	if cli.validate.Var(sess.Email, "omitempty,email") != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "email", Error: "must be a valid email address"})
	}
	if err := cli.sessions.Save(ctx, sess); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s\n", core.ValueOr(sess.Name, "anonymous"))
	return nil
}

func (cli *commandLine) logoutCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.sessions.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cli.out, "Logged out")
			return nil
		},
	}
}

func (cli *commandLine) whoamiCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cli.sessions.Session(ctx)
			if err != nil {
				if errors.Is(err, core.ErrNoSession) {
					return errNotLoggedIn
				}
				return err
			}
			fmt.Fprintf(cli.out, "%s <%s> (%s)\n",
				core.ValueOr(sess.Name, "anonymous"),
				core.ValueOr(sess.Email, "-"),
				core.ValueOr(sess.Role, "-"),
			)
			return nil
		},
	}
}
