package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
)

const maxColWidth = 32

type leadsOptions struct {
	Page   int
	Filter lead.Filter
	JSON   bool
	All    bool
}

func (cli *commandLine) leadsCommand(ctx context.Context) *cobra.Command {
	opts := &leadsOptions{}
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List leads",
		Long: `List one page of leads. Backend pages are fetched until the page is full
or the backend runs out of leads; filters apply to every lead fetched so far.`,
		Example: `
leadctl leads
leadctl leads --page 3 --board CBSE --sales-status contacted
leadctl leads --search rao --all --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.listLeads(ctx, *opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "The page to show.")
	cmd.Flags().StringVar(&opts.Filter.Board, "board", lead.MatchAll, "Only leads of this board.")
	cmd.Flags().StringVar(&opts.Filter.Status, "status", lead.MatchAll, "Only leads with this lifecycle status.")
	cmd.Flags().StringVar(&opts.Filter.SalesStatus, "sales-status", lead.MatchAll, "Only leads with this sales status.")
	cmd.Flags().StringVar(&opts.Filter.Counsellor, "counsellor", lead.MatchAll, "Only leads assigned to this counsellor.")
	cmd.Flags().StringVarP(&opts.Filter.Search, "search", "s", "", "Only leads whose name contains this text.")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the page as JSON.")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Fetch every backend page first.")
	return cmd
}

func (cli *commandLine) listLeads(ctx context.Context, opts leadsOptions) error {
	if err := cli.validate.Struct(opts.Filter); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "sales-status", Error: "must be all or a valid sales status"})
	}

	src, err := cli.newClient()
	if err != nil {
		return err
	}
	view, err := lead.NewView(src, lead.WithPageSize(cli.conf.Leads.PageSize), lead.WithLogger(cli.logger))
	if err != nil {
		return err
	}
	defer view.Close()

	view.SetFilter(opts.Filter)
	if err := view.SetPage(opts.Page); err != nil {
		return err
	}
	if opts.All {
		err = view.LoadAll(ctx)
	} else {
		err = view.Fill(ctx)
	}
	if err != nil {
		cli.logger.Warn("loading leads", err)
	}

	page := view.Snapshot()
	if opts.JSON {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(page); encErr != nil {
			return errors.Wrap(encErr, "encoding page")
		}
	} else if page.Accumulated > 0 || err == nil {
		cli.printPage(page)
	}

	if err != nil {
		return errors.New(lead.UserMessage(err))
	}
	return nil
}

func (cli *commandLine) printPage(page lead.Page) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.MaxColWidth = maxColWidth
	tbl.AddRow(
		bold.Sprint("ID"), bold.Sprint("NAME"), bold.Sprint("BOARD"), bold.Sprint("GRADE"),
		bold.Sprint("STATUS"), bold.Sprint("SALES STATUS"), bold.Sprint("COUNSELLOR"),
	)
	for _, l := range page.Leads {
		tbl.AddRow(l.ID, l.Name, l.Board, l.Grade, l.Status, l.SalesStatus, l.Counsellor)
	}
	_, _ = fmt.Fprintln(cli.out, tbl)

	pages := page.PageCount
	if pages < 1 {
		pages = 1
	}
	_, _ = fmt.Fprintf(cli.out, "page %d/%d · %d matching · %d loaded\n", page.Page, pages, page.Filtered, page.Accumulated)
}

type setStatusOptions struct {
	ID     string
	Status string
}

func (cli *commandLine) setStatusCommand(ctx context.Context) *cobra.Command {
	opts := &setStatusOptions{}
	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Change the sales status of a lead",
		Example: `
leadctl set-status --id 64b7f0c2 --status qualified
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ID == "" || opts.Status == "" {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.setStatus(ctx, *opts)
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "The lead ID.")
	cmd.Flags().StringVar(&opts.Status, "status", "", "The new sales status.")
	return cmd
}

func (cli *commandLine) setStatus(ctx context.Context, opts setStatusOptions) error {
	status, err := lead.ParseSalesStatus(opts.Status)
	if err != nil {
		return err
	}
	client, err := cli.newClient()
	if err != nil {
		return err
	}
	if err := client.PatchSalesStatus(ctx, core.CleanString(opts.ID), status); err != nil {
		cli.logger.Warn("updating sales status", err)
		switch {
		case errors.Is(err, lead.ErrNotFound):
			return lead.ErrNotFound
		case errors.Is(err, lead.ErrUnauthorized):
			return errors.New(lead.MsgSessionExpired)
		default:
			return errors.New(lead.MsgUpdateFailed)
		}
	}
	_, _ = fmt.Fprintf(cli.out, "Lead %s is now %s\n", opts.ID, status)
	return nil
}
