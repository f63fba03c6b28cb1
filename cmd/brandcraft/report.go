package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/metalagman/brandcraft/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect and manage stored reports",
	}
	cmd.AddCommand(reportShowCmd())
	cmd.AddCommand(reportListCmd())
	cmd.AddCommand(reportPruneCmd())
	return cmd
}

func reportShowCmd() *cobra.Command {
	var (
		format string
		plain  bool
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openStorage(cmd, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := a.Report(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, format, plain)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "output format: json or markdown")
	cmd.Flags().BoolVar(&plain, "plain", false, "print markdown without terminal styling")
	return cmd
}

func reportListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openStorage(cmd, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			reports, err := a.Reports(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tRUN")
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), r.RunID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports (0 for all)")
	return cmd
}

func reportPruneCmd() *cobra.Command {
	var (
		keepLast int
		keepDays int
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old reports and their run journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			override := func(cfg *config.Config) {
				if keepLast > 0 || keepDays > 0 {
					cfg.Retention = config.RetentionPolicy{KeepLast: keepLast, KeepDays: keepDays}
				}
			}
			a, closeFn, err := openStorage(cmd, override)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := a.Prune(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			if res.Considered == 0 && res.Kept == 0 && res.Deleted == 0 {
				log.Warn().Msg("no retention policy: set --keep-last or --keep-days, or retention in the config")
			}
			mode := "deleted"
			if dryRun {
				mode = "would delete"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d reports (kept %d of %d)\n", mode, res.Deleted, res.Kept, res.Considered)
			return nil
		},
	}
	cmd.Flags().IntVar(&keepLast, "keep-last", 0, "keep the newest N reports")
	cmd.Flags().IntVar(&keepDays, "keep-days", 0, "keep reports newer than N days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be pruned without deleting")
	return cmd
}
