package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run journal",
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsEventsCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openStorage(cmd, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			runs, err := a.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCREATED\tSTATUS\tSTEP\tREPORT\tERROR")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d %s\t%s\t%s\n",
					r.RunID, r.CreatedAt.Local().Format(time.DateTime), r.Status,
					r.Position, r.AgentsTotal, r.CurrentAgent, r.ReportID, r.Error)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 for all)")
	return cmd
}

func runsEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <run-id>",
		Short: "Print the event timeline of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openStorage(cmd, nil)
			if err != nil {
				return err
			}
			defer closeFn()

			events, err := a.Events(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return fmt.Errorf("no events for run %s", args[0])
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SEQ\tTIME\tTYPE\tMESSAGE")
			for _, ev := range events {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", ev.Seq, ev.Time.Local().Format(time.TimeOnly), ev.Type, ev.Message)
			}
			return tw.Flush()
		},
	}
}
