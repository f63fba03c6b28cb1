package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/completion"
	"github.com/spf13/cobra"
)

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Describe the agent pipeline and check its field dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := brand.NewOrchestrator(completion.NewStub(nil), brand.Options{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tAGENT\tSECTION\tREQUIRES\tPRODUCES")
			for i, d := range orch.Descriptors() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					i+1, d.Name, d.Section, strings.Join(d.Required, ", "), strings.Join(d.OutputNames(), ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if err := orch.Validate(); err != nil {
				fmt.Fprintf(w, "\ndependency check: FAILED: %v\n", err)
				return err
			}
			fmt.Fprintln(w, "\ndependency check: ok")
			return nil
		},
	}
}
