package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/metalagman/brandcraft/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func generateCmd() *cobra.Command {
	var (
		inputPath string
		dryRun    bool
		output    string
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the agent pipeline on a brand input and store the report",
		Example: "  brandcraft generate --input .brandcraft/input.json\n" +
			"  brandcraft generate --input me.yaml --dry-run --output markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != formatJSON && output != formatMarkdown {
				return fmt.Errorf("unknown --output %q (want %s or %s)", output, formatJSON, formatMarkdown)
			}
			input, err := brand.LoadInputFile(inputPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			cmd.SetContext(ctx)

			a, closeFn, err := openApp(cmd, nil, dryRun)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := a.Generate(ctx, input)
			if err != nil {
				log.Error().Str("run_id", out.RunID).Str("kind", pipeline.ErrorKind(err)).Msg("generation failed")
				return err
			}
			log.Info().Str("run_id", out.RunID).Str("report_id", out.ReportID).Msg("report stored")
			return writeReport(cmd.OutOrStdout(), out.Report, output, plain)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "brand input file (JSON or YAML)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "use canned responses instead of the configured provider")
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "output format: json or markdown")
	cmd.Flags().BoolVar(&plain, "plain", false, "print markdown without terminal styling")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func writeReport(w io.Writer, report *pipeline.FinalReport, format string, plain bool) error {
	switch format {
	case formatJSON:
		data, err := store.EncodeReport(report)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatMarkdown:
		strategy, err := brand.DecodeStrategy(report)
		if err != nil {
			return err
		}
		md, err := brand.RenderMarkdown(strategy)
		if err != nil {
			return err
		}
		return printMarkdown(w, md, plain)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
