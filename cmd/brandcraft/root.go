package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/metalagman/brandcraft/internal/logging"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "brandcraft",
		Short:         "brandcraft builds a personal brand strategy with a pipeline of LLM agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitWriter(cmd.ErrOrStderr(), debug)
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath("."), "config file path")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(initCmd())
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(agentsCmd())
	cmd.AddCommand(runsCmd())
	return cmd
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}

// exitCode maps failures to distinct process exit codes.
func exitCode(err error) int {
	var inputErr *brand.InputError
	if errors.As(err, &inputErr) {
		return 2
	}
	switch pipeline.ErrorKind(err) {
	case "validation", "dependency", "field_collision":
		return 3
	case "response_schema", "provider", "timeout":
		return 4
	case "cancelled":
		return 130
	default:
		return 1
	}
}
