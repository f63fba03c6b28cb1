package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const sampleInputName = "input.json"

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a brandcraft project",
		Long:  "Initialize a brandcraft project by creating the .brandcraft directory with a default config and a sample input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir := filepath.Join(wd, config.DirName)
			log.Info().Str("dir", dir).Msg("creating brandcraft directory")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", config.DirName, err)
			}

			if err := writeJSONOnce(config.DefaultPath(wd), config.DefaultSettings()); err != nil {
				return err
			}
			if err := writeJSONOnce(filepath.Join(dir, sampleInputName), brand.SampleInput()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "brandcraft initialized successfully")
			return nil
		},
	}
}

// writeJSONOnce writes v to path unless the file already exists.
func writeJSONOnce(path string, v any) error {
	if _, err := os.Stat(path); err == nil {
		log.Info().Str("path", path).Msg("file already exists, skipping")
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	log.Info().Str("path", path).Msg("writing")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
