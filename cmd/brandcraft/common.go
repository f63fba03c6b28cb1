package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/metalagman/brandcraft/internal/app"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// loadConfig reads the --config file, relative paths resolved against the
// working directory.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath(".")
	}
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return config.Config{}, err
		}
		path = filepath.Join(wd, path)
	}
	return config.Load(path)
}

// openApp starts the application for one command. The returned close
// function must be called before exit.
func openApp(cmd *cobra.Command, mutate func(*config.Config), dryRun bool) (*app.App, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, func() {}, err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := app.New(cmd.Context(), app.Params{
		Config: cfg,
		DryRun: dryRun,
		Stdout: cmd.ErrOrStderr(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, func() {}, err
	}
	return a, func() {
		if err := a.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}, nil
}

// openStorage starts the application for commands that only read or prune
// storage. The canned provider avoids requiring API credentials.
func openStorage(cmd *cobra.Command, mutate func(*config.Config)) (*app.App, func(), error) {
	return openApp(cmd, mutate, true)
}

// printMarkdown writes md to w, styled for the terminal unless plain.
func printMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
