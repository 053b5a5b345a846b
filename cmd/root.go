package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vocalis/internal/api"
	"vocalis/internal/config"
	"vocalis/internal/logging"
)

const interactiveAnnotation = "interactive"

// app carries what every command needs once configuration is loaded.
type app struct {
	cfg    config.Config
	logger *logging.Logger
	client *api.Client
}

func newRootCmd(a *app) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "vocalis",
		Short:         "Look up animal vocalizations and the emotions behind them",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{interactiveAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelectionForm(cmd.Context(), a.cfg.Classes, a.client, a.logger)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newFormCmd(a),
		newCallsCmd(a),
		newLookupCmd(a),
		newBatchCmd(a),
		newHealthCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, v *viper.Viper) error {
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// The TUI owns the terminal, so interactive commands only log to a file.
	var console io.Writer = os.Stderr
	if cmd.Annotations[interactiveAnnotation] == "true" {
		console = nil
	}
	a.logger = logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Console:    console,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	a.client = api.New(cfg.BaseURL, httpClient, a.logger)
	a.logger.Debugf("Using lookup service at %s", cfg.BaseURL)
	return nil
}

func requireTerminal() error {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return fmt.Errorf("inspect stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 {
		return fmt.Errorf("interactive mode requires a terminal; use the lookup command instead")
	}
	return nil
}
