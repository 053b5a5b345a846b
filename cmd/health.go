package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vocalis/internal/logging"
	"vocalis/internal/model"
)

type healthChecker interface {
	Health(ctx context.Context) (model.Health, error)
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the lookup service is up and has its data loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd.Context(), a.client, a.logger, os.Stdout)
		},
	}
}

func runHealth(ctx context.Context, checker healthChecker, logger *logging.Logger, out io.Writer) error {
	if logger == nil {
		logger = logging.Nop()
	}
	h, err := checker.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	fmt.Fprintf(out, "status: %s\ndata loaded: %t\n", h.Status, h.DataLoaded)
	if h.Status != "healthy" {
		return fmt.Errorf("lookup service reports status %q", h.Status)
	}
	if !h.DataLoaded {
		logger.Warnf("Lookup service is up but its data is not loaded")
		return fmt.Errorf("lookup service has no data loaded")
	}
	return nil
}
