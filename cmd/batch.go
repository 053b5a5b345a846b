package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"vocalis/internal/form"
	"vocalis/internal/logging"
	"vocalis/internal/model"
	"vocalis/internal/render"
	"vocalis/internal/selection"
	"vocalis/internal/worker"
)

const msgNotLookedUp = "Not looked up."

// resultLookup is the part of the lookup service batch mode uses.
type resultLookup interface {
	Result(ctx context.Context, q model.ResultQuery) (*model.Result, error)
}

type batchOptions struct {
	file    string
	workers int
	rate    float64
	format  string
}

func newBatchCmd(a *app) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Look up many class, animal and sound combinations from a YAML file",
		Long: `Reads a YAML list of queries, each with class, english_name,
scientific_name and sound, and prints one result per query in input order.
Use "-" as the file to read from stdin.`,
		Example: "  vocalis batch --file queries.yaml --workers 4",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				opts.workers = a.cfg.Workers
			}
			opts.rate = a.cfg.Batch.Rate

			in := io.Reader(os.Stdin)
			if opts.file != "-" {
				f, err := os.Open(opts.file)
				if err != nil {
					return fmt.Errorf("open queries: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runBatch(cmd.Context(), a.client, a.logger, opts, in, os.Stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "YAML file with the queries to look up")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "number of concurrent lookups (default from config)")
	flags.StringVarP(&opts.format, "format", "o", "text", "output format: text, json or html")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readQueries(r io.Reader) ([]model.ResultQuery, error) {
	var queries []model.ResultQuery
	if err := yaml.NewDecoder(r).Decode(&queries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode queries: %w", err)
	}
	return queries, nil
}

// runBatch looks up every query and writes one panel per query in input
// order. Incomplete queries fail without a request. Queries with no result
// are reported but are not failures.
func runBatch(ctx context.Context, lookup resultLookup, logger *logging.Logger, opts batchOptions, in io.Reader, out io.Writer) error {
	if logger == nil {
		logger = logging.Nop()
	}
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	queries, err := readQueries(in)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		logger.Warnf("No queries to look up")
		return nil
	}

	panels := make([]form.Panel, len(queries))
	failures := make([]error, len(queries))
	var jobs []worker.Job
	pending := make(map[int]int)

	for i, q := range queries {
		if !q.Valid() {
			panels[i] = form.Error(form.MsgInvalid)
			failures[i] = fmt.Errorf("query %d: %w", i+1, errIneligible)
			continue
		}
		pending[len(jobs)] = i
		jobs = append(jobs, func(ctx context.Context, index int) error {
			i := pending[index]
			q := queries[i]
			result, err := lookup.Result(ctx, q)
			if err != nil {
				logger.Errorf("Error looking up %s / %s: %v", q.EnglishName, q.Sound, err)
			}
			panels[i] = selection.ResultPanel(q, result, err)
			if err != nil {
				return fmt.Errorf("query %d: %w", i+1, err)
			}
			return nil
		})
	}

	poolOpts := worker.Options{Workers: opts.workers}
	if opts.rate > 0 {
		poolOpts.Limiter = rate.NewLimiter(rate.Limit(opts.rate), 1)
	}
	logger.Infof("Looking up %d of %d queries with %d workers", len(jobs), len(queries), max(opts.workers, 1))
	runErr := worker.Run(ctx, poolOpts, jobs)

	for i, q := range queries {
		if !panels[i].Visible() {
			panels[i] = form.Error(msgNotLookedUp)
		}
		rendered, err := render.Panel(format, panels[i])
		if err != nil {
			return err
		}
		if format != render.FormatJSON {
			fmt.Fprintf(out, "[%d/%d] %s / %s / %s\n", i+1, len(queries), q.Class, batchAnimal(q), q.Sound)
		}
		if rendered != "" {
			fmt.Fprintln(out, rendered)
		}
	}

	var errs []error
	for _, err := range failures {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if runErr != nil {
		errs = append(errs, runErr)
	}
	return errors.Join(errs...)
}

func batchAnimal(q model.ResultQuery) string {
	switch {
	case q.EnglishName != "" && q.ScientificName != "":
		return fmt.Sprintf("%s (%s)", q.EnglishName, q.ScientificName)
	case q.EnglishName != "":
		return q.EnglishName
	default:
		return q.ScientificName
	}
}
