package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vocalis/internal/form"
	"vocalis/internal/logging"
	"vocalis/internal/render"
	"vocalis/internal/selection"
)

var (
	errIneligible = errors.New("selection incomplete")
	errNotFound   = errors.New("no information found")
	errLookup     = errors.New("lookup failed")
)

type lookupOptions struct {
	class      string
	english    string
	scientific string
	name       string
	sound      string
	format     string
}

func newLookupCmd(a *app) *cobra.Command {
	var opts lookupOptions
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up the emotion behind one vocalization without the interactive form",
		Example: `  vocalis lookup --class Mammal --english Lion --sound Roar
  vocalis lookup --class Mammal --name "panthera leo" --sound Roar --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), a.client, a.logger, opts, os.Stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.class, "class", "", "animal class, e.g. Mammal")
	flags.StringVar(&opts.english, "english", "", "english name from the class's candidate list")
	flags.StringVar(&opts.scientific, "scientific", "", "scientific name from the class's candidate list")
	flags.StringVar(&opts.name, "name", "", "free-text english or scientific name, resolved by the service")
	flags.StringVar(&opts.sound, "sound", "", "sound / vocalization")
	flags.StringVarP(&opts.format, "format", "o", "text", "output format: text, json or html")
	cmd.MarkFlagsMutuallyExclusive("name", "english")
	cmd.MarkFlagsMutuallyExclusive("name", "scientific")
	return cmd
}

func runLookup(ctx context.Context, lookup selection.Lookup, logger *logging.Logger, opts lookupOptions, out io.Writer) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	if strings.TrimSpace(opts.class) == "" {
		return fmt.Errorf("%w: --class is required", errIneligible)
	}

	c := selection.NewController(lookup, logger)
	s := c.SelectClass(ctx, opts.class)
	if s.Panel.Kind != form.PanelError {
		if s, err = selectAnimal(ctx, c, opts); err != nil {
			return err
		}
	}
	if s.Panel.Kind != form.PanelError {
		c.SelectSound(strings.TrimSpace(opts.sound))
		s = c.Submit(ctx)
	}

	rendered, err := render.Panel(format, s.Panel)
	if err != nil {
		return err
	}
	if rendered != "" {
		fmt.Fprintln(out, rendered)
	}
	return lookupOutcome(s, opts)
}

// selectAnimal applies whichever animal flag was given. When both names are
// given they must be a pair from the class's candidate list.
func selectAnimal(ctx context.Context, c *selection.Controller, opts lookupOptions) (selection.State, error) {
	english := strings.TrimSpace(opts.english)
	scientific := strings.TrimSpace(opts.scientific)

	switch {
	case strings.TrimSpace(opts.name) != "":
		return c.ResolveName(ctx, opts.name), nil
	case english != "":
		s := c.SelectEnglishName(ctx, english)
		if scientific != "" && s.ScientificName != "" && s.ScientificName != scientific {
			return s, fmt.Errorf("%w: %s is %s, not %s", errIneligible, english, s.ScientificName, scientific)
		}
		return s, nil
	case scientific != "":
		return c.SelectScientificName(ctx, scientific), nil
	}
	return c.State(), nil
}

func lookupOutcome(s selection.State, opts lookupOptions) error {
	switch s.Phase() {
	case selection.PhaseSuccess:
		return nil
	case selection.PhaseNotFound:
		return errNotFound
	}

	if name := s.RejectedName(); name != "" {
		return fmt.Errorf("%w: no animal named %q in class %s", errIneligible, name, s.Class)
	}
	if s.Panel.Message != form.MsgInvalid {
		return fmt.Errorf("%w: %s", errLookup, s.Panel.Message)
	}
	switch {
	case s.EnglishName == "" && s.ScientificName == "":
		return fmt.Errorf("%w: one of --english, --scientific or --name is required", errIneligible)
	case !s.SoundEnabled():
		return fmt.Errorf("%w: %s", errIneligible, strings.ToLower(s.Sounds.Placeholder()))
	case strings.TrimSpace(opts.sound) == "":
		return fmt.Errorf("%w: --sound is required", errIneligible)
	default:
		return fmt.Errorf("%w: sound %q is not recorded for %s (have: %s)",
			errIneligible, opts.sound, s.EnglishName, strings.Join(s.Sounds.Items, ", "))
	}
}
