package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"vocalis/internal/form"
	"vocalis/internal/logging"
	"vocalis/internal/purpose"
	"vocalis/internal/render"
)

// callsPrompter asks the user for each field of the call purpose form.
type callsPrompter interface {
	Animal() (string, error)
	Sound(options []form.Option) (string, error)
	Again() (bool, error)
}

func newCallsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "calls",
		Short:       "Ask what an animal makes a given call for",
		Annotations: map[string]string{interactiveAnnotation: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTerminal(); err != nil {
				return err
			}
			return runCalls(cmd.Context(), huhPrompter{}, a.client, a.logger, os.Stdout)
		},
	}
}

func runCalls(ctx context.Context, prompter callsPrompter, lookup purpose.Lookup, logger *logging.Logger, out io.Writer) error {
	if logger == nil {
		logger = logging.Nop()
	}
	for {
		state, err := askCallPurpose(ctx, prompter, lookup, logger, out)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		logger.Debugf("Call purpose lookup finished: %s", state.Panel.Kind)

		again, err := prompter.Again()
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !again) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func askCallPurpose(ctx context.Context, prompter callsPrompter, lookup purpose.Lookup, logger *logging.Logger, out io.Writer) (purpose.State, error) {
	animal, err := prompter.Animal()
	if err != nil {
		return purpose.State{}, err
	}

	state, fetch := purpose.New().SelectAnimal(animal)
	if fetch == nil {
		state, _ = state.Submit()
		fmt.Fprintln(out, render.Text(state.Panel))
		return state, nil
	}
	fmt.Fprintln(out, state.Sounds.Placeholder())
	state = state.Apply(purpose.Perform(ctx, lookup, logger, fetch))

	if state.Sounds.Enabled() {
		sound, err := prompter.Sound(state.Sounds.Options())
		if err != nil {
			return state, err
		}
		state = state.SelectSound(sound)
	} else {
		fmt.Fprintln(out, state.Sounds.Placeholder())
	}

	state, fetch = state.Submit()
	if fetch != nil {
		fmt.Fprintln(out, render.Text(state.Panel))
		state = state.Apply(purpose.Perform(ctx, lookup, logger, fetch))
	}
	fmt.Fprintln(out, render.Text(state.Panel))
	return state, nil
}

type huhPrompter struct{}

func (huhPrompter) Animal() (string, error) {
	var animal string
	err := huh.NewInput().
		Title("Animal").
		Description("English name as listed in the dataset, e.g. Grey Wolf").
		Value(&animal).
		Run()
	return animal, err
}

func (huhPrompter) Sound(options []form.Option) (string, error) {
	choices := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		choices = append(choices, huh.NewOption(o.Label, o.Value))
	}

	var sound string
	err := huh.NewSelect[string]().
		Title("Sound").
		Options(choices...).
		Value(&sound).
		Run()
	return sound, err
}

func (huhPrompter) Again() (bool, error) {
	again := true
	err := huh.NewConfirm().
		Title("Look up another call?").
		Affirmative("Yes").
		Negative("No").
		Value(&again).
		Run()
	return again, err
}
