package selection

import (
	"context"

	"vocalis/internal/logging"
)

// Controller drives a State synchronously: each event runs its fetches to
// completion before returning. Interactive front ends run fetches
// asynchronously instead and only use State and Perform.
type Controller struct {
	lookup Lookup
	logger *logging.Logger
	state  State
}

// NewController creates a controller over an idle form.
func NewController(lookup Lookup, logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{lookup: lookup, logger: logger, state: New()}
}

// State returns the current form state.
func (c *Controller) State() State {
	return c.state
}

// SelectClass changes the class and loads its candidate animals.
func (c *Controller) SelectClass(ctx context.Context, class string) State {
	return c.run(ctx)(c.state.SelectClass(class))
}

// SelectEnglishName picks an animal by english name and loads its sounds.
func (c *Controller) SelectEnglishName(ctx context.Context, name string) State {
	return c.run(ctx)(c.state.SelectEnglishName(name))
}

// SelectScientificName picks an animal by scientific name and loads its sounds.
func (c *Controller) SelectScientificName(ctx context.Context, name string) State {
	return c.run(ctx)(c.state.SelectScientificName(name))
}

// ResolveName picks an animal from free text and loads its sounds.
func (c *Controller) ResolveName(ctx context.Context, name string) State {
	return c.run(ctx)(c.state.ResolveName(name))
}

// SelectSound picks a sound.
func (c *Controller) SelectSound(sound string) State {
	c.state = c.state.SelectSound(sound)
	return c.state
}

// Submit validates the selection and looks up its result.
func (c *Controller) Submit(ctx context.Context) State {
	return c.run(ctx)(c.state.Submit())
}

func (c *Controller) run(ctx context.Context) func(State, Fetch) State {
	return func(next State, fetch Fetch) State {
		c.state = next
		for fetch != nil {
			resp := Perform(ctx, c.lookup, c.logger, fetch)
			c.state, fetch = c.state.Apply(resp)
		}
		return c.state
	}
}
