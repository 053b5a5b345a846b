// Package purpose implements the two-field animal → sound form that looks up
// what a call is made for. It follows the same pattern as package selection:
// events return the next state plus an optional Fetch, and responses are
// applied by generation.
package purpose

import (
	"context"
	"fmt"
	"strings"

	"vocalis/internal/form"
	"vocalis/internal/logging"
	"vocalis/internal/model"
)

const (
	idleLabel = "Select an animal first"

	msgMissing = "Please select both an animal and a sound."
	msgFailed  = "Sorry, there was an error processing your request. Please try again."
)

// Lookup is the part of the lookup service the call purpose form uses.
type Lookup interface {
	SoundsByAnimal(ctx context.Context, animal string) ([]string, error)
	CallPurpose(ctx context.Context, q model.CallQuery) (string, error)
}

// State is the call purpose form.
type State struct {
	Animal string
	Sound  string
	Sounds form.SoundList
	Panel  form.Panel

	soundsGen form.Generation
	resultGen form.Generation
}

// New returns the idle form.
func New() State {
	return State{Sounds: form.SoundList{IdleLabel: idleLabel}}
}

// Fetch is a lookup the state asked for.
type Fetch interface {
	Generation() form.Generation
}

// FetchSounds requests the sounds of an animal.
type FetchSounds struct {
	Gen    form.Generation
	Animal string
}

// FetchCallPurpose requests what a call is made for.
type FetchCallPurpose struct {
	Gen   form.Generation
	Query model.CallQuery
}

func (f FetchSounds) Generation() form.Generation      { return f.Gen }
func (f FetchCallPurpose) Generation() form.Generation { return f.Gen }

// Response is the outcome of a Fetch.
type Response interface {
	apply(State) State
}

// SoundsLoaded completes a FetchSounds.
type SoundsLoaded struct {
	Gen    form.Generation
	Sounds []string
	Err    error
}

// CallPurposeLoaded completes a FetchCallPurpose. An empty purpose means no
// match.
type CallPurposeLoaded struct {
	Gen     form.Generation
	Query   model.CallQuery
	Purpose string
	Err     error
}

// SelectAnimal replaces the animal and requests its sounds.
func (s State) SelectAnimal(animal string) (State, Fetch) {
	animal = strings.TrimSpace(animal)
	s.Animal = animal
	s.Sound = ""
	s.Sounds = s.Sounds.Reset()
	s.Panel = form.Hidden()
	s.soundsGen = s.soundsGen.Next()
	s.resultGen = s.resultGen.Next()
	if animal == "" {
		return s, nil
	}
	s.Sounds.Status = form.SoundsLoading
	return s, FetchSounds{Gen: s.soundsGen, Animal: animal}
}

// SelectSound picks a sound. Values outside the loaded list clear it.
func (s State) SelectSound(sound string) State {
	if sound != "" && s.Sounds.Enabled() && s.Sounds.Contains(sound) {
		s.Sound = sound
	} else {
		s.Sound = ""
	}
	return s
}

// CanSubmit reports whether both fields are filled.
func (s State) CanSubmit() bool {
	return s.Animal != "" && s.Sound != ""
}

// Submit requests the call purpose, or reports an inline error without a
// fetch when a field is missing.
func (s State) Submit() (State, Fetch) {
	if !s.CanSubmit() {
		s.Panel = form.Error(msgMissing)
		return s, nil
	}
	s.resultGen = s.resultGen.Next()
	s.Panel = form.Loading()
	return s, FetchCallPurpose{Gen: s.resultGen, Query: model.CallQuery{Animal: s.Animal, Sound: s.Sound}}
}

// Apply folds a fetch outcome into the state.
func (s State) Apply(r Response) State {
	return r.apply(s)
}

func (r SoundsLoaded) apply(s State) State {
	if r.Gen != s.soundsGen {
		return s
	}
	s.Sound = ""
	s.Sounds = s.Sounds.Loaded(r.Sounds, r.Err)
	return s
}

func (r CallPurposeLoaded) apply(s State) State {
	if r.Gen != s.resultGen {
		return s
	}
	switch {
	case r.Err != nil:
		s.Panel = form.Error(msgFailed)
	case strings.TrimSpace(r.Purpose) == "":
		s.Panel = form.NotFound()
	default:
		s.Panel = form.Success(Describe(r.Query, r.Purpose), nil)
	}
	return s
}

// Describe phrases a call purpose for display.
func Describe(q model.CallQuery, purpose string) string {
	return fmt.Sprintf("%s make a %q sound for: %s", q.Animal, q.Sound, purpose)
}

// Perform runs fetch against lookup and returns its outcome.
func Perform(ctx context.Context, lookup Lookup, logger *logging.Logger, fetch Fetch) Response {
	if logger == nil {
		logger = logging.Nop()
	}

	switch f := fetch.(type) {
	case FetchSounds:
		sounds, err := lookup.SoundsByAnimal(ctx, f.Animal)
		if err != nil {
			logger.Errorf("Error fetching sounds for %q: %v", f.Animal, err)
		}
		return SoundsLoaded{Gen: f.Gen, Sounds: sounds, Err: err}
	case FetchCallPurpose:
		purpose, err := lookup.CallPurpose(ctx, f.Query)
		if err != nil {
			logger.Errorf("Error getting call for information: %v", err)
		}
		return CallPurposeLoaded{Gen: f.Gen, Query: f.Query, Purpose: purpose, Err: err}
	default:
		panic(fmt.Sprintf("purpose: unknown fetch %T", fetch))
	}
}
