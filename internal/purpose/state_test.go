package purpose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocalis/internal/form"
	"vocalis/internal/model"
)

type fakeLookup struct {
	sounds   map[string][]string
	purposes map[model.CallQuery]string
	err      error
}

func (f *fakeLookup) SoundsByAnimal(_ context.Context, animal string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sounds[animal], nil
}

func (f *fakeLookup) CallPurpose(_ context.Context, q model.CallQuery) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.purposes[q], nil
}

func wolfLookup() *fakeLookup {
	return &fakeLookup{
		sounds:   map[string][]string{"Wolf": {"Howl", "Growl"}},
		purposes: map[model.CallQuery]string{{Animal: "Wolf", Sound: "Howl"}: "Assembling the pack"},
	}
}

func run(t *testing.T, lookup Lookup, s State, fetch Fetch) State {
	t.Helper()
	require.NotNil(t, fetch)
	return s.Apply(Perform(context.Background(), lookup, nil, fetch))
}

func TestCallPurposeFlow(t *testing.T) {
	lookup := wolfLookup()

	s, fetch := New().SelectAnimal("Wolf")
	assert.Equal(t, []form.Option{{Label: "Loading sounds..."}}, s.Sounds.Options())
	s = run(t, lookup, s, fetch)
	assert.Equal(t, []form.Option{
		{Label: "-- Select Sound --"},
		{Label: "Howl", Value: "Howl"},
		{Label: "Growl", Value: "Growl"},
	}, s.Sounds.Options())

	s = s.SelectSound("Howl")
	s, fetch = s.Submit()
	assert.Equal(t, form.PanelLoading, s.Panel.Kind)
	s = run(t, lookup, s, fetch)

	assert.Equal(t, form.PanelSuccess, s.Panel.Kind)
	assert.Equal(t, `Wolf make a "Howl" sound for: Assembling the pack`, s.Panel.Message)
}

func TestIdleSoundPlaceholder(t *testing.T) {
	s := New()
	assert.Equal(t, []form.Option{{Label: "Select an animal first"}}, s.Sounds.Options())

	s, fetch := s.SelectAnimal("Wolf")
	s, fetch = s.SelectAnimal("")
	assert.Nil(t, fetch)
	assert.Equal(t, []form.Option{{Label: "Select an animal first"}}, s.Sounds.Options())
}

func TestSubmitMissingField(t *testing.T) {
	s, fetch := New().Submit()
	assert.Nil(t, fetch)
	assert.Equal(t, "Please select both an animal and a sound.", s.Panel.Message)
}

func TestEmptyPurposeIsNotFound(t *testing.T) {
	lookup := wolfLookup()
	s, fetch := New().SelectAnimal("Wolf")
	s = run(t, lookup, s, fetch)
	s = s.SelectSound("Growl")
	s, fetch = s.Submit()
	s = run(t, lookup, s, fetch)

	assert.Equal(t, form.PanelNotFound, s.Panel.Kind)
	assert.Equal(t, form.MsgNotFound, s.Panel.Message)
}

func TestTransportFailures(t *testing.T) {
	lookup := wolfLookup()
	s, fetch := New().SelectAnimal("Wolf")
	s = run(t, lookup, s, fetch)
	s = s.SelectSound("Howl")

	lookup.err = errors.New("timeout")
	s, fetch = s.Submit()
	s = run(t, lookup, s, fetch)
	assert.Equal(t, form.PanelError, s.Panel.Kind)
	assert.Equal(t, "Sorry, there was an error processing your request. Please try again.", s.Panel.Message)

	s, fetch = s.SelectAnimal("Wolf")
	s = run(t, lookup, s, fetch)
	assert.Equal(t, []form.Option{{Label: "Error loading sounds"}}, s.Sounds.Options())
	assert.False(t, s.Panel.Visible())
}

func TestStaleSoundsDiscarded(t *testing.T) {
	s, first := New().SelectAnimal("Wolf")
	s, _ = s.SelectAnimal("Owl")

	s = s.Apply(SoundsLoaded{Gen: first.Generation(), Sounds: []string{"Howl"}})
	assert.Equal(t, form.SoundsLoading, s.Sounds.Status)
}
