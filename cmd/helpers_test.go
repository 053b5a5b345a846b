package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vocalis/internal/model"
)

var errUnavailable = errors.New("lookup service unavailable")

// fakeLookup serves a tiny fixed dataset and satisfies every lookup
// interface the commands use.
type fakeLookup struct {
	mu sync.Mutex

	animals  map[string][]model.Animal
	sounds   map[string][]string
	results  map[model.ResultQuery]model.Result
	purposes map[model.CallQuery]string
	fail     bool

	resultCalls []model.ResultQuery
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		animals: map[string][]model.Animal{
			"Mammal": {
				{EnglishName: "Lion", ScientificName: "Panthera leo"},
				{EnglishName: "Grey Wolf", ScientificName: "Canis lupus"},
			},
		},
		sounds: map[string][]string{
			"Lion":      {"Roar"},
			"Grey Wolf": {"Growl", "Howl"},
		},
		results: map[model.ResultQuery]model.Result{
			{Class: "Mammal", EnglishName: "Lion", ScientificName: "Panthera leo", Sound: "Roar"}: {
				EmotionLabel:   "Dominance",
				ContextTrigger: "Territorial display",
			},
			{Class: "Mammal", EnglishName: "Grey Wolf", ScientificName: "Canis lupus", Sound: "Howl"}: {
				EmotionLabel:   "Belonging",
				ContextTrigger: "Assembling the pack",
			},
		},
		purposes: map[model.CallQuery]string{
			{Animal: "Grey Wolf", Sound: "Howl"}: "Assembling the pack",
		},
	}
}

func (f *fakeLookup) AnimalsByClass(_ context.Context, class string) ([]model.Animal, error) {
	if f.fail {
		return nil, errUnavailable
	}
	return f.animals[class], nil
}

func (f *fakeLookup) Sounds(_ context.Context, q model.SoundsQuery) ([]string, error) {
	if f.fail {
		return nil, errUnavailable
	}
	return f.sounds[q.EnglishName], nil
}

func (f *fakeLookup) AnimalByName(_ context.Context, q model.NameQuery) (*model.Animal, error) {
	if f.fail {
		return nil, errUnavailable
	}
	for _, a := range f.animals[q.Class] {
		if strings.EqualFold(a.EnglishName, q.Name) || strings.EqualFold(a.ScientificName, q.Name) {
			match := a
			return &match, nil
		}
	}
	return nil, nil
}

func (f *fakeLookup) Result(_ context.Context, q model.ResultQuery) (*model.Result, error) {
	f.mu.Lock()
	f.resultCalls = append(f.resultCalls, q)
	f.mu.Unlock()
	if f.fail {
		return nil, errUnavailable
	}
	r, ok := f.results[q]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeLookup) SoundsByAnimal(_ context.Context, animal string) ([]string, error) {
	if f.fail {
		return nil, errUnavailable
	}
	return f.sounds[animal], nil
}

func (f *fakeLookup) CallPurpose(_ context.Context, q model.CallQuery) (string, error) {
	if f.fail {
		return "", errUnavailable
	}
	return f.purposes[q], nil
}
