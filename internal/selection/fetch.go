package selection

import (
	"context"
	"fmt"

	"vocalis/internal/form"
	"vocalis/internal/logging"
	"vocalis/internal/model"
)

// Lookup is the part of the lookup service the selection form uses.
type Lookup interface {
	AnimalsByClass(ctx context.Context, class string) ([]model.Animal, error)
	Sounds(ctx context.Context, q model.SoundsQuery) ([]string, error)
	AnimalByName(ctx context.Context, q model.NameQuery) (*model.Animal, error)
	Result(ctx context.Context, q model.ResultQuery) (*model.Result, error)
}

// Fetch is a lookup the state asked for.
type Fetch interface {
	Generation() form.Generation
}

// FetchAnimals requests the candidate animals of a class.
type FetchAnimals struct {
	Gen   form.Generation
	Class string
}

// FetchSounds requests the sounds of the selected animal.
type FetchSounds struct {
	Gen   form.Generation
	Query model.SoundsQuery
}

// FetchAnimalByName requests the canonical pair for a free-text name.
type FetchAnimalByName struct {
	Gen   form.Generation
	Query model.NameQuery
}

// FetchResult requests the emotion for a complete selection.
type FetchResult struct {
	Gen   form.Generation
	Query model.ResultQuery
}

func (f FetchAnimals) Generation() form.Generation      { return f.Gen }
func (f FetchSounds) Generation() form.Generation       { return f.Gen }
func (f FetchAnimalByName) Generation() form.Generation { return f.Gen }
func (f FetchResult) Generation() form.Generation       { return f.Gen }

// Response is the outcome of a Fetch.
type Response interface {
	apply(State) (State, Fetch)
}

// AnimalsLoaded completes a FetchAnimals.
type AnimalsLoaded struct {
	Gen     form.Generation
	Animals []model.Animal
	Err     error
}

// SoundsLoaded completes a FetchSounds.
type SoundsLoaded struct {
	Gen    form.Generation
	Sounds []string
	Err    error
}

// AnimalResolved completes a FetchAnimalByName. A nil Animal means no match.
type AnimalResolved struct {
	Gen    form.Generation
	Query  model.NameQuery
	Animal *model.Animal
	Err    error
}

// ResultLoaded completes a FetchResult. A nil Result means no match.
type ResultLoaded struct {
	Gen    form.Generation
	Query  model.ResultQuery
	Result *model.Result
	Err    error
}

func (r AnimalsLoaded) apply(s State) (State, Fetch) {
	if r.Gen != s.animalsGen {
		return s, nil
	}
	s.AnimalsLoading = false
	if r.Err != nil {
		s.Animals = nil
		s.Panel = form.Error(msgAnimalsFailed)
		return s, nil
	}
	s.Animals = append([]model.Animal(nil), r.Animals...)
	return s, nil
}

func (r SoundsLoaded) apply(s State) (State, Fetch) {
	if r.Gen != s.soundsGen {
		return s, nil
	}
	s.Sound = ""
	s.Sounds = s.Sounds.Loaded(r.Sounds, r.Err)
	return s, nil
}

func (r AnimalResolved) apply(s State) (State, Fetch) {
	if r.Gen != s.nameGen {
		return s, nil
	}
	switch {
	case r.Err != nil:
		s = s.clearAnimal()
		s.Panel = form.Error(form.MsgRequestFailed)
		return s, nil
	case r.Animal == nil:
		s = s.clearAnimal()
		s.rejected = r.Query.Name
		s.Panel = unknownAnimal(r.Query.Name)
		return s, nil
	}
	return s.withAnimal(*r.Animal)
}

func (r ResultLoaded) apply(s State) (State, Fetch) {
	if r.Gen != s.resultGen {
		return s, nil
	}
	s.Panel = ResultPanel(r.Query, r.Result, r.Err)
	return s, nil
}

// ResultPanel is the panel shown for the outcome of a result lookup. The
// card describes q, the selection that was actually submitted.
func ResultPanel(q model.ResultQuery, result *model.Result, err error) form.Panel {
	switch {
	case err != nil:
		return form.Error(form.MsgRequestFailed)
	case result == nil:
		return form.NotFound()
	}
	return form.Success("", &form.Card{
		EnglishName:    q.EnglishName,
		ScientificName: q.ScientificName,
		Sound:          q.Sound,
		EmotionLabel:   result.EmotionLabel,
		ContextTrigger: result.ContextTrigger,
	})
}

// Perform runs fetch against lookup and returns its outcome. Transport
// failures are logged and carried in the response.
func Perform(ctx context.Context, lookup Lookup, logger *logging.Logger, fetch Fetch) Response {
	if logger == nil {
		logger = logging.Nop()
	}

	switch f := fetch.(type) {
	case FetchAnimals:
		animals, err := lookup.AnimalsByClass(ctx, f.Class)
		if err != nil {
			logger.Errorf("Error fetching animals for class %q: %v", f.Class, err)
		}
		return AnimalsLoaded{Gen: f.Gen, Animals: animals, Err: err}
	case FetchSounds:
		sounds, err := lookup.Sounds(ctx, f.Query)
		if err != nil {
			logger.Errorf("Error loading sounds for %s (%s): %v", f.Query.EnglishName, f.Query.ScientificName, err)
		}
		return SoundsLoaded{Gen: f.Gen, Sounds: sounds, Err: err}
	case FetchAnimalByName:
		animal, err := lookup.AnimalByName(ctx, f.Query)
		if err != nil {
			logger.Errorf("Error resolving animal name %q: %v", f.Query.Name, err)
		}
		return AnimalResolved{Gen: f.Gen, Query: f.Query, Animal: animal, Err: err}
	case FetchResult:
		result, err := lookup.Result(ctx, f.Query)
		if err != nil {
			logger.Errorf("Error looking up result: %v", err)
		}
		return ResultLoaded{Gen: f.Gen, Query: f.Query, Result: result, Err: err}
	default:
		panic(fmt.Sprintf("selection: unknown fetch %T", fetch))
	}
}
