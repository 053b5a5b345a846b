// Package selection implements the class → animal → sound lookup form as an
// explicit state value. Every user event is a method that returns the next
// state and, when the event needs the lookup service, the Fetch to perform.
// Fetch outcomes come back as Responses and are applied with State.Apply;
// a response issued before a newer fetch of the same kind is ignored.
package selection

import (
	"fmt"
	"strings"

	"vocalis/internal/form"
	"vocalis/internal/model"
)

const (
	englishPlaceholder    = "-- Select English Name --"
	scientificPlaceholder = "-- Select Scientific Name --"
	animalsLoadingLabel   = "Loading animals..."

	msgAnimalsFailed = "Error loading animals for this class."
)

func unknownAnimal(name string) form.Panel {
	return form.Error(fmt.Sprintf("Unknown animal %q for this class.", name))
}

// Phase is the position of the form in one interaction cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseClassChosen
	PhaseAnimalChosen
	PhaseSoundChosen
	PhaseSubmitting
	PhaseSuccess
	PhaseNotFound
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseClassChosen:
		return "class_chosen"
	case PhaseAnimalChosen:
		return "animal_chosen"
	case PhaseSoundChosen:
		return "sound_chosen"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseNotFound:
		return "not_found"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// State is the complete selection form. The zero value is the idle form.
type State struct {
	Class          string
	EnglishName    string
	ScientificName string
	Sound          string

	// Animals is the candidate list for Class, in server order.
	Animals        []model.Animal
	AnimalsLoading bool

	Sounds form.SoundList
	Panel  form.Panel

	rejected string

	animalsGen form.Generation
	soundsGen  form.Generation
	nameGen    form.Generation
	resultGen  form.Generation
}

// New returns the idle form.
func New() State {
	return State{}
}

// SelectClass replaces the class. Everything downstream is reset and, for a
// non-empty class, the candidate animals are requested.
func (s State) SelectClass(class string) (State, Fetch) {
	class = strings.TrimSpace(class)
	next := State{
		Class:      class,
		Sounds:     s.Sounds.Reset(),
		animalsGen: s.animalsGen.Next(),
		soundsGen:  s.soundsGen.Next(),
		nameGen:    s.nameGen.Next(),
		resultGen:  s.resultGen.Next(),
	}
	if class == "" {
		return next, nil
	}
	next.AnimalsLoading = true
	return next, FetchAnimals{Gen: next.animalsGen, Class: class}
}

// SelectEnglishName picks an animal by its english name and mirrors the
// paired scientific name from the candidate list.
func (s State) SelectEnglishName(name string) (State, Fetch) {
	return s.selectAnimal(name, func(a model.Animal) string { return a.EnglishName })
}

// SelectScientificName picks an animal by its scientific name and mirrors
// the paired english name from the candidate list.
func (s State) SelectScientificName(name string) (State, Fetch) {
	return s.selectAnimal(name, func(a model.Animal) string { return a.ScientificName })
}

// ResolveName picks an animal from free text, matched by the lookup service
// against either name within the current class.
func (s State) ResolveName(name string) (State, Fetch) {
	name = strings.TrimSpace(name)
	next := s.clearAnimal()
	if name == "" {
		return next, nil
	}
	return next, FetchAnimalByName{
		Gen:   next.nameGen,
		Query: model.NameQuery{Name: name, Class: s.Class},
	}
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

// Submit requests the result for the current selection, or reports an
// inline error without a fetch when the selection is incomplete.
func (s State) Submit() (State, Fetch) {
	if !s.CanSubmit() {
		s.Panel = form.Error(form.MsgInvalid)
		return s, nil
	}
	s.resultGen = s.resultGen.Next()
	s.Panel = form.Loading()
	return s, FetchResult{Gen: s.resultGen, Query: s.Query()}
}

// Apply folds a fetch outcome into the state. The returned Fetch is non-nil
// when the outcome triggers a follow-up request.
func (s State) Apply(r Response) (State, Fetch) {
	return r.apply(s)
}

// Query is the result lookup body for the current selection.
func (s State) Query() model.ResultQuery {
	return model.ResultQuery{
		Class:          s.Class,
		EnglishName:    s.EnglishName,
		ScientificName: s.ScientificName,
		Sound:          s.Sound,
	}
}

// RejectedName is the last animal name that matched nothing in the class,
// or empty once a valid animal is chosen or the selection is cleared.
func (s State) RejectedName() string {
	return s.rejected
}

// NamesEnabled reports whether the name dropdowns accept input.
func (s State) NamesEnabled() bool {
	return s.Class != "" && !s.AnimalsLoading && len(s.Animals) > 0
}

// SoundEnabled reports whether the sound dropdown accepts input.
func (s State) SoundEnabled() bool {
	return s.Sounds.Enabled()
}

// CanSubmit reports whether the selection is complete. The submit control
// and the submit validation both use it.
func (s State) CanSubmit() bool {
	return s.Query().Valid() && s.SoundEnabled()
}

// Phase derives the interaction phase from the state.
func (s State) Phase() Phase {
	switch s.Panel.Kind {
	case form.PanelLoading:
		return PhaseSubmitting
	case form.PanelSuccess:
		return PhaseSuccess
	case form.PanelNotFound:
		return PhaseNotFound
	case form.PanelError:
		return PhaseError
	}
	switch {
	case s.Sound != "":
		return PhaseSoundChosen
	case s.EnglishName != "" || s.ScientificName != "":
		return PhaseAnimalChosen
	case s.Class != "":
		return PhaseClassChosen
	default:
		return PhaseIdle
	}
}

// EnglishOptions is the english name dropdown content.
func (s State) EnglishOptions() []form.Option {
	return s.nameOptions(englishPlaceholder, func(a model.Animal) string { return a.EnglishName })
}

// ScientificOptions is the scientific name dropdown content.
func (s State) ScientificOptions() []form.Option {
	return s.nameOptions(scientificPlaceholder, func(a model.Animal) string { return a.ScientificName })
}

// SoundOptions is the sound dropdown content.
func (s State) SoundOptions() []form.Option {
	return s.Sounds.Options()
}

func (s State) nameOptions(placeholder string, key func(model.Animal) string) []form.Option {
	if s.AnimalsLoading {
		return []form.Option{form.Placeholder(animalsLoadingLabel)}
	}
	values := make([]string, 0, len(s.Animals))
	for _, a := range s.Animals {
		values = append(values, key(a))
	}
	return form.Options(placeholder, values)
}

func (s State) selectAnimal(name string, key func(model.Animal) string) (State, Fetch) {
	next := s.clearAnimal()
	if name == "" {
		return next, nil
	}
	for _, a := range s.Animals {
		if key(a) == name {
			return next.withAnimal(a)
		}
	}
	next.rejected = name
	next.Panel = unknownAnimal(name)
	return next, nil
}

// clearAnimal drops the animal, its sounds, and any result, superseding
// fetches issued for the previous animal.
func (s State) clearAnimal() State {
	s.EnglishName = ""
	s.ScientificName = ""
	s.Sound = ""
	s.Sounds = s.Sounds.Reset()
	s.Panel = form.Hidden()
	s.rejected = ""
	s.soundsGen = s.soundsGen.Next()
	s.nameGen = s.nameGen.Next()
	s.resultGen = s.resultGen.Next()
	return s
}

func (s State) withAnimal(a model.Animal) (State, Fetch) {
	s.EnglishName = a.EnglishName
	s.ScientificName = a.ScientificName
	if s.Class == "" {
		return s, nil
	}
	s.Sounds.Status = form.SoundsLoading
	return s, FetchSounds{
		Gen: s.soundsGen,
		Query: model.SoundsQuery{
			EnglishName:    a.EnglishName,
			ScientificName: a.ScientificName,
			Class:          s.Class,
		},
	}
}
