package model

import "strings"

// Animal is one candidate returned by the animals-by-class endpoint.
type Animal struct {
	EnglishName    string `json:"english_name"`
	ScientificName string `json:"scientific_name"`
}

// SoundsQuery selects the sounds recorded for an animal within a class.
type SoundsQuery struct {
	EnglishName    string `json:"english_name"`
	ScientificName string `json:"scientific_name"`
	Class          string `json:"class"`
}

// NameQuery resolves a free-text english or scientific name within a class.
type NameQuery struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// ResultQuery is the body of a final result lookup.
type ResultQuery struct {
	Class          string `json:"class" yaml:"class"`
	EnglishName    string `json:"english_name" yaml:"english_name"`
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`
	Sound          string `json:"sound" yaml:"sound"`
}

// Valid reports whether the query carries a class, at least one animal
// name, and a sound.
func (q ResultQuery) Valid() bool {
	return strings.TrimSpace(q.Class) != "" &&
		(strings.TrimSpace(q.EnglishName) != "" || strings.TrimSpace(q.ScientificName) != "") &&
		strings.TrimSpace(q.Sound) != ""
}

// Result is the emotion attributed to a vocalization.
type Result struct {
	EmotionLabel   string `json:"emotion_label"`
	ContextTrigger string `json:"context_trigger"`
}

// CallQuery is the body of a call purpose lookup.
type CallQuery struct {
	Animal string `json:"animal"`
	Sound  string `json:"sound"`
}

// Health is reported by the backend health endpoint.
type Health struct {
	Status     string `json:"status"`
	DataLoaded bool   `json:"data_loaded"`
}
