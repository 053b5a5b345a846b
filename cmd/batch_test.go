package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocalis/internal/model"
)

const batchQueries = `
- class: Mammal
  english_name: Lion
  scientific_name: Panthera leo
  sound: Roar
- class: Mammal
  english_name: Grey Wolf
  scientific_name: Canis lupus
  sound: Growl
- class: Mammal
  english_name: Grey Wolf
  sound: ""
- class: Mammal
  english_name: Grey Wolf
  scientific_name: Canis lupus
  sound: Howl
`

func TestReadQueries(t *testing.T) {
	queries, err := readQueries(strings.NewReader(batchQueries))
	require.NoError(t, err)
	require.Len(t, queries, 4)
	assert.Equal(t, model.ResultQuery{Class: "Mammal", EnglishName: "Lion", ScientificName: "Panthera leo", Sound: "Roar"}, queries[0])

	queries, err = readQueries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, queries)

	_, err = readQueries(strings.NewReader("class: Mammal"))
	require.Error(t, err)
}

func TestRunBatchKeepsInputOrder(t *testing.T) {
	lookup := newFakeLookup()
	var out bytes.Buffer

	err := runBatch(context.Background(), lookup, nil, batchOptions{workers: 3}, strings.NewReader(batchQueries), &out)
	require.ErrorIs(t, err, errIneligible)

	text := out.String()
	order := []string{
		"[1/4] Mammal / Lion (Panthera leo) / Roar",
		"Dominance",
		"[2/4] Mammal / Grey Wolf (Canis lupus) / Growl",
		"No information found for this combination.",
		"[3/4] Mammal / Grey Wolf / ",
		"Please fill all required fields correctly.",
		"[4/4] Mammal / Grey Wolf (Canis lupus) / Howl",
		"Belonging",
	}
	last := -1
	for _, want := range order {
		idx := strings.Index(text, want)
		require.Greater(t, idx, last, "%q out of order in:\n%s", want, text)
		last = idx
	}

	// The incomplete query never reaches the service.
	assert.Len(t, lookup.resultCalls, 3)
}

func TestRunBatchCollectsTransportFailures(t *testing.T) {
	lookup := newFakeLookup()
	lookup.fail = true
	var out bytes.Buffer

	err := runBatch(context.Background(), lookup, nil, batchOptions{workers: 2, rate: 1000}, strings.NewReader(batchQueries), &out)
	require.ErrorIs(t, err, errUnavailable)
	require.ErrorIs(t, err, errIneligible)
	assert.Equal(t, 3, strings.Count(out.String(), "Sorry, there was an error processing your request."))
}

func TestRunBatchMarksQueriesThatNeverRan(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	lookup := newFakeLookup()
	var out bytes.Buffer
	opts := batchOptions{workers: 1, rate: 0.001}

	err := runBatch(ctx, lookup, nil, opts, strings.NewReader(batchQueries), &out)
	require.Error(t, err)

	// Only the first valid query gets a token before the deadline.
	assert.Len(t, lookup.resultCalls, 1)
	assert.Contains(t, out.String(), "Dominance")
	assert.Equal(t, 2, strings.Count(out.String(), "Not looked up."))
}

func TestRunBatchJSONLines(t *testing.T) {
	in := `- {class: Mammal, english_name: Lion, scientific_name: Panthera leo, sound: Roar}`
	var out bytes.Buffer

	require.NoError(t, runBatch(context.Background(), newFakeLookup(), nil, batchOptions{format: "json"}, strings.NewReader(in), &out))
	assert.JSONEq(t, `{
		"status": "success",
		"card": {
			"english_name": "Lion",
			"scientific_name": "Panthera leo",
			"sound": "Roar",
			"emotion_label": "Dominance",
			"context_trigger": "Territorial display"
		}
	}`, strings.TrimSpace(out.String()))
}

func TestRunBatchEmptyInput(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runBatch(context.Background(), newFakeLookup(), nil, batchOptions{}, strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}
