package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocalis/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(handler roundTripFunc) *Client {
	httpClient := &http.Client{Transport: handler}
	return New("http://lookup.test/", httpClient, nil)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func readBody(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
	return body
}

func TestAnimalsByClassSuccess(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/get_animals_by_class/Sea%20Mammal", req.URL.EscapedPath())
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
		return response(200, `{"animals":[{"english_name":"Orca","scientific_name":"Orcinus orca"},{"english_name":"Walrus","scientific_name":"Odobenus rosmarus"}]}`), nil
	})

	animals, err := client.AnimalsByClass(context.Background(), "Sea Mammal")
	require.NoError(t, err)

	want := []model.Animal{
		{EnglishName: "Orca", ScientificName: "Orcinus orca"},
		{EnglishName: "Walrus", ScientificName: "Odobenus rosmarus"},
	}
	if diff := cmp.Diff(want, animals); diff != "" {
		t.Fatalf("animals mismatch (-want +got):\n%s", diff)
	}
}

func TestSoundsPostsSelection(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/get_sounds", req.URL.Path)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{
			"english_name":    "Lion",
			"scientific_name": "Panthera leo",
			"class":           "Mammal",
		}, readBody(t, req))
		return response(200, `{"sounds":["Grunt","Roar"]}`), nil
	})

	sounds, err := client.Sounds(context.Background(), model.SoundsQuery{
		EnglishName:    "Lion",
		ScientificName: "Panthera leo",
		Class:          "Mammal",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Grunt", "Roar"}, sounds)
}

func TestAnimalByName(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *model.Animal
	}{
		{name: "match", body: `{"animal":{"english_name":"Lion","scientific_name":"Panthera leo"}}`, want: &model.Animal{EnglishName: "Lion", ScientificName: "Panthera leo"}},
		{name: "null", body: `{"animal":null}`},
		{name: "empty object", body: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "/get_animal_by_name", req.URL.Path)
				assert.Equal(t, map[string]any{"name": "lion", "class": "Mammal"}, readBody(t, req))
				return response(200, tt.body), nil
			})

			got, err := client.AnimalByName(context.Background(), model.NameQuery{Name: "lion", Class: "Mammal"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultSuccess(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/get_result", req.URL.Path)
		assert.Equal(t, map[string]any{
			"class":           "Mammal",
			"english_name":    "Lion",
			"scientific_name": "Panthera leo",
			"sound":           "Roar",
		}, readBody(t, req))
		return response(200, `{"result":{"emotion_label":"Dominance","context_trigger":"Territorial display"}}`), nil
	})

	result, err := client.Result(context.Background(), model.ResultQuery{
		Class:          "Mammal",
		EnglishName:    "Lion",
		ScientificName: "Panthera leo",
		Sound:          "Roar",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.Result{EmotionLabel: "Dominance", ContextTrigger: "Territorial display"}, *result)
}

func TestResultEmptyPayloadIsNil(t *testing.T) {
	for _, body := range []string{`{}`, `{"result":null}`} {
		client := newTestClient(func(req *http.Request) (*http.Response, error) {
			return response(200, body), nil
		})

		result, err := client.Result(context.Background(), model.ResultQuery{Class: "Bird", EnglishName: "Crow", Sound: "Caw"})
		require.NoError(t, err)
		assert.Nil(t, result, "body %s", body)
	}
}

func TestSoundsByAnimalAndCallPurpose(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/get_sounds/Grey Wolf":
			assert.Equal(t, http.MethodGet, req.Method)
			return response(200, `{"sounds":["Howl"]}`), nil
		case "/get_call_for":
			assert.Equal(t, map[string]any{"animal": "Grey Wolf", "sound": "Howl"}, readBody(t, req))
			return response(200, `{"call_for":"Assembling the pack"}`), nil
		}
		t.Fatalf("unexpected path: %s", req.URL.Path)
		return nil, nil
	})

	sounds, err := client.SoundsByAnimal(context.Background(), "Grey Wolf")
	require.NoError(t, err)
	assert.Equal(t, []string{"Howl"}, sounds)

	purpose, err := client.CallPurpose(context.Background(), model.CallQuery{Animal: "Grey Wolf", Sound: "Howl"})
	require.NoError(t, err)
	assert.Equal(t, "Assembling the pack", purpose)
}

func TestHealth(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/health", req.URL.Path)
		return response(200, `{"status":"healthy","data_loaded":true}`), nil
	})

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Health{Status: "healthy", DataLoaded: true}, health)
}

func TestStatusError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return response(500, `{"animals":[]}`), nil
	})

	_, err := client.AnimalsByClass(context.Background(), "Bird")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestDecodeError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return response(200, `{invalid json`), nil
	})

	_, err := client.Sounds(context.Background(), model.SoundsQuery{Class: "Bird"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /get_sounds")
}

func TestTransportErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, boom
	})

	_, err := client.Result(context.Background(), model.ResultQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "request /get_result")
}

func TestNewDefaultsBaseURL(t *testing.T) {
	client := New("", nil, nil)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
