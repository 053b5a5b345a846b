package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"vocalis/internal/logging"
	"vocalis/internal/model"
)

// DefaultBaseURL is where the lookup service listens during local development.
const DefaultBaseURL = "http://127.0.0.1:5000"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client wraps calls to the animal sound lookup service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates an API client. A nil logger discards diagnostics.
func New(baseURL string, httpClient *http.Client, logger *logging.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type animalsResp struct {
	Animals []model.Animal `json:"animals"`
}

type soundsResp struct {
	Sounds []string `json:"sounds"`
}

type animalResp struct {
	Animal *model.Animal `json:"animal"`
}

type resultResp struct {
	Result *model.Result `json:"result"`
}

type callResp struct {
	CallFor string `json:"call_for"`
}

// AnimalsByClass returns the candidate animals for a class in server order.
func (c *Client) AnimalsByClass(ctx context.Context, class string) ([]model.Animal, error) {
	var out animalsResp
	if err := c.do(ctx, http.MethodGet, "/get_animals_by_class/"+url.PathEscape(class), nil, &out); err != nil {
		return nil, err
	}
	return out.Animals, nil
}

// Sounds returns the sounds recorded for an animal within a class.
func (c *Client) Sounds(ctx context.Context, q model.SoundsQuery) ([]string, error) {
	var out soundsResp
	if err := c.do(ctx, http.MethodPost, "/get_sounds", q, &out); err != nil {
		return nil, err
	}
	return out.Sounds, nil
}

// AnimalByName resolves a free-text name to its canonical pair. A nil animal
// means nothing matched.
func (c *Client) AnimalByName(ctx context.Context, q model.NameQuery) (*model.Animal, error) {
	var out animalResp
	if err := c.do(ctx, http.MethodPost, "/get_animal_by_name", q, &out); err != nil {
		return nil, err
	}
	return out.Animal, nil
}

// Result looks up the emotion for a full selection. A nil result means the
// combination is unknown.
func (c *Client) Result(ctx context.Context, q model.ResultQuery) (*model.Result, error) {
	var out resultResp
	if err := c.do(ctx, http.MethodPost, "/get_result", q, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// SoundsByAnimal returns the sounds for an animal name regardless of class.
func (c *Client) SoundsByAnimal(ctx context.Context, animal string) ([]string, error) {
	var out soundsResp
	if err := c.do(ctx, http.MethodGet, "/get_sounds/"+url.PathEscape(animal), nil, &out); err != nil {
		return nil, err
	}
	return out.Sounds, nil
}

// CallPurpose returns what an animal makes a sound for. An empty string
// means nothing matched.
func (c *Client) CallPurpose(ctx context.Context, q model.CallQuery) (string, error) {
	var out callResp
	if err := c.do(ctx, http.MethodPost, "/get_call_for", q, &out); err != nil {
		return "", err
	}
	return out.CallFor, nil
}

// Health reports whether the service is up and has its data loaded.
func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var out model.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return model.Health{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, v any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(zap.String("request_id", requestID), zap.String("method", method), zap.String("path", path))
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debugf("request failed: %v", err)
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debugf("unexpected status %d", resp.StatusCode)
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		log.Debugf("decode failed: %v", err)
		return fmt.Errorf("decode %s: %w", path, err)
	}

	log.Debugf("completed in %s", time.Since(started).Round(time.Millisecond))
	return nil
}
