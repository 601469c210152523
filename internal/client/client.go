// ABOUTME: Typed client for the unpack HTTP API, used by the terminal chat
// ABOUTME: Non-2xx responses become *APIError carrying the server's error text

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
	"github.com/mauromedda/unpack/internal/httputil"
)

// APIError is an error response from the server.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client calls one server.
type Client struct {
	http *httputil.Client
}

// New creates a client for baseURL (with or without a trailing /api).
func New(baseURL string, timeout time.Duration) *Client {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	return &Client{http: httputil.NewClient(httputil.NormalizeBaseURL(baseURL, "/api"), headers, timeout)}
}

// Health is the body of GET /api/health.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.call(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckAndRespond asks the server whether prompt needs clarification.
func (c *Client) CheckAndRespond(ctx context.Context, req engine.CheckRequest) (*engine.CheckResponse, error) {
	var out engine.CheckResponse
	if err := c.call(ctx, http.MethodPost, "/api/check-and-respond", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateFinal requests the answer that closes a turn.
func (c *Client) GenerateFinal(ctx context.Context, req engine.FinalRequest) (*engine.FinalResponse, error) {
	var out engine.FinalResponse
	if err := c.call(ctx, http.MethodPost, "/api/generate-final", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentConfig is the model selection echoed by configure.
type CurrentConfig struct {
	Model       string  `json:"model"`
	Personality string  `json:"personality"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// Configure changes the server's model settings.
func (c *Client) Configure(ctx context.Context, u config.ModelUpdate) (*CurrentConfig, error) {
	var out struct {
		Current CurrentConfig `json:"currentConfig"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/configure", u, &out); err != nil {
		return nil, err
	}
	return &out.Current, nil
}

// BackendConfig fetches the live backend configuration.
func (c *Client) BackendConfig(ctx context.Context) (*config.Backend, error) {
	var out config.Backend
	if err := c.call(ctx, http.MethodGet, "/api/backend-config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.http.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw := httputil.ReadErrorBody(resp)
		if json.Unmarshal([]byte(raw), apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = raw
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
