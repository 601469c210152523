// ABOUTME: Anthropic Messages API text generator (non-streaming, single user turn)
// ABOUTME: Maps non-200 responses onto the upstream error taxonomy; never retries

package anthropic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mailru/easyjson"

	"github.com/mauromedda/unpack/internal/httputil"
	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/pkg/ai"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	messagesPath     = "/v1/messages"
	defaultMaxTokens = 1024
)

// Provider implements ai.Provider for the Anthropic Messages API.
type Provider struct {
	client *httputil.Client
}

// New creates an Anthropic provider. If apiKey is empty, it reads ANTHROPIC_API_KEY.
// A zero timeout uses httputil.DefaultTimeout.
func New(apiKey, baseURL string, timeout time.Duration) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = httputil.NormalizeBaseURL(baseURL, "/v1")

	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": anthropicVersion,
		"content-type":      "application/json",
	}

	return &Provider{client: httputil.NewClient(baseURL, headers, timeout)}
}

// Api returns the Anthropic API identifier.
func (p *Provider) Api() ai.Api {
	return ai.ApiAnthropic
}

// Generate sends one Messages call and returns the concatenated text blocks.
func (p *Provider) Generate(ctx context.Context, req ai.Request) (*ai.Response, error) {
	body, err := easyjson.Marshal(newMessagesRequest(req))
	if err != nil {
		return nil, &ai.UpstreamError{Kind: ai.KindMalformedRequest, Message: "failed to marshal request body", Err: err}
	}

	pilog.Debug("http: POST %s%s model=%s", p.client.BaseURL(), messagesPath, req.Model)
	resp, err := p.client.Do(ctx, http.MethodPost, messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, &ai.UpstreamError{Kind: ai.KindUnknown, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	pilog.Debug("http: POST %s%s → %d", p.client.BaseURL(), messagesPath, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ai.UpstreamError{Kind: ai.KindUnknown, Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	var out messagesResponse
	if err := easyjson.Unmarshal(data, &out); err != nil {
		return nil, &ai.UpstreamError{Kind: ai.KindUnknown, Status: resp.StatusCode, Message: "failed to decode response body", Err: err}
	}

	text := out.text()
	if text == "" {
		return nil, &ai.UpstreamError{Kind: ai.KindUnknown, Status: resp.StatusCode, Message: "response contained no text content"}
	}

	return &ai.Response{
		Text:       text,
		Model:      out.Model,
		StopReason: out.StopReason,
		Usage:      out.Usage,
	}, nil
}

func newMessagesRequest(req ai.Request) messagesRequest {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return messagesRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []message{{Role: "user", Content: req.UserMessage}},
	}
}

// errorFromResponse reads the error envelope and classifies it by status.
func errorFromResponse(resp *http.Response) error {
	raw := httputil.ReadErrorBody(resp)

	var env errorEnvelope
	msg := raw
	if raw != "" && easyjson.Unmarshal([]byte(raw), &env) == nil && env.Message != "" {
		msg = env.Message
		if env.Type != "" {
			msg = fmt.Sprintf("%s: %s", env.Type, env.Message)
		}
	}
	if msg == "" {
		msg = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	return ai.NewStatusError(resp.StatusCode, msg)
}
