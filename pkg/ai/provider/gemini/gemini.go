// ABOUTME: Google Gemini text generator backed by the google.golang.org/genai SDK
// ABOUTME: Translates genai.APIError codes onto the upstream error taxonomy; never retries

package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/pkg/ai"
)

// Provider implements ai.Provider for the Gemini API.
type Provider struct {
	client  *genai.Client
	timeout time.Duration
}

// New creates a Gemini provider. If apiKey is empty, it reads GEMINI_API_KEY.
// A non-empty baseURL overrides the public endpoint.
func New(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Provider{client: client, timeout: timeout}, nil
}

// Api returns the Google API identifier.
func (p *Provider) Api() ai.Api {
	return ai.ApiGoogle
}

// Generate sends one GenerateContent call.
func (p *Provider) Generate(ctx context.Context, req ai.Request) (*ai.Response, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	pilog.Debug("gemini: generateContent model=%s", req.Model)
	resp, err := p.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.UserMessage), generateConfig(req))
	if err != nil {
		return nil, mapError(err)
	}

	out := convertResponse(resp)
	if out.Text == "" {
		return nil, &ai.UpstreamError{Kind: ai.KindUnknown, Message: "response contained no text content"}
	}
	if out.Model == "" {
		out.Model = req.Model
	}
	return out, nil
}

func generateConfig(req ai.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return cfg
}

// convertResponse extracts text parts of the first candidate plus usage counts.
func convertResponse(resp *genai.GenerateContentResponse) *ai.Response {
	out := &ai.Response{}
	if resp == nil {
		return out
	}
	out.Model = resp.ModelVersion
	if resp.UsageMetadata != nil {
		out.Usage = ai.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}
	c := resp.Candidates[0]
	out.StopReason = strings.ToLower(string(c.FinishReason))
	if c.Content == nil {
		return out
	}
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	out.Text = b.String()
	return out
}

// mapError classifies SDK failures by HTTP code; anything without one is a transport failure.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.UpstreamError{Kind: ai.KindForStatus(apiErr.Code), Status: apiErr.Code, Message: apiMessage(apiErr), Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &ai.UpstreamError{Kind: ai.KindForStatus(apiErrPtr.Code), Status: apiErrPtr.Code, Message: apiMessage(*apiErrPtr), Err: err}
	}
	return &ai.UpstreamError{Kind: ai.KindUnknown, Message: err.Error(), Err: err}
}

func apiMessage(e genai.APIError) string {
	if e.Status != "" && e.Message != "" {
		return e.Status + ": " + e.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}
