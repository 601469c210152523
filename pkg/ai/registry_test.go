// ABOUTME: Tests for the provider registry: registration, lookup and request routing
// ABOUTME: Unknown models and missing providers surface as typed upstream errors

package ai

import (
	"context"
	"errors"
	"testing"
)

// stubProvider records the last request and echoes the model back.
type stubProvider struct {
	api  Api
	last Request
}

func (s *stubProvider) Api() Api { return s.api }

func (s *stubProvider) Generate(_ context.Context, req Request) (*Response, error) {
	s.last = req
	return &Response{Text: "from " + string(s.api), Model: req.Model}, nil
}

func TestRegistryRoutesByModelApi(t *testing.T) {
	t.Parallel()

	anthropic := &stubProvider{api: ApiAnthropic}
	google := &stubProvider{api: ApiGoogle}
	r := NewRegistry(anthropic, google)

	resp, err := r.Generate(context.Background(), Request{Model: "claude-3-opus-20240229", UserMessage: "hi"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "from anthropic" {
		t.Errorf("got %q, want anthropic provider", resp.Text)
	}
	if anthropic.last.UserMessage != "hi" {
		t.Errorf("provider saw %+v", anthropic.last)
	}

	resp, err = r.Generate(context.Background(), Request{Model: "gemini-2.0-flash"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "from google" {
		t.Errorf("got %q, want google provider", resp.Text)
	}
}

func TestRegistryUnknownModel(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&stubProvider{api: ApiAnthropic})
	_, err := r.Generate(context.Background(), Request{Model: "gpt-9"})
	if !errors.Is(err, ErrUpstreamMalformedRequest) {
		t.Errorf("got %v, want malformed request", err)
	}
}

func TestRegistryMissingProvider(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&stubProvider{api: ApiAnthropic})
	if r.Has(ApiGoogle) {
		t.Fatal("google should not be registered")
	}
	_, err := r.Generate(context.Background(), Request{Model: "gemini-2.0-flash"})
	if !errors.Is(err, ErrUpstreamUnknown) {
		t.Errorf("got %v, want unknown upstream error", err)
	}
}
