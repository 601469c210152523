// ABOUTME: Tests for the typed API client against the real handlers in an httptest server
// ABOUTME: Covers both check-and-respond shapes, final answers, configure and error decoding

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
	"github.com/mauromedda/unpack/internal/generate"
	"github.com/mauromedda/unpack/internal/personality"
	"github.com/mauromedda/unpack/internal/server"
	"github.com/mauromedda/unpack/pkg/ai"
)

func newAPI(t *testing.T, gen ai.TextGenerator) *Client {
	t.Helper()
	personas, err := personality.NewEngine("")
	if err != nil {
		t.Fatal(err)
	}
	models, err := config.NewModelStore(ai.ModelIDs(), personas.Names(), config.ModelUpdate{})
	if err != nil {
		t.Fatal(err)
	}
	store := config.MustNewStore(config.DefaultBackend())
	eng := engine.New(gen, store, models, personas, generate.WithIntn(func(int) int { return 0 }))
	srv := httptest.NewServer(server.New(eng, store, models, config.DefaultServer()).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", 5*time.Second)
}

func echo(_ context.Context, req ai.Request) (*ai.Response, error) {
	switch req.MaxTokens {
	case 500:
		return &ai.Response{Text: "Q1?\nQ2?"}, nil
	case 150:
		return &ai.Response{Text: "Context please."}, nil
	}
	return &ai.Response{Text: "A: " + req.UserMessage}, nil
}

func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()
	c := newAPI(t, ai.GeneratorFunc(echo))
	ctx := context.Background()

	h, err := c.Health(ctx)
	if err != nil || h.Status != "Server is running" {
		t.Fatalf("Health = %+v, %v", h, err)
	}

	check, err := c.CheckAndRespond(ctx, engine.CheckRequest{Prompt: "should I take this job offer"})
	if err != nil {
		t.Fatalf("CheckAndRespond: %v", err)
	}
	if !check.NeedsClarification || len(check.Questions) != 2 || check.Message != "Context please." {
		t.Errorf("check = %+v", check)
	}

	final, err := c.GenerateFinal(ctx, engine.FinalRequest{Prompt: "P", Clarifications: []string{"a"}, FromClarificationFlow: true})
	if err != nil {
		t.Fatalf("GenerateFinal: %v", err)
	}
	if final.Answer != "A: P\n\nAdditional context:\nAdditional context 1: a" {
		t.Errorf("answer = %q", final.Answer)
	}

	model := "claude-3-sonnet-20240229"
	cur, err := c.Configure(ctx, config.ModelUpdate{Model: &model})
	if err != nil || cur.Model != model || cur.MaxTokens != 1500 {
		t.Errorf("Configure = %+v, %v", cur, err)
	}

	b, err := c.BackendConfig(ctx)
	if err != nil || b.QuestionCount.Max != 3 {
		t.Errorf("BackendConfig = %+v, %v", b, err)
	}
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()
	c := newAPI(t, ai.GeneratorFunc(func(context.Context, ai.Request) (*ai.Response, error) {
		return nil, ai.NewStatusError(429, "slow down")
	}))

	_, err := c.GenerateFinal(context.Background(), engine.FinalRequest{Prompt: "P"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v; want *APIError", err)
	}
	if apiErr.Status != http.StatusTooManyRequests || apiErr.Message != "Rate limit exceeded. Please try again later." {
		t.Errorf("APIError = %+v", apiErr)
	}

	_, err = c.CheckAndRespond(context.Background(), engine.CheckRequest{})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "Prompt is required" {
		t.Errorf("blank prompt err = %v", err)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, time.Second).Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad gateway" {
		t.Errorf("err = %v", err)
	}
}
