// ABOUTME: Tests for check-and-respond and generate-final orchestration over a fake model
// ABOUTME: Covers both paths, validation before upstream calls, prompt composition and category preference

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mauromedda/unpack/internal/clarify"
	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/generate"
	"github.com/mauromedda/unpack/internal/personality"
	"github.com/mauromedda/unpack/pkg/ai"
)

// fakeModel answers auxiliary calls by their token budget and records final-answer calls.
type fakeModel struct {
	mu      sync.Mutex
	answers []ai.Request
	aux     int
	err     error
}

func (f *fakeModel) Generate(_ context.Context, req ai.Request) (*ai.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch req.MaxTokens {
	case 500:
		f.aux++
		return &ai.Response{Text: "What is your role?\nWhat matters most?\nWhen do you decide?"}, nil
	case 150:
		f.aux++
		return &ai.Response{Text: `"This decision depends on several factors."`}, nil
	}
	f.answers = append(f.answers, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Response{Text: "the answer"}, nil
}

func (f *fakeModel) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aux + len(f.answers)
}

type fixture struct {
	engine   *Engine
	model    *fakeModel
	personas *personality.Engine
	snap     *config.Snapshot
}

func newFixture(t *testing.T) *fixture {
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
	fm := &fakeModel{}
	e := New(fm, store, models, personas, generate.WithIntn(func(int) int { return 1 }))
	return &fixture{engine: e, model: fm, personas: personas, snap: store.Load()}
}

func ptr[T any](v T) *T { return &v }

func TestCheckAndRespond_Clarifies(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, err := f.engine.CheckAndRespond(context.Background(), CheckRequest{Prompt: "should I take this job offer"})
	if err != nil {
		t.Fatalf("CheckAndRespond: %v", err)
	}
	want := &CheckResponse{
		NeedsClarification: true,
		Questions:          []string{"What is your role?", "What matters most?", "When do you decide?"},
		Message:            "This decision depends on several factors.",
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if len(f.model.answers) != 0 {
		t.Errorf("clarifying path made %d answer calls", len(f.model.answers))
	}
}

func TestCheckAndRespond_DirectAnswer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, err := f.engine.CheckAndRespond(context.Background(), CheckRequest{Prompt: "what is the capital of France"})
	if err != nil {
		t.Fatalf("CheckAndRespond: %v", err)
	}
	if diff := cmp.Diff(&CheckResponse{Answer: "the answer"}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if f.model.aux != 0 {
		t.Errorf("direct path made %d auxiliary calls", f.model.aux)
	}

	req := f.model.answers[0]
	if req.Model != ai.DefaultModelID || req.MaxTokens != 1500 || req.Temperature != 0.7 {
		t.Errorf("answer params = %s/%d/%v", req.Model, req.MaxTokens, req.Temperature)
	}
	if req.System != f.personas.SystemPrompt(personality.Default, false) {
		t.Errorf("unexpected system prompt:\n%s", req.System)
	}
	if req.UserMessage != "what is the capital of France" {
		t.Errorf("user message = %q", req.UserMessage)
	}
}

func TestCheckAndRespond_GreetingGetsNote(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, err := f.engine.CheckAndRespond(context.Background(), CheckRequest{Prompt: "Hello"})
	if err != nil {
		t.Fatalf("CheckAndRespond: %v", err)
	}
	if resp.NeedsClarification {
		t.Fatal("greeting asked for clarification")
	}
	if got := f.model.answers[0].System; got != f.personas.SystemPrompt(personality.Default, true) {
		t.Errorf("greeting system prompt:\n%s", got)
	}
}

func TestCheckAndRespond_Overrides(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.engine.CheckAndRespond(context.Background(), CheckRequest{
		Prompt: "what is the capital of France",
		Overrides: Overrides{
			Model:       ptr("claude-3-opus-20240229"),
			Personality: ptr("professional"),
			MaxTokens:   ptr(50),
		},
	})
	if err != nil {
		t.Fatalf("CheckAndRespond: %v", err)
	}
	req := f.model.answers[0]
	if req.Model != "claude-3-opus-20240229" || req.MaxTokens != config.MinMaxTokens {
		t.Errorf("overrides not applied: %s/%d", req.Model, req.MaxTokens)
	}
	if req.System != f.personas.SystemPrompt("professional", false) {
		t.Error("personality override not applied")
	}
}

func TestCheckAndRespond_ValidationBeforeUpstream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   CheckRequest
		field string
	}{
		{"missing prompt", CheckRequest{}, "prompt"},
		{"blank prompt", CheckRequest{Prompt: "  \n"}, "prompt"},
		{"unknown model", CheckRequest{Prompt: "hi", Overrides: Overrides{Model: ptr("gpt-4")}}, "model"},
		{"unknown personality", CheckRequest{Prompt: "hi", Overrides: Overrides{Personality: ptr("grumpy")}}, "personality"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			_, err := f.engine.CheckAndRespond(context.Background(), tt.req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v; want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q; want %q", ve.Field, tt.field)
			}
			if n := f.model.calls(); n != 0 {
				t.Errorf("%d upstream calls made for an invalid request", n)
			}
		})
	}
}

func TestCheckAndRespond_UpstreamErrorSurfaces(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.model.err = ai.NewStatusError(429, "slow down")

	_, err := f.engine.CheckAndRespond(context.Background(), CheckRequest{Prompt: "what is the capital of France"})
	if !errors.Is(err, ai.ErrUpstreamRateLimit) {
		t.Fatalf("err = %v; want rate limit", err)
	}
	if len(f.model.answers) != 1 {
		t.Errorf("answer attempted %d times; want exactly 1", len(f.model.answers))
	}
}

func TestGenerateFinal_WithAnswers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, err := f.engine.GenerateFinal(context.Background(), FinalRequest{
		Prompt:                "should I take this job offer",
		Clarifications:        []string{"", "I'm worried about money and my budget", "  "},
		FromClarificationFlow: true,
	})
	if err != nil {
		t.Fatalf("GenerateFinal: %v", err)
	}
	if resp.Answer != "the answer" {
		t.Errorf("Answer = %q", resp.Answer)
	}

	req := f.model.answers[0]
	wantUser := "should I take this job offer\n\nAdditional context:\nAdditional context 1: I'm worried about money and my budget"
	if req.UserMessage != wantUser {
		t.Errorf("user message = %q", req.UserMessage)
	}
	// The answers point at financial even though the prompt is about a job.
	if want := f.personas.TailoredPrompt(personality.Default, clarify.CategoryFinancial, true); req.System != want {
		t.Errorf("system prompt:\n%s\nwant:\n%s", req.System, want)
	}
}

func TestGenerateFinal_SkippedUsesPromptCategory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.engine.GenerateFinal(context.Background(), FinalRequest{
		Prompt:                "should I take this job offer",
		Clarifications:        []string{"lots of money"},
		SkipClarifications:    true,
		FromClarificationFlow: true,
	})
	if err != nil {
		t.Fatalf("GenerateFinal: %v", err)
	}
	req := f.model.answers[0]
	if req.UserMessage != "should I take this job offer" {
		t.Errorf("skipped turn carried context: %q", req.UserMessage)
	}
	if want := f.personas.TailoredPrompt(personality.Default, clarify.CategoryCareer, true); req.System != want {
		t.Errorf("system prompt:\n%s", req.System)
	}
}

func TestGenerateFinal_NotFollowUp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	if _, err := f.engine.GenerateFinal(context.Background(), FinalRequest{Prompt: "how do I learn to code"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(f.model.answers[0].System, "follow-up answer") {
		t.Error("follow-up instruction added outside a clarification flow")
	}
}

func TestGenerateFinal_OutsideFlowIgnoresClarifications(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.engine.GenerateFinal(context.Background(), FinalRequest{
		Prompt:         "should I take this job offer",
		Clarifications: []string{"I'm worried about money and my budget"},
	})
	if err != nil {
		t.Fatalf("GenerateFinal: %v", err)
	}
	req := f.model.answers[0]
	if req.UserMessage != "should I take this job offer" {
		t.Errorf("context appended outside the clarification flow: %q", req.UserMessage)
	}
	if want := f.personas.TailoredPrompt(personality.Default, clarify.CategoryCareer, false); req.System != want {
		t.Errorf("system prompt:\n%s\nwant:\n%s", req.System, want)
	}
}

func TestGenerateFinal_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var ve *ValidationError
	if _, err := f.engine.GenerateFinal(context.Background(), FinalRequest{}); !errors.As(err, &ve) || ve.Message != "Prompt is required" {
		t.Errorf("blank prompt err = %v", err)
	}

	f.model.err = ai.NewStatusError(401, "bad key")
	if _, err := f.engine.GenerateFinal(context.Background(), FinalRequest{Prompt: "p"}); !errors.Is(err, ai.ErrUpstreamAuth) {
		t.Errorf("err = %v; want auth", err)
	}
}

func TestComposeFinalPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		answers  []string
		skip     bool
		want     string
		wantUsed []string
	}{
		{"no answers", nil, false, "P", nil},
		{"all blank", []string{"", " ", "\t"}, false, "P", nil},
		{"skip wins", []string{"a"}, true, "P", nil},
		{"numbers count non-blank only", []string{"a", "", "c"}, false,
			"P\n\nAdditional context:\nAdditional context 1: a\nAdditional context 2: c", []string{"a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, used := ComposeFinalPrompt("P", tt.answers, tt.skip)
			if got != tt.want {
				t.Errorf("prompt = %q; want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.wantUsed, used); diff != "" {
				t.Errorf("used (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPreferredCategory(t *testing.T) {
	t.Parallel()
	snap := newFixture(t).snap

	tests := []struct {
		name       string
		prompt     string
		answers    []string
		want       clarify.Category
		wantSource string
	}{
		{"answers win when specific", "should I take this job offer", []string{"my partner and family"}, clarify.CategoryRelationship, SourceAnswers},
		{"generic answers defer to prompt", "should I take this job offer", []string{"blue"}, clarify.CategoryCareer, SourcePrompt},
		{"no answers", "should I move abroad", nil, clarify.CategoryRelocation, SourcePrompt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, source := PreferredCategory(snap, tt.prompt, tt.answers)
			if got != tt.want || source != tt.wantSource {
				t.Errorf("PreferredCategory = %s/%s; want %s/%s", got, source, tt.want, tt.wantSource)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	snap := newFixture(t).snap

	ev := Evaluate(snap, "should I take this job offer")
	if !ev.NeedsClarification || ev.Category != clarify.CategoryCareer || ev.Casual {
		t.Errorf("job offer: %+v", ev)
	}

	ev = Evaluate(snap, "what is the best career advice")
	if ev.NeedsClarification || !ev.Skipped {
		t.Errorf("skip pattern must win over keywords: %+v", ev)
	}

	if ev := Evaluate(snap, "hey"); !ev.Casual || ev.NeedsClarification {
		t.Errorf("greeting: %+v", ev)
	}
}
