// ABOUTME: Request orchestration for check-and-respond and generate-final
// ABOUTME: Reads the live config snapshot once per request; only final answers surface upstream errors

package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/unpack/internal/clarify"
	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/generate"
	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/internal/personality"
	"github.com/mauromedda/unpack/pkg/ai"
)

// ValidationError is returned for bad input before any upstream call.
type ValidationError = config.ValidationError

// Overrides are the optional per-request model settings.
type Overrides struct {
	Model       *string `json:"model,omitempty"`
	Personality *string `json:"personality,omitempty"`
	MaxTokens   *int    `json:"maxTokens,omitempty"`
}

func (o Overrides) update() config.ModelUpdate {
	return config.ModelUpdate{Model: o.Model, Personality: o.Personality, MaxTokens: o.MaxTokens}
}

// CheckRequest is the body of POST /api/check-and-respond.
type CheckRequest struct {
	Prompt string `json:"prompt"`
	Overrides
}

// CheckResponse either carries questions or a direct answer.
type CheckResponse struct {
	NeedsClarification bool     `json:"needsClarification"`
	Questions          []string `json:"questions,omitempty"`
	Message            string   `json:"message,omitempty"`
	Answer             string   `json:"answer,omitempty"`
}

// FinalRequest is the body of POST /api/generate-final.
type FinalRequest struct {
	Prompt                string   `json:"prompt"`
	Clarifications        []string `json:"clarifications,omitempty"`
	SkipClarifications    bool     `json:"skipClarifications"`
	FromClarificationFlow bool     `json:"fromClarificationFlow"`
	Overrides
}

// FinalResponse is the body returned by generate-final.
type FinalResponse struct {
	Answer string `json:"answer"`
}

// Engine answers prompts against the live backend and model configuration.
type Engine struct {
	gen           ai.TextGenerator
	store         *config.Store
	models        *config.ModelStore
	personalities *personality.Engine
	questions     *generate.QuestionGenerator
	messages      *generate.MessageGenerator
}

// New wires an engine. opts configure the auxiliary generators.
func New(gen ai.TextGenerator, store *config.Store, models *config.ModelStore, personalities *personality.Engine, opts ...generate.Option) *Engine {
	return &Engine{
		gen:           gen,
		store:         store,
		models:        models,
		personalities: personalities,
		questions:     generate.NewQuestionGenerator(gen, opts...),
		messages:      generate.NewMessageGenerator(gen, opts...),
	}
}

// CheckAndRespond decides whether prompt needs clarification. When it does,
// questions and the opening message are generated concurrently; otherwise the
// prompt is answered directly with the resolved model settings.
func (e *Engine) CheckAndRespond(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, promptRequired()
	}
	cfg, err := e.models.Resolve(req.update())
	if err != nil {
		return nil, err
	}

	snap := e.store.Load()
	ev := Evaluate(snap, req.Prompt)
	logEvaluation(snap.Backend.Debug, req.Prompt, ev)

	if ev.NeedsClarification {
		var (
			questions []string
			message   string
			g         errgroup.Group
		)
		g.Go(func() error {
			questions = e.questions.Generate(ctx, req.Prompt, ev.Category, snap)
			return nil
		})
		g.Go(func() error {
			message = e.messages.Generate(ctx, req.Prompt, ev.Category)
			return nil
		})
		_ = g.Wait()

		return &CheckResponse{NeedsClarification: true, Questions: questions, Message: message}, nil
	}

	system := e.personalities.SystemPrompt(cfg.Personality, ev.Casual)
	answer, err := e.answer(ctx, cfg, system, req.Prompt)
	if err != nil {
		return nil, err
	}
	return &CheckResponse{NeedsClarification: false, Answer: answer}, nil
}

// GenerateFinal produces the answer that closes a turn. Inside the
// clarification flow, non-blank clarifications are appended as numbered
// context lines unless the turn was skipped; outside it they are ignored.
// The category clause comes from PreferredCategory.
func (e *Engine) GenerateFinal(ctx context.Context, req FinalRequest) (*FinalResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, promptRequired()
	}
	cfg, err := e.models.Resolve(req.update())
	if err != nil {
		return nil, err
	}

	snap := e.store.Load()
	skip := req.SkipClarifications || !req.FromClarificationFlow
	prompt, used := ComposeFinalPrompt(req.Prompt, req.Clarifications, skip)
	category, source := PreferredCategory(snap, req.Prompt, used)
	pilog.Debug("engine: final category=%s source=%s answers=%d followUp=%t",
		category, source, len(used), req.FromClarificationFlow)

	system := e.personalities.TailoredPrompt(cfg.Personality, category, req.FromClarificationFlow)
	answer, err := e.answer(ctx, cfg, system, prompt)
	if err != nil {
		return nil, err
	}
	return &FinalResponse{Answer: answer}, nil
}

func (e *Engine) answer(ctx context.Context, cfg config.ModelConfig, system, prompt string) (string, error) {
	resp, err := e.gen.Generate(ctx, ai.Request{
		Model:       cfg.Model,
		MaxTokens:   cfg.Parameters.MaxTokens,
		Temperature: cfg.Parameters.Temperature,
		System:      system,
		UserMessage: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer with %s: %w", cfg.Model, err)
	}
	return resp.Text, nil
}

// ComposeFinalPrompt appends the non-blank clarifications to prompt and
// returns them. A skipped turn returns prompt unchanged and no answers.
func ComposeFinalPrompt(prompt string, clarifications []string, skip bool) (string, []string) {
	if skip {
		return prompt, nil
	}
	var used []string
	for _, c := range clarifications {
		if strings.TrimSpace(c) != "" {
			used = append(used, c)
		}
	}
	if len(used) == 0 {
		return prompt, nil
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nAdditional context:\n")
	for i, c := range used {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Additional context %d: %s", i+1, c)
	}
	return b.String(), used
}

// Category sources reported by PreferredCategory.
const (
	SourceAnswers = "answers"
	SourcePrompt  = "prompt"
)

// PreferredCategory picks the category for a tailored prompt: the answers'
// category when it is specific, the prompt's forward category otherwise.
func PreferredCategory(snap *config.Snapshot, prompt string, answers []string) (clarify.Category, string) {
	if len(answers) > 0 {
		if c := clarify.ClassifyFromAnswers(answers); c != clarify.CategoryGeneric {
			return c, SourceAnswers
		}
	}
	return snap.Templates.Classify(prompt), SourcePrompt
}

func promptRequired() error {
	return &ValidationError{Field: "prompt", Message: "Prompt is required"}
}
