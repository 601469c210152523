// ABOUTME: Backend configuration: pattern sources, question count, templates, confidence, responses, debug
// ABOUTME: Plain data with JSON/YAML tags matching the admin API; Compile turns it into a Snapshot

package config

import (
	"fmt"

	"github.com/mauromedda/unpack/internal/clarify"
)

// Backend is the full backend configuration as exposed by GET /api/backend-config.
type Backend struct {
	ClarificationRules clarify.Sources             `json:"clarificationRules" yaml:"clarificationRules"`
	QuestionCount      QuestionCount               `json:"questionCount" yaml:"questionCount"`
	QuestionTemplates  map[string]clarify.Template `json:"questionTemplates" yaml:"questionTemplates"`
	Confidence         Confidence                  `json:"confidence" yaml:"confidence"`
	Responses          Responses                   `json:"responses" yaml:"responses"`
	Debug              Debug                       `json:"debug" yaml:"debug"`
}

// QuestionCount bounds how many clarifying questions are asked.
type QuestionCount struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Confidence holds the scorer thresholds and weights.
type Confidence struct {
	MinConfidence float64         `json:"minConfidence" yaml:"minConfidence"`
	MaxConfidence float64         `json:"maxConfidence" yaml:"maxConfidence"`
	Weights       clarify.Weights `json:"weights" yaml:"weights"`
}

// Responses are fixed UI strings served alongside the rules.
type Responses struct {
	ClarificationMessage string `json:"clarificationMessage" yaml:"clarificationMessage"`
	DirectAnswerMessage  string `json:"directAnswerMessage" yaml:"directAnswerMessage"`
	SkipMessage          string `json:"skipMessage" yaml:"skipMessage"`
	SubmitMessage        string `json:"submitMessage" yaml:"submitMessage"`
}

// Debug gates extra diagnostic logging. Enabled is the master switch.
type Debug struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	LogPatterns   bool `json:"logPatterns" yaml:"logPatterns"`
	LogConfidence bool `json:"logConfidence" yaml:"logConfidence"`
	LogQuestions  bool `json:"logQuestions" yaml:"logQuestions"`
}

// Patterns reports whether matched signals should be logged.
func (d Debug) Patterns() bool { return d.Enabled && d.LogPatterns }

// Confidence reports whether confidence scores should be logged.
func (d Debug) Confidence() bool { return d.Enabled && d.LogConfidence }

// Questions reports whether generated questions should be logged.
func (d Debug) Questions() bool { return d.Enabled && d.LogQuestions }

// DefaultBackend returns the built-in configuration.
func DefaultBackend() Backend {
	templates := clarify.DefaultTemplates()
	byName := make(map[string]clarify.Template, len(templates))
	for c, t := range templates {
		byName[c.String()] = t
	}

	return Backend{
		ClarificationRules: clarify.DefaultSources(),
		QuestionCount:      QuestionCount{Min: 2, Max: 3},
		QuestionTemplates:  byName,
		Confidence: Confidence{
			MinConfidence: 0.4,
			MaxConfidence: 0.9,
			Weights:       clarify.DefaultWeights(),
		},
		Responses: Responses{
			ClarificationMessage: "I'd like to understand your situation better to give you a personalized answer. Could you help me with a few questions?",
			DirectAnswerMessage:  "I can provide you with a direct answer to your question.",
			SkipMessage:          "I'll provide you with a general answer based on your original question.",
			SubmitMessage:        "Thank you for providing that context. Here's my personalized response:",
		},
		Debug: Debug{Enabled: true, LogPatterns: true, LogConfidence: true, LogQuestions: true},
	}
}

// Clone returns a deep copy; decoding a patch into the copy never touches b.
func (b Backend) Clone() Backend {
	out := b
	out.ClarificationRules = clarify.Sources{
		Decision: cloneStrings(b.ClarificationRules.Decision),
		Vague:    cloneStrings(b.ClarificationRules.Vague),
		Fuzzy:    cloneStrings(b.ClarificationRules.Fuzzy),
		Keywords: cloneStrings(b.ClarificationRules.Keywords),
		Skip:     cloneStrings(b.ClarificationRules.Skip),
	}
	out.QuestionTemplates = make(map[string]clarify.Template, len(b.QuestionTemplates))
	for name, t := range b.QuestionTemplates {
		out.QuestionTemplates[name] = clarify.Template{
			Keywords:  cloneStrings(t.Keywords),
			Questions: cloneStrings(t.Questions),
		}
	}
	return out
}

// Snapshot is an immutable, compiled view of a Backend. Readers share it freely.
type Snapshot struct {
	Backend   Backend
	Patterns  *clarify.PatternSet
	Scorer    *clarify.Scorer
	Templates clarify.Templates
}

// Compile validates b and builds a Snapshot. b is cloned, so later edits to
// the caller's value do not leak into the snapshot.
func Compile(b Backend) (*Snapshot, error) {
	b = b.Clone()

	if b.QuestionCount.Min < 1 {
		return nil, fmt.Errorf("questionCount.min must be at least 1, got %d", b.QuestionCount.Min)
	}
	if b.QuestionCount.Max < b.QuestionCount.Min {
		return nil, fmt.Errorf("questionCount.max (%d) is below min (%d)", b.QuestionCount.Max, b.QuestionCount.Min)
	}

	ps, err := clarify.Compile(b.ClarificationRules)
	if err != nil {
		return nil, fmt.Errorf("clarificationRules: %w", err)
	}

	templates := make(clarify.Templates, len(b.QuestionTemplates))
	for name, t := range b.QuestionTemplates {
		c, ok := clarify.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("questionTemplates: unknown category %q", name)
		}
		templates[c] = t
	}
	if n := len(templates.Questions(clarify.CategoryGeneric)); n < b.QuestionCount.Max {
		return nil, fmt.Errorf("questionTemplates.generic has %d questions, fewer than questionCount.max (%d)", n, b.QuestionCount.Max)
	}

	scorer := clarify.NewScorer(ps, clarify.ScorerConfig{
		Weights:       b.Confidence.Weights,
		MinConfidence: b.Confidence.MinConfidence,
		MaxConfidence: b.Confidence.MaxConfidence,
	})

	return &Snapshot{
		Backend:   b,
		Patterns:  ps,
		Scorer:    scorer,
		Templates: templates,
	}, nil
}

func cloneStrings(s []string) []string {
	return append([]string{}, s...)
}
