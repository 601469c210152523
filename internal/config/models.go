// ABOUTME: Model configuration: selected model, personality and sampling parameters
// ABOUTME: Updates are validated in full before any field is applied; numeric fields are clamped

package config

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/unpack/pkg/ai"
)

// Parameter bounds enforced by Apply and Resolve.
const (
	MinMaxTokens   = 100
	MaxMaxTokens   = 200000
	MinTemperature = 0.0
	MaxTemperature = 1.0
)

// Parameters are the sampling settings sent with final answers.
type Parameters struct {
	MaxTokens         int      `json:"maxTokens" yaml:"maxTokens"`
	Temperature       float64  `json:"temperature" yaml:"temperature"`
	TopP              float64  `json:"topP" yaml:"topP"`
	TopK              int      `json:"topK" yaml:"topK"`
	StopSequences     []string `json:"stopSequences" yaml:"stopSequences"`
	RepetitionPenalty float64  `json:"repetitionPenalty" yaml:"repetitionPenalty"`
}

// DefaultParameters returns maxTokens 1500, temperature 0.7, topP 0.9, topK 40.
func DefaultParameters() Parameters {
	return Parameters{
		MaxTokens:         1500,
		Temperature:       0.7,
		TopP:              0.9,
		TopK:              40,
		StopSequences:     []string{},
		RepetitionPenalty: 1.0,
	}
}

// ModelConfig is one immutable model configuration.
type ModelConfig struct {
	Model       string     `json:"model"`
	Personality string     `json:"personality"`
	Parameters  Parameters `json:"parameters"`
}

// ModelUpdate is a partial change; nil fields are left as they are. A zero
// MaxTokens is treated as absent.
type ModelUpdate struct {
	Model       *string  `json:"model,omitempty"`
	Personality *string  `json:"personality,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ValidationError rejects a request before any upstream call is made.
type ValidationError struct {
	Field      string
	Message    string
	Allowed    []string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %q?)", e.Message, e.Suggestion)
	}
	return e.Message
}

// ModelStore holds the process-wide ModelConfig. Last writer wins.
type ModelStore struct {
	models        []string
	personalities []string

	mu      sync.Mutex
	current atomic.Pointer[ModelConfig]
}

// NewModelStore creates a store whose allow-lists are models and personalities.
// The initial selection is the first entry of each list unless overridden by initial.
func NewModelStore(models, personalities []string, initial ModelUpdate) (*ModelStore, error) {
	if len(models) == 0 || len(personalities) == 0 {
		return nil, fmt.Errorf("model store needs at least one model and one personality")
	}
	s := &ModelStore{
		models:        slices.Clone(models),
		personalities: slices.Clone(personalities),
	}
	base := ModelConfig{
		Model:       models[0],
		Personality: personalities[0],
		Parameters:  DefaultParameters(),
	}
	if slices.Contains(models, ai.DefaultModelID) {
		base.Model = ai.DefaultModelID
	}
	if slices.Contains(personalities, "helpful") {
		base.Personality = "helpful"
	}
	s.current.Store(&base)

	if _, err := s.Apply(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// Models returns the model allow-list.
func (s *ModelStore) Models() []string { return slices.Clone(s.models) }

// Personalities returns the personality allow-list.
func (s *ModelStore) Personalities() []string { return slices.Clone(s.personalities) }

// Current returns the live configuration.
func (s *ModelStore) Current() ModelConfig {
	return *s.current.Load()
}

// Resolve validates u against the allow-lists and returns the configuration it
// would produce, without storing it. Used for per-request overrides.
func (s *ModelStore) Resolve(u ModelUpdate) (ModelConfig, error) {
	return s.resolve(s.Current(), u)
}

// Apply validates u, then stores the result. Nothing is applied if any field is invalid.
func (s *ModelStore) Apply(u ModelUpdate) (ModelConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.resolve(s.Current(), u)
	if err != nil {
		return ModelConfig{}, err
	}
	s.current.Store(&next)
	return next, nil
}

func (s *ModelStore) resolve(cfg ModelConfig, u ModelUpdate) (ModelConfig, error) {
	if u.Model != nil && *u.Model != "" && !slices.Contains(s.models, *u.Model) {
		return ModelConfig{}, &ValidationError{
			Field:      "model",
			Message:    "Invalid model",
			Allowed:    s.Models(),
			Suggestion: suggest(*u.Model, s.models),
		}
	}
	if u.Personality != nil && *u.Personality != "" && !slices.Contains(s.personalities, *u.Personality) {
		return ModelConfig{}, &ValidationError{
			Field:      "personality",
			Message:    "Invalid personality",
			Allowed:    s.Personalities(),
			Suggestion: suggest(*u.Personality, s.personalities),
		}
	}
	if u.Temperature != nil && (math.IsNaN(*u.Temperature) || math.IsInf(*u.Temperature, 0)) {
		return ModelConfig{}, &ValidationError{Field: "temperature", Message: "Invalid temperature"}
	}

	cfg.Parameters.StopSequences = slices.Clone(cfg.Parameters.StopSequences)
	if u.Model != nil && *u.Model != "" {
		cfg.Model = *u.Model
	}
	if u.Personality != nil && *u.Personality != "" {
		cfg.Personality = *u.Personality
	}
	if u.MaxTokens != nil && *u.MaxTokens != 0 {
		cfg.Parameters.MaxTokens = ClampMaxTokens(*u.MaxTokens)
	}
	if u.Temperature != nil {
		cfg.Parameters.Temperature = ClampTemperature(*u.Temperature)
	}
	return cfg, nil
}

// ClampMaxTokens bounds n to [MinMaxTokens, MaxMaxTokens].
func ClampMaxTokens(n int) int {
	return min(max(n, MinMaxTokens), MaxMaxTokens)
}

// ClampTemperature bounds t to [MinTemperature, MaxTemperature].
func ClampTemperature(t float64) float64 {
	return math.Min(math.Max(t, MinTemperature), MaxTemperature)
}

// suggest returns the closest allow-list entry to input, or "".
func suggest(input string, options []string) string {
	matches := fuzzy.Find(strings.ToLower(input), options)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
