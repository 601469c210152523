// ABOUTME: Confidence scorer: skip short-circuit, then weighted decision/vague/keyword signals
// ABOUTME: Fuzzy decision variants are a separate second pass that only runs when exact patterns miss

package clarify

// Weights are the per-signal contributions to confidence. They are expected,
// not required, to sum to 1.0.
type Weights struct {
	Decision float64 `json:"decisionPatterns" yaml:"decisionPatterns"`
	Vague    float64 `json:"vaguePatterns" yaml:"vaguePatterns"`
	Keyword  float64 `json:"keywords" yaml:"keywords"`
}

// DefaultWeights returns 0.4 / 0.3 / 0.3.
func DefaultWeights() Weights {
	return Weights{Decision: 0.4, Vague: 0.3, Keyword: 0.3}
}

// ScorerConfig holds the thresholds for a Scorer.
type ScorerConfig struct {
	Weights       Weights
	MinConfidence float64 // clarification needed at or above this

	// MaxConfidence is carried for the admin API but never consulted.
	MaxConfidence float64
}

// Scorer decides whether a prompt needs clarification. It is immutable and safe for concurrent use.
type Scorer struct {
	patterns *PatternSet
	config   ScorerConfig
}

// DefaultScorerConfig returns the default weights, minConfidence 0.4 and maxConfidence 0.9.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{Weights: DefaultWeights(), MinConfidence: 0.4, MaxConfidence: 0.9}
}

// NewScorer creates a scorer over ps. cfg is used as given: zero weights
// yield zero confidence and a zero threshold clarifies on any hit.
func NewScorer(ps *PatternSet, cfg ScorerConfig) *Scorer {
	return &Scorer{patterns: ps, config: cfg}
}

// Config returns the configuration.
func (s *Scorer) Config() ScorerConfig {
	return s.config
}

// Evaluate scores prompt. A skip pattern short-circuits to
// NeedsClarification=false before any signal is computed.
func (s *Scorer) Evaluate(prompt string) Result {
	text := Normalize(prompt)
	var r Result

	if src, ok := firstMatch(s.patterns.skip, text); ok {
		r.Skipped = true
		r.Signals = append(r.Signals, Signal{Name: SignalSkip, Detail: src})
		return r
	}

	w := s.config.Weights

	if src, ok := firstMatch(s.patterns.decision, text); ok {
		r.DecisionHit = true
		r.Signals = append(r.Signals, Signal{Name: SignalDecision, Weight: w.Decision, Detail: src})
	} else if src, ok := firstMatch(s.patterns.fuzzy, text); ok {
		r.DecisionHit = true
		r.Signals = append(r.Signals, Signal{Name: SignalFuzzy, Weight: w.Decision, Detail: src})
	}

	if src, ok := firstMatch(s.patterns.vague, text); ok {
		r.VagueHit = true
		r.Signals = append(r.Signals, Signal{Name: SignalVague, Weight: w.Vague, Detail: src})
	}

	if kw, ok := firstKeyword(s.patterns.keywords, text); ok {
		r.KeywordHit = true
		r.Signals = append(r.Signals, Signal{Name: SignalKeyword, Weight: w.Keyword, Detail: kw})
	}

	r.Confidence = b2f(r.DecisionHit)*w.Decision + b2f(r.VagueHit)*w.Vague + b2f(r.KeywordHit)*w.Keyword
	r.NeedsClarification = r.Confidence > 0 && r.Confidence >= s.config.MinConfidence
	return r
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
