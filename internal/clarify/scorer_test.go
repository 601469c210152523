// ABOUTME: Table-driven tests for the confidence scorer and casual greeting detection
// ABOUTME: Covers skip precedence, fuzzy second pass, zero-signal prompts and custom thresholds

package clarify

import (
	"math"
	"testing"
)

func defaultScorer() *Scorer {
	return NewScorer(MustCompile(DefaultSources()), DefaultScorerConfig())
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		prompt       string
		wantDecision bool
		wantVague    bool
		wantKeyword  bool
		wantConf     float64
		wantNeeds    bool
	}{
		{"job offer", "should I take this job offer", true, false, true, 0.7, true},
		{"typo only", "shoud i quit", true, false, false, 0.4, true},
		{"vague only", "am i right about this", false, true, false, 0.3, false},
		{"vague plus keyword", "i wonder what my vacation should be", false, true, true, 0.6, true},
		{"all three", "what do you think about my career", true, true, true, 1.0, true},
		{"nothing", "the sky is blue today", false, false, false, 0, false},
		{"uppercase", "SHOULD I BUY A HOUSE", true, false, true, 0.7, true},
	}

	s := defaultScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := s.Evaluate(tt.prompt)
			if r.DecisionHit != tt.wantDecision || r.VagueHit != tt.wantVague || r.KeywordHit != tt.wantKeyword {
				t.Errorf("hits = (%v,%v,%v), want (%v,%v,%v); signals=%+v",
					r.DecisionHit, r.VagueHit, r.KeywordHit,
					tt.wantDecision, tt.wantVague, tt.wantKeyword, r.Signals)
			}
			if !approx(r.Confidence, tt.wantConf) {
				t.Errorf("confidence = %v, want %v", r.Confidence, tt.wantConf)
			}
			if r.NeedsClarification != tt.wantNeeds {
				t.Errorf("needsClarification = %v, want %v", r.NeedsClarification, tt.wantNeeds)
			}
		})
	}
}

func TestEvaluateSkipTakesPrecedence(t *testing.T) {
	t.Parallel()

	s := defaultScorer()
	prompts := []string{
		"what is the best career advice",
		"what is the capital of France",
		"how to choose the best job",
		"explain which investment is better",
		"  tell me about dating advice",
		"List the best books",
	}
	for _, p := range prompts {
		r := s.Evaluate(p)
		if r.NeedsClarification {
			t.Errorf("Evaluate(%q) needs clarification, want skip", p)
		}
		if !r.Skipped || r.Confidence != 0 {
			t.Errorf("Evaluate(%q) = %+v, want skipped with zero confidence", p, r)
		}
		if len(r.Signals) != 1 || r.Signals[0].Name != SignalSkip {
			t.Errorf("Evaluate(%q) signals = %+v, want one skip signal", p, r.Signals)
		}
	}
}

func TestEvaluateFuzzyOnlyAfterExactMiss(t *testing.T) {
	t.Parallel()

	s := defaultScorer()

	r := s.Evaluate("should i learn go")
	if len(r.Signals) == 0 || r.Signals[0].Name != SignalDecision {
		t.Fatalf("exact match should be reported as decision_pattern, got %+v", r.Signals)
	}

	r = s.Evaluate("can you recomend a laptop")
	if !r.DecisionHit {
		t.Fatal("expected fuzzy decision hit")
	}
	if r.Signals[0].Name != SignalFuzzy || r.Signals[0].Detail != `recomend\b` {
		t.Errorf("signal = %+v, want fuzzy recomend", r.Signals[0])
	}
}

func TestEvaluateZeroSignalsNeverTrigger(t *testing.T) {
	t.Parallel()

	s := NewScorer(MustCompile(DefaultSources()), ScorerConfig{Weights: DefaultWeights(), MinConfidence: 1e-6})
	r := s.Evaluate("the sky is blue today")
	if r.NeedsClarification || r.Confidence != 0 {
		t.Errorf("got %+v, want no clarification", r)
	}
}

func TestEvaluateCustomWeights(t *testing.T) {
	t.Parallel()

	s := NewScorer(MustCompile(DefaultSources()), ScorerConfig{
		Weights:       Weights{Decision: 1, Vague: 0, Keyword: 0},
		MinConfidence: 0.5,
	})

	if r := s.Evaluate("am i right about this"); r.NeedsClarification {
		t.Errorf("vague-only prompt should not clear a decision-only threshold: %+v", r)
	}
	if r := s.Evaluate("which one"); !r.NeedsClarification || !approx(r.Confidence, 1) {
		t.Errorf("decision prompt = %+v, want confidence 1", r)
	}
}

func TestEvaluateMaxConfidenceIgnored(t *testing.T) {
	t.Parallel()

	cfg := DefaultScorerConfig()
	cfg.MaxConfidence = 0.5
	s := NewScorer(MustCompile(DefaultSources()), cfg)
	r := s.Evaluate("what do you think about my career")
	if !r.NeedsClarification {
		t.Errorf("confidence above maxConfidence must still clarify: %+v", r)
	}
}

func TestEvaluateConfigUsedAsGiven(t *testing.T) {
	t.Parallel()
	ps := MustCompile(DefaultSources())

	zeroWeights := NewScorer(ps, ScorerConfig{MinConfidence: 0.4})
	if r := zeroWeights.Evaluate("should I take this job offer"); r.Confidence != 0 || r.NeedsClarification {
		t.Errorf("zero weights = %+v, want zero confidence", r)
	}

	zeroThreshold := NewScorer(ps, ScorerConfig{Weights: DefaultWeights()})
	if r := zeroThreshold.Evaluate("am i right about this"); !r.NeedsClarification || !approx(r.Confidence, 0.3) {
		t.Errorf("zero threshold = %+v, want clarification at 0.3", r)
	}
	if r := zeroThreshold.Evaluate("the sky is blue today"); r.NeedsClarification {
		t.Errorf("zero threshold clarified a prompt with no signals: %+v", r)
	}
}

func TestEvaluateGreetingIsScored(t *testing.T) {
	t.Parallel()

	src := DefaultSources()
	src.Keywords = append(src.Keywords, "help")
	s := NewScorer(MustCompile(src), ScorerConfig{Weights: DefaultWeights(), MinConfidence: 0.3})

	const p = "how can you help"
	if !IsCasualGreeting(p) {
		t.Fatalf("%q should read as a casual greeting", p)
	}
	if r := s.Evaluate(p); !r.KeywordHit || !r.NeedsClarification {
		t.Errorf("Evaluate(%q) = %+v, want the added keyword to clarify", p, r)
	}
	if r := defaultScorer().Evaluate("Hello"); r.NeedsClarification || len(r.Signals) != 0 {
		t.Errorf("Evaluate(Hello) = %+v, want no signals", r)
	}
}

func TestIsCasualGreeting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"hi", true},
		{"Good Morning", true},
		{"how's it going", true},
		{"test123", true},
		{"hi there, should I move?", false},
		{"what is love", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCasualGreeting(tt.in); got != tt.want {
			t.Errorf("IsCasualGreeting(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompileRejectsBadPattern(t *testing.T) {
	t.Parallel()

	src := DefaultSources()
	src.Vague = append(src.Vague, `(unclosed`)
	if _, err := Compile(src); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}

func TestDefaultSourcesIsACopy(t *testing.T) {
	t.Parallel()

	a := DefaultSources()
	a.Decision[0] = "mutated"
	if b := DefaultSources(); b.Decision[0] == "mutated" {
		t.Error("DefaultSources must not share backing arrays")
	}
}
