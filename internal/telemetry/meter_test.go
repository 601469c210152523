// ABOUTME: Tests for the metering TextGenerator decorator
// ABOUTME: Successful calls are recorded under the response model; failures are not

package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/mauromedda/unpack/pkg/ai"
)

func TestMeter(t *testing.T) {
	t.Parallel()

	fail := false
	gen := ai.GeneratorFunc(func(_ context.Context, req ai.Request) (*ai.Response, error) {
		if fail {
			return nil, ai.ErrUpstreamRateLimit
		}
		model := ""
		if req.MaxTokens == 500 {
			model = "claude-3-opus-20240229"
		}
		return &ai.Response{Text: "ok", Model: model, Usage: ai.Usage{InputTokens: 1000, OutputTokens: 0}}, nil
	})

	tr := NewTracker(0, 80)
	metered := Meter(gen, tr)

	// No model in the response: priced by the requested model.
	if _, err := metered.Generate(context.Background(), ai.Request{Model: "claude-3-haiku-20240307"}); err != nil {
		t.Fatal(err)
	}
	// The response model wins.
	if _, err := metered.Generate(context.Background(), ai.Request{Model: "claude-3-haiku-20240307", MaxTokens: 500}); err != nil {
		t.Fatal(err)
	}
	fail = true
	if _, err := metered.Generate(context.Background(), ai.Request{}); !errors.Is(err, ai.ErrUpstreamRateLimit) {
		t.Errorf("error not passed through: %v", err)
	}

	s := tr.Summary()
	if s.CallCount != 2 {
		t.Errorf("CallCount = %d, want 2", s.CallCount)
	}
	want := EstimateCost("claude-3-haiku-20240307", 1000, 0) + EstimateCost("claude-3-opus-20240229", 1000, 0)
	if s.TotalCostUSD != want {
		t.Errorf("TotalCostUSD = %v, want %v", s.TotalCostUSD, want)
	}
}
