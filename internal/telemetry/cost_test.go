// ABOUTME: Tests for per-model pricing lookup and cost estimation
// ABOUTME: Covers catalog IDs, dated prefixes, fallback and token arithmetic

package telemetry

import (
	"math"
	"strings"
	"testing"

	"github.com/mauromedda/unpack/pkg/ai"
)

func TestLookupPricing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		modelID string
		wantIn  float64
		wantOut float64
	}{
		{"claude-3-haiku-20240307", 0.25, 1.25},
		{"claude-3-sonnet-20240229", 3.0, 15.0},
		{"claude-3-opus-20240229", 15.0, 75.0},
		{"gemini-2.0-flash", 0.10, 0.40},
		{"gemini-2.0-flash-exp", 0.10, 0.40},
		{"claude-3-opus", 15.0, 75.0},
		{"unknown-model", 3.0, 15.0},
		{"", 3.0, 15.0},
	}
	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			t.Parallel()
			got := LookupPricing(tt.modelID)
			if got.InputPerMillion != tt.wantIn || got.OutputPerMillion != tt.wantOut {
				t.Errorf("LookupPricing(%q) = %+v, want in=%v out=%v", tt.modelID, got, tt.wantIn, tt.wantOut)
			}
		})
	}
}

func TestLookupPricing_CoversCatalog(t *testing.T) {
	t.Parallel()
	for _, id := range ai.ModelIDs() {
		priced := false
		for prefix := range defaultPricing {
			if strings.HasPrefix(id, prefix) {
				priced = true
			}
		}
		if !priced {
			t.Errorf("%s has no pricing entry", id)
		}
	}
}

func TestEstimateCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		model  string
		input  int
		output int
		want   float64
	}{
		// (1000/1M)*0.25 + (500/1M)*1.25
		{"haiku", "claude-3-haiku-20240307", 1000, 500, 0.000875},
		{"opus one million each", "claude-3-opus-20240229", 1_000_000, 1_000_000, 90.0},
		{"zero", "claude-3-sonnet-20240229", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EstimateCost(tt.model, tt.input, tt.output); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EstimateCost = %v, want %v", got, tt.want)
			}
		})
	}
}
