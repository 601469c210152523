// ABOUTME: Per-model pricing for the model catalog and cost estimation per call
// ABOUTME: Dated model IDs resolve through the longest matching prefix

package telemetry

import "strings"

// ModelPricing holds per-million-token rates for a model.
type ModelPricing struct {
	InputPerMillion  float64 // USD per million input tokens
	OutputPerMillion float64 // USD per million output tokens
}

// defaultPricing is keyed by model ID prefix.
var defaultPricing = map[string]ModelPricing{
	"claude-3-haiku":   {InputPerMillion: 0.25, OutputPerMillion: 1.25},
	"claude-3-sonnet":  {InputPerMillion: 3.0, OutputPerMillion: 15.0},
	"claude-3-opus":    {InputPerMillion: 15.0, OutputPerMillion: 75.0},
	"gemini-2.0-flash": {InputPerMillion: 0.10, OutputPerMillion: 0.40},
}

// fallbackPricing is used when the model is not in the table.
var fallbackPricing = ModelPricing{InputPerMillion: 3.0, OutputPerMillion: 15.0}

// LookupPricing returns the pricing for a model ID: exact match, then longest
// prefix, then the fallback rate.
func LookupPricing(modelID string) ModelPricing {
	if p, ok := defaultPricing[modelID]; ok {
		return p
	}

	bestKey := ""
	for key := range defaultPricing {
		if strings.HasPrefix(modelID, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return defaultPricing[bestKey]
	}
	return fallbackPricing
}

// EstimateCost returns the estimated cost in USD for a given model and token counts.
func EstimateCost(modelID string, inputTokens, outputTokens int) float64 {
	p := LookupPricing(modelID)
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}
