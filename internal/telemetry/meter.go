// ABOUTME: TextGenerator decorator that records every successful call's usage in a Tracker
// ABOUTME: Budget alerts are logged; calls are never blocked

package telemetry

import (
	"context"

	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/pkg/ai"
)

// Meter wraps gen so usage lands in tr.
func Meter(gen ai.TextGenerator, tr *Tracker) ai.TextGenerator {
	return ai.GeneratorFunc(func(ctx context.Context, req ai.Request) (*ai.Response, error) {
		resp, err := gen.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		model := resp.Model
		if model == "" {
			model = req.Model
		}
		for _, a := range tr.Record(model, resp.Usage.InputTokens, resp.Usage.OutputTokens) {
			pilog.Warn("telemetry: budget %s: %s", a.Type, a.Message)
		}
		pilog.Debug("telemetry: model=%s in=%d out=%d cost=$%.5f",
			model, resp.Usage.InputTokens, resp.Usage.OutputTokens,
			EstimateCost(model, resp.Usage.InputTokens, resp.Usage.OutputTokens))
		return resp, nil
	})
}
