// ABOUTME: Offline evaluation of a prompt: confidence result, forward category and greeting flag
// ABOUTME: Shared by the engine, the classify command and the MCP tools; never calls a model

package engine

import (
	"github.com/mauromedda/unpack/internal/clarify"
	"github.com/mauromedda/unpack/internal/config"
	pilog "github.com/mauromedda/unpack/internal/log"
)

// Evaluation is a scored prompt plus its routing.
type Evaluation struct {
	clarify.Result
	Category clarify.Category `json:"category"`
	Casual   bool             `json:"casualGreeting"`
}

// Evaluate scores prompt against snap and classifies it.
func Evaluate(snap *config.Snapshot, prompt string) Evaluation {
	return Evaluation{
		Result:   snap.Scorer.Evaluate(prompt),
		Category: snap.Templates.Classify(prompt),
		Casual:   clarify.IsCasualGreeting(prompt),
	}
}

func logEvaluation(d config.Debug, prompt string, ev Evaluation) {
	if d.Patterns() {
		for _, s := range ev.Signals {
			pilog.Info("engine: %s matched %q for %q", s.Name, s.Detail, pilog.Preview(prompt, 50))
		}
	}
	if d.Confidence() {
		pilog.Info("engine: confidence=%.2f decision=%t vague=%t keyword=%t clarify=%t category=%s",
			ev.Confidence, ev.DecisionHit, ev.VagueHit, ev.KeywordHit, ev.NeedsClarification, ev.Category)
	}
}
