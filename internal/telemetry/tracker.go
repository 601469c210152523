// ABOUTME: Cumulative token and cost tracker for upstream model calls with budget alerts
// ABOUTME: Safe for concurrent use; the alert callback runs outside the lock

package telemetry

import (
	"fmt"
	"sync"
)

// Alert types.
const (
	AlertWarning = "warning"
	AlertLimit   = "limit"
)

// Alert reports a budget threshold crossing.
type Alert struct {
	Type     string  `json:"type"`
	SpentUSD float64 `json:"spentUsd"`
	Message  string  `json:"message"`
}

// Summary is a point-in-time view of the tracker.
type Summary struct {
	CallCount         int     `json:"callCount"`
	TotalInputTokens  int     `json:"totalInputTokens"`
	TotalOutputTokens int     `json:"totalOutputTokens"`
	TotalCostUSD      float64 `json:"totalCostUsd"`
	BudgetUSD         float64 `json:"budgetUsd,omitempty"`
	BudgetUsedPct     float64 `json:"budgetUsedPct,omitempty"`
	Alerts            []Alert `json:"alerts,omitempty"`
}

// Tracker accumulates usage. A zero budget disables alerts.
type Tracker struct {
	budgetUSD float64
	warnPct   int

	mu      sync.Mutex
	calls   int
	input   int
	output  int
	cost    float64
	warned  bool
	limited bool
	alerts  []Alert
	onAlert func(Alert)
}

// NewTracker creates a tracker that warns at warnPct percent of budgetUSD.
func NewTracker(budgetUSD float64, warnPct int) *Tracker {
	if warnPct <= 0 || warnPct > 100 {
		warnPct = 80
	}
	return &Tracker{budgetUSD: budgetUSD, warnPct: warnPct}
}

// SetAlertCallback registers fn to be called for every new alert.
func (t *Tracker) SetAlertCallback(fn func(Alert)) {
	t.mu.Lock()
	t.onAlert = fn
	t.mu.Unlock()
}

// Record adds one call's usage and returns the alerts it triggered. Each
// threshold fires at most once until Reset.
func (t *Tracker) Record(model string, inputTokens, outputTokens int) []Alert {
	t.mu.Lock()
	t.calls++
	t.input += inputTokens
	t.output += outputTokens
	t.cost += EstimateCost(model, inputTokens, outputTokens)

	var fired []Alert
	if t.budgetUSD > 0 {
		if !t.warned && t.cost >= t.budgetUSD*float64(t.warnPct)/100 {
			t.warned = true
			fired = append(fired, Alert{
				Type:     AlertWarning,
				SpentUSD: t.cost,
				Message:  fmt.Sprintf("spent $%.4f of $%.2f budget (%d%% threshold)", t.cost, t.budgetUSD, t.warnPct),
			})
		}
		if !t.limited && t.cost >= t.budgetUSD {
			t.limited = true
			fired = append(fired, Alert{
				Type:     AlertLimit,
				SpentUSD: t.cost,
				Message:  fmt.Sprintf("spent $%.4f, over the $%.2f budget", t.cost, t.budgetUSD),
			})
		}
	}
	t.alerts = append(t.alerts, fired...)
	cb := t.onAlert
	t.mu.Unlock()

	if cb != nil {
		for _, a := range fired {
			cb(a)
		}
	}
	return fired
}

// Summary returns the current totals.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		CallCount:         t.calls,
		TotalInputTokens:  t.input,
		TotalOutputTokens: t.output,
		TotalCostUSD:      t.cost,
		BudgetUSD:         t.budgetUSD,
		Alerts:            append([]Alert(nil), t.alerts...),
	}
	if t.budgetUSD > 0 {
		s.BudgetUsedPct = t.cost / t.budgetUSD * 100
	}
	return s
}

// Reset clears totals and alerts; the budget is kept.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls, t.input, t.output, t.cost = 0, 0, 0, 0
	t.warned, t.limited = false, false
	t.alerts = nil
}
