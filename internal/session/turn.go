// ABOUTME: Clarification turn state machine: awaiting answers, locked (answered or skipped), delivered
// ABOUTME: Submit and Skip lock synchronously and hand out the final request exactly once

package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mauromedda/unpack/internal/engine"
)

// Turn state errors.
var (
	ErrLocked        = errors.New("turn is locked")
	ErrNoSuchAnswer  = errors.New("no question at that index")
	ErrNotClarifying = errors.New("turn is not a clarification turn")
)

// State is the lifecycle position of a clarification turn.
type State int

const (
	StateAwaiting State = iota
	StateAnswered       // locked with at least one non-blank answer
	StateSkipped        // locked without answers
	StateDelivered      // final answer or error appended
)

var stateNames = [...]string{"awaiting", "answered", "skipped", "delivered"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// ClarifyTurn holds the questions of one clarification turn and the user's
// answers. It is safe for concurrent use.
type ClarifyTurn struct {
	ID        string
	Prompt    string
	Message   string
	Questions []string

	mu        sync.Mutex
	answers   []string
	state     State
	skipped   bool
	answered  int
	inFlight  bool
	overrides engine.Overrides
}

// NewClarifyTurn creates an awaiting turn for prompt.
func NewClarifyTurn(id, prompt, message string, questions []string) *ClarifyTurn {
	return &ClarifyTurn{
		ID:        id,
		Prompt:    prompt,
		Message:   message,
		Questions: append([]string(nil), questions...),
		answers:   make([]string, len(questions)),
	}
}

// SetAnswer records the answer to question i. Locked turns reject edits.
func (t *ClarifyTurn) SetAnswer(i int, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateAwaiting {
		return ErrLocked
	}
	if i < 0 || i >= len(t.answers) {
		return fmt.Errorf("%w: %d", ErrNoSuchAnswer, i)
	}
	t.answers[i] = text
	return nil
}

// Answers returns a copy of the answers, blank ones included.
func (t *ClarifyTurn) Answers() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.answers...)
}

// State returns the current state.
func (t *ClarifyTurn) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Locked reports whether answers can no longer change.
func (t *ClarifyTurn) Locked() bool {
	return t.State() != StateAwaiting
}

// Pending reports whether the final request is outstanding.
func (t *ClarifyTurn) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Submit locks the turn and returns its final request. With every answer
// blank it behaves exactly like Skip.
func (t *ClarifyTurn) Submit() (engine.FinalRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateAwaiting {
		return engine.FinalRequest{}, ErrLocked
	}

	var used []string
	for _, a := range t.answers {
		if strings.TrimSpace(a) != "" {
			used = append(used, a)
		}
	}
	if len(used) == 0 {
		return t.lockSkipped(), nil
	}

	t.state = StateAnswered
	t.answered = len(used)
	t.inFlight = true
	return engine.FinalRequest{
		Prompt:                t.Prompt,
		Clarifications:        used,
		SkipClarifications:    false,
		FromClarificationFlow: true,
		Overrides:             t.overrides,
	}, nil
}

// Skip locks the turn without answers and returns its final request.
func (t *ClarifyTurn) Skip() (engine.FinalRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateAwaiting {
		return engine.FinalRequest{}, ErrLocked
	}
	return t.lockSkipped(), nil
}

func (t *ClarifyTurn) lockSkipped() engine.FinalRequest {
	t.state = StateSkipped
	t.skipped = true
	t.inFlight = true
	return engine.FinalRequest{
		Prompt:                t.Prompt,
		SkipClarifications:    true,
		FromClarificationFlow: true,
		Overrides:             t.overrides,
	}
}

// deliver marks the final request as finished.
func (t *ClarifyTurn) deliver() {
	t.mu.Lock()
	t.state = StateDelivered
	t.inFlight = false
	t.mu.Unlock()
}

// WasSkipped reports whether the turn locked without answers.
func (t *ClarifyTurn) WasSkipped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.skipped
}

// Summary is the status line shown once the turn is locked, "" before.
func (t *ClarifyTurn) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.state == StateAwaiting:
		return ""
	case t.skipped:
		return "✓ Skipped"
	default:
		return fmt.Sprintf("✓ %d/%d answered", t.answered, len(t.Questions))
	}
}
