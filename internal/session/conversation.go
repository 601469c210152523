// ABOUTME: Append-only in-memory conversation of user, clarification, answer and error turns
// ABOUTME: Every turn gets a uuid message ID; nothing is persisted

package session

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Kind tells the turn types apart.
type Kind int

const (
	KindUser Kind = iota
	KindClarify
	KindAnswer
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindClarify:
		return "clarify"
	case KindAnswer:
		return "answer"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Turn is one message in the conversation. Clarify is set for KindClarify.
type Turn struct {
	ID      string
	Kind    Kind
	Text    string
	Clarify *ClarifyTurn
}

// Conversation is safe for concurrent use.
type Conversation struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// NewID returns a fresh message ID.
func NewID() string {
	return uuid.NewString()
}

// Append adds t, assigning an ID when it has none, and returns the stored turn.
func (c *Conversation) Append(t Turn) Turn {
	if t.ID == "" {
		t.ID = NewID()
	}
	c.mu.Lock()
	c.turns = append(c.turns, t)
	c.mu.Unlock()
	return t
}

// Turns returns a copy of all turns in order.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.turns)
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Clarify returns the clarification turn with id.
func (c *Conversation) Clarify(id string) (*ClarifyTurn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.turns {
		if t.ID == id {
			if t.Clarify == nil {
				return nil, ErrNotClarifying
			}
			return t.Clarify, nil
		}
	}
	return nil, ErrNotClarifying
}
