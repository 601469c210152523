// ABOUTME: Session controller: sends prompts, appends result turns and closes clarification turns
// ABOUTME: Each locked turn issues exactly one generate-final call; failures become error turns

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mauromedda/unpack/internal/engine"
	"github.com/mauromedda/unpack/internal/eventbus"
	pilog "github.com/mauromedda/unpack/internal/log"
)

// Error texts shown in place of an answer.
const (
	ErrTextRequest  = "I'm sorry, I encountered an error processing your request. Please try again."
	ErrTextAnswered = "I'm sorry, I encountered an error generating your personalized answer. Please try again."
	ErrTextSkipped  = "I'm sorry, I encountered an error generating your answer. Please try again."
)

// Controller errors.
var (
	ErrEmptyPrompt = errors.New("prompt is empty")
	ErrBusy        = errors.New("a prompt is already being processed")
)

// API is the subset of the server API the controller drives.
type API interface {
	CheckAndRespond(ctx context.Context, req engine.CheckRequest) (*engine.CheckResponse, error)
	GenerateFinal(ctx context.Context, req engine.FinalRequest) (*engine.FinalResponse, error)
}

// EventKind names a controller event.
type EventKind int

const (
	EventTurnAdded EventKind = iota
	EventLoading             // TurnID is "" for a prompt, the clarification turn ID otherwise
	EventLoaded
)

// Event is published on the controller's bus.
type Event struct {
	Kind   EventKind
	Turn   Turn
	TurnID string
}

// Controller runs one conversation against an API.
type Controller struct {
	api       API
	conv      *Conversation
	bus       *eventbus.Bus[Event]
	overrides engine.Overrides

	mu      sync.Mutex
	sending bool
	wg      sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithOverrides sends model settings with every request.
func WithOverrides(o engine.Overrides) Option {
	return func(c *Controller) { c.overrides = o }
}

// NewController creates a controller with an empty conversation.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:  api,
		conv: NewConversation(),
		bus:  eventbus.New[Event](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Conversation returns the conversation being driven.
func (c *Controller) Conversation() *Conversation { return c.conv }

// Events returns the bus carrying turn and loading events.
func (c *Controller) Events() *eventbus.Bus[Event] { return c.bus }

// Overrides returns the model settings sent with new requests.
func (c *Controller) Overrides() engine.Overrides {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overrides
}

// SetOverrides replaces the settings for later prompts. Open clarification
// turns keep the settings they were created with.
func (c *Controller) SetOverrides(o engine.Overrides) {
	c.mu.Lock()
	c.overrides = o
	c.mu.Unlock()
}

// Send appends prompt as a user turn, asks the server whether it needs
// clarification and appends the resulting turn. It blocks for the call.
func (c *Controller) Send(ctx context.Context, prompt string) (Turn, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Turn{}, ErrEmptyPrompt
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return Turn{}, ErrBusy
	}
	c.sending = true
	overrides := c.overrides
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	c.add(Turn{Kind: KindUser, Text: prompt})
	c.bus.Publish(Event{Kind: EventLoading})
	defer c.bus.Publish(Event{Kind: EventLoaded})

	resp, err := c.api.CheckAndRespond(ctx, engine.CheckRequest{Prompt: prompt, Overrides: overrides})
	if err != nil {
		pilog.Warn("session: check-and-respond failed: %v", err)
		return c.add(Turn{Kind: KindError, Text: ErrTextRequest}), nil
	}

	if resp.NeedsClarification {
		id := NewID()
		ct := NewClarifyTurn(id, prompt, resp.Message, resp.Questions)
		ct.overrides = overrides
		return c.add(Turn{ID: id, Kind: KindClarify, Text: resp.Message, Clarify: ct}), nil
	}
	return c.add(Turn{Kind: KindAnswer, Text: resp.Answer}), nil
}

// Submit locks the clarification turn with the current answers and starts its
// final request. A locked turn returns ErrLocked and issues nothing.
func (c *Controller) Submit(ctx context.Context, turnID string) error {
	return c.close(ctx, turnID, (*ClarifyTurn).Submit)
}

// Skip locks the clarification turn without answers and starts its final request.
func (c *Controller) Skip(ctx context.Context, turnID string) error {
	return c.close(ctx, turnID, (*ClarifyTurn).Skip)
}

func (c *Controller) close(ctx context.Context, turnID string, lock func(*ClarifyTurn) (engine.FinalRequest, error)) error {
	ct, err := c.conv.Clarify(turnID)
	if err != nil {
		return err
	}
	req, err := lock(ct)
	if err != nil {
		return err
	}

	c.bus.Publish(Event{Kind: EventLoading, TurnID: turnID})
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.finish(ctx, ct, req)
	}()
	return nil
}

func (c *Controller) finish(ctx context.Context, ct *ClarifyTurn, req engine.FinalRequest) {
	defer c.bus.Publish(Event{Kind: EventLoaded, TurnID: ct.ID})

	resp, err := c.api.GenerateFinal(ctx, req)
	ct.deliver()
	if err != nil {
		pilog.Warn("session: generate-final for %s failed: %v", ct.ID, err)
		text := ErrTextAnswered
		if req.SkipClarifications {
			text = ErrTextSkipped
		}
		c.add(Turn{Kind: KindError, Text: text})
		return
	}
	c.add(Turn{Kind: KindAnswer, Text: resp.Answer})
}

// Wait blocks until every started final request has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) add(t Turn) Turn {
	t = c.conv.Append(t)
	c.bus.Publish(Event{Kind: EventTurnAdded, Turn: t})
	return t
}
