// ABOUTME: Typed event bus: ordered synchronous handlers plus buffered channel subscriptions
// ABOUTME: Session controllers publish turn events; the chat UI consumes them through Channel

package eventbus

import "sync"

// Handler is a callback function for events.
type Handler[T any] func(T)

type subscriber[T any] struct {
	id int
	fn Handler[T]
}

// Bus delivers events to handlers in subscription order.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []subscriber[T]
	nextID int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an idempotent unsubscribe function.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber[T]{id: id, fn: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Channel subscribes a channel with the given buffer. Publish blocks on a full
// buffer until the reader drains it or calls cancel. The channel is never closed.
func (b *Bus[T]) Channel(size int) (<-chan T, func()) {
	ch := make(chan T, size)
	done := make(chan struct{})
	unsub := b.Subscribe(func(ev T) {
		select {
		case ch <- ev:
		case <-done:
		}
	})
	cancel := sync.OnceFunc(func() {
		unsub()
		close(done)
	})
	return ch, cancel
}

// Publish sends event to every handler, synchronously and in subscription order.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	snapshot := make([]Handler[T], len(b.subs))
	for i, s := range b.subs {
		snapshot[i] = s.fn
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
