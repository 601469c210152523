// ABOUTME: Provider registry routing a Request to the provider serving its model's API
// ABOUTME: Thread-safe registration and lookup; the Registry itself is a TextGenerator

package ai

import (
	"context"
	"fmt"
	"sync"
)

// Provider is a TextGenerator bound to one API.
type Provider interface {
	TextGenerator

	// Api returns the provider's API identifier.
	Api() Api
}

// Registry maps APIs to providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[Api]Provider
}

// NewRegistry creates a registry holding the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[Api]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces the provider for p.Api().
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	r.providers[p.Api()] = p
	r.mu.Unlock()
}

// Get returns the provider for api, or nil.
func (r *Registry) Get(api Api) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[api]
}

// Has reports whether a provider is registered for api.
func (r *Registry) Has(api Api) bool {
	return r.Get(api) != nil
}

// Generate resolves req.Model in the catalog and forwards to its provider.
func (r *Registry) Generate(ctx context.Context, req Request) (*Response, error) {
	m := FindModel(req.Model)
	if m == nil {
		return nil, &UpstreamError{Kind: KindMalformedRequest, Message: fmt.Sprintf("unknown model %q", req.Model)}
	}
	p := r.Get(m.Api)
	if p == nil {
		return nil, &UpstreamError{Kind: KindUnknown, Message: fmt.Sprintf("no provider registered for %s", m.Api)}
	}
	return p.Generate(ctx, req)
}
