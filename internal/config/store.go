// ABOUTME: Process-wide backend configuration store: atomic snapshot reads, serialized merges
// ABOUTME: A patch is decoded onto a clone of the live config, compiled, then swapped in whole

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	pilog "github.com/mauromedda/unpack/internal/log"
)

// Store holds the live backend Snapshot. Reads never block; writers are serialized
// so two concurrent merges cannot drop each other's fields.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore compiles b and makes it the live snapshot.
func NewStore(b Backend) (*Store, error) {
	snap, err := Compile(b)
	if err != nil {
		return nil, err
	}
	s := &Store{}
	s.current.Store(snap)
	return s, nil
}

// MustNewStore is NewStore for configurations known to compile, such as DefaultBackend.
func MustNewStore(b Backend) *Store {
	s, err := NewStore(b)
	if err != nil {
		panic(err)
	}
	return s
}

// Load returns the live snapshot. Callers must treat it as read-only.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}

// MergeJSON applies a partial JSON document: present fields replace the live
// ones, nested objects merge field by field, lists and templates are replaced
// whole. On any error the live snapshot is left untouched.
func (s *Store) MergeJSON(patch []byte) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().Backend.Clone()
	dec := json.NewDecoder(bytes.NewReader(patch))
	if err := dec.Decode(&next); err != nil {
		return nil, fmt.Errorf("decode backend config: %w", err)
	}
	return s.swapLocked(next)
}

// Replace compiles b and swaps it in whole.
func (s *Store) Replace(b Backend) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swapLocked(b)
}

func (s *Store) swapLocked(b Backend) (*Snapshot, error) {
	snap, err := Compile(b)
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	pilog.Debug("config: backend snapshot swapped (%d decision, %d vague, %d keywords)",
		len(b.ClarificationRules.Decision), len(b.ClarificationRules.Vague), len(b.ClarificationRules.Keywords))
	return snap, nil
}
