// internal/store/memory.go
//
// In-memory registry of live matches.
//
// Characteristics:
//   - Stores *game.Engine values keyed by match ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; matches are never persisted.
//   - Delete closes the engine so its timers and validator calls stop.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordchain/internal/game"
)

// ErrNotFound is returned for unknown match IDs.
var ErrNotFound = errors.New("match not found")

// Store defines the registry interface for live matches.
type Store interface {
	// Save adds or replaces a match.
	Save(ctx context.Context, e *game.Engine) error

	// Get retrieves a match by ID.
	Get(ctx context.Context, id string) (*game.Engine, error)

	// Delete closes and removes a match.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live matches.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex            // guards matches map
	matches map[string]*game.Engine // keyed by Engine.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{matches: make(map[string]*game.Engine)}
}

// Save adds or updates the match in the map. A replaced engine is closed.
func (m *memory) Save(ctx context.Context, e *game.Engine) error {
	m.mu.Lock()
	prev, ok := m.matches[e.ID()]
	m.matches[e.ID()] = e
	m.mu.Unlock()
	if ok && prev != e {
		prev.Close()
	}
	return nil
}

// Get looks up a match by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.matches[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

// Delete removes the match and closes its engine.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.matches[id]
	delete(m.matches, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.Close()
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}
