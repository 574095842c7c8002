package selection

import (
	"context"
	"sync"
)

// Store persists selection state for the lifetime of one configuration
// session. A session that was never written reads back as an empty state.
type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, sessionID string, state State) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process Store for tests and single-instance dev runs.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if state, ok := m.states[sessionID]; ok {
		return cloneState(state), nil
	}
	return NewState(), nil
}

func (m *MemoryStore) Save(ctx context.Context, sessionID string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[sessionID] = cloneState(state)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

func cloneState(state State) State {
	clone := NewState()
	for name, option := range state.Options {
		clone.Options[name] = option
	}
	for id, on := range state.AddOns {
		clone.AddOns[id] = on
	}
	return clone
}
