package session

import (
	"context"
	"sync"
)

// Manager holds the active snapshot. Load builds a complete new snapshot
// before swapping it in; a failed load leaves the prior snapshot active.
type Manager struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{}
}

// Load replaces the active snapshot with a freshly loaded one. On error
// the prior snapshot remains active and is returned by Current.
func (m *Manager) Load(ctx context.Context, src Source) (*Snapshot, error) {
	snap, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = snap
	m.mu.Unlock()
	return snap, nil
}

// Current returns the active snapshot, or nil before the first successful
// load or after Reset.
func (m *Manager) Current() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset discards the active snapshot.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}
