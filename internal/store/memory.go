package store

import (
	"slices"
	"sync"
)

// Memory is an in-memory store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]Record
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]Record),
	}
}

// Get retrieves a session by id.
func (m *Memory) Get(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.data[id]; ok {
		return &r, nil
	}
	return nil, nil
}

// Put stores a session.
func (m *Memory) Put(id string, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = stamp(r)
	return nil
}

// Delete removes a session.
func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// List returns all session ids.
func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
