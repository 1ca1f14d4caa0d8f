package archive

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store for tests and ephemeral pipelines.
type Memory struct {
	mu     sync.RWMutex
	frames map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{frames: make(map[string][]byte)}
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, name string, data []byte) error {
	if name == "" {
		return ErrEmptyName
	}

	own := make([]byte, len(data))
	copy(own, data)

	m.mu.Lock()
	m.frames[name] = own
	m.mu.Unlock()
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.frames[name]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.frames, name)
	m.mu.Unlock()
	return nil
}

// List implements Store.
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.frames))
	for name := range m.frames {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	m.mu.RUnlock()

	sort.Strings(names)
	return names, nil
}

// Len returns the stored frame count.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.frames)
}
