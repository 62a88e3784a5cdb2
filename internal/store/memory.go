package store

import (
	"sort"
	"sync"
)

// MemoryBackend is a map-backed Backend used for ephemeral sessions and tests.
// Fail switches it into a mode where every operation returns the given error,
// the way a browser behaves with storage disabled.
type MemoryBackend struct {
	mu     sync.Mutex
	items  map[string]string
	failOn error
	writes int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: map[string]string{}}
}

func (m *MemoryBackend) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return "", false, m.failOn
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryBackend) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return m.failOn
	}
	m.items[key] = value
	m.writes++
	return nil
}

// Fail makes every subsequent operation return err; Fail(nil) heals it.
func (m *MemoryBackend) Fail(err error) {
	m.mu.Lock()
	m.failOn = err
	m.mu.Unlock()
}

// Writes counts successful SetItem calls.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryBackend) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return nil, m.failOn
	}
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
