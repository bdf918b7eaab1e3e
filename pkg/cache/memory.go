package cache

import "sync"

// Memory is a Store kept in a map. The zero value is ready to use.
type Memory[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewMemory returns an empty in-process store.
func NewMemory[K comparable, V any]() *Memory[K, V] {
	return &Memory[K, V]{entries: map[K]V{}}
}

func (m *Memory[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

func (m *Memory[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[K]V{}
	}
	m.entries[key] = value
}

func (m *Memory[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear drops every entry.
func (m *Memory[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

func (m *Memory[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Programs returns a Memory suited to caching compiled expressions.
func Programs() *Memory[string, any] {
	return NewMemory[string, any]()
}
