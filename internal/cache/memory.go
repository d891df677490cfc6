package cache

import (
	"bytes"
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a Memory cache when no limit is configured.
const DefaultMaxEntries = 500

// Memory is an in-process cache. When full, the entry inserted earliest is
// evicted regardless of how recently it was read. Expired entries are
// removed when read.
type Memory struct {
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	order   *list.List // front = oldest insertion
	entries map[string]*list.Element
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithNow overrides the time source.
func WithNow(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates a cache holding at most maxEntries values.
func NewMemory(maxEntries int, opts ...MemoryOption) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	m := &Memory{
		maxEntries: maxEntries,
		now:        time.Now,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the value for key if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*memoryEntry)
	if !m.now().Before(e.expiresAt) {
		m.remove(el)
		return nil, false
	}
	return bytes.Clone(e.value), true
}

// Set stores value under key. Overwriting a key counts as a new insertion.
// A non-positive ttl stores nothing.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}
	for m.order.Len() >= m.maxEntries {
		m.remove(m.order.Front())
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	m.entries[key] = m.order.PushBack(&memoryEntry{
		key:       key,
		value:     cp,
		expiresAt: m.now().Add(ttl),
	})
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) remove(el *list.Element) {
	e := m.order.Remove(el).(*memoryEntry)
	delete(m.entries, e.key)
}
