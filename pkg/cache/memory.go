package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	expiresAt time.Time // zero never expires
	value     V
	key       string
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryConfig configures the in-memory cache.
type MemoryConfig struct {
	DefaultTTL      time.Duration // used when Set gets a zero TTL; default 1h
	CleanupInterval time.Duration // janitor period; zero disables the janitor
	MaxEntries      int           // LRU bound; zero is unlimited
}

// Memory is an in-process cache with TTL expiry and optional LRU eviction.
type Memory[V any] struct {
	cfg   MemoryConfig
	items map[string]*list.Element
	lru   *list.List // front is most recently used
	now   func() time.Time
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewMemory creates an in-memory cache. Call Close to stop the janitor.
func NewMemory[V any](cfg MemoryConfig) *Memory[V] {
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = time.Hour
	}

	m := &Memory[V]{
		cfg:   cfg,
		items: make(map[string]*list.Element),
		lru:   list.New(),
		now:   time.Now,
		done:  make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	elem, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	e := elem.Value.(*entry[V])
	if e.expired(m.now()) {
		m.remove(elem)
		return zero, ErrNotFound
	}

	m.lru.MoveToFront(elem)
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.cfg.DefaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value, e.expiresAt = value, expiresAt
		m.lru.MoveToFront(elem)
		return nil
	}

	if m.cfg.MaxEntries > 0 && len(m.items) >= m.cfg.MaxEntries {
		if oldest := m.lru.Back(); oldest != nil {
			m.remove(oldest)
		}
	}

	m.items[key] = m.lru.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor. It is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory[V]) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for elem := m.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry[V]).expired(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

// remove requires m.mu.
func (m *Memory[V]) remove(elem *list.Element) {
	m.lru.Remove(elem)
	delete(m.items, elem.Value.(*entry[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
