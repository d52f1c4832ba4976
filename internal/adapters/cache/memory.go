package cache

import (
	"context"
	"sync"
	"time"

	"github.com/matchforge/sportadmin/internal/ports"
)

type memoryEntry struct {
	value       any
	fetchedAt   time.Time
	forcedStale bool
	lastAccess  time.Time
}

var _ ports.CacheStore = (*Memory)(nil)

// Memory is the in-process CacheStore. Entries turn stale after the
// freshness window (or when invalidated) and are evicted once untouched for
// the idle window. A single mutex is enough: every operation is a short
// synchronous map access.
type Memory struct {
	mu      sync.Mutex
	entries map[ports.Key]*memoryEntry

	freshFor   time.Duration
	evictAfter time.Duration
	nowFn      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory builds a store whose entries stay fresh for freshFor and are
// evicted after evictAfter without a read or write. A janitor goroutine
// sweeps expired entries; Close stops it.
func NewMemory(freshFor, evictAfter time.Duration) *Memory {
	m := &Memory{
		entries:    make(map[ports.Key]*memoryEntry),
		freshFor:   freshFor,
		evictAfter: evictAfter,
		nowFn:      time.Now,
		stop:       make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Memory) Get(_ context.Context, key ports.Key) (*ports.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	now := m.nowFn()
	if now.Sub(e.lastAccess) > m.evictAfter {
		delete(m.entries, key)
		return nil, nil
	}
	e.lastAccess = now
	return &ports.Entry{
		Value:     e.value,
		FetchedAt: e.fetchedAt,
		Stale:     e.forcedStale || now.Sub(e.fetchedAt) > m.freshFor,
	}, nil
}

func (m *Memory) Set(_ context.Context, key ports.Key, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFn()
	m.entries[key] = &memoryEntry{
		value:      value,
		fetchedAt:  now,
		lastAccess: now,
	}
	return nil
}

func (m *Memory) MarkStale(_ context.Context, key ports.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		e.forcedStale = true
	}
	return nil
}

func (m *Memory) InvalidateScope(_ context.Context, resource, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.entries {
		if key.Resource == resource && key.Kind == kind {
			e.forcedStale = true
		}
	}
	return nil
}

func (m *Memory) Remove(_ context.Context, key ports.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Len reports the number of live entries. Intended for tests and metrics.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) janitor() {
	interval := m.evictAfter / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFn()
	for key, e := range m.entries {
		if now.Sub(e.lastAccess) > m.evictAfter {
			delete(m.entries, key)
		}
	}
}
