// Package cache holds the server-side result cache: one contract, an
// in-process implementation and an optional Postgres-backed one for
// multi-replica deployments.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a cached estimate stays usable.
const DefaultTTL = 60 * time.Second

// Store is the result cache contract. Get must treat an expired entry as
// absent; Put always overwrites and restarts the TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, response []byte) error
	Close() error
}

type entry struct {
	response []byte
	expires  time.Time
}

// Memory is a mutex-guarded TTL map. There is no capacity bound: keys are
// derived from normalized bounded-cardinality input. Stale entries are
// removed lazily, on the lookup that finds them.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return e.response, true
}

func (m *Memory) Put(_ context.Context, key string, response []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{response: response, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Close() error { return nil }
