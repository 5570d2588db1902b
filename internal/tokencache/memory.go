package tokencache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Cache. Expired entries are evicted lazily on
// lookup; there is no sweeping timer. Tokens issued by one process are
// only valid against that process.
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Set stores the token. A non-positive ttl keeps it until deleted.
func (m *Memory) Set(_ context.Context, token string, ttl time.Duration) error {
	var expiry time.Time
	if ttl > 0 {
		expiry = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[token] = expiry
	m.mu.Unlock()
	return nil
}

// Exists reports token presence, evicting it first if its TTL elapsed.
func (m *Memory) Exists(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.entries[token]
	if !ok {
		return false, nil
	}
	if !expiry.IsZero() && m.now().After(expiry) {
		delete(m.entries, token)
		return false, nil
	}
	return true, nil
}

// Delete removes the token. Deleting an absent token is not an error.
func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
	return nil
}
