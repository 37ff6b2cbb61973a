package token

import (
	"context"
	"sync"
	"time"
)

// Cache stores credentials between requests. Implementations own expiry;
// Get never returns an expired entry.
type Cache interface {
	Get(ctx context.Context, clientID string) (*Credential, bool, error)
	Set(ctx context.Context, clientID string, cred *Credential, ttl time.Duration) error
}

type memoryEntry struct {
	cred      Credential
	expiresAt time.Time
}

// MemoryCache is a process-local credential cache for single-instance
// deployments and tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache constructs an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, clientID string) (*Credential, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[clientID]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, clientID)
		return nil, false, nil
	}
	cred := entry.cred
	return &cred, true, nil
}

func (c *MemoryCache) Set(_ context.Context, clientID string, cred *Credential, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[clientID] = memoryEntry{cred: *cred, expiresAt: c.now().Add(ttl)}
	return nil
}
