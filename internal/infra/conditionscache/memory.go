package conditionscache

import (
	"context"
	"sync"
	"time"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
)

type memoryEntry struct {
	cond      conditions.Conditions
	expiresAt time.Time
}

// MemoryCache is an in-memory conditions cache for tests and single-process
// deployments without Valkey.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (conditions.Conditions, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return conditions.Conditions{}, false, nil
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(time.Now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return conditions.Conditions{}, false, nil
	}
	return entry.cond, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, cond conditions.Conditions, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{cond: cond, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

var _ conditions.Cache = (*MemoryCache)(nil)
