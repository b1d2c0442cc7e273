// Package memory holds in-process adapter implementations for single-instance
// deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// IdempotencyCache is a process-local TTL map from idempotency key to
// transition result. In a horizontally scaled deployment duplicate requests
// routed to different instances are not deduplicated; use the Redis cache
// there instead.
type IdempotencyCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	res       *domain.TransitionResult
	expiresAt time.Time
}

func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for the key. Expired entries are dropped on
// read.
func (c *IdempotencyCache) Get(_ context.Context, key string) (*domain.TransitionResult, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.res, true, nil
}

// Set stores the result under the key for the given TTL.
func (c *IdempotencyCache) Set(_ context.Context, key string, res *domain.TransitionResult, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = cacheEntry{res: res, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *IdempotencyCache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Janitor sweeps expired entries at the given interval until ctx is done.
func (c *IdempotencyCache) Janitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

var _ port.IdempotencyCache = (*IdempotencyCache)(nil)
