package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kurosh87/optimalflight/internal/models"
)

// MemoryCache is a process-local Cache used in tests and keyless runs.
// Writes are last-write-wins, matching the persisted cache semantics.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry

	// now is swappable so expiry behavior is testable.
	now func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]models.CacheEntry),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.now = now
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.CacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || entry.Expired(c.now()) {
		return nil, false
	}
	return &entry, true
}

func (c *MemoryCache) Set(_ context.Context, entry models.CacheEntry) error {
	c.mu.Lock()
	c.entries[entry.QueryHash] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}
