package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/exchange"
)

// MemoryCache implements RateCache using in-memory storage
type MemoryCache struct {
	cache map[currency.Code]*cacheEntry
	mu    sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	rate      exchange.Rate
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache that evicts expired entries
// every cleanupInterval. A non-positive interval disables the sweeper.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		cache: make(map[currency.Code]*cacheEntry),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.cleanup(cleanupInterval)
	}
	return c
}

// Get retrieves a rate from cache
func (c *MemoryCache) Get(_ context.Context, code currency.Code) (*exchange.Rate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[code]
	if !exists || c.now().After(entry.expiresAt) {
		return nil, nil
	}
	rate := entry.rate
	return &rate, nil
}

// Set stores a rate in cache with TTL
func (c *MemoryCache) Set(_ context.Context, rate *exchange.Rate, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[rate.Currency] = &cacheEntry{
		rate:      *rate,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a rate from cache
func (c *MemoryCache) Delete(_ context.Context, code currency.Code) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, code)
	return nil
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanup removes expired entries from cache
func (c *MemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, entry := range c.cache {
				if now.After(entry.expiresAt) {
					delete(c.cache, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
