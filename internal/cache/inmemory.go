package cache

import (
	"context"
	"time"

	"github.com/flexprice/taxadmin/internal/config"
	goCache "github.com/patrickmn/go-cache"
)

// NoExpiration keeps an entry until it is deleted
const NoExpiration = goCache.NoExpiration

// DefaultCleanupInterval is how often expired items are removed when the
// configuration leaves it unset
const DefaultCleanupInterval = 10 * time.Minute

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache creates an InMemoryCache from the cache configuration.
// A disabled cache misses on every Get and ignores writes.
func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	cleanup := cfg.Cache.CleanupInterval
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	return &InMemoryCache{
		cache:   goCache.New(ExpirationFor(cfg.Cache.TTL), cleanup),
		enabled: cfg.Cache.Enabled,
	}
}

// ExpirationFor maps a configured TTL to a go-cache expiration; zero means
// entries live until invalidated
func ExpirationFor(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return NoExpiration
	}
	return ttl
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}
