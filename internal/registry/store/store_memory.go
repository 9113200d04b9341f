package store

import (
	"context"
	"sync"
	"time"

	"decisio/internal/registry/models"
)

type cachedProfile struct {
	profile  models.SegmentProfile
	storedAt time.Time
}

// InMemoryCache caches segment profiles in process memory with TTL expiration.
// Suitable for single-instance deployments and tests; use RedisCache when
// several instances must share lookups.
type InMemoryCache struct {
	mu       sync.RWMutex
	profiles map[string]cachedProfile
	cacheTTL time.Duration
}

var _ CacheStore = (*InMemoryCache)(nil)

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
func NewInMemoryCache(cacheTTL time.Duration) *InMemoryCache {
	return &InMemoryCache{
		profiles: make(map[string]cachedProfile),
		cacheTTL: cacheTTL,
	}
}

// Save stores a segment profile, keyed by personal code.
func (c *InMemoryCache) Save(_ context.Context, profile models.SegmentProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[profile.PersonalCode] = cachedProfile{profile: profile, storedAt: time.Now()}
	return nil
}

// Find retrieves a cached profile by personal code.
// Returns ErrNotFound if the profile does not exist or has expired past the TTL.
func (c *InMemoryCache) Find(_ context.Context, personalCode string) (models.SegmentProfile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cached, ok := c.profiles[personalCode]; ok {
		if time.Since(cached.storedAt) < c.cacheTTL {
			return cached.profile, nil
		}
	}
	return models.SegmentProfile{}, ErrNotFound
}

// Purge drops every cached profile.
func (c *InMemoryCache) Purge(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := len(c.profiles)
	c.profiles = make(map[string]cachedProfile)
	return dropped, nil
}
