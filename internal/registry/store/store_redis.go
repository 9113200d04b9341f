package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"decisio/internal/registry/metrics"
	"decisio/internal/registry/models"
)

const redisSegmentKeyPrefix = "registry:segment:"

// RedisCache persists segment profiles in Redis with TTL-based eviction so
// multiple instances share registry lookups.
type RedisCache struct {
	client   *redis.Client
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

var _ CacheStore = (*RedisCache)(nil)

// NewRedisCache constructs a Redis-backed segment profile cache.
// Usage: pass a configured Redis client; metrics may be nil.
func NewRedisCache(client *redis.Client, cacheTTL time.Duration, metrics *metrics.Metrics) *RedisCache {
	return &RedisCache{
		client:   client,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// Find loads a cached segment profile by personal code.
//
// Side effects: performs a Redis GET and records cache hit/miss metrics.
//
// Errors: returns ErrNotFound on cache miss; wraps Redis or JSON decode errors.
func (c *RedisCache) Find(ctx context.Context, personalCode string) (models.SegmentProfile, error) {
	start := time.Now()
	data, err := c.client.Get(ctx, segmentKey(personalCode)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.recordMiss(start)
			return models.SegmentProfile{}, ErrNotFound
		}
		return models.SegmentProfile{}, fmt.Errorf("find segment cache: %w", err)
	}

	var profile models.SegmentProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return models.SegmentProfile{}, fmt.Errorf("decode segment cache: %w", err)
	}
	c.recordHit(start)
	return profile, nil
}

// Save writes a segment profile to Redis with TTL eviction.
//
// Side effects: performs a Redis SET; overwrites any existing entry.
func (c *RedisCache) Save(ctx context.Context, profile models.SegmentProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode segment cache: %w", err)
	}
	if err := c.client.Set(ctx, segmentKey(profile.PersonalCode), payload, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save segment cache: %w", err)
	}
	return nil
}

// Purge removes every cached segment profile.
//
// Side effects: iterates the keyspace with SCAN and deletes matching keys.
func (c *RedisCache) Purge(ctx context.Context) (int, error) {
	var dropped int
	iter := c.client.Scan(ctx, 0, redisSegmentKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return dropped, fmt.Errorf("purge segment cache: %w", err)
		}
		dropped++
	}
	if err := iter.Err(); err != nil {
		return dropped, fmt.Errorf("scan segment cache: %w", err)
	}
	return dropped, nil
}

// recordHit emits cache hit metrics.
func (c *RedisCache) recordHit(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheHit()
	c.metrics.ObserveCacheLookupDuration(time.Since(start).Seconds())
}

// recordMiss emits cache miss metrics.
func (c *RedisCache) recordMiss(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheMiss()
	c.metrics.ObserveCacheLookupDuration(time.Since(start).Seconds())
}

func segmentKey(personalCode string) string {
	return redisSegmentKeyPrefix + personalCode
}
