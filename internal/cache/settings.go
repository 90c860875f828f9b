package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "setting:"

// SettingsCache is a read-through cache for site settings. All methods degrade
// to a miss or no-op when Redis is unavailable, so the database stays the
// source of truth.
type SettingsCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSettingsCache wraps a Redis client. client may be nil to disable caching.
func NewSettingsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SettingsCache{rdb: client, ttl: ttl, logger: logger}
}

// Get returns the cached value for key. ok is false on miss or Redis failure.
func (c *SettingsCache) Get(ctx context.Context, key string) (string, bool) {
	if c.rdb == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("settings cache read failed", "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

// Set stores a value with the configured TTL.
func (c *SettingsCache) Set(ctx context.Context, key, value string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("settings cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops a key after a write to the backing store.
func (c *SettingsCache) Invalidate(ctx context.Context, key string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		c.logger.Warn("settings cache invalidate failed", "key", key, "error", err)
	}
}
