package internal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const cachePrefix = "cms:public:"

// Cache keeps public reads in Redis. A nil *Cache or one without a client
// reads straight through.
type Cache struct {
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// cached returns the value stored under key, or loads it once for all
// concurrent callers and stores it. Redis failures fall back to load.
func cached[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.rdb == nil {
		return load(ctx)
	}
	key = cachePrefix + key

	var v T
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		slog.Warn("discarding unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("cache read failed", "key", key, "err", err)
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		fresh, err := load(ctx)
		if err != nil {
			return fresh, err
		}
		if b, err := json.Marshal(fresh); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
				slog.Warn("cache write failed", "key", key, "err", err)
			}
		}
		return fresh, nil
	})
	if err != nil {
		return v, err
	}
	return res.(T), nil
}

// Invalidate drops the public entries for keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = cachePrefix + k
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "keys", full, "err", err)
	}
}
