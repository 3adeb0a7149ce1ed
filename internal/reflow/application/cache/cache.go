// Package cache memoizes reflow results under a deterministic request
// key, since the core scheduler is a pure function: an identical request
// always produces an identical output (aside from ProcessingTimeMs).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
)

// ErrMiss is returned by ResultCache.Get when key is not cached.
var ErrMiss = errors.New("cache: key not found")

// ResultCache stores and retrieves reflow outputs keyed by a deterministic
// hash of the request that produced them.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.Output, error)
	Set(ctx context.Context, key string, out domain.Output, ttl time.Duration) error
}

// keyPrefix namespaces reflow cache entries within a shared Redis
// instance.
const keyPrefix = "reflow:result:"

// RedisCache is a ResultCache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached output for key, or ErrMiss if absent.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.Output, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Output{}, ErrMiss
	}
	if err != nil {
		return domain.Output{}, err
	}

	var out domain.Output
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.Output{}, err
	}
	return out, nil
}

// Set stores out under key with the given expiry.
func (c *RedisCache) Set(ctx context.Context, key string, out domain.Output, ttl time.Duration) error {
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, raw, ttl).Err()
}

// Ping reports whether the backing Redis connection is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// NoopCache never caches. Used when the Redis instance is unreachable.
type NoopCache struct{}

func (NoopCache) Get(_ context.Context, _ string) (domain.Output, error) {
	return domain.Output{}, ErrMiss
}

func (NoopCache) Set(_ context.Context, _ string, _ domain.Output, _ time.Duration) error {
	return nil
}
