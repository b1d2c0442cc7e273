// Package rediscache provides a Redis-backed idempotency cache so duplicate
// transition requests are deduplicated across instances of a horizontally
// scaled deployment.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

const keyPrefix = "stage:result:"

// IdempotencyCache stores JSON-encoded transition results in Redis with the
// engine's TTL.
type IdempotencyCache struct {
	rdb *redis.Client
}

func NewIdempotencyCache(rdb *redis.Client) *IdempotencyCache {
	return &IdempotencyCache{rdb: rdb}
}

func (c *IdempotencyCache) Get(ctx context.Context, key string) (*domain.TransitionResult, bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var res domain.TransitionResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, err
	}
	return &res, true, nil
}

func (c *IdempotencyCache) Set(ctx context.Context, key string, res *domain.TransitionResult, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyPrefix+key, raw, ttl).Err()
}

var _ port.IdempotencyCache = (*IdempotencyCache)(nil)
