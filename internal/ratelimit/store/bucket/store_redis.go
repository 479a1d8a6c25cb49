package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tapclaim/internal/ratelimit/models"
)

// RedisStore counts requests in fixed windows. Each key holds one counter
// whose TTL is the window; every instance sharing the Redis shares the
// limit. Fixed windows are coarser than the in-memory sliding window but
// cost a single round trip per check.
type RedisStore struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Allow increments the key's counter and reports whether it is still under
// limit. The expiry is set only when the key is created, so the window
// never slides.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	expiresIn := ttl.Val()
	if expiresIn < 0 {
		expiresIn = window
	}
	now := time.Now()
	resetAt := now.Add(expiresIn)

	count := incr.Val()
	if count > int64(limit) {
		return &models.Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: secondsUntil(now, resetAt),
		}, nil
	}

	return &models.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count),
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset rate limit key: %w", err)
	}
	return nil
}
