package window

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"meetingintel/internal/ratelimit/models"
)

// Redis key prefix for per-caller window counters.
const windowKeyPrefix = "rl:window:"

// RedisWindowStore implements WindowStore on Redis so horizontally scaled
// instances share one fixed-window budget per caller.
//
// The counter is advanced with INCR and the window TTL is attached to the
// first increment, so concurrent callers can briefly push the stored count
// past the limit; denial still triggers at count > limit, which keeps the
// admitted-request policy identical to the in-memory store.
type RedisWindowStore struct {
	client *redis.Client
}

// NewRedisWindowStore constructs a Redis-backed fixed-window store.
func NewRedisWindowStore(client *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{client: client}
}

// Allow checks if a request is allowed and increments the counter.
func (s *RedisWindowStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := time.Now()
	redisKey := windowKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX: only the increment that opens the window sets the expiry.
	pipe.ExpireNX(ctx, redisKey, window)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	count := int(incr.Val())
	resetAt := now.Add(window)
	if d := ttl.Val(); d > 0 {
		resetAt = now.Add(d)
	}

	if count > limit {
		retryAfter := int(time.Until(resetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		}, nil
	}

	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key.
func (s *RedisWindowStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, windowKeyPrefix+key).Err()
}

// CurrentCount returns the in-window request count for a key.
func (s *RedisWindowStore) CurrentCount(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, windowKeyPrefix+key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}
