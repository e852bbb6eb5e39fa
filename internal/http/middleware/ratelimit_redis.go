package middleware

import (
	"context"
	"time"

	"todo_backend/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// RedisCounter implements Counter with Redis INCR/EXPIRE so limits hold across
// replicas. Any Redis error falls back to an in-process counter.
type RedisCounter struct {
	client   *redis.Client
	fallback *MemoryCounter
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client, fallback: NewMemoryCounter()}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Warn("redis rate limit unavailable, using local counter", "error", err)
		RLFallback.Inc()
		return r.fallback.Incr(ctx, key, window)
	}

	if val == 1 {
		// first increment, set expiry
		r.client.Expire(ctx, key, window)
	}
	return val, nil
}

// NewCounter returns a Redis-backed counter when client is non-nil, else an
// in-process one.
func NewCounter(client *redis.Client) Counter {
	if client == nil {
		return NewMemoryCounter()
	}
	return NewRedisCounter(client)
}
