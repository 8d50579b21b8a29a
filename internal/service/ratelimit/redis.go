package ratelimit

import (
	"context"
	"fmt"
	"time"

	"ForecastGate/pkg/cache"
)

// RedisLimiter is a fixed-window counter shared by every gateway instance.
type RedisLimiter struct {
	counter cache.Counter
	limit   int64
	window  time.Duration
	now     func() time.Time
}

// NewRedisLimiter allows perMinute requests per key in each one-minute window.
func NewRedisLimiter(counter cache.Counter, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		counter: counter,
		limit:   int64(perMinute),
		window:  time.Minute,
		now:     time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().Unix() / int64(l.window/time.Second)
	k := cache.GenerateKeyWithParams("ratelimit", key, slot)

	n, err := l.counter.IncrementWindow(ctx, k, l.window)
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return n <= l.limit, nil
}
