package cache

import (
	"context"
	"time"
)

// Counter is the subset of Redis used for fixed-window counters.
type Counter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}
