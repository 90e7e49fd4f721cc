package cache

import (
	"context"
	"time"
)

// Cache stores JSON values under a key prefix owned by the implementation.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

// Counter is a fixed-window counter. Hit increments key, starting a new
// window of the given length on the first hit, and returns the count so far
// and the time left in the window.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}
