// Package cache provides the key/value cache owned by the HTTP layer.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values with a per-entry TTL. A miss and a backend
// failure look the same to callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
