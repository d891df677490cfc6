package cache

import (
	"context"
	"time"

	"github.com/jonesrussell/cardfeed/internal/metrics"
)

// Instrumented counts hits and misses of an underlying cache.
type Instrumented struct {
	next    Cache
	metrics *metrics.Metrics
}

// NewInstrumented wraps next. A nil m disables counting.
func NewInstrumented(next Cache, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := c.next.Get(ctx, key)
	c.metrics.ObserveCache(ok)
	return val, ok
}

func (c *Instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.next.Set(ctx, key, value, ttl)
}
