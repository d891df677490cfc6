package metadata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonesrussell/cardfeed/internal/cache"
)

// DefaultCacheTTL is how long extracted metadata stays cached.
const DefaultCacheTTL = 6 * time.Hour

const cacheKeyPrefix = "og:"

// CachedExtractor serves metadata from a cache before fetching. Failures
// are not cached. Cached entries carry no BodyText.
type CachedExtractor struct {
	next  Source
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedExtractor wraps next with c. ttl <= 0 uses DefaultCacheTTL.
func NewCachedExtractor(next Source, c cache.Cache, ttl time.Duration) *CachedExtractor {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedExtractor{next: next, cache: c, ttl: ttl}
}

// Extract returns cached metadata for pageURL or fetches it.
func (c *CachedExtractor) Extract(ctx context.Context, pageURL string) (*Meta, error) {
	key := cacheKeyPrefix + pageURL

	if raw, ok := c.cache.Get(ctx, key); ok {
		var meta Meta
		if err := json.Unmarshal(raw, &meta); err == nil {
			return &meta, nil
		}
	}

	meta, err := c.next.Extract(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if raw, marshalErr := json.Marshal(meta); marshalErr == nil {
		c.cache.Set(ctx, key, raw, c.ttl)
	}

	return meta, nil
}
