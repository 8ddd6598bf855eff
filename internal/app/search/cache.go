package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const facetCacheKey = "resourcehub:facets:v1"

// facetCache is a best-effort Redis cache for facet aggregations, the one
// query that scans every approved document. Cache failures are logged and
// treated as misses; the catalog must work with Redis down.
type facetCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func newFacetCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *facetCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &facetCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *facetCache) get(ctx context.Context) (Facets, bool) {
	if c.rdb == nil {
		return Facets{}, false
	}
	raw, err := c.rdb.Get(ctx, facetCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("facet cache read failed", zap.Error(err))
		}
		return Facets{}, false
	}
	var f Facets
	if err := json.Unmarshal(raw, &f); err != nil {
		c.log.Warn("facet cache entry corrupt, dropping", zap.Error(err))
		c.invalidate(ctx)
		return Facets{}, false
	}
	return f, true
}

func (c *facetCache) put(ctx context.Context, f Facets) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, facetCacheKey, raw, c.ttl).Err(); err != nil {
		c.log.Debug("facet cache write failed", zap.Error(err))
	}
}

func (c *facetCache) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, facetCacheKey).Err(); err != nil {
		c.log.Debug("facet cache invalidate failed", zap.Error(err))
	}
}
