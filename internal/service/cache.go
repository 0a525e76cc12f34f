package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/observability"
)

// CatalogCache is a read-through cache for list responses. Keys embed a
// version counter that every mutation bumps, so stale pages die immediately
// instead of waiting out the TTL. A nil client disables caching.
type CatalogCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCatalogCache(client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With().Str("component", prefix+"_cache").Logger(),
	}
}

func (c *CatalogCache) key(ctx context.Context, suffix string) string {
	if c == nil || c.client == nil {
		return ""
	}
	version := int64(1)
	if value, err := c.client.Get(ctx, c.prefix+":version").Int64(); err == nil {
		version = value
	}
	return fmt.Sprintf("%s:v%d:%s", c.prefix, version, suffix)
}

func (c *CatalogCache) get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil || key == "" {
		return false
	}
	cached, err := c.client.Get(ctx, key).Result()
	if err != nil || cached == "" {
		observability.CatalogCache().WithLabelValues(c.prefix, "miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		observability.CatalogCache().WithLabelValues(c.prefix, "miss").Inc()
		return false
	}
	observability.CatalogCache().WithLabelValues(c.prefix, "hit").Inc()
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil || key == "" {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to cache list response")
	}
}

// bump invalidates every cached page for this catalogue.
func (c *CatalogCache) bump(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, c.prefix+":version").Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to bump cache version")
	}
}
