package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-travelplanner-be/internal/pkg/logger"
)

const DefaultCacheTTL = 30 * time.Minute

// CachedProvider memoizes forecast summaries in Redis. Cache trouble is
// never surfaced; a broken Redis simply means every lookup goes upstream.
type CachedProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
	log   logger.ILogger
}

func NewCachedProvider(inner Provider, rdb *redis.Client, ttl time.Duration, log logger.ILogger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedProvider) Forecast(ctx context.Context, destination, startDate string, days int) (string, error) {
	key := c.cacheKey(destination, startDate, days)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil && c.log != nil {
			c.log.Warn("weather.cache", "redis get failed, fetching upstream", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	text, err := c.inner.Forecast(ctx, destination, startDate, days)
	if err != nil {
		return "", err
	}

	// Empty summaries are not cached so transient upstream trouble does not
	// pin "no weather" for the whole TTL.
	if text != "" && c.rdb != nil {
		if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil && c.log != nil {
			c.log.Warn("weather.cache", "redis set failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return text, nil
}

func (c *CachedProvider) cacheKey(destination, startDate string, days int) string {
	return fmt.Sprintf("weather:%s:%s:%d",
		strings.ToLower(strings.TrimSpace(destination)),
		NormalizeDate(startDate, time.Now()),
		days,
	)
}
