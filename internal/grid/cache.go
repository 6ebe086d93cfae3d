package grid

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// PerformanceFetcher is the long-window fetch contract the pipeline
// depends on. (nil, nil) means the provider has no data for the team.
type PerformanceFetcher interface {
	TeamPerformance(ctx context.Context, teamID, timeWindow string) (*models.TeamPerformanceWindow, error)
}

// CachedPerformance decorates a PerformanceFetcher with a redis TTL
// cache. Caching lives at the fetch boundary; the pipeline itself
// never caches provider data.
type CachedPerformance struct {
	next   PerformanceFetcher
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedPerformance(next PerformanceFetcher, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedPerformance {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedPerformance{next: next, redis: rdb, ttl: ttl, logger: logger.Sugar()}
}

func (c *CachedPerformance) TeamPerformance(ctx context.Context, teamID, timeWindow string) (*models.TeamPerformanceWindow, error) {
	key := "teamperf:" + timeWindow + ":" + teamID

	if raw, err := c.redis.Get(ctx, key).Result(); err == nil {
		var cached models.TeamPerformanceWindow
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
		// Corrupt cache entry: fall through to the provider.
		c.redis.Del(ctx, key)
	}

	perf, err := c.next.TeamPerformance(ctx, teamID, timeWindow)
	if err != nil || perf == nil {
		return perf, err
	}

	if raw, err := json.Marshal(perf); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warnw("Failed to cache team performance", "team", teamID, "error", err)
		}
	}
	return perf, nil
}
