// Package cache provides a short-TTL cache for computed reports.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/propfolio/propfolio/internal/config"
	"github.com/propfolio/propfolio/internal/report/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ReportCache is a cache-aside layer over Redis. A nil *ReportCache is a
// valid no-op cache, so report serving never depends on Redis being up.
type ReportCache struct {
	client *redis.Client
	log    *zap.Logger
}

func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *ReportCache {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return &ReportCache{
		client: client,
		log:    log.Named("report.cache"),
	}
}

// Key derives a stable cache key from the report shape and query.
func Key(shape string, q domain.Query) string {
	payload := fmt.Sprintf("%s|%v|%v|%s|%s|%s|%s",
		shape, q.PropertyID, q.ProviderID, q.From, q.To, q.Granularity, q.TrendMode)
	sum := sha256.Sum256([]byte(payload))
	return "report:" + hex.EncodeToString(sum[:16])
}

func (c *ReportCache) Get(ctx context.Context, key string) (domain.Report, bool) {
	if c == nil || c.client == nil {
		return domain.Report{}, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return domain.Report{}, false
	}

	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		c.log.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return domain.Report{}, false
	}
	return report, true
}

func (c *ReportCache) Set(ctx context.Context, key string, report domain.Report, ttl time.Duration) {
	if c == nil || c.client == nil || ttl <= 0 {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
