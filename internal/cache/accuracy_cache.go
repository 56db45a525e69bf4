// internal/cache/accuracy_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/config"
	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/redis/go-redis/v9"
)

const accuracyKeyPrefix = "forecast:accuracy"

// AccuracyCache stores backtest results per product/location so repeated
// forecast refreshes inside the TTL window skip recomputation.
type AccuracyCache interface {
	Get(ctx context.Context, productID, locationID int64) (*domain.ForecastAccuracyResult, bool, error)
	Set(ctx context.Context, productID, locationID int64, result domain.ForecastAccuracyResult) error
}

type redisAccuracyCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAccuracyCache struct{}

func NewAccuracyCache(cfg config.CacheConfig) (AccuracyCache, error) {
	if !cfg.Enabled {
		return &noopAccuracyCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisAccuracyCache{client: client, ttl: ttl}, nil
}

func NewNoopAccuracyCache() AccuracyCache {
	return &noopAccuracyCache{}
}

func (c *redisAccuracyCache) Get(ctx context.Context, productID, locationID int64) (*domain.ForecastAccuracyResult, bool, error) {
	payload, err := c.client.Get(ctx, accuracyKey(productID, locationID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.ForecastAccuracyResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode accuracy cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisAccuracyCache) Set(ctx context.Context, productID, locationID int64, result domain.ForecastAccuracyResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode accuracy cache: %w", err)
	}

	if err := c.client.Set(ctx, accuracyKey(productID, locationID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopAccuracyCache) Get(ctx context.Context, productID, locationID int64) (*domain.ForecastAccuracyResult, bool, error) {
	return nil, false, nil
}

func (n *noopAccuracyCache) Set(ctx context.Context, productID, locationID int64, result domain.ForecastAccuracyResult) error {
	return nil
}

func accuracyKey(productID, locationID int64) string {
	return fmt.Sprintf("%s:%d:%d", accuracyKeyPrefix, productID, locationID)
}
