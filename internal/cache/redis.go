package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"laundry-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const ratingSummaryKey = "reviews:average"

// RedisConfig describes how to reach the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache.NewRedisClient: %w", err)
	}
	return rdb, nil
}

// RatingCache stores the review aggregate between writes.
type RatingCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRatingCache(rdb redis.Cmdable, ttl time.Duration) *RatingCache {
	return &RatingCache{rdb: rdb, ttl: ttl}
}

// Get returns (nil, nil) on a cache miss.
func (c *RatingCache) Get(ctx context.Context) (*models.RatingSummary, error) {
	raw, err := c.rdb.Get(ctx, ratingSummaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache.GetRating: %w", err)
	}
	var summary models.RatingSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("cache.GetRating: %w", err)
	}
	return &summary, nil
}

func (c *RatingCache) Set(ctx context.Context, summary models.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ratingSummaryKey, data, c.ttl).Err()
}

func (c *RatingCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, ratingSummaryKey).Err()
}
