package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ratingCacheTTL = 5 * time.Minute

// RatingSummary is the cached review aggregate for a forwarder.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// RatingCache stores per-forwarder rating aggregates so detail reads
// do not recompute the average on every request. Moderation decisions
// invalidate the entry.
type RatingCache interface {
	Get(ctx context.Context, forwarderID string) (*RatingSummary, bool, error)
	Set(ctx context.Context, forwarderID string, summary RatingSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, forwarderID string) error
}

type NoopRatingCache struct{}

func NewNoopRatingCache() *NoopRatingCache { return &NoopRatingCache{} }

func (c *NoopRatingCache) Get(context.Context, string) (*RatingSummary, bool, error) {
	return nil, false, nil
}

func (c *NoopRatingCache) Set(context.Context, string, RatingSummary, time.Duration) error {
	return nil
}

func (c *NoopRatingCache) Invalidate(context.Context, string) error { return nil }

type RedisRatingCache struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRatingCache(client redis.UniversalClient, prefix string) *RedisRatingCache {
	if prefix == "" {
		prefix = "rating_cache"
	}
	return &RedisRatingCache{client: client, prefix: prefix}
}

func (c *RedisRatingCache) key(forwarderID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, forwarderID)
}

func (c *RedisRatingCache) Get(ctx context.Context, forwarderID string) (*RatingSummary, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(forwarderID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var summary RatingSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// Corrupt entry, treat as a miss.
		return nil, false, nil
	}
	return &summary, true, nil
}

func (c *RedisRatingCache) Set(ctx context.Context, forwarderID string, summary RatingSummary, ttl time.Duration) error {
	if c.client == nil || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(forwarderID), raw, ttl).Err()
}

func (c *RedisRatingCache) Invalidate(ctx context.Context, forwarderID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(forwarderID)).Err()
}
