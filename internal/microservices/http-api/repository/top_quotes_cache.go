package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const topRatedIDsKey = "quotes:top_rated_ids"

// TopQuotesCache holds the ids of the highly rated pool used by random selection.
// A miss is reported as ok=false with a nil error.
type TopQuotesCache interface {
	Get(ctx context.Context) (ids []int64, ok bool, err error)
	Set(ctx context.Context, ids []int64) error
	Invalidate(ctx context.Context) error
}

type redisTopQuotesCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTopQuotesCache connects to the redis instance at url and verifies it answers.
func NewRedisTopQuotesCache(ctx context.Context, url string, ttl time.Duration) (TopQuotesCache, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewTopQuotesCacheFromClient(client, ttl), client, nil
}

func NewTopQuotesCacheFromClient(client *redis.Client, ttl time.Duration) TopQuotesCache {
	return &redisTopQuotesCache{client: client, ttl: ttl}
}

func (c *redisTopQuotesCache) Get(ctx context.Context) ([]int64, bool, error) {
	raw, err := c.client.Get(ctx, topRatedIDsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, fmt.Errorf("decode cached ids: %w", err)
	}
	return ids, true, nil
}

func (c *redisTopQuotesCache) Set(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, topRatedIDsKey, raw, c.ttl).Err()
}

func (c *redisTopQuotesCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, topRatedIDsKey).Err()
}

// NopTopQuotesCache always misses. Used when no redis is configured.
type NopTopQuotesCache struct{}

func (NopTopQuotesCache) Get(context.Context) ([]int64, bool, error) { return nil, false, nil }
func (NopTopQuotesCache) Set(context.Context, []int64) error        { return nil }
func (NopTopQuotesCache) Invalidate(context.Context) error          { return nil }
