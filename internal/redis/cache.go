package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"socialdesk/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const countsKey = "admin:counts"

// CountsCache keeps the admin dashboard counts for a short time.
type CountsCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCountsCache(client *goredis.Client, ttl time.Duration) *CountsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CountsCache{client: client, ttl: ttl}
}

// Get returns nil on a cache miss.
func (c *CountsCache) Get(ctx context.Context) (*domain.Counts, error) {
	data, err := c.client.Get(ctx, countsKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var counts domain.Counts
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

func (c *CountsCache) Set(ctx context.Context, counts domain.Counts) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, countsKey, data, c.ttl).Err()
}

func (c *CountsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, countsKey).Err()
}

func (c *CountsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
