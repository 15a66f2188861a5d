package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache implements usecase.SnapshotCache using Redis.
type SnapshotCache struct {
	client *redis.Client
	prefix string
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		prefix: "fundmetrics:",
	}
}

// Get retrieves a cached payload by key. A missing key returns a nil
// payload and nil error; callers treat it as a miss.
func (c *SnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	return payload, nil
}

// Set stores a payload with TTL.
func (c *SnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key.
func (c *SnapshotCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
