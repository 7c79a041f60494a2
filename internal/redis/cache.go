package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediavault/internal/domain/file"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - usage:{user_id} - 60s TTL, storage usage summary

type CacheConfig struct {
	UsageTTL time.Duration // TTL for the usage summary cache
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		UsageTTL: 60 * time.Second,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

// GetUsage retrieves a cached usage summary. Returns nil on cache miss.
func (c *CacheStore) GetUsage(ctx context.Context, userID string) (*file.SpaceUsage, error) {
	key := fmt.Sprintf("usage:%s", userID)
	data, err := c.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var usage file.SpaceUsage
	if err := json.Unmarshal([]byte(data), &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// SetUsage caches a usage summary
func (c *CacheStore) SetUsage(ctx context.Context, userID string, usage file.SpaceUsage) error {
	key := fmt.Sprintf("usage:%s", userID)
	data, err := json.Marshal(usage)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.config.UsageTTL).Err()
}

// InvalidateUsage drops the cached summary after a mutation
func (c *CacheStore) InvalidateUsage(ctx context.Context, userID string) error {
	key := fmt.Sprintf("usage:%s", userID)
	return c.client.Del(ctx, key).Err()
}
