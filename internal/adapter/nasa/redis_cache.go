package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTilePrefix = "gibs:tile:"

// RedisCache shares tiles between service replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a tile cache on an existing redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Tile, bool, error) {
	raw, err := c.client.Get(ctx, redisTilePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Tile{}, false, nil
	}
	if err != nil {
		return Tile{}, false, fmt.Errorf("redis get: %w", err)
	}
	var t Tile
	if err := json.Unmarshal(raw, &t); err != nil {
		return Tile{}, false, fmt.Errorf("decode cached tile: %w", err)
	}
	return t, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, tile Tile) error {
	raw, err := json.Marshal(tile)
	if err != nil {
		return fmt.Errorf("encode tile: %w", err)
	}
	if err := c.client.Set(ctx, redisTilePrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CheckReadiness pings redis.
func (c *RedisCache) CheckReadiness(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
