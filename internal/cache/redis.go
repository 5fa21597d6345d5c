package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oggyb/linkup/internal/config"
	"github.com/redis/go-redis/v9"
)

// AdmirerCountTTL bounds staleness of cached admirer counts.
const AdmirerCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCache) Decr(ctx context.Context, key string) (int64, error) {
	return c.Client.Decr(ctx, key).Result()
}

// KeyForAdmirerCount generates the key for a user's admirer count, i.e.
// how many people hold a like-class action toward them.
func (c *RedisCache) KeyForAdmirerCount(userID uint64) string {
	return fmt.Sprintf("admirers:count:%d", userID)
}

// GetAdmirerCount returns the cached count, with ok=false on a miss.
// Refreshes the TTL on access.
func (c *RedisCache) GetAdmirerCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForAdmirerCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	_ = c.Client.Expire(ctx, key, AdmirerCountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// SetAdmirerCount stores the count with the standard TTL.
func (c *RedisCache) SetAdmirerCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForAdmirerCount(userID), count, AdmirerCountTTL).Err()
}
