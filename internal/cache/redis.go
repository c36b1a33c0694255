package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codebyNJ/AIResearch-Agent/config"
)

const redisKeyPrefix = "research:fetched:"

// Redis backs the fetched-content cache with a shared Redis instance so
// multiple replicas see the same memoized pages.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(cfg config.RedisConfig, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s:%d): %w", cfg.Host, cfg.Port, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (c *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Redis) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, redisKeyPrefix+key, value, c.ttl).Err()
}
