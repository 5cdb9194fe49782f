package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed embedding cache.
func NewRedis(cfg Config) (Cache, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "nlp:embed:"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (c *redisCache) key(digest string) string {
	return c.prefix + digest
}

func (c *redisCache) Get(ctx context.Context, key string) ([]float64, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var vector []float64
	if err := sonic.Unmarshal(raw, &vector); err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, vector []float64) error {
	data, err := sonic.Marshal(vector)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *redisCache) Close(context.Context) error {
	return c.client.Close()
}
