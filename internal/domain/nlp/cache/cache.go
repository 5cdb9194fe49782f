package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache stores embedding vectors keyed by text digest so repeated phrases
// never hit the embedding API twice.
type Cache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Set(ctx context.Context, key string, vector []float64) error
	Close(ctx context.Context) error
}

// Config describes the high level cache selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Memory *MemoryConfig
	Redis  *RedisConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// New builds a cache for the configured driver. An empty driver falls back
// to memory; "none" returns a cache that never hits.
func New(cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(cfg), nil
	case "redis":
		return NewRedis(cfg)
	case "none":
		return noopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.Driver)
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]float64, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, []float64) error        { return nil }
func (noopCache) Close(context.Context) error                         { return nil }
