package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	vector    []float64
	expiresAt time.Time
}

type memoryCache struct {
	items       map[string]memoryEntry
	mutex       sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory embedding cache.
func NewMemory(cfg Config) Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	c := &memoryCache{
		items:       make(map[string]memoryEntry),
		ttl:         ttl,
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go c.gcLoop()
	return c
}

func (c *memoryCache) gcLoop() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) cleanupExpired() {
	now := time.Now()
	c.mutex.Lock()
	for key, entry := range c.items {
		if now.After(entry.expiresAt) {
			delete(c.items, key)
		}
	}
	c.mutex.Unlock()
}

func (c *memoryCache) Get(_ context.Context, key string) ([]float64, bool, error) {
	c.mutex.RLock()
	entry, ok := c.items[key]
	c.mutex.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	vector := make([]float64, len(entry.vector))
	copy(vector, entry.vector)
	return vector, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, vector []float64) error {
	stored := make([]float64, len(vector))
	copy(stored, vector)
	c.mutex.Lock()
	c.items[key] = memoryEntry{vector: stored, expiresAt: time.Now().Add(c.ttl)}
	c.mutex.Unlock()
	return nil
}

func (c *memoryCache) Close(_ context.Context) error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	return nil
}
