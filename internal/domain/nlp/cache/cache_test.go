package cache

import (
	"context"
	"math"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestMemoryCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(Config{TTL: time.Minute})
	t.Cleanup(func() {
		_ = c.Close(ctx)
	})

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	vector := []float64{0.1, -0.5, 0.9}
	if err := c.Set(ctx, "hello", vector); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, ok, err := c.Get(ctx, "hello")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit after Set")
	}
	if len(got) != len(vector) {
		t.Fatalf("unexpected vector length: %d", len(got))
	}
	for i := range vector {
		if math.Abs(got[i]-vector[i]) > 1e-12 {
			t.Fatalf("vector mismatch at %d: %v", i, got)
		}
	}

	// The cache must hand back a copy, not its internal slice.
	got[0] = 42
	again, _, _ := c.Get(ctx, "hello")
	if again[0] != vector[0] {
		t.Fatalf("cache returned aliased slice")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(Config{TTL: 10 * time.Millisecond})
	t.Cleanup(func() {
		_ = c.Close(ctx)
	})

	if err := c.Set(ctx, "short", []float64{1}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestRedisCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	c, err := NewRedis(Config{
		TTL: time.Minute,
		Redis: &RedisConfig{
			Addr: mr.Addr(),
		},
	})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close(ctx)
	})

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	vector := []float64{0.25, 0.5, -1}
	if err := c.Set(ctx, "phrase", vector); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, ok, err := c.Get(ctx, "phrase")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok || len(got) != 3 || got[2] != -1 {
		t.Fatalf("unexpected vector after round trip: ok=%v %v", ok, got)
	}
}

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()

	c, err := New(Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("New memory error: %v", err)
	}
	_ = c.Close(ctx)

	none, err := New(Config{Driver: "none"})
	if err != nil {
		t.Fatalf("New none error: %v", err)
	}
	_ = none.Set(ctx, "k", []float64{1})
	if _, ok, _ := none.Get(ctx, "k"); ok {
		t.Fatalf("noop cache must never hit")
	}

	if _, err := New(Config{Driver: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
