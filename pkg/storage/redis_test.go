//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Run with: EINKPLACER_REDIS_ADDR=localhost:6379 go test -tags integration ./pkg/storage
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("EINKPLACER_REDIS_ADDR")
	if addr == "" {
		t.Skip("EINKPLACER_REDIS_ADDR not set")
	}

	testStore(t, func(t *testing.T, opts ...Option) Store {
		ctx := context.Background()
		prefix := "einkplacer-test:" + uuid.NewString() + ":"
		s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: prefix}, opts...)
		if err != nil {
			t.Fatalf("NewRedisStore() failed: %v", err)
		}
		t.Cleanup(func() {
			cleanupRedis(t, s.client, prefix)
			s.Close()
		})
		return s
	})
}

func cleanupRedis(t *testing.T, client *redis.Client, prefix string) {
	ctx := context.Background()
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		t.Logf("cleanup %s: %v", prefix, err)
	}
}
