package rdx

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

func RdxSet(ctx context.Context, key, value string, ttl time.Duration) error {
	return Conn.Set(ctx, key, value, ttl).Err()
}

func RdxGet(ctx context.Context, key string) (string, error) {
	return Conn.Get(ctx, key).Result()
}

func RdxDel(ctx context.Context, key string) error {
	return Conn.Del(ctx, key).Err()
}

// RdxSetNX returns true when the key was newly set. Used for
// notification dedupe and short-lived operation locks.
func RdxSetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(ctx, key, "1", ttl).Result()
}
