package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a Redis client for the rate policy cache. Returns
// nil when addr is empty: the cache is optional and the caller falls back to
// hitting the store directly. A failed ping is logged, not fatal, since Redis
// may come up after the app.
func NewRedisClient(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("Warning: Redis ping failed (%v). Continuing without cache warm-up.\n", err)
	} else {
		log.Println("Successfully connected to Redis.")
	}
	return client
}
