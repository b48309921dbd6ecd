package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis and pings it. A nil client with a nil error means
// Redis is not configured and the server runs without the shared scoreboard.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		log.Println("[REDIS] REDIS_URL not set, scoreboard cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}

	log.Println("[REDIS] Connected successfully")
	return client, nil
}
