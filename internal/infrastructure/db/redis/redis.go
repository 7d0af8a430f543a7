package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/identity-platform/user-directory/internal/pkg/config"
)

const pingTimeout = 5 * time.Second

// Connect opens the Redis client that backs both the command streams and the
// idempotency keyspace. Connectivity is verified up front so a misconfigured
// broker fails the process at boot rather than on the first dispatch.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s/%d: %w", cfg.Addr, cfg.DB, err)
	}

	return client, nil
}
