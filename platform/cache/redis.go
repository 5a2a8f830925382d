// Package cache builds the optional redis client used by read-through caches.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"fmt"
	"time"

	"presupuestos_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewClient parses REDIS_URL and pings the server. It returns (nil, nil) when
// no URL is configured so callers can run without a cache.
func NewClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
