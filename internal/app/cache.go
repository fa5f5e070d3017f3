package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/etmarket/config"
	"github.com/guttosm/etmarket/internal/api"
	"github.com/guttosm/etmarket/internal/cache"
)

// memoryCacheBytes bounds the in-process cache.
const memoryCacheBytes = 64 << 20

// redisConnector is an indirection for unit testing.
var redisConnector = func(ctx context.Context, c config.CacheConfig) (*cache.Redis, error) {
	return cache.NewRedis(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
}

// newCache builds the configured read cache and, for Redis, its readiness check.
//
// Backends:
//   - "memory" (default): ristretto, local to the process.
//   - "redis": shared between instances; must be reachable at startup.
//   - "none": caching disabled.
func newCache(ctx context.Context, c config.CacheConfig) (cache.Store, api.Check, error) {
	switch c.Backend {
	case "", "memory":
		m, err := cache.NewMemory(memoryCacheBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("memory cache: %w", err)
		}
		return m, nil, nil
	case "redis":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := redisConnector(ctx, c)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache at %s: %w", c.RedisAddr, err)
		}
		return r, r.Ping, nil
	case "none":
		return cache.Nop{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}
