package cache

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/etmarket/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "etmarket:cache:"
	genPrefix = "etmarket:gen:"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Redis shares cached responses and generations between API instances.
// Failures degrade to cache misses.
type Redis struct {
	client redisClient
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		logger.L().Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (r *Redis) Generation(ctx context.Context, entity string) int64 {
	n, err := r.client.Get(ctx, genPrefix+entity).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.L().Warn().Err(err).Str("entity", entity).Msg("cache generation lookup failed")
		return UnknownGeneration
	}
	return n
}

func (r *Redis) Invalidate(ctx context.Context, entities ...string) error {
	var errs []error
	for _, e := range entities {
		if err := r.client.Incr(ctx, genPrefix+e).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ping reports whether the server is reachable; used by the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
