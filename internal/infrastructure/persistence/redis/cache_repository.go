// Package redis provides the Redis-backed enrichment cache for shared
// deployments where several API instances should hit the same entries.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cellarmind/v1/internal/ports/outbound"
)

const defaultTTL = 24 * time.Hour

// Config holds the Redis connection settings.
type Config struct {
	Host     string
	Port     int
	Password string
	Database int
}

// CacheRepository implements outbound.CacheRepository on go-redis. Expiry
// is delegated to Redis TTLs, which matches the lazy-expiry contract: an
// expired key simply misses.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository connects to Redis and verifies the connection.
func NewCacheRepository(ctx context.Context, cfg Config, logger *zap.Logger) (*CacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &CacheRepository{client: client, logger: logger.Named("redis-cache")}, nil
}

// Get returns the cached value or outbound.ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, outbound.ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

// Set stores a value with the given TTL, rejecting empty values so a
// cached "no data" placeholder cannot shadow a genuine miss.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if len(value) == 0 || string(value) == "null" || string(value) == "{}" || string(value) == "[]" {
		r.logger.Warn("refusing to cache empty value", zap.String("key", key))
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close releases the connection pool.
func (r *CacheRepository) Close() error {
	return r.client.Close()
}
