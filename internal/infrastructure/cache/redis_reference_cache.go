package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/libsys/acquisitions/internal/domain/catalog"
)

// RedisConfig holds Redis connection settings for the reference cache
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisReferenceCache implements ReferenceCache using Redis, so resolved
// reference ids are shared across service instances
type RedisReferenceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisReferenceCache creates a Redis-backed reference cache and verifies
// connectivity before returning
func NewRedisReferenceCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisReferenceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisReferenceCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Get retrieves a cached id. Redis errors degrade to a cache miss.
func (c *RedisReferenceCache) Get(ctx context.Context, kind catalog.ReferenceKind, code string) (uuid.UUID, bool) {
	value, err := c.client.Get(ctx, referenceKey(kind, code)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("reference cache read failed", zap.Error(err))
		}
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Set stores a resolved id. Redis errors are logged and swallowed; the cache
// is an optimization, never a source of truth.
func (c *RedisReferenceCache) Set(ctx context.Context, kind catalog.ReferenceKind, code string, id uuid.UUID) {
	if err := c.client.Set(ctx, referenceKey(kind, code), id.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("reference cache write failed", zap.Error(err))
	}
}

// Close releases the underlying Redis connection
func (c *RedisReferenceCache) Close() error {
	return c.client.Close()
}
