package cache

import (
	"time"

	"go.uber.org/zap"
)

// ReferenceCacheFactory creates reference caches based on configuration
type ReferenceCacheFactory struct {
	redisConfig           RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*ReferenceCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *ReferenceCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *ReferenceCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReferenceCacheFactory creates a new factory
func NewReferenceCacheFactory(cfg RedisConfig, ttl time.Duration, opts ...FactoryOption) *ReferenceCacheFactory {
	f := &ReferenceCacheFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache creates a Redis reference cache, falling back to an in-memory
// one when Redis is unreachable and fallback is allowed
func (f *ReferenceCacheFactory) CreateCache() (ReferenceCache, error) {
	cache, err := NewRedisReferenceCache(f.redisConfig, f.ttl, f.logger)
	if err == nil {
		f.logger.Info("using Redis reference cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory reference cache",
		zap.Error(err),
	)
	return NewInMemoryReferenceCache(f.ttl), nil
}
