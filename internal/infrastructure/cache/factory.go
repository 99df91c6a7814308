package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores groups the Redis-backed (or in-memory) stores used by the services
type Stores struct {
	WearHistory recommendation.WearHistoryStore
	Weather     WeatherCache
	// Backend is "redis" or "memory"
	Backend string

	client  *redis.Client
	closers []func() error
}

// Client returns the Redis client, nil for in-memory stores
func (s *Stores) Client() *redis.Client {
	return s.client
}

// Close releases the Redis client or stops the in-memory cleanup loops
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StoreFactory creates stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStores connects to Redis and builds the Redis-backed stores
func (f *StoreFactory) CreateRedisStores(ctx context.Context) (*Stores, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	return &Stores{
		WearHistory: NewRedisWearHistoryStore(client),
		Weather:     NewRedisWeatherCache(client),
		Backend:     "redis",
		client:      client,
		closers:     []func() error{client.Close},
	}, nil
}

// CreateInMemoryStores builds process-local stores. Wear history does not
// survive restarts and is not shared between instances.
func (f *StoreFactory) CreateInMemoryStores() *Stores {
	weather := NewInMemoryWeatherCache()
	return &Stores{
		WearHistory: NewInMemoryWearHistoryStore(),
		Weather:     weather,
		Backend:     "memory",
		closers:     []func() error{weather.Close},
	}
}

// CreateStores uses Redis when it is enabled and reachable, falling back to
// in-memory stores when allowed
func (f *StoreFactory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory wear history and weather cache")
		return f.CreateInMemoryStores(), nil
	}

	stores, err := f.CreateRedisStores(ctx)
	if err == nil {
		f.logger.Info("using Redis wear history and weather cache", zap.String("addr", f.redisConfig.Addr()))
		return stores, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Wear history will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStores(), nil
}
