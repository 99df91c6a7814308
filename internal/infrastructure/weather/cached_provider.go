package weather

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/infrastructure/cache"
)

// CachedProvider serves weather from a cache keyed by city and country,
// falling through to the wrapped provider on a miss
type CachedProvider struct {
	next   recommendation.WeatherProvider
	cache  cache.WeatherCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps next with cache
func NewCachedProvider(next recommendation.WeatherProvider, c cache.WeatherCache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{next: next, cache: c, ttl: ttl, logger: logger}
}

var _ recommendation.WeatherProvider = (*CachedProvider)(nil)

// CacheKey builds the cache key of a city
func CacheKey(city, countryCode string) string {
	return strings.ToLower(strings.TrimSpace(city)) + ":" + strings.ToUpper(strings.TrimSpace(countryCode))
}

// Current returns the cached weather or fetches and caches it
func (p *CachedProvider) Current(ctx context.Context, city, countryCode string) (*recommendation.Weather, error) {
	key := CacheKey(city, countryCode)

	w, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("Weather cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return w, nil
	}

	w, err = p.next.Current(ctx, city, countryCode)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, key, *w, p.ttl); err != nil {
		p.logger.Warn("Weather cache write failed", zap.String("key", key), zap.Error(err))
	}
	return w, nil
}
