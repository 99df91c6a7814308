package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wardrobe/backend/internal/domain/recommendation"
)

const weatherKeyPrefix = "wardrobe:weather:"

// WeatherCache stores current weather per location key
type WeatherCache interface {
	// Get returns the cached weather, or found=false on a miss
	Get(ctx context.Context, key string) (*recommendation.Weather, bool, error)
	// Set stores the weather for ttl
	Set(ctx context.Context, key string, w recommendation.Weather, ttl time.Duration) error
}

// RedisWeatherCache stores weather as JSON strings with a TTL
type RedisWeatherCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisWeatherCache creates a cache on an existing client
func NewRedisWeatherCache(client *redis.Client) *RedisWeatherCache {
	return &RedisWeatherCache{client: client, keyPrefix: weatherKeyPrefix}
}

func (c *RedisWeatherCache) Get(ctx context.Context, key string) (*recommendation.Weather, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached weather: %w", err)
	}
	var w recommendation.Weather
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached weather: %w", err)
	}
	return &w, true, nil
}

func (c *RedisWeatherCache) Set(ctx context.Context, key string, w recommendation.Weather, ttl time.Duration) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache weather: %w", err)
	}
	return nil
}

var _ WeatherCache = (*RedisWeatherCache)(nil)

type weatherEntry struct {
	weather   recommendation.Weather
	expiresAt time.Time
}

// InMemoryWeatherCache is a process-local weather cache. A background loop
// evicts expired entries until Close is called.
type InMemoryWeatherCache struct {
	mu        sync.RWMutex
	entries   map[string]weatherEntry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryWeatherCache creates the cache and starts its cleanup loop
func NewInMemoryWeatherCache() *InMemoryWeatherCache {
	c := &InMemoryWeatherCache{
		entries:  make(map[string]weatherEntry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

func (c *InMemoryWeatherCache) Get(_ context.Context, key string) (*recommendation.Weather, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	w := e.weather
	return &w, true, nil
}

func (c *InMemoryWeatherCache) Set(_ context.Context, key string, w recommendation.Weather, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = weatherEntry{weather: w, expiresAt: c.now().Add(ttl)}
	return nil
}

// Close stops the cleanup loop. Safe to call multiple times.
func (c *InMemoryWeatherCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryWeatherCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryWeatherCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *InMemoryWeatherCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

var _ WeatherCache = (*InMemoryWeatherCache)(nil)
