package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryWearHistoryStore(t *testing.T) {
	store := NewInMemoryWearHistoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Append(ctx, "u1",
		recommendation.WearEntry{ItemID: "a", WornAt: now.Add(-40 * 24 * time.Hour)},
		recommendation.WearEntry{ItemID: "b", WornAt: now.Add(-2 * time.Hour)},
	))
	require.NoError(t, store.Append(ctx, "u1", recommendation.WearEntry{ItemID: "c", WornAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Append(ctx, "u2", recommendation.WearEntry{ItemID: "z", WornAt: now}))

	t.Run("lists newest first since the given time", func(t *testing.T) {
		entries, err := store.List(ctx, "u1", now.Add(-24*time.Hour))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "c", entries[0].ItemID)
		assert.Equal(t, "b", entries[1].ItemID)
	})

	t.Run("prune drops old entries", func(t *testing.T) {
		require.NoError(t, store.Prune(ctx, "u1", now.Add(-recommendation.WearHistoryRetention)))
		entries, err := store.List(ctx, "u1", time.Time{})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("unknown user has no history", func(t *testing.T) {
		entries, err := store.List(ctx, "nobody", time.Time{})
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, store.Prune(ctx, "nobody", now))
	})
}

func TestInMemoryWeatherCache(t *testing.T) {
	c := NewInMemoryWeatherCache()
	defer c.Close()
	ctx := context.Background()

	current := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	_, found, err := c.Get(ctx, "paris:fr")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "paris:fr", recommendation.Weather{City: "Paris", Temp: 21}, 30*time.Minute))
	w, found, err := c.Get(ctx, "paris:fr")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Paris", w.City)

	current = current.Add(31 * time.Minute)
	_, found, err = c.Get(ctx, "paris:fr")
	require.NoError(t, err)
	assert.False(t, found)

	c.evictExpired()
	assert.Equal(t, 0, c.Size())
	assert.NoError(t, c.Close())
}

func TestStoreFactory_CreateStores(t *testing.T) {
	t.Run("disabled redis uses memory", func(t *testing.T) {
		stores, err := NewStoreFactory(config.RedisConfig{Enabled: false}).CreateStores(context.Background())
		require.NoError(t, err)
		defer stores.Close()
		assert.Equal(t, "memory", stores.Backend)
		assert.Nil(t, stores.Client())
	})

	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("falls back to memory when redis is unreachable", func(t *testing.T) {
		core, recorded := observer.New(zapcore.WarnLevel)
		stores, err := NewStoreFactory(unreachable, WithLogger(zap.New(core))).CreateStores(context.Background())
		require.NoError(t, err)
		defer stores.Close()
		assert.Equal(t, "memory", stores.Backend)
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("fails without fallback", func(t *testing.T) {
		_, err := NewStoreFactory(unreachable, WithInMemoryFallback(false)).CreateStores(context.Background())
		assert.Error(t, err)
	})
}
