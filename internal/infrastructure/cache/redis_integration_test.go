//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/infrastructure/config"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}
}

func TestRedisWearHistoryStore_Integration(t *testing.T) {
	client, err := NewRedisClient(context.Background(), startRedis(t))
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisWearHistoryStore(client)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	require.NoError(t, store.Append(ctx, "u1",
		recommendation.WearEntry{ItemID: "item-a", WornAt: now.Add(-3 * time.Hour)},
		recommendation.WearEntry{ItemID: "item-a", WornAt: now.Add(-time.Hour)},
		recommendation.WearEntry{ItemID: "old", WornAt: now.Add(-40 * 24 * time.Hour)},
	))

	entries, err := store.List(ctx, "u1", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "item-a", entries[0].ItemID)
	assert.True(t, entries[0].WornAt.Equal(now.Add(-time.Hour)))

	require.NoError(t, store.Prune(ctx, "u1", now.Add(-recommendation.WearHistoryRetention)))
	all, err := store.List(ctx, "u1", time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ttl, err := client.TTL(ctx, wearHistoryKeyPrefix+"u1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 29*24*time.Hour)
}

func TestRedisWeatherCache_Integration(t *testing.T) {
	client, err := NewRedisClient(context.Background(), startRedis(t))
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisWeatherCache(client)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "lyon:fr")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "lyon:fr", recommendation.Weather{City: "Lyon", Temp: 14.5}, time.Minute))
	w, found, err := c.Get(ctx, "lyon:fr")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 14.5, w.Temp, 1e-9)
}
