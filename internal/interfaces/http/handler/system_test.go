package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe/backend/internal/infrastructure/persistence"
)

type fakeDatabase struct {
	pingErr error
	stats   persistence.ConnectionStats
}

func (f *fakeDatabase) Ping(context.Context) error { return f.pingErr }

func (f *fakeDatabase) Stats() persistence.ConnectionStats { return f.stats }

func serveSystem(h *SystemHandler, target string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/health/detailed", h.HealthDetailed)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSystemHandler_Root(t *testing.T) {
	w := serveSystem(NewSystemHandler("AI Fashion Assistant API", "1.0.0"), "/")

	require.Equal(t, http.StatusOK, w.Code)
	var resp ServiceInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI Fashion Assistant API", resp.Message)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, []string{"outfit-analysis", "wardrobe", "recommendations"}, resp.Modules)
}

func TestSystemHandler_Health(t *testing.T) {
	okPing := func(context.Context) error { return nil }
	badPing := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name     string
		opts     []SystemHandlerOption
		status   int
		health   string
		database string
		redis    string
	}{
		{
			name:     "all dependencies up",
			opts:     []SystemHandlerOption{WithDatabase(&fakeDatabase{}), WithRedis("redis", okPing)},
			status:   http.StatusOK,
			health:   "healthy",
			database: "ok",
			redis:    "ok",
		},
		{
			name:     "redis down degrades",
			opts:     []SystemHandlerOption{WithDatabase(&fakeDatabase{}), WithRedis("memory", badPing)},
			status:   http.StatusOK,
			health:   "degraded",
			database: "ok",
			redis:    "error",
		},
		{
			name:     "database down",
			opts:     []SystemHandlerOption{WithDatabase(&fakeDatabase{pingErr: errors.New("timeout")}), WithRedis("redis", okPing)},
			status:   http.StatusServiceUnavailable,
			health:   "unhealthy",
			database: "error",
			redis:    "ok",
		},
		{
			name:     "memory cache only",
			opts:     []SystemHandlerOption{WithDatabase(&fakeDatabase{}), WithRedis("memory", nil)},
			status:   http.StatusOK,
			health:   "healthy",
			database: "ok",
			redis:    "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSystem(NewSystemHandler("svc", "1.0.0", tt.opts...), "/health")

			assert.Equal(t, tt.status, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.health, resp.Status)
			assert.Equal(t, tt.database, resp.Database)
			assert.Equal(t, tt.redis, resp.Redis)
			assert.NotEmpty(t, resp.Time)
		})
	}
}

func TestSystemHandler_HealthDetailed(t *testing.T) {
	db := &fakeDatabase{stats: persistence.ConnectionStats{MaxOpenConnections: 25, OpenConnections: 3, Idle: 2, InUse: 1}}
	w := serveSystem(NewSystemHandler("svc", "2.1.0", WithDatabase(db)), "/health/detailed")

	require.Equal(t, http.StatusOK, w.Code)
	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "2.1.0", resp.Version)
	assert.NotEmpty(t, resp.GoVersion)
	assert.NotEmpty(t, resp.Uptime)
	require.NotNil(t, resp.Pool)
	assert.Equal(t, 25, resp.Pool.MaxOpenConnections)
	assert.Equal(t, 1, resp.Pool.InUse)
}

func TestSystemHandler_HealthWithoutDatabase(t *testing.T) {
	w := serveSystem(NewSystemHandler("svc", "1.0.0"), "/health/detailed")

	require.Equal(t, http.StatusOK, w.Code)
	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "disabled", resp.Database)
	assert.Nil(t, resp.Pool)
}
