package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/infrastructure/persistence"
)

// healthTimeout bounds the dependency checks of /health
const healthTimeout = 2 * time.Second

// DatabaseChecker reports on the database connection
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() persistence.ConnectionStats
}

// PingFunc checks an optional dependency such as Redis
type PingFunc func(ctx context.Context) error

// SystemHandler serves the service info and health endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        DatabaseChecker
	redis     PingFunc
	cache     string
	startTime time.Time
}

// SystemHandlerOption configures a SystemHandler
type SystemHandlerOption func(*SystemHandler)

// WithDatabase adds the database to the health checks
func WithDatabase(db DatabaseChecker) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.db = db
	}
}

// WithRedis adds Redis to the health checks. backend is the cache backend
// actually in use ("redis" or "memory"); ping may be nil for "memory".
func WithRedis(backend string, ping PingFunc) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.cache = backend
		h.redis = ping
	}
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, opts ...SystemHandlerOption) *SystemHandler {
	h := &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServiceInfoResponse describes the running service
// @name HandlerServiceInfoResponse
type ServiceInfoResponse struct {
	Message string   `json:"message" example:"AI Fashion Assistant API"`
	Version string   `json:"version" example:"1.0.0"`
	Modules []string `json:"modules"`
}

// Root godoc
// @ID           getServiceInfo
// @Summary      Service information
// @Tags         system
// @Produce      json
// @Success      200 {object} ServiceInfoResponse
// @Router       / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfoResponse{
		Message: h.name,
		Version: h.version,
		Modules: []string{"outfit-analysis", "wardrobe", "recommendations"},
	})
}

// HealthResponse is the result of the health checks
// @name HandlerHealthResponse
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Time     string `json:"time" example:"2026-01-23T12:00:00Z"`
	Database string `json:"database" example:"ok"`
	Redis    string `json:"redis" example:"ok"`
	Cache    string `json:"cache,omitempty" example:"redis"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  The database is required. A Redis failure only degrades the service, wear history then lives in memory.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp, status := h.check(c)
	c.JSON(status, resp)
}

// DetailedHealthResponse adds runtime and connection pool details
// @name HandlerDetailedHealthResponse
type DetailedHealthResponse struct {
	HealthResponse
	Version   string                       `json:"version" example:"1.0.0"`
	GoVersion string                       `json:"go_version" example:"go1.25.5"`
	Uptime    string                       `json:"uptime" example:"1h30m45s"`
	Pool      *persistence.ConnectionStats `json:"pool,omitempty"`
}

// HealthDetailed godoc
// @ID           getHealthDetailed
// @Summary      Detailed health check
// @Tags         system
// @Produce      json
// @Success      200 {object} DetailedHealthResponse
// @Failure      503 {object} DetailedHealthResponse
// @Router       /health/detailed [get]
func (h *SystemHandler) HealthDetailed(c *gin.Context) {
	resp, status := h.check(c)
	detailed := DetailedHealthResponse{
		HealthResponse: resp,
		Version:        h.version,
		GoVersion:      runtime.Version(),
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.db != nil {
		stats := h.db.Stats()
		detailed.Pool = &stats
	}
	c.JSON(status, detailed)
}

func (h *SystemHandler) check(c *gin.Context) (HealthResponse, int) {
	reqLog := logger.GetGinLogger(c)
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().UTC().Format(time.RFC3339),
		Database: "ok",
		Redis:    "disabled",
		Cache:    h.cache,
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			reqLog.Warn("Database health check failed", zap.Error(err))
			resp.Status = "unhealthy"
			resp.Database = "error"
			status = http.StatusServiceUnavailable
		}
	} else {
		resp.Database = "disabled"
	}

	if h.redis != nil {
		if err := h.redis(ctx); err != nil {
			reqLog.Warn("Redis health check failed", zap.Error(err))
			resp.Redis = "error"
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		} else {
			resp.Redis = "ok"
		}
	}

	return resp, status
}
