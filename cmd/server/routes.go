package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/infrastructure/auth"
	"github.com/wardrobe/backend/internal/infrastructure/cache"
	"github.com/wardrobe/backend/internal/infrastructure/config"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/infrastructure/persistence"
	"github.com/wardrobe/backend/internal/infrastructure/telemetry"
	"github.com/wardrobe/backend/internal/interfaces/http/handler"
	"github.com/wardrobe/backend/internal/interfaces/http/middleware"
	"github.com/wardrobe/backend/internal/interfaces/http/router"
)

// multipartSlack is added to the image limit for the multipart envelope and form fields
const multipartSlack = 1 << 20

type services struct {
	analysis       handler.AnalysisService
	wardrobe       handler.WardrobeService
	recommendation handler.RecommendationService
}

func newSystemHandler(cfg *config.Config, db *persistence.Database, stores *cache.Stores) *handler.SystemHandler {
	var ping handler.PingFunc
	if client := stores.Client(); client != nil {
		ping = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return handler.NewSystemHandler("AI Fashion Assistant API", cfg.App.Version,
		handler.WithDatabase(db),
		handler.WithRedis(stores.Backend, ping),
	)
}

// newEngine builds the gin engine: global middleware, the contract routes on
// the root, the versioned API and the service endpoints. The returned rate
// limiter, when not nil, must be stopped on shutdown.
func newEngine(
	cfg *config.Config,
	log *zap.Logger,
	tel *telemetry.Providers,
	jwtService *auth.JWTService,
	svc services,
	systemHandler *handler.SystemHandler,
) (*gin.Engine, *middleware.RateLimiter) {
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Root span, marked as error on 5xx
	// 5. Metrics - Request count and latency
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. Timeout - Bound the request context
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.SpanStatus())
	if tel.MetricsEnabled() {
		engine.Use(middleware.HTTPMetrics(tel.Meter("http.server")))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	// Authentication: the versioned API requires a token, the contract
	// routes accept anonymous callers as the mobile client always did.
	requireAuth, optionalAuth := authMiddleware(log, jwtService)

	var rateLimiter *middleware.RateLimiter
	afterAuth := []gin.HandlerFunc{middleware.SpanAttributes()}
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		afterAuth = append(afterAuth, middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	imageLimit := middleware.BodyLimit(cfg.Analysis.MaxImageBytes + multipartSlack)
	jsonLimit := middleware.BodyLimit(cfg.HTTP.MaxBodySize)

	analysisHandler := handler.NewAnalysisHandler(svc.analysis)
	wardrobeHandler := handler.NewWardrobeHandler(svc.wardrobe)
	recommendationHandler := handler.NewRecommendationHandler(svc.recommendation)

	r := router.New(engine, "v1")

	// Service endpoints
	system := router.NewGroup("system", "")
	system.GET("/", systemHandler.Root)
	system.GET("/health", systemHandler.Health)
	system.GET("/health/detailed", systemHandler.HealthDetailed)
	system.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth && jwtService.Enabled(),
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, requireAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Contract endpoints kept on the root for existing clients
	contract := router.NewGroup("contract", "", optionalAuth).Use(afterAuth...)
	contract.POST("/analyze-outfit", imageLimit, analysisHandler.AnalyzeOutfit)
	contract.POST("/daily-recommendations", jsonLimit, recommendationHandler.DailyRecommendations)
	contract.POST("/generate-outfit-suggestions", jsonLimit, recommendationHandler.GenerateSuggestions)
	contract.POST("/match-outfit", jsonLimit, recommendationHandler.MatchOutfit)
	contract.POST("/save-clothing", jsonLimit, wardrobeHandler.SaveAnalysis)
	contract.GET("/wardrobe/:user_id/pieces", wardrobeHandler.ListPieces)
	contract.GET("/wardrobe/:user_id/looks", wardrobeHandler.ListLooks)
	contract.PUT("/wardrobe/items/:item_id", jsonLimit, wardrobeHandler.UpdateItem)

	r.Root(system, contract)

	// Versioned API
	r.Use(requireAuth)
	r.Use(afterAuth...)

	analysisRoutes := router.NewGroup("outfit-analysis", "/outfit-analysis")
	analysisRoutes.POST("/analyze", imageLimit, analysisHandler.AnalyzeOutfit)
	analysisRoutes.GET("/users/:user_id/analyses", analysisHandler.ListAnalyses)
	analysisRoutes.GET("/analyses/:id", analysisHandler.GetAnalysis)
	analysisRoutes.DELETE("/analyses/:id", analysisHandler.DeleteAnalysis)

	wardrobeRoutes := router.NewGroup("wardrobe", "/wardrobe", jsonLimit)
	wardrobeRoutes.POST("/save", wardrobeHandler.SaveAnalysis)
	wardrobeRoutes.GET("/:user_id/pieces", wardrobeHandler.ListPieces)
	wardrobeRoutes.GET("/:user_id/looks", wardrobeHandler.ListLooks)
	wardrobeRoutes.GET("/items/:item_id", wardrobeHandler.GetItem)
	wardrobeRoutes.PUT("/items/:item_id", wardrobeHandler.UpdateItem)
	wardrobeRoutes.DELETE("/items/:item_id", wardrobeHandler.DeleteItem)
	wardrobeRoutes.POST("/items/:item_id/favorite", wardrobeHandler.ToggleFavorite)

	recommendationRoutes := router.NewGroup("recommendations", "/recommendations", jsonLimit)
	recommendationRoutes.POST("/daily", recommendationHandler.DailyRecommendations)
	recommendationRoutes.POST("/match", recommendationHandler.MatchOutfit)
	recommendationRoutes.POST("/suggestions", recommendationHandler.GenerateSuggestions)
	recommendationRoutes.POST("/track", recommendationHandler.Track)
	recommendationRoutes.POST("/check", recommendationHandler.CheckRecentlyRecommended)
	recommendationRoutes.POST("/mark-worn", recommendationHandler.MarkWorn)
	recommendationRoutes.POST("/records/:id/worn", recommendationHandler.MarkRecordWorn)

	userRoutes := recommendationRoutes.Group("recommendation-users", "/users/:user_id")
	userRoutes.GET("/recent", recommendationHandler.Recent)
	userRoutes.GET("/history", recommendationHandler.History)
	userRoutes.GET("/stats", recommendationHandler.Stats)
	userRoutes.GET("/wear-history", recommendationHandler.WearHistory)
	userRoutes.GET("/records/:recommendation_id", recommendationHandler.FindByRecommendationID)

	r.API(analysisRoutes, wardrobeRoutes, recommendationRoutes)

	for _, route := range r.Mount() {
		log.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}

	return engine, rateLimiter
}

// authMiddleware returns the mandatory and optional JWT middleware. Both are
// pass-through when no JWT secret is configured.
func authMiddleware(log *zap.Logger, jwtService *auth.JWTService) (gin.HandlerFunc, gin.HandlerFunc) {
	if !jwtService.Enabled() {
		pass := func(c *gin.Context) { c.Next() }
		return pass, pass
	}
	authn := middleware.NewAuthenticator(jwtService, log)
	return authn.Required(), authn.Optional()
}
