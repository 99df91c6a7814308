package middleware

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig is the cross-origin policy of the API. Requests without an
// Origin header, such as those of the mobile app, are never affected.
type CORSConfig struct {
	AllowOrigins     []string // "*" allows any origin
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// CORS answers preflights with 204 and rejects other origins with 403.
// An empty origin list rejects every cross-origin browser request, and "*"
// never sends credentials.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  cfg.AllowMethods,
		AllowHeaders:  cfg.AllowHeaders,
		ExposeHeaders: cfg.ExposeHeaders,
		MaxAge:        cfg.MaxAge,
	}

	origins := corsOrigins(cfg.AllowOrigins)
	switch {
	case slices.Contains(origins, "*"):
		cc.AllowAllOrigins = true
	case len(origins) == 0:
		cc.AllowOriginFunc = func(string) bool { return false }
	default:
		cc.AllowOrigins = origins
		cc.AllowCredentials = cfg.AllowCredentials
	}
	return cors.New(cc)
}

// corsOrigins drops entries without an http(s) scheme, which cors.New
// would refuse with a panic
func corsOrigins(entries []string) []string {
	var out []string
	for _, origin := range entries {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" || strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			out = append(out, origin)
		}
	}
	return out
}
