// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/your-org/mobilestore-api/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// "*" allows every origin; entries like https://*.example.com match subdomains.
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  cfg.Security.CORSAllowedMethods,
		AllowHeaders:  cfg.Security.CORSAllowedHeaders,
		ExposeHeaders: []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        24 * time.Hour,
	}

	if lo.Contains(cfg.Security.CORSAllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Security.CORSAllowedOrigins
		corsConfig.AllowWildcard = true
	}

	return cors.New(corsConfig)
}
