package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// allOrigins in CORS_ALLOW_ORIGINS lets any site call the API.
const allOrigins = "*"

// createCORSMiddleware returns the CORS middleware for browser clients, or nil when CORS
// is disabled or no origin is configured. Clients authenticate with bearer tokens, so
// credentials (cookies) are never allowed.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("cors enabled without origins, not applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if containsAllOrigins(origins) {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	logger.Info("cors enabled", slog.Any("origins", origins))
	return cors.New(config)
}

// parseOrigins splits a comma separated origin list, dropping blanks and trailing slashes.
func parseOrigins(value string) []string {
	var origins []string
	for _, part := range strings.Split(value, ",") {
		origin := strings.TrimSuffix(strings.TrimSpace(part), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func containsAllOrigins(origins []string) bool {
	for _, origin := range origins {
		if origin == allOrigins {
			return true
		}
	}
	return false
}
