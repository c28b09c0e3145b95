package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// NewServer creates the read-only HTTP surface over the product cache
// and the run audit log.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(rateLimiter(rate.NewLimiter(rate.Limit(20), 40)))

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)

	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.GET("/runs", handler.ListRuns)
			api.GET("/runs/:id", handler.GetRun)
			api.GET("/products/:article", handler.GetProduct)
		}
		slog.Info("API endpoints enabled with authentication")
	} else {
		slog.Info("API endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"health": "/health",
		}
		if apiAccessKey != "" {
			endpoints["runs"] = "/api/runs (requires X-API-Key header)"
			endpoints["run"] = "/api/runs/<id> (requires X-API-Key header)"
			endpoints["product"] = "/api/products/<article> (requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "MTP Newsletter",
			"description": "Product cache and newsletter run audit API",
			"endpoints":   endpoints,
		})
	})
}

func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-API-Key") != apiAccessKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}
		c.Next()
	}
}

// rateLimiter rejects requests above the configured rate instead of
// queueing them; the API is a convenience surface, not a data plane.
func rateLimiter(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client", c.ClientIP())
	}
}
