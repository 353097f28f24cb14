package v1

import (
	"context"

	"academy/config"
	"academy/handlers/admin"
	"academy/handlers/teams"
	"academy/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups the handler sets mounted under /api/v1
type Handlers struct {
	Teams *teams.Handler
	Admin *admin.Handler
}

// Register the endpoints for the v1 API. Idle rate limiter visitors are cleaned up until ctx is done.
func Register(ctx context.Context, r *gin.Engine, h Handlers) error {
	if err := admin.RegisterValidators(); err != nil {
		return err
	}

	v1 := r.Group("/api/v1")

	// Add metrics middleware to all routes
	v1.Use(middleware.MetricsMiddleware())

	rateLimiter := middleware.NewRateLimiter("api", config.DefaultRateLimitConfig)
	v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

	RegisterPingRoutes(v1)
	limiters := append([]*middleware.RateLimiter{rateLimiter}, teams.RegisterRoutes(v1, h.Teams)...)
	admin.RegisterRoutes(v1, h.Admin)

	middleware.StartRateLimiterCleanup(ctx, config.RateLimiterCleanupInterval, config.RateLimiterMaxIdle, limiters...)

	// Register metrics endpoint
	RegisterMetricsRoutes(v1)
	return nil
}
