package teams

import (
	"academy/config"
	"academy/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public and participant routes
// r: the RouterGroup to which the routes are added
// It returns the rate limiters it created so their idle visitors can be cleaned up.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) []*middleware.RateLimiter {
	r.GET("/categories", h.ListCategories)
	r.GET("/stages", h.ListStages)

	registrationLimiter := middleware.NewRateLimiter("registration", config.SubmissionRateLimitConfig)
	r.POST("/teams", middleware.RateLimiterMiddleware(registrationLimiter), h.RegisterTeam)

	submissionLimiter := middleware.NewRateLimiter("submissions", config.SubmissionRateLimitConfig)

	team := r.Group("/teams/:id")
	team.Use(middleware.AuthMiddleware(), middleware.TeamAccessMiddleware())
	{
		team.GET("/dashboard", h.GetDashboard)
		team.POST("/notifications/:stage_id/dismiss", h.DismissNotification)
		team.POST("/assignments/:assignment_id/submissions", middleware.RateLimiterMiddleware(submissionLimiter), h.SubmitAssignment)

		team.GET("/ws", h.DashboardWebSocket)
	}
	return []*middleware.RateLimiter{registrationLimiter, submissionLimiter}
}
