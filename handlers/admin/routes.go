package admin

import (
	"academy/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the committee routes
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/teams", h.ListTeams)
		admin.PUT("/teams/:id/stages/:stage_id/review", h.ReviewStage)
		admin.GET("/stages/:id/export", h.ExportStage)
	}
}
