package teams

import (
	"context"
	"errors"
	"net/http"

	"academy/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetDashboard returns the derived progress dashboard of a team
// @Summary Get team dashboard
// @Description Current stage, stage statuses, timeline, completion, current assignment and review banners of a team
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} progress.Dashboard
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams/{id}/dashboard [get]
// @Security Bearer
func (h *Handler) GetDashboard(c *gin.Context) {
	teamID, ok := paramID(c, "id")
	if !ok {
		respondWithError(c, http.StatusBadRequest, ErrInvalidTeamID)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	dashboard, err := h.Dashboards.TeamDashboard(ctx, teamID)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			respondWithError(c, http.StatusNotFound, ErrTeamNotFound)
			return
		}
		logrus.WithError(err).WithField("team_id", teamID).Error("failed to build dashboard")
		respondWithError(c, http.StatusInternalServerError, ErrDashboardFailed)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// DismissNotification hides a review banner from the dashboard
// @Summary Dismiss a review notification
// @Description Hide the approved or rejected banner of a stage for a while
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param stage_id path int true "Stage ID"
// @Param request body DismissRequest true "Banner kind"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams/{id}/notifications/{stage_id}/dismiss [post]
// @Security Bearer
func (h *Handler) DismissNotification(c *gin.Context) {
	teamID, ok := paramID(c, "id")
	if !ok {
		respondWithError(c, http.StatusBadRequest, ErrInvalidTeamID)
		return
	}
	stageID, ok := paramID(c, "stage_id")
	if !ok {
		respondWithError(c, http.StatusBadRequest, ErrInvalidStageID)
		return
	}

	var req DismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	if err := h.Dashboards.DismissNotification(ctx, teamID, stageID, req.Kind); err != nil {
		if errors.Is(err, services.ErrInvalidNotificationKind) {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		logrus.WithError(err).WithField("team_id", teamID).Error("failed to dismiss notification")
		respondWithError(c, http.StatusInternalServerError, ErrDismissFailed)
		return
	}
	c.Status(http.StatusNoContent)
}
