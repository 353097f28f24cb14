package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"academy/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReviewStage approves or rejects the work of a team on a stage
// @Summary Review a stage
// @Description Approve or reject a stage of a team. Approving the current stage moves the team to the next one.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param stage_id path int true "Stage ID"
// @Param request body ReviewRequest true "Decision"
// @Success 200 {object} services.ReviewResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/teams/{id}/stages/{stage_id}/review [put]
// @Security Bearer
func (h *Handler) ReviewStage(c *gin.Context) {
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

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}
	if req.Feedback != nil {
		trimmed := strings.TrimSpace(*req.Feedback)
		req.Feedback = &trimmed
		if trimmed == "" {
			req.Feedback = nil
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	result, err := h.Reviews.Review(ctx, teamID, stageID, req.Status, req.Feedback)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, services.ErrInvalidReviewStatus):
		respondWithError(c, http.StatusBadRequest, ErrInvalidStatus)
	case errors.Is(err, services.ErrTeamNotFound):
		respondWithError(c, http.StatusNotFound, ErrTeamNotFound)
	case errors.Is(err, services.ErrStageNotFound):
		respondWithError(c, http.StatusNotFound, ErrStageNotFound)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{"team_id": teamID, "stage_id": stageID}).Error("failed to review stage")
		respondWithError(c, http.StatusInternalServerError, ErrReviewFailed)
	}
}
