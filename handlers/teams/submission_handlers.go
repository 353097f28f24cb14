package teams

import (
	"context"
	"errors"
	"net/http"

	"academy/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SubmitAssignment records the hand-in of an assignment
// @Summary Submit an assignment
// @Description Submit a link for an open assignment of the team's current stage
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param assignment_id path int true "Assignment ID"
// @Param request body SubmissionRequest true "Submission"
// @Success 201 {object} models.Submission
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams/{id}/assignments/{assignment_id}/submissions [post]
// @Security Bearer
func (h *Handler) SubmitAssignment(c *gin.Context) {
	teamID, ok := paramID(c, "id")
	if !ok {
		respondWithError(c, http.StatusBadRequest, ErrInvalidTeamID)
		return
	}
	assignmentID, ok := paramID(c, "assignment_id")
	if !ok {
		respondWithError(c, http.StatusBadRequest, ErrInvalidAssignmentID)
		return
	}

	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	submission, err := h.Submissions.SubmitAssignment(ctx, teamID, assignmentID, req.Link, req.Note)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, submission)
	case errors.Is(err, services.ErrInvalidSubmission):
		respondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrTeamNotFound):
		respondWithError(c, http.StatusNotFound, ErrTeamNotFound)
	case errors.Is(err, services.ErrAssignmentNotFound):
		respondWithError(c, http.StatusNotFound, ErrAssignmentNotFound)
	case errors.Is(err, services.ErrWrongStage):
		respondWithError(c, http.StatusUnprocessableEntity, ErrWrongStage)
	case errors.Is(err, services.ErrAssignmentClosed):
		respondWithError(c, http.StatusConflict, ErrAssignmentClosed)
	case errors.Is(err, services.ErrStageAlreadyApproved):
		respondWithError(c, http.StatusConflict, ErrStageApproved)
	default:
		logrus.WithError(err).WithField("team_id", teamID).Error("failed to record submission")
		respondWithError(c, http.StatusInternalServerError, ErrSubmitFailed)
	}
}
