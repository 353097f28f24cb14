package admin

import (
	"context"
	"net/http"

	"academy/models"
	"academy/progress"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListTeams returns every team with its progress
// @Summary List teams
// @Description Every registered team with its category, current stage and per-stage status
// @Tags Admin
// @Produce json
// @Success 200 {array} TeamOverview
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/teams [get]
// @Security Bearer
func (h *Handler) ListTeams(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	teams, err := h.Teams.ListTeams(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list teams")
		respondWithError(c, http.StatusInternalServerError, ErrFetchTeamsFailed)
		return
	}

	overview := make([]TeamOverview, 0, len(teams))
	for _, team := range teams {
		overview = append(overview, toOverview(team))
	}
	c.JSON(http.StatusOK, overview)
}

func toOverview(team models.Team) TeamOverview {
	line := TeamOverview{
		ID:             team.ID,
		Name:           team.Name,
		ContactEmail:   team.ContactEmail,
		CurrentStageID: team.CurrentStageID,
		Statuses:       make(map[uint]progress.ProgressStatus, len(team.Progress)),
		CreatedAt:      team.CreatedAt,
	}
	if team.Category != nil {
		line.Category = team.Category.Name
	}
	if team.CurrentStage != nil {
		line.CurrentStageName = team.CurrentStage.Name
	}
	for _, record := range team.Progress {
		line.Statuses[record.CompetitionStageID] = record.Status
	}
	return line
}
