package admin

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"academy/models"
	"academy/progress"
	"academy/services"
	"academy/utils/response"

	"github.com/gin-gonic/gin"
)

// Error message constants
const (
	ErrInvalidTeamID    = "Invalid team ID"
	ErrInvalidStageID   = "Invalid stage ID"
	ErrInvalidRequest   = "Invalid request body"
	ErrTeamNotFound     = "Team not found"
	ErrStageNotFound    = "Stage not found"
	ErrFetchTeamsFailed = "Failed to fetch teams"
	ErrReviewFailed     = "Failed to review stage"
	ErrExportFailed     = "Failed to export stage progress"
	ErrInvalidStatus    = "Status must be approved or rejected"
)

// RequestTimeout bounds the work of a single request
const RequestTimeout = 10 * time.Second

// Teams lists the registered teams
type Teams interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// Reviews applies committee decisions
type Reviews interface {
	Review(ctx context.Context, teamID, stageID uint, status progress.ProgressStatus, feedback *string) (*services.ReviewResult, error)
}

// Exports builds spreadsheets
type Exports interface {
	ExportStageProgress(ctx context.Context, stageID uint) (*bytes.Buffer, string, error)
}

// Handler serves the committee endpoints
type Handler struct {
	Teams   Teams
	Reviews Reviews
	Exports Exports
}

// ReviewRequest is the committee decision on a stage of a team
type ReviewRequest struct {
	Status   progress.ProgressStatus `json:"status" binding:"required,progress_status"`
	Feedback *string                 `json:"feedback" binding:"omitempty,max=5000"`
}

// TeamOverview is one line of the admin team list
type TeamOverview struct {
	ID               uint                             `json:"id"`
	Name             string                           `json:"name"`
	ContactEmail     string                           `json:"contact_email"`
	Category         string                           `json:"category"`
	CurrentStageID   uint                             `json:"current_stage_id"`
	CurrentStageName string                           `json:"current_stage_name"`
	Statuses         map[uint]progress.ProgressStatus `json:"statuses"`
	CreatedAt        time.Time                        `json:"created_at"`
}

// respondWithError sends an error response with the given status code and message
func respondWithError(c *gin.Context, status int, message string) {
	response.Error(c, status, message)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
