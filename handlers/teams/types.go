package teams

import (
	"context"
	"strconv"
	"time"

	"academy/models"
	"academy/progress"
	"academy/realtime"
	"academy/utils/response"

	"github.com/gin-gonic/gin"
)

// Error message constants
const (
	ErrInvalidTeamID       = "Invalid team ID"
	ErrInvalidStageID      = "Invalid stage ID"
	ErrInvalidAssignmentID = "Invalid assignment ID"
	ErrInvalidRequest      = "Invalid request body"
	ErrTeamNotFound        = "Team not found"
	ErrCategoryNotFound    = "Category not found"
	ErrAssignmentNotFound  = "Assignment not found"
	ErrTeamNameTaken       = "A team with this name already exists"
	ErrNoStages            = "The competition has no stage yet"
	ErrWrongStage          = "This assignment is not part of your current stage"
	ErrAssignmentClosed    = "This assignment is closed for submissions"
	ErrStageApproved       = "This stage is already approved"
	ErrFetchStagesFailed   = "Failed to fetch stages"
	ErrFetchCategories     = "Failed to fetch categories"
	ErrRegisterFailed      = "Failed to register team"
	ErrDashboardFailed     = "Failed to build dashboard"
	ErrDismissFailed       = "Failed to dismiss notification"
	ErrSubmitFailed        = "Failed to record submission"
)

// RequestTimeout bounds the work of a single request
const RequestTimeout = 5 * time.Second

// Catalog lists the public reference data
type Catalog interface {
	ListStages(ctx context.Context) ([]models.CompetitionStage, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	RegisterTeam(ctx context.Context, name string, contactEmail string, categoryID uint) (*models.Team, error)
}

// Dashboards derives and edits the dashboard of a team
type Dashboards interface {
	TeamDashboard(ctx context.Context, teamID uint) (progress.Dashboard, error)
	DismissNotification(ctx context.Context, teamID, stageID uint, kind progress.NotificationKind) error
}

// Submissions records assignment hand-ins
type Submissions interface {
	SubmitAssignment(ctx context.Context, teamID, assignmentID uint, link, note string) (*models.Submission, error)
}

// Handler serves the participant endpoints
type Handler struct {
	Catalog     Catalog
	Dashboards  Dashboards
	Submissions Submissions
	Hub         *realtime.Hub
}

// RegisterTeamRequest is the body of a team registration
type RegisterTeamRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	CategoryID   uint   `json:"category_id" binding:"required"`
}

// DismissRequest names which banner of the stage is acknowledged
type DismissRequest struct {
	Kind progress.NotificationKind `json:"kind" binding:"required,oneof=approved rejected"`
}

// SubmissionRequest is the body of an assignment submission
type SubmissionRequest struct {
	Link string `json:"link" binding:"required,url"`
	Note string `json:"note" binding:"max=2000"`
}

// respondWithError sends an error response with the given status code and message
func respondWithError(c *gin.Context, status int, message string) {
	response.Error(c, status, message)
}

// paramID reads a positive numeric path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
