package services

import "errors"

var (
	ErrTeamNotFound         = errors.New("team not found")
	ErrStageNotFound        = errors.New("stage not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrNoStages             = errors.New("no competition stage configured")
	ErrTeamNameTaken        = errors.New("team name already taken")
	ErrInvalidTeam          = errors.New("team name and contact email are required")
	ErrWrongStage           = errors.New("assignment does not belong to the team's current stage")
	ErrAssignmentClosed     = errors.New("assignment is closed for submissions")
	ErrStageAlreadyApproved = errors.New("stage already approved")
	ErrInvalidSubmission    = errors.New("submission link is required")
	ErrInvalidReviewStatus  = errors.New("review status must be approved or rejected")

	ErrInvalidNotificationKind = errors.New("notification kind must be approved or rejected")
)
