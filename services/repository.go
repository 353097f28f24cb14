package services

import (
	"context"
	"time"

	"academy/models"
	"academy/progress"
)

// SnapshotSource loads the input of a dashboard derivation
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context, teamID uint) (progress.Snapshot, error)
}

// Repository is the persistence the services rely on. database.Store implements it.
type Repository interface {
	SnapshotSource

	ListStages(ctx context.Context) ([]models.CompetitionStage, error)
	FindStage(ctx context.Context, id uint) (*models.CompetitionStage, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, id uint) (*models.Category, error)

	FindTeam(ctx context.Context, id uint) (*models.Team, error)
	TeamNameExists(ctx context.Context, name string) (bool, error)
	CreateTeam(ctx context.Context, team *models.Team, initial *models.ParticipantProgress) error
	ListTeams(ctx context.Context) ([]models.Team, error)
	TeamsOnStage(ctx context.Context, stageID uint) ([]models.Team, error)

	FindAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	ActiveAssignmentsDueBetween(ctx context.Context, from, to time.Time) ([]models.Assignment, error)
	ActiveAssignmentsOnStage(ctx context.Context, stageID uint) ([]models.Assignment, error)

	FindProgress(ctx context.Context, teamID, stageID uint) (*models.ParticipantProgress, error)
	RecordSubmission(ctx context.Context, submission *models.Submission, record *models.ParticipantProgress) error
	ApplyReview(ctx context.Context, record *models.ParticipantProgress, team *models.Team, next *models.ParticipantProgress) error
	LatestSubmissions(ctx context.Context, stageID uint) (map[uint]time.Time, error)
}

// Invalidator drops cached data of a team
type Invalidator interface {
	Invalidate(ctx context.Context, teamID uint) error
}

// Publisher pushes dashboard change events to connected clients
type Publisher interface {
	Publish(teamID uint, updateType string)
}

// Update types published to dashboard clients
const (
	UpdateSubmitted = "submitted"
	UpdateReviewed  = "reviewed"
)

type noopPublisher struct{}

func (noopPublisher) Publish(uint, string) {}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, uint) error { return nil }
