package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"academy/database"
	"academy/metrics"
	"academy/models"
	"academy/progress"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubmissionService records assignment hand-ins
type SubmissionService struct {
	repo   Repository
	cache  Invalidator
	events Publisher
	now    func() time.Time
}

func NewSubmissionService(repo Repository, cache Invalidator, events Publisher, now func() time.Time) *SubmissionService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &SubmissionService{repo: repo, cache: cache, events: events, now: now}
}

// SubmitAssignment stores a submission for an open assignment of the team's current stage
// and marks the stage as submitted.
func (s *SubmissionService) SubmitAssignment(ctx context.Context, teamID, assignmentID uint, link, note string) (*models.Submission, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, ErrInvalidSubmission
	}

	team, err := s.repo.FindTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to fetch team: %w", err)
	}

	assignment, err := s.repo.FindAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch assignment: %w", err)
	}

	now := s.now()
	if assignment.CompetitionStageID != team.CurrentStageID {
		return nil, ErrWrongStage
	}
	if !assignment.ToProgress().IsOpen(now) {
		return nil, ErrAssignmentClosed
	}

	record, err := s.repo.FindProgress(ctx, teamID, assignment.CompetitionStageID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		record = &models.ParticipantProgress{TeamID: teamID, CompetitionStageID: assignment.CompetitionStageID}
	case err != nil:
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	case record.Status == progress.ProgressApproved:
		return nil, ErrStageAlreadyApproved
	}
	record.Status = progress.ProgressSubmitted
	record.UpdatedAt = now

	submission := &models.Submission{
		ID:           uuid.NewString(),
		TeamID:       teamID,
		AssignmentID: assignmentID,
		Link:         link,
		Note:         strings.TrimSpace(note),
		SubmittedAt:  now,
	}
	if err := s.repo.RecordSubmission(ctx, submission, record); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}
	metrics.Submissions.Inc()

	log := logrus.WithFields(logrus.Fields{"team_id": teamID, "assignment_id": assignmentID})
	if err := s.cache.Invalidate(ctx, teamID); err != nil {
		log.WithError(err).Warn("failed to invalidate snapshot cache")
	}
	s.events.Publish(teamID, UpdateSubmitted)
	log.Info("assignment submitted")

	return submission, nil
}
