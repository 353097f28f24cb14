package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"academy/database"
	"academy/metrics"
	"academy/models"
	"academy/progress"

	"github.com/sirupsen/logrus"
)

// ReviewResult is the outcome of a stage review
type ReviewResult struct {
	Progress       models.ParticipantProgress `json:"progress"`
	CurrentStageID uint                       `json:"current_stage_id"`
	Advanced       bool                       `json:"advanced"`
}

// ReviewService lets the committee approve or reject a team's stage and moves teams forward
type ReviewService struct {
	repo     Repository
	cache    Invalidator
	events   Publisher
	notifier Notifier
	now      func() time.Time
}

func NewReviewService(repo Repository, cache Invalidator, events Publisher, notifier Notifier, now func() time.Time) *ReviewService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &ReviewService{repo: repo, cache: cache, events: events, notifier: notifier, now: now}
}

// Review records the committee decision on a stage. Approving the team's current stage
// advances it to the next stage by order and opens a pending record there.
func (s *ReviewService) Review(ctx context.Context, teamID, stageID uint, status progress.ProgressStatus, feedback *string) (*ReviewResult, error) {
	if status != progress.ProgressApproved && status != progress.ProgressRejected {
		return nil, ErrInvalidReviewStatus
	}

	team, err := s.repo.FindTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to fetch team: %w", err)
	}

	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stages: %w", err)
	}
	progressStages := toProgressStages(stages)
	stage, ok := progress.ResolveCurrentStage(progressStages, stageID)
	if !ok {
		return nil, ErrStageNotFound
	}

	record, err := s.repo.FindProgress(ctx, teamID, stageID)
	if errors.Is(err, database.ErrNotFound) {
		record = &models.ParticipantProgress{TeamID: teamID, CompetitionStageID: stageID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}

	now := s.now()
	record.Status = status
	record.Feedback = feedback
	record.ReviewedAt = &now
	record.UpdatedAt = now

	var next *models.ParticipantProgress
	advanced := false
	if status == progress.ProgressApproved && team.CurrentStageID == stageID {
		if nextStage, ok := progress.NextStage(progressStages, stageID); ok {
			team.CurrentStageID = nextStage.ID
			next = &models.ParticipantProgress{
				TeamID:             teamID,
				CompetitionStageID: nextStage.ID,
				Status:             progress.ProgressPending,
				UpdatedAt:          now,
			}
			advanced = true
		}
	}

	if err := s.repo.ApplyReview(ctx, record, team, next); err != nil {
		return nil, fmt.Errorf("failed to apply review: %w", err)
	}
	metrics.Reviews.WithLabelValues(string(status)).Inc()

	log := logrus.WithFields(logrus.Fields{"team_id": teamID, "stage_id": stageID, "status": status})
	if err := s.cache.Invalidate(ctx, teamID); err != nil {
		log.WithError(err).Warn("failed to invalidate snapshot cache")
	}
	s.events.Publish(teamID, UpdateReviewed)

	if err := s.notifier.Notify(ctx, reviewMessage(*team, stage, status, feedback)); err != nil {
		log.WithError(err).Warn("failed to notify team about review")
	}
	log.WithField("advanced", advanced).Info("stage reviewed")

	return &ReviewResult{Progress: *record, CurrentStageID: team.CurrentStageID, Advanced: advanced}, nil
}

func reviewMessage(team models.Team, stage progress.Stage, status progress.ProgressStatus, feedback *string) Message {
	msg := Message{TeamID: team.ID, TeamName: team.Name, Recipient: team.ContactEmail}
	if status == progress.ProgressApproved {
		msg.Subject = fmt.Sprintf("%s approved", stage.Name)
		msg.Body = fmt.Sprintf("Congratulations %s, your %s submission has been approved.", team.Name, stage.Name)
	} else {
		msg.Subject = fmt.Sprintf("%s needs another look", stage.Name)
		msg.Body = fmt.Sprintf("%s, your %s submission has been rejected.", team.Name, stage.Name)
	}
	if feedback != nil && *feedback != "" {
		msg.Body += "\n\nFeedback: " + *feedback
	}
	return msg
}
