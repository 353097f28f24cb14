package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"academy/database"
	"academy/metrics"
	"academy/progress"

	"github.com/sirupsen/logrus"
)

// DashboardService composes the participant dashboard from a snapshot
type DashboardService struct {
	source     SnapshotSource
	dismissals DismissalStore
	now        func() time.Time
}

func NewDashboardService(source SnapshotSource, dismissals DismissalStore, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{source: source, dismissals: dismissals, now: now}
}

// TeamDashboard derives the dashboard of a team. Banners the team dismissed are left out.
func (s *DashboardService) TeamDashboard(ctx context.Context, teamID uint) (progress.Dashboard, error) {
	snapshot, err := s.source.LoadSnapshot(ctx, teamID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return progress.Dashboard{}, ErrTeamNotFound
		}
		return progress.Dashboard{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	dashboard := progress.Derive(snapshot, s.now())
	log := logrus.WithField("team_id", teamID)

	if dashboard.StageFallback && len(snapshot.Stages) > 0 {
		metrics.DashboardAnomalies.WithLabelValues("stage_fallback").Inc()
		log.WithFields(logrus.Fields{
			"current_stage_id":  snapshot.Team.CurrentStageID,
			"fallback_stage_id": dashboard.CurrentStage.ID,
		}).Warn("current stage not found, falling back to first stage")
	}
	if conflicts := progress.ActiveAssignmentConflicts(snapshot.Assignments); len(conflicts) > 0 {
		metrics.DashboardAnomalies.WithLabelValues("duplicate_active_assignment").Inc()
		log.WithField("stage_ids", conflicts).Warn("several active assignments on one stage")
	}

	if s.dismissals != nil && len(dashboard.Notifications) > 0 {
		dismissed, err := s.dismissals.Dismissed(ctx, teamID)
		if err != nil {
			log.WithError(err).Warn("could not read dismissed notifications")
		} else {
			dashboard.Notifications = withoutDismissed(dashboard.Notifications, dismissed)
		}
	}

	metrics.DashboardDerivations.WithLabelValues(string(currentStatus(dashboard))).Inc()
	return dashboard, nil
}

// DismissNotification acknowledges the approved or rejected banner of a stage
func (s *DashboardService) DismissNotification(ctx context.Context, teamID, stageID uint, kind progress.NotificationKind) error {
	if kind != progress.NotificationApproved && kind != progress.NotificationRejected {
		return ErrInvalidNotificationKind
	}
	if s.dismissals == nil {
		return nil
	}
	return s.dismissals.Dismiss(ctx, teamID, Banner{StageID: stageID, Kind: kind})
}

func withoutDismissed(notifications []progress.Notification, dismissed map[Banner]bool) []progress.Notification {
	kept := make([]progress.Notification, 0, len(notifications))
	for _, notification := range notifications {
		if dismissed[bannerOf(notification)] {
			continue
		}
		kept = append(kept, notification)
	}
	return kept
}

func currentStatus(dashboard progress.Dashboard) progress.StageStatus {
	for _, entry := range dashboard.StageStatuses {
		if entry.StageID == dashboard.CurrentStage.ID {
			return entry.Status
		}
	}
	return progress.StageNotStarted
}
