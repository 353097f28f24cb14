package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"academy/progress"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Deduper answers whether a key is seen for the first time within ttl
type Deduper interface {
	FirstTime(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NewDeduper returns a redis SETNX deduper, or an in-memory one when rdb is nil
func NewDeduper(rdb *redis.Client) Deduper {
	if rdb == nil {
		return NewMemoryDeduper(time.Now)
	}
	return &RedisDeduper{rdb: rdb}
}

type RedisDeduper struct {
	rdb *redis.Client
}

func (r *RedisDeduper) FirstTime(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.rdb.SetNX(ctx, key, 1, ttl).Result()
}

type MemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryDeduper(now func() time.Time) *MemoryDeduper {
	return &MemoryDeduper{seen: make(map[string]time.Time), now: now}
}

func (m *MemoryDeduper) FirstTime(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if expiry, ok := m.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	m.seen[key] = now.Add(ttl)
	return true, nil
}

// ReminderService warns teams whose current assignment became urgent
type ReminderService struct {
	repo     Repository
	notifier Notifier
	dedupe   Deduper
	now      func() time.Time
}

func NewReminderService(repo Repository, notifier Notifier, dedupe Deduper, now func() time.Time) *ReminderService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &ReminderService{repo: repo, notifier: notifier, dedupe: dedupe, now: now}
}

func reminderKey(teamID, assignmentID uint) string {
	return fmt.Sprintf("reminder:team:%d:assignment:%d", teamID, assignmentID)
}

// SendDueReminders notifies, once per team and assignment, every team whose current
// assignment is urgent. It returns the number of reminders sent.
func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.repo.ActiveAssignmentsDueBetween(ctx, now, now.Add(progress.AssignmentUrgencyThreshold))
	if err != nil {
		return 0, fmt.Errorf("failed to list due assignments: %w", err)
	}

	// stages with an assignment due soon; the reminder goes for the assignment the dashboard shows
	stages := make(map[uint]bool)
	for _, assignment := range due {
		stages[assignment.CompetitionStageID] = true
	}

	sent := 0
	for stageID := range stages {
		active, err := s.repo.ActiveAssignmentsOnStage(ctx, stageID)
		if err != nil {
			return sent, fmt.Errorf("failed to list assignments of stage %d: %w", stageID, err)
		}
		assignments := make([]progress.Assignment, 0, len(active))
		for _, assignment := range active {
			assignments = append(assignments, assignment.ToProgress())
		}

		current := progress.SelectCurrentAssignment(assignments, stageID)
		if current == nil || !progress.IsAssignmentUrgent(*current, now) {
			continue
		}

		teams, err := s.repo.TeamsOnStage(ctx, stageID)
		if err != nil {
			return sent, fmt.Errorf("failed to list teams on stage %d: %w", stageID, err)
		}

		remaining := progress.CalculateTimeRemaining(current.Deadline, now)
		// the key outlives the deadline so one reminder is sent per assignment
		ttl := current.Deadline.Sub(now) + time.Hour
		for _, team := range teams {
			first, err := s.dedupe.FirstTime(ctx, reminderKey(team.ID, current.ID), ttl)
			if err != nil {
				logrus.WithError(err).WithField("team_id", team.ID).Warn("reminder dedupe failed")
				continue
			}
			if !first {
				continue
			}

			msg := Message{
				TeamID:    team.ID,
				TeamName:  team.Name,
				Recipient: team.ContactEmail,
				Subject:   fmt.Sprintf("Deadline approaching: %s", current.Title),
				Body: fmt.Sprintf("%s is due in %d days, %d hours and %d minutes (%s).",
					current.Title, remaining.Days, remaining.Hours, remaining.Minutes, current.Deadline.Format(time.RFC1123)),
			}
			if err := s.notifier.Notify(ctx, msg); err != nil {
				logrus.WithError(err).WithField("team_id", team.ID).Warn("failed to send deadline reminder")
				continue
			}
			sent++
		}
	}
	return sent, nil
}

// StartDeadlineReminderJob runs SendDueReminders on every tick until ctx is done
func StartDeadlineReminderJob(ctx context.Context, reminders *ReminderService, interval, timeout time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				sent, err := reminders.SendDueReminders(tickCtx)
				cancel()
				if err != nil {
					logrus.WithError(err).Error("deadline reminder job failed")
					continue
				}
				if sent > 0 {
					logrus.Infof("deadline reminder job sent %d reminders", sent)
				}
			}
		}
	}()
}
