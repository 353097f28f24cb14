// Package progress derives the participant dashboard of a competition team
// from a snapshot of stages, progress records and assignments.
//
// Every function is pure: the caller passes now and the package never
// mutates its inputs.
package progress

import (
	"sort"
	"time"
)

// ResolveCurrentStage returns the stage whose id is currentStageID and
// whether it was found.
func ResolveCurrentStage(stages []Stage, currentStageID uint) (Stage, bool) {
	for _, stage := range stages {
		if stage.ID == currentStageID {
			return stage, true
		}
	}
	return Stage{}, false
}

// CurrentStageOrFirst resolves the current stage and falls back to the first
// stage of the list (insertion order, not Order) when there is no match.
// The boolean is false when the fallback was used.
func CurrentStageOrFirst(stages []Stage, currentStageID uint) (Stage, bool) {
	if stage, ok := ResolveCurrentStage(stages, currentStageID); ok {
		return stage, true
	}
	if len(stages) == 0 {
		return Stage{}, false
	}
	return stages[0], false
}

// DeriveStageStatus computes the display status of a stage.
// Precedence: approved > rejected > current > not_started.
func DeriveStageStatus(stage Stage, record *Progress, currentStageID uint) StageStatus {
	if record != nil {
		switch record.Status {
		case ProgressApproved:
			return StageApproved
		case ProgressRejected:
			return StageRejected
		}
	}
	if stage.ID == currentStageID {
		return StageCurrent
	}
	return StageNotStarted
}

// ComputeCompletion counts approved records against the number of stages
func ComputeCompletion(stages []Stage, records []Progress) Completion {
	completed := 0
	for _, record := range records {
		if record.Status == ProgressApproved {
			completed++
		}
	}

	completion := Completion{CompletedCount: completed, TotalCount: len(stages)}
	if completion.TotalCount == 0 {
		return completion
	}

	percentage := float64(completed) / float64(completion.TotalCount) * 100
	switch {
	case percentage < 0:
		percentage = 0
	case percentage > 100:
		percentage = 100
	}
	completion.Percentage = percentage
	return completion
}

// CalculateTimeRemaining decomposes the time left before deadline into
// floored days, hours and minutes. A deadline equal to now is expired.
func CalculateTimeRemaining(deadline, now time.Time) TimeRemaining {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return TimeRemaining{Expired: true}
	}
	return TimeRemaining{
		Days:    int(diff / day),
		Hours:   int(diff % day / time.Hour),
		Minutes: int(diff % time.Hour / time.Minute),
	}
}

// IsAssignmentUrgent reports whether the assignment is still running and due
// within AssignmentUrgencyThreshold.
func IsAssignmentUrgent(assignment Assignment, now time.Time) bool {
	if CalculateTimeRemaining(assignment.Deadline, now).Expired {
		return false
	}
	return assignment.Deadline.Sub(now) <= AssignmentUrgencyThreshold
}

// SelectCurrentAssignment returns the active assignment of the current stage.
// When several are active the most recently created wins, then the highest id,
// so the result does not depend on the input order.
func SelectCurrentAssignment(assignments []Assignment, currentStageID uint) *Assignment {
	var selected *Assignment
	for i := range assignments {
		candidate := assignments[i]
		if candidate.CompetitionStageID != currentStageID || !candidate.IsActive {
			continue
		}
		if selected == nil || newerAssignment(candidate, *selected) {
			picked := candidate
			selected = &picked
		}
	}
	return selected
}

func newerAssignment(a, b Assignment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// ActiveAssignmentConflicts lists the stages holding more than one active
// assignment, sorted by stage id.
func ActiveAssignmentConflicts(assignments []Assignment) []uint {
	counts := make(map[uint]int)
	for _, assignment := range assignments {
		if assignment.IsActive {
			counts[assignment.CompetitionStageID]++
		}
	}

	var conflicts []uint
	for stageID, count := range counts {
		if count > 1 {
			conflicts = append(conflicts, stageID)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i] < conflicts[j] })
	return conflicts
}

// DaysLeft is ceil((end - now) / 1 day). It goes negative once the stage ended.
func DaysLeft(end, now time.Time) int {
	diff := end.Sub(now)
	days := int(diff / day)
	if diff%day > 0 {
		days++
	}
	return days
}

// StageTimeline recomputes daysLeft and isUrgent for every stage against now
func StageTimeline(stages []Stage, now time.Time) []TimelineEntry {
	limit := int(StageUrgencyThreshold / day)
	timeline := make([]TimelineEntry, 0, len(stages))
	for _, stage := range stages {
		daysLeft := DaysLeft(stage.EndDate, now)
		ended := CalculateTimeRemaining(stage.EndDate, now).Expired
		timeline = append(timeline, TimelineEntry{
			Stage:    stage,
			DaysLeft: daysLeft,
			IsUrgent: !ended && daysLeft <= limit,
		})
	}
	return timeline
}

// NextStage returns the stage that follows stageID by Order
func NextStage(stages []Stage, stageID uint) (Stage, bool) {
	current, ok := ResolveCurrentStage(stages, stageID)
	if !ok {
		return Stage{}, false
	}

	var next Stage
	found := false
	for _, stage := range stages {
		if stage.Order <= current.Order {
			continue
		}
		if !found || stage.Order < next.Order {
			next = stage
			found = true
		}
	}
	return next, found
}

// SortedByOrder returns a copy of stages sorted by Order
func SortedByOrder(stages []Stage) []Stage {
	sorted := make([]Stage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return sorted
}

// StageNotifications builds the approved and rejected review banners, in stage order
func StageNotifications(stages []Stage, records []Progress) []Notification {
	byStage := progressByStage(records)
	notifications := []Notification{}
	for _, stage := range SortedByOrder(stages) {
		record, ok := byStage[stage.ID]
		if !ok {
			continue
		}
		var kind NotificationKind
		switch record.Status {
		case ProgressApproved:
			kind = NotificationApproved
		case ProgressRejected:
			kind = NotificationRejected
		default:
			continue
		}
		notifications = append(notifications, Notification{
			StageID:   stage.ID,
			StageName: stage.Name,
			Kind:      kind,
			Feedback:  record.Feedback,
		})
	}
	return notifications
}

// progressByStage indexes records by stage. The first record of a stage wins.
func progressByStage(records []Progress) map[uint]*Progress {
	byStage := make(map[uint]*Progress, len(records))
	for i := range records {
		if _, exists := byStage[records[i].CompetitionStageID]; exists {
			continue
		}
		byStage[records[i].CompetitionStageID] = &records[i]
	}
	return byStage
}

// Derive computes the whole dashboard for a snapshot at now
func Derive(snapshot Snapshot, now time.Time) Dashboard {
	currentStage, found := CurrentStageOrFirst(snapshot.Stages, snapshot.Team.CurrentStageID)
	byStage := progressByStage(snapshot.Progress)

	statuses := make([]StageStatusEntry, 0, len(snapshot.Stages))
	for _, stage := range snapshot.Stages {
		statuses = append(statuses, StageStatusEntry{
			StageID: stage.ID,
			Status:  DeriveStageStatus(stage, byStage[stage.ID], snapshot.Team.CurrentStageID),
		})
	}

	dashboard := Dashboard{
		Team:          snapshot.Team,
		CurrentStage:  currentStage,
		StageFallback: !found,
		StageStatuses: statuses,
		Timeline:      StageTimeline(snapshot.Stages, now),
		Completion:    ComputeCompletion(snapshot.Stages, snapshot.Progress),
		Notifications: StageNotifications(snapshot.Stages, snapshot.Progress),
	}

	if assignment := SelectCurrentAssignment(snapshot.Assignments, snapshot.Team.CurrentStageID); assignment != nil {
		dashboard.CurrentAssignment = assignment
		dashboard.AssignmentUrgency = &AssignmentUrgency{
			IsUrgent:      IsAssignmentUrgent(*assignment, now),
			TimeRemaining: CalculateTimeRemaining(assignment.Deadline, now),
		}
	}

	return dashboard
}
