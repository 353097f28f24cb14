package progress

import "time"

// Urgency thresholds. Stage timeline banners and assignment alerts are two
// different alerts and must keep their own threshold.
const (
	StageUrgencyThreshold      = 7 * 24 * time.Hour
	AssignmentUrgencyThreshold = 3 * 24 * time.Hour
)

const day = 24 * time.Hour

// ProgressStatus is the status recorded for a team on one stage
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressPending    ProgressStatus = "pending"
	ProgressSubmitted  ProgressStatus = "submitted"
	ProgressApproved   ProgressStatus = "approved"
	ProgressRejected   ProgressStatus = "rejected"
)

// Valid reports whether s is one of the known progress statuses
func (s ProgressStatus) Valid() bool {
	switch s {
	case ProgressNotStarted, ProgressPending, ProgressSubmitted, ProgressApproved, ProgressRejected:
		return true
	}
	return false
}

// StageStatus is the display status of a stage on the dashboard
type StageStatus string

const (
	StageApproved   StageStatus = "approved"
	StageRejected   StageStatus = "rejected"
	StageCurrent    StageStatus = "current"
	StageNotStarted StageStatus = "not_started"
)

// Stage is one phase of the competition
type Stage struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Progress is a team's recorded status against one stage
type Progress struct {
	ID                 uint           `json:"id"`
	CompetitionStageID uint           `json:"competition_stage_id"`
	Status             ProgressStatus `json:"status"`
	Feedback           *string        `json:"feedback,omitempty"`
}

// Team is the participant team the dashboard is computed for
type Team struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	CategoryID     uint   `json:"category_id"`
	CategoryName   string `json:"category_name"`
	CurrentStageID uint   `json:"current_stage_id"`
}

// Assignment is a gradable task attached to a stage
type Assignment struct {
	ID                 uint      `json:"id"`
	CompetitionStageID uint      `json:"competition_stage_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Instructions       string    `json:"instructions"`
	Deadline           time.Time `json:"deadline"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// IsOverdue reports whether the deadline has passed at now
func (a Assignment) IsOverdue(now time.Time) bool {
	return now.After(a.Deadline)
}

// IsOpen reports whether the assignment still accepts submissions at now
func (a Assignment) IsOpen(now time.Time) bool {
	return a.IsActive && !a.IsOverdue(now)
}

// Snapshot is the read-only input of a dashboard derivation
type Snapshot struct {
	Team        Team         `json:"team"`
	Stages      []Stage      `json:"stages"`
	Progress    []Progress   `json:"progress"`
	Assignments []Assignment `json:"assignments"`
}

// StageStatusEntry pairs a stage with its display status
type StageStatusEntry struct {
	StageID uint        `json:"stage_id"`
	Status  StageStatus `json:"status"`
}

// Completion summarises how many stages were approved
type Completion struct {
	CompletedCount int     `json:"completed_count"`
	TotalCount     int     `json:"total_count"`
	Percentage     float64 `json:"percentage"`
}

// TimeRemaining is a floored countdown. Days, Hours and Minutes are zero when Expired.
type TimeRemaining struct {
	Expired bool `json:"expired"`
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
}

// AssignmentUrgency describes the deadline state of the current assignment
type AssignmentUrgency struct {
	IsUrgent      bool          `json:"is_urgent"`
	TimeRemaining TimeRemaining `json:"time_remaining"`
}

// TimelineEntry is a stage with its recomputed deadline fields
type TimelineEntry struct {
	Stage
	DaysLeft int  `json:"days_left"`
	IsUrgent bool `json:"is_urgent"`
}

// NotificationKind tells approved banners from rejected ones
type NotificationKind string

const (
	NotificationApproved NotificationKind = "approved"
	NotificationRejected NotificationKind = "rejected"
)

// Notification is a review banner shown on the dashboard
type Notification struct {
	StageID   uint             `json:"stage_id"`
	StageName string           `json:"stage_name"`
	Kind      NotificationKind `json:"kind"`
	Feedback  *string          `json:"feedback,omitempty"`
}

// Dashboard is the derived view model of a team's progress
type Dashboard struct {
	Team              Team               `json:"team"`
	CurrentStage      Stage              `json:"current_stage"`
	StageFallback     bool               `json:"stage_fallback"`
	StageStatuses     []StageStatusEntry `json:"stage_statuses"`
	Timeline          []TimelineEntry    `json:"timeline"`
	Completion        Completion         `json:"completion"`
	CurrentAssignment *Assignment        `json:"current_assignment"`
	AssignmentUrgency *AssignmentUrgency `json:"assignment_urgency"`
	Notifications     []Notification     `json:"notifications"`
}
