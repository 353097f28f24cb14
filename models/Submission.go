package models

import "time"

// Submission records a team handing in an assignment. The file lives in an external store, only its link is kept.
type Submission struct {
	ID           string      `gorm:"type:uuid;primary_key" json:"id"`
	TeamID       uint        `gorm:"not null;column:team_id;index" json:"team_id"`
	AssignmentID uint        `gorm:"not null;column:assignment_id;index" json:"assignment_id"`
	Link         string      `gorm:"type:varchar(512);not null" json:"link"`
	Note         string      `gorm:"type:text" json:"note"`
	SubmittedAt  time.Time   `gorm:"not null" json:"submitted_at"`
	Team         *Team       `gorm:"foreignKey:TeamID" json:"-"`
	Assignment   *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}
