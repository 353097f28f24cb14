package models

import (
	"time"

	"academy/progress"
)

// ParticipantProgress is the status a team holds on one stage. There is at most one per (team, stage).
type ParticipantProgress struct {
	ID                 uint                    `gorm:"primaryKey" json:"id"`
	TeamID             uint                    `gorm:"not null;column:team_id;uniqueIndex:idx_progress_team_stage" json:"team_id"`
	CompetitionStageID uint                    `gorm:"not null;column:competition_stage_id;uniqueIndex:idx_progress_team_stage" json:"competition_stage_id"`
	Status             progress.ProgressStatus `gorm:"type:varchar(20);not null;default:not_started" json:"status"`
	Feedback           *string                 `gorm:"type:text" json:"feedback"`
	ReviewedAt         *time.Time              `json:"reviewed_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	Team               *Team                   `gorm:"foreignKey:TeamID" json:"-"`
	CompetitionStage   *CompetitionStage       `gorm:"foreignKey:CompetitionStageID" json:"competition_stage,omitempty"`
}

func (ParticipantProgress) TableName() string {
	return "participant_progress"
}

func (p ParticipantProgress) ToProgress() progress.Progress {
	return progress.Progress{
		ID:                 p.ID,
		CompetitionStageID: p.CompetitionStageID,
		Status:             p.Status,
		Feedback:           p.Feedback,
	}
}
