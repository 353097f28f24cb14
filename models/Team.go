package models

import (
	"time"

	"academy/progress"
)

// Team represents a participant team and the stage it is working on
type Team struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	Name           string                 `gorm:"type:varchar(100);unique;not null" json:"name"`
	ContactEmail   string                 `gorm:"type:varchar(255);not null;column:contact_email" json:"contact_email"`
	CategoryID     uint                   `gorm:"not null;column:category_id" json:"category_id"`
	CurrentStageID uint                   `gorm:"not null;column:current_stage_id" json:"current_stage_id"`
	CreatedAt      time.Time              `json:"created_at"`
	Category       *Category              `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CurrentStage   *CompetitionStage      `gorm:"foreignKey:CurrentStageID" json:"current_stage,omitempty"`
	Progress       []*ParticipantProgress `gorm:"foreignKey:TeamID" json:"progress,omitempty"`
}

func (t Team) ToProgress() progress.Team {
	team := progress.Team{
		ID:             t.ID,
		Name:           t.Name,
		CategoryID:     t.CategoryID,
		CurrentStageID: t.CurrentStageID,
	}
	if t.Category != nil {
		team.CategoryName = t.Category.Name
	}
	return team
}
