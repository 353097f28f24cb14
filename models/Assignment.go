package models

import (
	"time"

	"academy/progress"
)

// Assignment is a gradable task tied to exactly one stage
type Assignment struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	CompetitionStageID uint              `gorm:"not null;column:competition_stage_id;index" json:"competition_stage_id"`
	Title              string            `gorm:"type:varchar(255);not null" json:"title"`
	Description        string            `gorm:"type:text" json:"description"`
	Instructions       string            `gorm:"type:text" json:"instructions"`
	Deadline           time.Time         `gorm:"not null" json:"deadline"`
	IsActive           bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
	CompetitionStage   *CompetitionStage `gorm:"foreignKey:CompetitionStageID" json:"-"`
}

func (a Assignment) ToProgress() progress.Assignment {
	return progress.Assignment{
		ID:                 a.ID,
		CompetitionStageID: a.CompetitionStageID,
		Title:              a.Title,
		Description:        a.Description,
		Instructions:       a.Instructions,
		Deadline:           a.Deadline,
		IsActive:           a.IsActive,
		CreatedAt:          a.CreatedAt,
	}
}
