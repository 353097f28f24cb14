package models

import (
	"time"

	"academy/progress"
)

// CompetitionStage represents one phase of the competition (registration, preliminary, semifinal, final)
type CompetitionStage struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"type:varchar(100);not null" json:"name"`
	Order       int           `gorm:"column:stage_order;not null;uniqueIndex" json:"order"`
	StartDate   time.Time     `gorm:"not null" json:"start_date"`
	EndDate     time.Time     `gorm:"not null" json:"end_date"`
	Assignments []*Assignment `gorm:"foreignKey:CompetitionStageID" json:"assignments,omitempty"`
}

func (s CompetitionStage) ToProgress() progress.Stage {
	return progress.Stage{
		ID:        s.ID,
		Name:      s.Name,
		Order:     s.Order,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}
