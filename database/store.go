package database

import (
	"context"
	"time"

	"academy/metrics"
	"academy/models"
	"academy/progress"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm backed persistence of the service
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadSnapshot reads everything the dashboard of a team is derived from
func (s *Store) LoadSnapshot(ctx context.Context, teamID uint) (progress.Snapshot, error) {
	defer metrics.RecordDBOperation("load_snapshot", "teams", time.Now())

	var snapshot progress.Snapshot
	db := s.db.WithContext(ctx)

	var team models.Team
	if err := db.Preload("Category").First(&team, teamID).Error; err != nil {
		return snapshot, err
	}

	var stages []models.CompetitionStage
	if err := db.Order("stage_order asc").Find(&stages).Error; err != nil {
		return snapshot, err
	}

	var records []models.ParticipantProgress
	if err := db.Where("team_id = ?", teamID).Find(&records).Error; err != nil {
		return snapshot, err
	}

	var assignments []models.Assignment
	if err := db.Where("competition_stage_id = ?", team.CurrentStageID).Order("created_at desc").Find(&assignments).Error; err != nil {
		return snapshot, err
	}

	snapshot.Team = team.ToProgress()
	for _, stage := range stages {
		snapshot.Stages = append(snapshot.Stages, stage.ToProgress())
	}
	for _, record := range records {
		snapshot.Progress = append(snapshot.Progress, record.ToProgress())
	}
	for _, assignment := range assignments {
		snapshot.Assignments = append(snapshot.Assignments, assignment.ToProgress())
	}
	return snapshot, nil
}

func (s *Store) ListStages(ctx context.Context) ([]models.CompetitionStage, error) {
	defer metrics.RecordDBOperation("list", "competition_stages", time.Now())
	var stages []models.CompetitionStage
	err := s.db.WithContext(ctx).Order("stage_order asc").Find(&stages).Error
	return stages, err
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	defer metrics.RecordDBOperation("list", "categories", time.Now())
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("id asc").Find(&categories).Error
	return categories, err
}

func (s *Store) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Store) FindTeam(ctx context.Context, id uint) (*models.Team, error) {
	defer metrics.RecordDBOperation("find", "teams", time.Now())
	var team models.Team
	if err := s.db.WithContext(ctx).Preload("Category").First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *Store) TeamNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Team{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error
	return count > 0, err
}

// CreateTeam inserts the team and its first progress record in one transaction
func (s *Store) CreateTeam(ctx context.Context, team *models.Team, initial *models.ParticipantProgress) error {
	defer metrics.RecordDBOperation("create", "teams", time.Now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		initial.TeamID = team.ID
		return tx.Create(initial).Error
	})
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	defer metrics.RecordDBOperation("list", "teams", time.Now())
	var teams []models.Team
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("CurrentStage").
		Preload("Progress").
		Order("name asc").
		Find(&teams).Error
	return teams, err
}

func (s *Store) TeamsOnStage(ctx context.Context, stageID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.WithContext(ctx).Where("current_stage_id = ?", stageID).Find(&teams).Error
	return teams, err
}

func (s *Store) FindStage(ctx context.Context, id uint) (*models.CompetitionStage, error) {
	var stage models.CompetitionStage
	if err := s.db.WithContext(ctx).First(&stage, id).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

func (s *Store) FindAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := s.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ActiveAssignmentsDueBetween lists active assignments whose deadline falls in (from, to]
func (s *Store) ActiveAssignmentsDueBetween(ctx context.Context, from, to time.Time) ([]models.Assignment, error) {
	defer metrics.RecordDBOperation("list_due", "assignments", time.Now())
	var assignments []models.Assignment
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND deadline > ? AND deadline <= ?", true, from, to).
		Order("deadline asc").
		Find(&assignments).Error
	return assignments, err
}

// ActiveAssignmentsOnStage lists every active assignment of a stage
func (s *Store) ActiveAssignmentsOnStage(ctx context.Context, stageID uint) ([]models.Assignment, error) {
	defer metrics.RecordDBOperation("list_active", "assignments", time.Now())
	var assignments []models.Assignment
	err := s.db.WithContext(ctx).
		Where("competition_stage_id = ? AND is_active = ?", stageID, true).
		Order("created_at desc").
		Find(&assignments).Error
	return assignments, err
}

func (s *Store) FindProgress(ctx context.Context, teamID, stageID uint) (*models.ParticipantProgress, error) {
	var record models.ParticipantProgress
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND competition_stage_id = ?", teamID, stageID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RecordSubmission stores the submission and upserts the progress record of its stage
func (s *Store) RecordSubmission(ctx context.Context, submission *models.Submission, record *models.ParticipantProgress) error {
	defer metrics.RecordDBOperation("create", "submissions", time.Now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		return upsertProgress(tx, record)
	})
}

// ApplyReview saves the reviewed record, moves the team and opens the next stage record when given
func (s *Store) ApplyReview(ctx context.Context, record *models.ParticipantProgress, team *models.Team, next *models.ParticipantProgress) error {
	defer metrics.RecordDBOperation("review", "participant_progress", time.Now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertProgress(tx, record); err != nil {
			return err
		}
		if err := tx.Model(&models.Team{}).Where("id = ?", team.ID).
			Update("current_stage_id", team.CurrentStageID).Error; err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		// keep an existing record of the next stage untouched
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(next).Error
	})
}

// LatestSubmissions returns, per team, the last submission time for the assignments of a stage
func (s *Store) LatestSubmissions(ctx context.Context, stageID uint) (map[uint]time.Time, error) {
	defer metrics.RecordDBOperation("latest", "submissions", time.Now())

	type row struct {
		TeamID      uint
		SubmittedAt time.Time
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("submissions s").
		Select("s.team_id AS team_id, MAX(s.submitted_at) AS submitted_at").
		Joins("JOIN assignments a ON a.id = s.assignment_id").
		Where("a.competition_stage_id = ?", stageID).
		Group("s.team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]time.Time, len(rows))
	for _, r := range rows {
		latest[r.TeamID] = r.SubmittedAt
	}
	return latest, nil
}

func upsertProgress(tx *gorm.DB, record *models.ParticipantProgress) error {
	if record.ID != 0 {
		return tx.Save(record).Error
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "competition_stage_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "feedback", "reviewed_at", "updated_at"}),
	}).Create(record).Error
}
