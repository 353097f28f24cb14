package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"academy/database"
	"academy/models"
	"academy/progress"

	"github.com/sirupsen/logrus"
)

// TeamService handles registration and the catalogue lookups around teams
type TeamService struct {
	repo Repository
}

func NewTeamService(repo Repository) *TeamService {
	return &TeamService{repo: repo}
}

func (s *TeamService) ListStages(ctx context.Context) ([]models.CompetitionStage, error) {
	return s.repo.ListStages(ctx)
}

func (s *TeamService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.repo.ListTeams(ctx)
}

// RegisterTeam creates a team on the first stage of the competition with a pending record for it
func (s *TeamService) RegisterTeam(ctx context.Context, name string, contactEmail string, categoryID uint) (*models.Team, error) {
	name = strings.TrimSpace(name)
	contactEmail = strings.TrimSpace(contactEmail)
	if name == "" || contactEmail == "" {
		return nil, ErrInvalidTeam
	}

	category, err := s.repo.FindCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	taken, err := s.repo.TeamNameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}
	if taken {
		return nil, ErrTeamNameTaken
	}

	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stages: %w", err)
	}
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	first := progress.SortedByOrder(toProgressStages(stages))[0]

	team := &models.Team{
		Name:           name,
		ContactEmail:   contactEmail,
		CategoryID:     category.ID,
		CurrentStageID: first.ID,
	}
	initial := &models.ParticipantProgress{
		CompetitionStageID: first.ID,
		Status:             progress.ProgressPending,
	}
	if err := s.repo.CreateTeam(ctx, team, initial); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	team.Category = category

	logrus.WithFields(logrus.Fields{
		"team_id":  team.ID,
		"category": category.Slug,
	}).Info("team registered")
	return team, nil
}

func toProgressStages(stages []models.CompetitionStage) []progress.Stage {
	converted := make([]progress.Stage, 0, len(stages))
	for _, stage := range stages {
		converted = append(converted, stage.ToProgress())
	}
	return converted
}
