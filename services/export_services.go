package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"academy/database"
	"academy/progress"

	"github.com/xuri/excelize/v2"
)

// ExportService builds spreadsheets for the committee
type ExportService struct {
	repo Repository
}

func NewExportService(repo Repository) *ExportService {
	return &ExportService{repo: repo}
}

// StageProgressRow is one team line of a stage export
type StageProgressRow struct {
	TeamName     string
	Category     string
	Status       progress.ProgressStatus
	Feedback     string
	SubmittedAt  *time.Time
	CurrentStage string
}

// StageProgressRows lists every team with its status on the stage
func (s *ExportService) StageProgressRows(ctx context.Context, stageID uint) (string, []StageProgressRow, error) {
	stage, err := s.repo.FindStage(ctx, stageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil, ErrStageNotFound
		}
		return "", nil, fmt.Errorf("failed to fetch stage: %w", err)
	}

	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch teams: %w", err)
	}
	latest, err := s.repo.LatestSubmissions(ctx, stageID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	rows := make([]StageProgressRow, 0, len(teams))
	for _, team := range teams {
		row := StageProgressRow{TeamName: team.Name, Status: progress.ProgressNotStarted}
		if team.Category != nil {
			row.Category = team.Category.Name
		}
		if team.CurrentStage != nil {
			row.CurrentStage = team.CurrentStage.Name
		}
		for _, record := range team.Progress {
			if record.CompetitionStageID != stageID {
				continue
			}
			row.Status = record.Status
			if record.Feedback != nil {
				row.Feedback = *record.Feedback
			}
			break
		}
		if at, ok := latest[team.ID]; ok {
			submittedAt := at
			row.SubmittedAt = &submittedAt
		}
		rows = append(rows, row)
	}
	return stage.Name, rows, nil
}

// ExportStageProgress renders the stage export as an xlsx workbook
func (s *ExportService) ExportStageProgress(ctx context.Context, stageID uint) (*bytes.Buffer, string, error) {
	stageName, rows, err := s.StageProgressRows(ctx, stageID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Progress"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	headers := []interface{}{"Team", "Category", "Status", "Feedback", "Submitted at", "Current stage"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, "", err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "F1", headerStyle)
	}

	for i, row := range rows {
		submittedAt := ""
		if row.SubmittedAt != nil {
			submittedAt = row.SubmittedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{row.TeamName, row.Category, string(row.Status), row.Feedback, submittedAt, row.CurrentStage}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, "", err
		}
	}
	_ = f.SetColWidth(sheet, "A", "F", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}
	filename := fmt.Sprintf("%s-progress.xlsx", slugify(stageName))
	return buf, filename, nil
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			if len(out) > 0 && out[len(out)-1] != '-' {
				out = append(out, '-')
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "stage"
	}
	return string(out)
}
