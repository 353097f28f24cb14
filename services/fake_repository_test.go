package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"academy/database"
	"academy/models"
	"academy/progress"
)

type fakeRepository struct {
	mu          sync.Mutex
	categories  map[uint]*models.Category
	stages      []models.CompetitionStage
	teams       map[uint]*models.Team
	records     []*models.ParticipantProgress
	assignments map[uint]*models.Assignment
	submissions []*models.Submission
	nextTeamID  uint
	nextRecord  uint
}

func newFakeRepository(now time.Time) *fakeRepository {
	day := 24 * time.Hour
	return &fakeRepository{
		categories: map[uint]*models.Category{
			1: {ID: 1, Name: "Business Plan", Slug: "business-plan"},
			2: {ID: 2, Name: "Business Case", Slug: "business-case"},
		},
		// listed out of order on purpose
		stages: []models.CompetitionStage{
			{ID: 20, Name: "Preliminary", Order: 2, StartDate: now.Add(-5 * day), EndDate: now.Add(10 * day)},
			{ID: 10, Name: "Registration", Order: 1, StartDate: now.Add(-30 * day), EndDate: now.Add(-5 * day)},
			{ID: 40, Name: "Final", Order: 4, StartDate: now.Add(40 * day), EndDate: now.Add(60 * day)},
			{ID: 30, Name: "Semifinal", Order: 3, StartDate: now.Add(10 * day), EndDate: now.Add(40 * day)},
		},
		teams:       map[uint]*models.Team{},
		assignments: map[uint]*models.Assignment{},
		nextTeamID:  100,
		nextRecord:  1000,
	}
}

func (f *fakeRepository) addTeam(team models.Team) *models.Team {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := team
	if t.Category == nil {
		t.Category = f.categories[t.CategoryID]
	}
	f.teams[t.ID] = &t
	return &t
}

func (f *fakeRepository) addRecord(record models.ParticipantProgress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRecord++
	r := record
	r.ID = f.nextRecord
	f.records = append(f.records, &r)
}

func (f *fakeRepository) addAssignment(assignment models.Assignment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := assignment
	f.assignments[a.ID] = &a
}

func (f *fakeRepository) record(teamID, stageID uint) *models.ParticipantProgress {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.TeamID == teamID && r.CompetitionStageID == stageID {
			c := *r
			return &c
		}
	}
	return nil
}

func (f *fakeRepository) LoadSnapshot(_ context.Context, teamID uint) (progress.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	team, ok := f.teams[teamID]
	if !ok {
		return progress.Snapshot{}, database.ErrNotFound
	}
	snapshot := progress.Snapshot{Team: team.ToProgress()}
	for _, stage := range f.stages {
		snapshot.Stages = append(snapshot.Stages, stage.ToProgress())
	}
	for _, r := range f.records {
		if r.TeamID == teamID {
			snapshot.Progress = append(snapshot.Progress, r.ToProgress())
		}
	}
	for _, a := range f.sortedAssignments() {
		if a.CompetitionStageID == team.CurrentStageID {
			snapshot.Assignments = append(snapshot.Assignments, a.ToProgress())
		}
	}
	return snapshot, nil
}

func (f *fakeRepository) sortedAssignments() []*models.Assignment {
	list := make([]*models.Assignment, 0, len(f.assignments))
	for _, a := range f.assignments {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (f *fakeRepository) ListStages(context.Context) ([]models.CompetitionStage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stages := make([]models.CompetitionStage, len(f.stages))
	copy(stages, f.stages)
	return stages, nil
}

func (f *fakeRepository) FindStage(_ context.Context, id uint) (*models.CompetitionStage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stage := range f.stages {
		if stage.ID == id {
			s := stage
			return &s, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeRepository) ListCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var categories []models.Category
	for _, c := range f.categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (f *fakeRepository) FindCategory(_ context.Context, id uint) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeRepository) FindTeam(_ context.Context, id uint) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.teams[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeRepository) TeamNameExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) CreateTeam(_ context.Context, team *models.Team, initial *models.ParticipantProgress) error {
	f.mu.Lock()
	f.nextTeamID++
	team.ID = f.nextTeamID
	f.mu.Unlock()

	f.addTeam(*team)
	initial.TeamID = team.ID
	f.addRecord(*initial)
	return nil
}

func (f *fakeRepository) ListTeams(context.Context) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var teams []models.Team
	for _, t := range f.teams {
		team := *t
		team.Progress = nil
		for _, r := range f.records {
			if r.TeamID == t.ID {
				team.Progress = append(team.Progress, r)
			}
		}
		for i := range f.stages {
			if f.stages[i].ID == t.CurrentStageID {
				stage := f.stages[i]
				team.CurrentStage = &stage
			}
		}
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (f *fakeRepository) TeamsOnStage(_ context.Context, stageID uint) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var teams []models.Team
	for _, t := range f.teams {
		if t.CurrentStageID == stageID {
			teams = append(teams, *t)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (f *fakeRepository) FindAssignment(_ context.Context, id uint) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.assignments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeRepository) ActiveAssignmentsDueBetween(_ context.Context, from, to time.Time) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []models.Assignment
	for _, a := range f.sortedAssignments() {
		if a.IsActive && a.Deadline.After(from) && !a.Deadline.After(to) {
			due = append(due, *a)
		}
	}
	return due, nil
}

func (f *fakeRepository) ActiveAssignmentsOnStage(_ context.Context, stageID uint) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []models.Assignment
	for _, a := range f.sortedAssignments() {
		if a.IsActive && a.CompetitionStageID == stageID {
			active = append(active, *a)
		}
	}
	return active, nil
}

func (f *fakeRepository) FindProgress(_ context.Context, teamID, stageID uint) (*models.ParticipantProgress, error) {
	if r := f.record(teamID, stageID); r != nil {
		return r, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeRepository) upsert(record *models.ParticipantProgress) {
	for i, r := range f.records {
		if r.TeamID == record.TeamID && r.CompetitionStageID == record.CompetitionStageID {
			updated := *record
			updated.ID = r.ID
			f.records[i] = &updated
			record.ID = r.ID
			return
		}
	}
	f.nextRecord++
	record.ID = f.nextRecord
	copied := *record
	f.records = append(f.records, &copied)
}

func (f *fakeRepository) RecordSubmission(_ context.Context, submission *models.Submission, record *models.ParticipantProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *submission
	f.submissions = append(f.submissions, &copied)
	f.upsert(record)
	return nil
}

func (f *fakeRepository) ApplyReview(_ context.Context, record *models.ParticipantProgress, team *models.Team, next *models.ParticipantProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsert(record)
	if t, ok := f.teams[team.ID]; ok {
		t.CurrentStageID = team.CurrentStageID
	}
	if next != nil {
		for _, r := range f.records {
			if r.TeamID == next.TeamID && r.CompetitionStageID == next.CompetitionStageID {
				return nil
			}
		}
		f.upsert(next)
	}
	return nil
}

func (f *fakeRepository) LatestSubmissions(_ context.Context, stageID uint) (map[uint]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := map[uint]time.Time{}
	for _, s := range f.submissions {
		a, ok := f.assignments[s.AssignmentID]
		if !ok || a.CompetitionStageID != stageID {
			continue
		}
		if s.SubmittedAt.After(latest[s.TeamID]) {
			latest[s.TeamID] = s.SubmittedAt
		}
	}
	return latest, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(teamID uint, updateType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, updateType)
}

type recordingInvalidator struct {
	teams []uint
}

func (i *recordingInvalidator) Invalidate(_ context.Context, teamID uint) error {
	i.teams = append(i.teams, teamID)
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, msg)
	return nil
}
