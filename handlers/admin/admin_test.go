package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"academy/config"
	"academy/middleware"
	"academy/models"
	"academy/progress"
	"academy/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.JWTSecret = "test-secret"
	config.JWTIssuer = "ibp-academy"
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeTeams struct {
	teams []models.Team
	err   error
}

func (f *fakeTeams) ListTeams(context.Context) ([]models.Team, error) {
	return f.teams, f.err
}

type reviewCall struct {
	teamID, stageID uint
	status          progress.ProgressStatus
	feedback        *string
}

type fakeReviews struct {
	calls []reviewCall
	err   error
}

func (f *fakeReviews) Review(_ context.Context, teamID, stageID uint, status progress.ProgressStatus, feedback *string) (*services.ReviewResult, error) {
	f.calls = append(f.calls, reviewCall{teamID, stageID, status, feedback})
	if f.err != nil {
		return nil, f.err
	}
	return &services.ReviewResult{
		Progress:       models.ParticipantProgress{TeamID: teamID, CompetitionStageID: stageID, Status: status, Feedback: feedback},
		CurrentStageID: stageID + 1,
		Advanced:       status == progress.ProgressApproved,
	}, nil
}

type fakeExports struct {
	err error
}

func (f *fakeExports) ExportStageProgress(_ context.Context, stageID uint) (*bytes.Buffer, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return bytes.NewBufferString("xlsx"), "preliminary-progress.xlsx", nil
}

func newRouter(h *Handler) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), h)
	return r
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := middleware.SignToken(config.JWTSecret, middleware.Claims{
		Role:   role,
		TeamID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "member",
			Issuer:    config.JWTIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r := newRouter(&Handler{Teams: &fakeTeams{}, Reviews: &fakeReviews{}, Exports: &fakeExports{}})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/admin/teams", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/admin/teams", bearer(t, middleware.RoleParticipant), "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/admin/teams", bearer(t, middleware.RoleAdmin), "").Code)
}

func TestListTeams(t *testing.T) {
	teams := &fakeTeams{teams: []models.Team{{
		ID:             3,
		Name:           "Alpha",
		CurrentStageID: 20,
		Category:       &models.Category{Name: "Business Plan"},
		CurrentStage:   &models.CompetitionStage{ID: 20, Name: "Preliminary"},
		Progress: []*models.ParticipantProgress{
			{CompetitionStageID: 10, Status: progress.ProgressApproved},
			{CompetitionStageID: 20, Status: progress.ProgressSubmitted},
		},
	}}}
	r := newRouter(&Handler{Teams: teams})

	w := do(r, http.MethodGet, "/api/v1/admin/teams", bearer(t, middleware.RoleAdmin), "")
	require.Equal(t, http.StatusOK, w.Code)

	var overview []TeamOverview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	require.Len(t, overview, 1)
	assert.Equal(t, "Business Plan", overview[0].Category)
	assert.Equal(t, "Preliminary", overview[0].CurrentStageName)
	assert.Equal(t, progress.ProgressApproved, overview[0].Statuses[10])
	assert.Equal(t, progress.ProgressSubmitted, overview[0].Statuses[20])
}

func TestListTeamsFailure(t *testing.T) {
	r := newRouter(&Handler{Teams: &fakeTeams{err: errors.New("db down")}})
	w := do(r, http.MethodGet, "/api/v1/admin/teams", bearer(t, middleware.RoleAdmin), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), ErrFetchTeamsFailed)
}

func TestReviewStage(t *testing.T) {
	reviews := &fakeReviews{}
	r := newRouter(&Handler{Reviews: reviews})

	w := do(r, http.MethodPut, "/api/v1/admin/teams/7/stages/20/review", bearer(t, middleware.RoleAdmin),
		`{"status":"rejected","feedback":"  Missing financials  "}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, reviews.calls, 1)
	call := reviews.calls[0]
	assert.Equal(t, uint(7), call.teamID)
	assert.Equal(t, uint(20), call.stageID)
	assert.Equal(t, progress.ProgressRejected, call.status)
	require.NotNil(t, call.feedback)
	assert.Equal(t, "Missing financials", *call.feedback)
}

func TestReviewStageBlankFeedbackIsDropped(t *testing.T) {
	reviews := &fakeReviews{}
	r := newRouter(&Handler{Reviews: reviews})

	w := do(r, http.MethodPut, "/api/v1/admin/teams/7/stages/20/review", bearer(t, middleware.RoleAdmin),
		`{"status":"approved","feedback":"   "}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, reviews.calls, 1)
	assert.Nil(t, reviews.calls[0].feedback)
}

func TestReviewStageValidation(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"pending is not a decision", "/api/v1/admin/teams/7/stages/20/review", `{"status":"pending"}`},
		{"unknown status", "/api/v1/admin/teams/7/stages/20/review", `{"status":"done"}`},
		{"missing status", "/api/v1/admin/teams/7/stages/20/review", `{}`},
		{"bad team id", "/api/v1/admin/teams/abc/stages/20/review", `{"status":"approved"}`},
		{"bad stage id", "/api/v1/admin/teams/7/stages/0/review", `{"status":"approved"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := &fakeReviews{}
			r := newRouter(&Handler{Reviews: reviews})
			w := do(r, http.MethodPut, tt.path, bearer(t, middleware.RoleAdmin), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, reviews.calls)
		})
	}
}

func TestReviewStageErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrTeamNotFound, http.StatusNotFound},
		{services.ErrStageNotFound, http.StatusNotFound},
		{services.ErrInvalidReviewStatus, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newRouter(&Handler{Reviews: &fakeReviews{err: tt.err}})
			w := do(r, http.MethodPut, "/api/v1/admin/teams/7/stages/20/review", bearer(t, middleware.RoleAdmin), `{"status":"approved"}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestExportStage(t *testing.T) {
	r := newRouter(&Handler{Exports: &fakeExports{}})
	w := do(r, http.MethodGet, "/api/v1/admin/stages/20/export", bearer(t, middleware.RoleAdmin), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, excelContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "preliminary-progress.xlsx")
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestExportUnknownStage(t *testing.T) {
	r := newRouter(&Handler{Exports: &fakeExports{err: services.ErrStageNotFound}})
	w := do(r, http.MethodGet, "/api/v1/admin/stages/99/export", bearer(t, middleware.RoleAdmin), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
