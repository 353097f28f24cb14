package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy/handlers/admin"
	"academy/handlers/teams"
	"academy/realtime"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	r := gin.New()
	require.NoError(t, Register(ctx, r, Handlers{
		Teams: &teams.Handler{Hub: realtime.NewHub()},
		Admin: &admin.Handler{},
	}))
	return r
}

func TestPing(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestMetricsExposesRequestCounters(t *testing.T) {
	r := newEngine(t)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ibp_http_requests_total")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newEngine(t)
	for _, path := range []string{"/api/v1/teams/1/dashboard", "/api/v1/admin/teams"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
