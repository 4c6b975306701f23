package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/handler"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/service"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/config"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
)

type fixedTokens map[string]*models.JWTClaims

func (f fixedTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type submitStub struct{ calls int }

func (s *submitStub) Submit(context.Context, models.Actor, dto.SubmitRequest) (*dto.SubmitResult, error) {
	s.calls++
	return &dto.SubmitResult{AssignmentID: "a1", Score: 100}, nil
}

type batchStub struct{}

func (batchStub) Create(context.Context, models.Actor, dto.CreateBatchRequest) (*dto.CreateBatchResult, error) {
	return &dto.CreateBatchResult{}, nil
}

func (batchStub) ForTeacher(context.Context, models.Actor) ([]models.BatchDetail, error) {
	return []models.BatchDetail{}, nil
}

func (batchStub) Export(context.Context, models.Actor, string, string) (*dto.GradebookFile, error) {
	return &dto.GradebookFile{Filename: "x.csv", ContentType: "text/csv"}, nil
}

func newTestRouter(submit *submitStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api", Cookie: config.CookieConfig{Name: "token"}}
	metrics := service.NewMetricsService()
	return New(cfg, Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(nil, submit),
		BatchHandler:      handler.NewBatchHandler(batchStub{}, batchStub{}),
		MetricsHandler:    handler.NewMetricsHandler(metrics, nil),
		Metrics:           metrics,
		Tokens: fixedTokens{
			"teacher": {UserID: "t1", Role: models.RoleTeacher},
			"student": {UserID: "s1", Role: models.RoleStudent},
		},
	})
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRoleGates(t *testing.T) {
	submit := &submitStub{}
	r := newTestRouter(submit)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/batches", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/batches", "student").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/batches", "teacher").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/batches/b1/gradebook", "teacher").Code)

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/api/assignments/submit", "teacher").Code)
	assert.Zero(t, submit.calls)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/api/assignments/create", "student").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/api/assignments/assign", "student").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/assignments/activity/a1", "student").Code)
}

func TestDocsHiddenInProduction(t *testing.T) {
	r := newTestRouter(&submitStub{})
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/docs/index.html", "").Code)
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	r := newTestRouter(&submitStub{})
	serve(r, http.MethodGet, "/health", "")
	w := serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
