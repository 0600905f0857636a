package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dash-api/internal/models"
	"github.com/noah-isme/sma-dash-api/internal/service"
)

type fakeGamificationSrv struct {
	views       []models.StudentView
	awardReq    service.BulkAwardRequest
	awardResult *service.BulkAwardResult
}

func (f *fakeGamificationSrv) Views(context.Context, string) ([]models.StudentView, error) {
	return f.views, nil
}

func (f *fakeGamificationSrv) Badges(context.Context) ([]models.Badge, error) { return nil, nil }

func (f *fakeGamificationSrv) CreateBadge(_ context.Context, req service.BadgeRequest) (models.Badge, error) {
	return models.Badge{ID: "b1", Name: req.Name}, nil
}

func (f *fakeGamificationSrv) UpdateBadge(context.Context, string, service.BadgeRequest) error {
	return nil
}

func (f *fakeGamificationSrv) DeleteBadge(context.Context, string) error { return nil }

func (f *fakeGamificationSrv) BadgeRecipients(context.Context, string) (models.Badge, []models.StudentView, error) {
	return models.Badge{}, nil, nil
}

func (f *fakeGamificationSrv) Levels(context.Context) ([]models.Level, error) { return nil, nil }

func (f *fakeGamificationSrv) Challenges(context.Context) ([]models.Challenge, error) {
	return nil, nil
}

func (f *fakeGamificationSrv) AwardPoints(_ context.Context, req service.BulkAwardRequest) (*service.BulkAwardResult, error) {
	f.awardReq = req
	return f.awardResult, nil
}

func (f *fakeGamificationSrv) AwardBadge(context.Context, service.BulkBadgeRequest) (*service.BulkAwardResult, error) {
	return f.awardResult, nil
}

func TestGamificationHandlerLeaderboard_AppliesLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGamificationHandler(&fakeGamificationSrv{
		views: []models.StudentView{
			{Name: "Budi", Points: 100},
			{Name: "Sari", Points: 200},
			{Name: "Tono", Points: 50},
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/gamification/leaderboard?limit=2", nil)

	handler.Leaderboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.StudentView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "Sari", envelope.Data[0].Name)
}

func TestGamificationHandlerLeaderboard_RejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGamificationHandler(&fakeGamificationSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/gamification/leaderboard?limit=abc", nil)

	handler.Leaderboard(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGamificationHandlerAwardPoints_PassesPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeGamificationSrv{
		awardResult: &service.BulkAwardResult{Requested: 2, Succeeded: 2},
	}
	handler := NewGamificationHandler(srv)

	body := `{"class_id":"7a","usernames":["budi","sari"],"points":10,"reason":"aktif"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/gamification/awards/points", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.AwardPoints(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7a", srv.awardReq.ClassID)
	assert.Equal(t, []string{"budi", "sari"}, srv.awardReq.Usernames)
	assert.Equal(t, 10, srv.awardReq.Points)
}

func TestGamificationHandlerAwardPoints_RejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGamificationHandler(&fakeGamificationSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/gamification/awards/points", strings.NewReader("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.AwardPoints(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
