package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/dto"
	"github.com/noah-isme/sma-dash-api/internal/models"
)

type fakeDashboardAPI struct {
	classes    []models.Class
	badges     []models.Badge
	challenges []models.Challenge
}

func (f *fakeDashboardAPI) Classes(context.Context) ([]models.Class, error) {
	return f.classes, nil
}

func (f *fakeDashboardAPI) Badges(context.Context) ([]models.Badge, error) {
	return f.badges, nil
}

func (f *fakeDashboardAPI) Challenges(context.Context) ([]models.Challenge, error) {
	return f.challenges, nil
}

type fakeViewSource struct {
	views []models.StudentView
	calls int
}

func (f *fakeViewSource) Views(context.Context, string) ([]models.StudentView, error) {
	f.calls++
	return f.views, nil
}

type fakeAttendanceSource struct {
	stats models.AttendanceGlobalStats
	err   error
}

func (f *fakeAttendanceSource) Global(context.Context) (*models.AttendanceGlobalStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.stats, nil
}

type fakeAssignmentSource struct {
	views []dto.AssignmentView
}

func (f *fakeAssignmentSource) List(context.Context, string) ([]dto.AssignmentView, error) {
	return f.views, nil
}

func TestCountAssignments(t *testing.T) {
	views := []dto.AssignmentView{
		{Status: models.AssignmentActive},
		{Status: models.AssignmentActive},
		{Status: models.AssignmentOverdue},
		{Status: models.AssignmentCompleted},
	}

	counts := CountAssignments(views)
	assert.Equal(t, 2, counts.Active)
	assert.Equal(t, 1, counts.Overdue)
	assert.Equal(t, 1, counts.Completed)
	assert.Equal(t, 4, counts.Total)
}

func TestDashboardServiceSummary_ComposesAndCaches(t *testing.T) {
	api := &fakeDashboardAPI{
		classes:    []models.Class{{ID: "7a"}, {ID: "7b"}},
		badges:     []models.Badge{{ID: "b1"}},
		challenges: []models.Challenge{{ID: "c1"}, {ID: "c2"}},
	}
	viewSrc := &fakeViewSource{
		views: []models.StudentView{
			{Name: "Budi", Points: 120},
			{Name: "Sari", Points: 200},
			{Name: "Tono", Points: 80},
		},
	}
	attendanceSrc := &fakeAttendanceSource{
		stats: models.AttendanceGlobalStats{TotalRecords: 10, TotalPresent: 8},
	}
	assignmentSrc := &fakeAssignmentSource{
		views: []dto.AssignmentView{
			{Status: models.AssignmentActive},
			{Status: models.AssignmentOverdue},
		},
	}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(api, viewSrc, attendanceSrc, assignmentSrc, cacheSvc, zap.NewNop(), DashboardServiceConfig{
		CacheTTL:       time.Minute,
		LeaderboardMax: 2,
	})

	summary, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)

	assert.Equal(t, 2, summary.Totals.Classes)
	assert.Equal(t, 3, summary.Totals.Students)
	assert.Equal(t, 1, summary.Totals.Badges)
	assert.Equal(t, 2, summary.Totals.Challenges)

	require.Len(t, summary.Leaderboard, 2)
	assert.Equal(t, "Sari", summary.Leaderboard[0].Name)

	assert.Equal(t, 10, summary.Attendance.TotalRecords)
	assert.Equal(t, 1, summary.Assignments.Active)
	assert.Equal(t, 1, summary.Assignments.Overdue)

	// Second call is served from cache without recomposition.
	cached, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, summary.Totals, cached.Totals)
	assert.Equal(t, 1, viewSrc.calls)
}

func TestDashboardServiceSummary_DegradesFailedSection(t *testing.T) {
	api := &fakeDashboardAPI{classes: []models.Class{{ID: "7a"}}}
	viewSrc := &fakeViewSource{
		views: []models.StudentView{{Name: "Budi", Points: 120}},
	}
	attendanceSrc := &fakeAttendanceSource{err: errors.New("sheets unreachable")}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(api, viewSrc, attendanceSrc, &fakeAssignmentSource{}, cacheSvc, zap.NewNop(), DashboardServiceConfig{})

	summary, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)

	assert.Equal(t, models.AttendanceGlobalStats{}, summary.Attendance)
	assert.Equal(t, 1, summary.Totals.Classes)
	require.Len(t, summary.Leaderboard, 1)

	// Degraded summaries are not cached; the next read recomputes.
	_, hit, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, viewSrc.calls)
}

func TestDashboardServiceInvalidate(t *testing.T) {
	api := &fakeDashboardAPI{}
	viewSrc := &fakeViewSource{}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(api, viewSrc, &fakeAttendanceSource{}, &fakeAssignmentSource{}, cacheSvc, zap.NewNop(), DashboardServiceConfig{})

	_, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	svc.Invalidate(context.Background())

	_, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, viewSrc.calls)
}
