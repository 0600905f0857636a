package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/dto"
	"github.com/noah-isme/sma-dash-api/internal/models"
)

const dashboardCacheKey = "dashboard:summary"

type dashboardAPI interface {
	Classes(ctx context.Context) ([]models.Class, error)
	Badges(ctx context.Context) ([]models.Badge, error)
	Challenges(ctx context.Context) ([]models.Challenge, error)
}

type dashboardViewSource interface {
	Views(ctx context.Context, classID string) ([]models.StudentView, error)
}

type dashboardAttendanceSource interface {
	Global(ctx context.Context) (*models.AttendanceGlobalStats, error)
}

type dashboardAssignmentSource interface {
	List(ctx context.Context, classID string) ([]dto.AssignmentView, error)
}

// DashboardServiceConfig tunes the composed summary.
type DashboardServiceConfig struct {
	CacheTTL       time.Duration
	LeaderboardMax int
}

// DashboardService composes the overview from the gamification, attendance
// and assignment views in one round trip for the landing page.
type DashboardService struct {
	api         dashboardAPI
	views       dashboardViewSource
	attendance  dashboardAttendanceSource
	assignments dashboardAssignmentSource
	cache       *CacheService
	logger      *zap.Logger
	cfg         DashboardServiceConfig
	now         func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(api dashboardAPI, views dashboardViewSource, attendance dashboardAttendanceSource, assignments dashboardAssignmentSource, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	if cfg.LeaderboardMax <= 0 {
		cfg.LeaderboardMax = 10
	}
	return &DashboardService{
		api:         api,
		views:       views,
		attendance:  attendance,
		assignments: assignments,
		cache:       cache,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// CountAssignments buckets assignment views by their derived status.
func CountAssignments(views []dto.AssignmentView) dto.AssignmentStatusCounts {
	counts := dto.AssignmentStatusCounts{Total: len(views)}
	for _, view := range views {
		switch view.Status {
		case models.AssignmentCompleted:
			counts.Completed++
		case models.AssignmentOverdue:
			counts.Overdue++
		default:
			counts.Active++
		}
	}
	return counts
}

// Summary returns the composed overview, served from cache when fresh. The
// second return reports cache utilisation. Constituent fetch failures zero
// out the affected section rather than failing the call.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	if s.cache != nil {
		var cached dto.DashboardSummary
		if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	var (
		views       []models.StudentView
		stats       *models.AttendanceGlobalStats
		assignments []dto.AssignmentView
		classes     []models.Class
		badges      []models.Badge
		challenges  []models.Challenge
		errs        [6]error
		wg          sync.WaitGroup
	)
	wg.Add(6)
	go func() {
		defer wg.Done()
		views, errs[0] = s.views.Views(ctx, "")
	}()
	go func() {
		defer wg.Done()
		stats, errs[1] = s.attendance.Global(ctx)
	}()
	go func() {
		defer wg.Done()
		assignments, errs[2] = s.assignments.List(ctx, "")
	}()
	go func() {
		defer wg.Done()
		classes, errs[3] = s.api.Classes(ctx)
	}()
	go func() {
		defer wg.Done()
		badges, errs[4] = s.api.Badges(ctx)
	}()
	go func() {
		defer wg.Done()
		challenges, errs[5] = s.api.Challenges(ctx)
	}()
	wg.Wait()

	// A failed constituent degrades its section to zeros instead of failing
	// the whole overview; a degraded summary is never cached.
	sections := [6]string{"leaderboard", "attendance", "assignments", "classes", "badges", "challenges"}
	degraded := false
	for i, err := range errs {
		if err != nil {
			degraded = true
			s.logger.Warn("dashboard section unavailable", zap.String("section", sections[i]), zap.Error(err))
		}
	}
	if stats == nil {
		stats = &models.AttendanceGlobalStats{}
	}

	summary := &dto.DashboardSummary{
		Totals: dto.DashboardTotals{
			Classes:    len(classes),
			Students:   len(views),
			Badges:     len(badges),
			Challenges: len(challenges),
		},
		Leaderboard: Leaderboard(views, s.cfg.LeaderboardMax),
		Attendance:  *stats,
		Assignments: CountAssignments(assignments),
		GeneratedAt: s.now().UTC(),
	}

	if s.cache != nil && !degraded {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

// Invalidate drops the cached summary so the next read recomputes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, dashboardCacheKey)
	}
}
