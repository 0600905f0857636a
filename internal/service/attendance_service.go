package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/models"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
)

const recapCachePrefix = "attendance:recap"

type attendanceAPI interface {
	Classes(ctx context.Context) ([]models.Class, error)
	Students(ctx context.Context, classID string) ([]models.Student, error)
	AllAttendance(ctx context.Context) ([]models.AttendanceRecord, error)
	AttendanceByClassDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error)
	SaveAttendance(ctx context.Context, classID, date string, records []models.AttendanceRecord) error
}

// AttendanceServiceConfig tunes recap caching.
type AttendanceServiceConfig struct {
	RecapTTL time.Duration
}

// AttendanceService aggregates raw attendance rows into global statistics,
// per-class recaps and daily-completeness checks.
type AttendanceService struct {
	api       attendanceAPI
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AttendanceServiceConfig
}

// NewAttendanceService constructs the service.
func NewAttendanceService(api attendanceAPI, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg AttendanceServiceConfig) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RecapTTL <= 0 {
		cfg.RecapTTL = 5 * time.Minute
	}
	return &AttendanceService{api: api, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

// GlobalStats aggregates every record regardless of any class/date filter the
// caller currently has active. The four status counts always sum to
// len(records); duplicate rows double-count by design.
func GlobalStats(records []models.AttendanceRecord) models.AttendanceGlobalStats {
	stats := models.AttendanceGlobalStats{TotalRecords: len(records)}
	dates := make(map[string]struct{})
	studentSet := make(map[string]struct{})
	for _, rec := range records {
		switch rec.Status {
		case models.AttendanceSick:
			stats.TotalSick++
		case models.AttendancePermission:
			stats.TotalPermission++
		case models.AttendanceAbsent:
			stats.TotalAbsent++
		default:
			stats.TotalPresent++
		}
		dates[rec.Date] = struct{}{}
		studentSet[rec.StudentUsername] = struct{}{}
	}
	stats.UniqueDates = len(dates)
	stats.UniqueStudents = len(studentSet)
	stats.DateRange = dateRange(dates)
	return stats
}

// ClassRecaps rolls records up per class. Every known class appears in the
// output, classes without activity with all-zero counts. Records referencing
// an unknown class still produce a recap so the totals reconcile.
func ClassRecaps(classes []models.Class, students []models.Student, records []models.AttendanceRecord) []models.ClassAttendanceRecap {
	rosterCount := make(map[string]int)
	for _, student := range students {
		rosterCount[student.ClassID]++
	}

	type bucket struct {
		recap models.ClassAttendanceRecap
		dates map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0, len(classes))

	ensure := func(classID, className string) *bucket {
		if b, ok := buckets[classID]; ok {
			return b
		}
		b := &bucket{
			recap: models.ClassAttendanceRecap{
				ClassID:       classID,
				ClassName:     className,
				TotalStudents: rosterCount[classID],
			},
			dates: make(map[string]struct{}),
		}
		buckets[classID] = b
		order = append(order, classID)
		return b
	}

	for _, class := range classes {
		ensure(class.ID, class.Name)
	}
	for _, rec := range records {
		b := ensure(rec.ClassID, classNotFoundLabel)
		b.recap.TotalRecords++
		switch rec.Status {
		case models.AttendanceSick:
			b.recap.SickCount++
		case models.AttendancePermission:
			b.recap.PermissionCount++
		case models.AttendanceAbsent:
			b.recap.AbsentCount++
		default:
			b.recap.PresentCount++
		}
		b.dates[rec.Date] = struct{}{}
	}

	recaps := make([]models.ClassAttendanceRecap, 0, len(order))
	for _, classID := range order {
		b := buckets[classID]
		if b.recap.TotalRecords > 0 {
			b.recap.AttendanceRate = math.Round(float64(b.recap.PresentCount) / float64(b.recap.TotalRecords) * 100)
		}
		b.recap.UniqueDates = len(b.dates)
		b.recap.DateRange = dateRange(b.dates)
		recaps = append(recaps, b.recap)
	}
	return recaps
}

// DailyStatus classifies how complete recording is for one class and date.
// When the roster is empty the total is estimated from the distinct usernames
// ever seen in that class's attendance history; withdrawn or transferred
// students make this an approximation, preserved as-is from the source
// system.
func DailyStatus(classID, date string, roster []models.Student, history []models.AttendanceRecord) models.ClassDailyStatus {
	recorded := 0
	seen := make(map[string]struct{})
	for _, rec := range history {
		if rec.ClassID != classID {
			continue
		}
		seen[rec.StudentUsername] = struct{}{}
		if rec.Date == date {
			recorded++
		}
	}

	total := len(roster)
	if total == 0 {
		total = len(seen)
	}

	status := models.DailyNotTaken
	switch {
	case recorded == 0:
		status = models.DailyNotTaken
	case total > 0 && recorded >= total:
		status = models.DailyComplete
	default:
		status = models.DailyPartial
	}

	return models.ClassDailyStatus{
		ClassID: classID,
		Date:    date,
		Status:  status,
		Count:   recorded,
		Total:   total,
	}
}

// Global fetches every record and aggregates the all-time statistics.
func (s *AttendanceService) Global(ctx context.Context) (*models.AttendanceGlobalStats, error) {
	records, err := s.api.AllAttendance(ctx)
	if err != nil {
		return nil, err
	}
	stats := GlobalStats(records)
	return &stats, nil
}

// Recaps returns per-class recaps, served from cache when fresh. The second
// return reports cache utilisation.
func (s *AttendanceService) Recaps(ctx context.Context) ([]models.ClassAttendanceRecap, bool, error) {
	cacheKey := recapCachePrefix + ":all"
	if s.cache != nil {
		var cached []models.ClassAttendanceRecap
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	var (
		classes  []models.Class
		students []models.Student
		records  []models.AttendanceRecord
		errs     [3]error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		records, errs[2] = s.api.AllAttendance(ctx)
	}()
	classes, errs[0] = s.api.Classes(ctx)
	students, errs[1] = s.api.Students(ctx, "")
	<-done
	for _, err := range errs {
		if err != nil {
			return nil, false, err
		}
	}

	recaps := ClassRecaps(classes, students, records)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, recaps, s.cfg.RecapTTL); err != nil {
			s.logger.Warn("recap cache write failed", zap.Error(err))
		}
	}
	return recaps, false, nil
}

// ClassDailyStatus reports recording completeness for one class and date.
func (s *AttendanceService) ClassDailyStatus(ctx context.Context, classID, date string) (*models.ClassDailyStatus, error) {
	if classID == "" || date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId and date are required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	roster, err := s.api.Students(ctx, classID)
	if err != nil {
		// Roster unavailable: fall back to the history estimate below.
		s.logger.Warn("roster fetch failed, estimating from history", zap.String("class_id", classID), zap.Error(err))
		roster = nil
	}
	history, err := s.api.AllAttendance(ctx)
	if err != nil {
		return nil, err
	}
	status := DailyStatus(classID, date, roster, history)
	return &status, nil
}

// ListByClassDate returns the raw rows for one class and date.
func (s *AttendanceService) ListByClassDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	if classID == "" || date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId and date are required")
	}
	return s.api.AttendanceByClassDate(ctx, classID, date)
}

// SaveRequest is the payload for recording a class's attendance for a date.
type SaveRequest struct {
	ClassID string            `json:"class_id" validate:"required"`
	Date    string            `json:"date" validate:"required,datetime=2006-01-02"`
	Items   []SaveRequestItem `json:"items" validate:"required,min=1,dive"`
}

// SaveRequestItem is one student's mark.
type SaveRequestItem struct {
	StudentUsername string `json:"student_username" validate:"required"`
	Status          string `json:"status" validate:"required"`
	Notes           string `json:"notes"`
}

// Save upserts the records for one class and date, then invalidates the
// cached recaps and dashboard summary so the next reads recompute.
func (s *AttendanceService) Save(ctx context.Context, req SaveRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	records := make([]models.AttendanceRecord, 0, len(req.Items))
	for _, item := range req.Items {
		status := models.AttendanceStatus(item.Status)
		if !status.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown attendance status %q", item.Status))
		}
		records = append(records, models.AttendanceRecord{
			ClassID:         req.ClassID,
			Date:            req.Date,
			StudentUsername: item.StudentUsername,
			Status:          status,
			Notes:           item.Notes,
		})
	}
	if err := s.api.SaveAttendance(ctx, req.ClassID, req.Date, records); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, recapCachePrefix+"*")
		_ = s.cache.Invalidate(ctx, dashboardCacheKey)
	}
	return nil
}

// dateRange renders a human-readable min to max range over ISO dates.
func dateRange(dates map[string]struct{}) string {
	if len(dates) == 0 {
		return "-"
	}
	sorted := make([]string, 0, len(dates))
	for date := range dates {
		sorted = append(sorted, date)
	}
	sort.Strings(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	return sorted[0] + " s/d " + sorted[len(sorted)-1]
}
