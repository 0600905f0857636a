package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/models"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
	"github.com/noah-isme/sma-dash-api/pkg/fanout"
)

const classNotFoundLabel = "Kelas tidak ditemukan"

type gamificationAPI interface {
	Classes(ctx context.Context) ([]models.Class, error)
	Students(ctx context.Context, classID string) ([]models.Student, error)
	GamificationRecords(ctx context.Context, classID string) ([]models.GamificationRecord, error)
	Badges(ctx context.Context) ([]models.Badge, error)
	CreateBadge(ctx context.Context, badge models.Badge) (models.Badge, error)
	UpdateBadge(ctx context.Context, badge models.Badge) error
	DeleteBadge(ctx context.Context, id string) error
	Levels(ctx context.Context) ([]models.Level, error)
	Challenges(ctx context.Context) ([]models.Challenge, error)
	AwardPoints(ctx context.Context, classID, username string, points int, reason string) (int, error)
	AwardBadge(ctx context.Context, classID, username, badgeName string) error
	UpdateLevel(ctx context.Context, classID, username string, level int) error
}

// GamificationServiceConfig tunes bulk award behaviour.
type GamificationServiceConfig struct {
	BulkConcurrency int
}

// GamificationService reconciles the roster with gamification records and
// orchestrates point/badge awards.
type GamificationService struct {
	api       gamificationAPI
	validator *validator.Validate
	logger    *zap.Logger
	cfg       GamificationServiceConfig
	now       func() time.Time
}

// NewGamificationService constructs the service.
func NewGamificationService(api gamificationAPI, validate *validator.Validate, logger *zap.Logger, cfg GamificationServiceConfig) *GamificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BulkConcurrency <= 0 {
		cfg.BulkConcurrency = 4
	}
	return &GamificationService{api: api, validator: validate, logger: logger, cfg: cfg, now: time.Now}
}

// ResolveLevel maps a cumulative point total to the highest level whose
// threshold is met. The levels list may arrive unsorted; when no threshold
// qualifies the minimum-defined level is returned, and an empty list yields
// the level-1 sentinel.
func ResolveLevel(totalPoints int, levels []models.Level) models.Level {
	if len(levels) == 0 {
		return models.Level{Level: 1, PointsRequired: 0}
	}

	var best *models.Level
	var lowest *models.Level
	for i := range levels {
		lvl := &levels[i]
		if lowest == nil || lvl.PointsRequired < lowest.PointsRequired {
			lowest = lvl
		}
		if lvl.PointsRequired > totalPoints {
			continue
		}
		if best == nil || lvl.PointsRequired > best.PointsRequired {
			best = lvl
		}
	}
	if best == nil {
		return *lowest
	}
	return *best
}

// Reconcile merges the roster with the sparse gamification records, producing
// exactly one view per student. Records are matched by (classId, username);
// students without a record default to points 0, level 1, no achievements.
// Achievement entries are badge names and repeats are NOT deduplicated: the
// badge count counts them multiple times, matching the source system.
func Reconcile(students []models.Student, records []models.GamificationRecord) []models.StudentView {
	type recordKey struct {
		classID  string
		username string
	}
	index := make(map[recordKey]*models.GamificationRecord, len(records))
	for i := range records {
		rec := &records[i]
		index[recordKey{rec.ClassID, rec.StudentUsername}] = rec
	}

	views := make([]models.StudentView, 0, len(students))
	for _, student := range students {
		view := models.StudentView{
			ID:           student.ID,
			Name:         student.FullName,
			Username:     student.Username,
			ClassID:      student.ClassID,
			Points:       0,
			Level:        1,
			Achievements: []string{},
		}
		if rec, ok := index[recordKey{student.ClassID, student.Username}]; ok {
			view.Points = rec.Points
			view.Level = rec.Level
			if rec.Achievements != nil {
				view.Achievements = rec.Achievements
			}
		}
		view.Badges = len(view.Achievements)
		views = append(views, view)
	}
	return views
}

// RecipientsOf returns the views whose achievements contain the badge name.
// Matching is exact and case-sensitive (see models.BadgeKey).
func RecipientsOf(badgeName string, views []models.StudentView) []models.StudentView {
	recipients := make([]models.StudentView, 0)
	for _, view := range views {
		for _, achievement := range view.Achievements {
			if achievement == badgeName {
				recipients = append(recipients, view)
				break
			}
		}
	}
	return recipients
}

// Views fetches roster, records and classes concurrently and reconciles them.
func (s *GamificationService) Views(ctx context.Context, classID string) ([]models.StudentView, error) {
	var (
		students []models.Student
		records  []models.GamificationRecord
		classes  []models.Class
		errs     [3]error
		wg       sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		students, errs[0] = s.api.Students(ctx, classID)
	}()
	go func() {
		defer wg.Done()
		records, errs[1] = s.api.GamificationRecords(ctx, classID)
	}()
	go func() {
		defer wg.Done()
		classes, errs[2] = s.api.Classes(ctx)
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	views := Reconcile(students, records)
	classNames := make(map[string]string, len(classes))
	for _, class := range classes {
		classNames[class.ID] = class.Name
	}
	for i := range views {
		if name, ok := classNames[views[i].ClassID]; ok {
			views[i].Class = name
		} else {
			views[i].Class = classNotFoundLabel
		}
	}
	return views, nil
}

// Leaderboard returns the top views ordered by points descending with a
// stable name tiebreak.
func Leaderboard(views []models.StudentView, max int) []models.StudentView {
	ranked := make([]models.StudentView, len(views))
	copy(ranked, views)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].Name < ranked[j].Name
	})
	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// BadgeRecipients resolves a badge by id and lists its recipients across the
// reconciled views.
func (s *GamificationService) BadgeRecipients(ctx context.Context, badgeID string) (models.Badge, []models.StudentView, error) {
	badges, err := s.api.Badges(ctx)
	if err != nil {
		return models.Badge{}, nil, err
	}
	var badge *models.Badge
	for i := range badges {
		if badges[i].ID == badgeID {
			badge = &badges[i]
			break
		}
	}
	if badge == nil {
		return models.Badge{}, nil, appErrors.Clone(appErrors.ErrNotFound, "badge not found")
	}
	views, err := s.Views(ctx, "")
	if err != nil {
		return models.Badge{}, nil, err
	}
	return *badge, RecipientsOf(models.BadgeKey(*badge), views), nil
}

// Badges lists the badge catalogue.
func (s *GamificationService) Badges(ctx context.Context) ([]models.Badge, error) {
	return s.api.Badges(ctx)
}

// BadgeRequest is the badge create/update payload.
type BadgeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	PointValue  int    `json:"point_value" validate:"gte=0"`
	IsActive    bool   `json:"is_active"`
}

// CreateBadge adds a badge definition to the catalogue.
func (s *GamificationService) CreateBadge(ctx context.Context, req BadgeRequest) (models.Badge, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Badge{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid badge payload")
	}
	return s.api.CreateBadge(ctx, models.Badge{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    req.Category,
		PointValue:  req.PointValue,
		IsActive:    req.IsActive,
	})
}

// UpdateBadge rewrites a badge definition. Renaming a badge orphans existing
// recipients because achievements key on the name; the caller is warned via
// log so support can follow up.
func (s *GamificationService) UpdateBadge(ctx context.Context, id string, req BadgeRequest) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid badge payload")
	}
	badges, err := s.api.Badges(ctx)
	if err != nil {
		return err
	}
	var existing *models.Badge
	for i := range badges {
		if badges[i].ID == id {
			existing = &badges[i]
			break
		}
	}
	if existing == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "badge not found")
	}
	if models.BadgeKey(*existing) != req.Name {
		s.logger.Warn("badge rename orphans existing recipients",
			zap.String("badge_id", id),
			zap.String("old_name", existing.Name),
			zap.String("new_name", req.Name))
	}
	return s.api.UpdateBadge(ctx, models.Badge{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    req.Category,
		PointValue:  req.PointValue,
		IsActive:    req.IsActive,
	})
}

// DeleteBadge removes a badge definition. Achievements already granted keep
// the name string and are unaffected.
func (s *GamificationService) DeleteBadge(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	return s.api.DeleteBadge(ctx, id)
}

// Levels lists the level table.
func (s *GamificationService) Levels(ctx context.Context) ([]models.Level, error) {
	return s.api.Levels(ctx)
}

// Challenges lists the challenge catalogue with IsActive re-derived from the
// stored flag and the start/end window at call time.
func (s *GamificationService) Challenges(ctx context.Context) ([]models.Challenge, error) {
	challenges, err := s.api.Challenges(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range challenges {
		challenges[i].IsActive = challenges[i].ActiveAt(now)
	}
	return challenges, nil
}

// BulkAwardRequest selects students for a bulk award.
type BulkAwardRequest struct {
	ClassID   string   `json:"class_id" validate:"required"`
	Usernames []string `json:"usernames" validate:"required,min=1,dive,required"`
	Points    int      `json:"points" validate:"required,gt=0"`
	Reason    string   `json:"reason"`
}

// BulkBadgeRequest selects students for a bulk badge award.
type BulkBadgeRequest struct {
	ClassID   string   `json:"class_id" validate:"required"`
	Usernames []string `json:"usernames" validate:"required,min=1,dive,required"`
	BadgeName string   `json:"badge_name" validate:"required"`
}

// BulkAwardFailure describes one failed award.
type BulkAwardFailure struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

// BulkAwardResult summarises a bulk award run. The succeeded subset is never
// rolled back on partial failure.
type BulkAwardResult struct {
	Requested int                `json:"requested"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Failures  []BulkAwardFailure `json:"failures,omitempty"`
	LevelUps  int                `json:"levelUps"`
}

// AwardPoints grants points to every selected student through a bounded
// fan-out. Each award is an independent upstream call; after a successful
// award the student's level is re-resolved against the level table and a
// level-up is persisted fire-and-forget (an update failure is logged but
// never fails the award).
func (s *GamificationService) AwardPoints(ctx context.Context, req BulkAwardRequest) (*BulkAwardResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk award payload")
	}

	levels, err := s.api.Levels(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.api.GamificationRecords(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	currentLevel := make(map[string]int, len(records))
	for _, rec := range records {
		currentLevel[rec.StudentUsername] = rec.Level
	}

	var levelUps sync.Map
	outcome := fanout.Run(ctx, req.Usernames, s.cfg.BulkConcurrency, s.logger, func(ctx context.Context, username string) error {
		newTotal, err := s.api.AwardPoints(ctx, req.ClassID, username, req.Points, req.Reason)
		if err != nil {
			return err
		}
		resolved := ResolveLevel(newTotal, levels)
		prior := currentLevel[username]
		if prior == 0 {
			prior = 1
		}
		if resolved.Level > prior {
			levelUps.Store(username, resolved.Level)
			if err := s.api.UpdateLevel(ctx, req.ClassID, username, resolved.Level); err != nil {
				s.logger.Warn("level-up persistence failed",
					zap.String("class_id", req.ClassID),
					zap.String("username", username),
					zap.Int("level", resolved.Level),
					zap.Error(err))
			}
		}
		return nil
	})

	result := bulkResult(outcome)
	levelUps.Range(func(_, _ interface{}) bool {
		result.LevelUps++
		return true
	})
	return result, nil
}

// AwardBadge appends a badge to every selected student's achievements
// through the same bounded fan-out.
func (s *GamificationService) AwardBadge(ctx context.Context, req BulkBadgeRequest) (*BulkAwardResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk badge payload")
	}

	outcome := fanout.Run(ctx, req.Usernames, s.cfg.BulkConcurrency, s.logger, func(ctx context.Context, username string) error {
		return s.api.AwardBadge(ctx, req.ClassID, username, req.BadgeName)
	})
	return bulkResult(outcome), nil
}

func bulkResult(outcome fanout.Outcome) *BulkAwardResult {
	result := &BulkAwardResult{
		Requested: len(outcome.Results),
		Succeeded: outcome.Succeeded,
		Failed:    outcome.Failed,
	}
	for _, failure := range outcome.Errors() {
		result.Failures = append(result.Failures, BulkAwardFailure{
			Username: failure.ID,
			Error:    appErrors.FromError(failure.Err).Message,
		})
	}
	return result
}
