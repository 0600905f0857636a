package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/dto"
	"github.com/noah-isme/sma-dash-api/internal/models"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
)

const studentNotFoundLabel = "Siswa tidak ditemukan"

type gradeAPI interface {
	GradesByAssignment(ctx context.Context, assignmentID string) ([]models.Grade, error)
	AllGrades(ctx context.Context) ([]models.Grade, error)
	SaveGrade(ctx context.Context, grade models.Grade) (models.Grade, error)
	DeleteGrade(ctx context.Context, id string) error
	Students(ctx context.Context, classID string) ([]models.Student, error)
}

type completionChecker interface {
	CheckCompletion(ctx context.Context, assignmentID string) (bool, error)
	Get(ctx context.Context, id string) (*dto.AssignmentView, error)
}

// GradeService classifies scores and orchestrates grade persistence with the
// assignment auto-completion check.
type GradeService struct {
	api         gradeAPI
	assignments completionChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs the service.
func NewGradeService(api gradeAPI, assignments completionChecker, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{api: api, assignments: assignments, validator: validate, logger: logger}
}

// Percentage converts a score to percent of maximum. A non-positive maximum
// yields 0 so NaN never reaches aggregate sums.
func Percentage(points, maxPoints float64) float64 {
	if maxPoints <= 0 {
		return 0
	}
	return points / maxPoints * 100
}

// ClassifyScore maps a raw score and its maximum to a qualitative band:
// excellent at 85 percent and up, good from 70, fair from 60, poor below.
// A non-positive maximum classifies as poor.
func ClassifyScore(points, maxPoints float64) models.GradeBand {
	if maxPoints <= 0 {
		return models.BandPoor
	}
	percentage := Percentage(points, maxPoints)
	switch {
	case percentage >= 85:
		return models.BandExcellent
	case percentage >= 70:
		return models.BandGood
	case percentage >= 60:
		return models.BandFair
	default:
		return models.BandPoor
	}
}

// Summarize aggregates grade rows into count/average/min/max/passing.
func Summarize(rows []models.GradeRow) models.GradeSummary {
	summary := models.GradeSummary{Count: len(rows)}
	if len(rows) == 0 {
		return summary
	}
	summary.Min = rows[0].Points
	summary.Max = rows[0].Points
	var total float64
	for _, row := range rows {
		total += row.Points
		if row.Points < summary.Min {
			summary.Min = row.Points
		}
		if row.Points > summary.Max {
			summary.Max = row.Points
		}
		if row.Band.Passing() {
			summary.Passing++
		}
	}
	summary.Average = total / float64(len(rows))
	return summary
}

// ListByAssignment returns an assignment's grades with derived percentage and
// band per row plus the aggregate summary. A grade whose student no longer
// appears on the roster renders with a fallback name instead of failing.
func (s *GradeService) ListByAssignment(ctx context.Context, assignmentID string) (*dto.GradeListResponse, error) {
	if assignmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignmentId is required")
	}
	view, err := s.assignments.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	grades, err := s.api.GradesByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	students, err := s.api.Students(ctx, view.ClassID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.Username] = student.FullName
	}

	rows := make([]models.GradeRow, 0, len(grades))
	for _, grade := range grades {
		name, ok := names[grade.StudentUsername]
		if !ok {
			name = studentNotFoundLabel
		}
		rows = append(rows, models.GradeRow{
			Grade:       grade,
			StudentName: name,
			Percentage:  Percentage(grade.Points, view.MaxPoints),
			Band:        ClassifyScore(grade.Points, view.MaxPoints),
		})
	}

	return &dto.GradeListResponse{
		Assignment: *view,
		Grades:     rows,
		Summary:    Summarize(rows),
	}, nil
}

// SaveGradeRequest is the grading payload.
type SaveGradeRequest struct {
	AssignmentID    string  `json:"assignment_id" validate:"required"`
	StudentUsername string  `json:"student_username" validate:"required"`
	Points          float64 `json:"points" validate:"gte=0"`
	Feedback        string  `json:"feedback"`
}

// Save validates and stores a grade, then runs the assignment completeness
// check. A failing check is logged and swallowed: the grade stays saved and
// the assignment keeps its prior state with no retry scheduled.
func (s *GradeService) Save(ctx context.Context, req SaveGradeRequest) (*dto.SaveGradeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	view, err := s.assignments.Get(ctx, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	if req.Points > view.MaxPoints {
		return nil, appErrors.Clone(appErrors.ErrValidation, "points exceed assignment maximum")
	}

	saved, err := s.api.SaveGrade(ctx, models.Grade{
		AssignmentID:    req.AssignmentID,
		StudentUsername: req.StudentUsername,
		Points:          req.Points,
		Feedback:        req.Feedback,
	})
	if err != nil {
		return nil, err
	}

	completed, err := s.assignments.CheckCompletion(ctx, req.AssignmentID)
	if err != nil {
		s.logger.Warn("completion check failed",
			zap.String("assignment_id", req.AssignmentID),
			zap.Error(err))
		completed = false
	}

	return &dto.SaveGradeResponse{Grade: saved, AssignmentCompleted: completed}, nil
}

// Delete removes a grade row.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	return s.api.DeleteGrade(ctx, id)
}
