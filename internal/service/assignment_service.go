package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/dto"
	"github.com/noah-isme/sma-dash-api/internal/models"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
)

type assignmentAPI interface {
	Assignments(ctx context.Context, classID string) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, a models.Assignment) (models.Assignment, error)
	UpdateAssignment(ctx context.Context, a models.Assignment) error
	DeleteAssignment(ctx context.Context, id string) error
	GradesByAssignment(ctx context.Context, assignmentID string) ([]models.Grade, error)
	Students(ctx context.Context, classID string) ([]models.Student, error)
}

// AssignmentService derives assignment lifecycle state and runs the
// auto-completion check.
type AssignmentService struct {
	api       assignmentAPI
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs the service.
func NewAssignmentService(api assignmentAPI, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{api: api, validator: validate, logger: logger, now: time.Now}
}

// StatusOf derives the lifecycle state. Completed is terminal; otherwise the
// assignment is overdue once its due date has passed, else active.
func StatusOf(a models.Assignment, now time.Time) models.AssignmentStatus {
	if a.Completed {
		return models.AssignmentCompleted
	}
	if a.DueDate.Before(now) {
		return models.AssignmentOverdue
	}
	return models.AssignmentActive
}

// List returns assignments with derived status, optionally scoped to a class.
func (s *AssignmentService) List(ctx context.Context, classID string) ([]dto.AssignmentView, error) {
	assignments, err := s.api.Assignments(ctx, classID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]dto.AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, dto.AssignmentView{Assignment: a, Status: StatusOf(a, now)})
	}
	return views, nil
}

// Get returns one assignment with derived status.
func (s *AssignmentService) Get(ctx context.Context, id string) (*dto.AssignmentView, error) {
	assignments, err := s.api.Assignments(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if a.ID == id {
			view := dto.AssignmentView{Assignment: a, Status: StatusOf(a, s.now())}
			return &view, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
}

// CreateAssignmentRequest is the creation payload.
type CreateAssignmentRequest struct {
	ClassID     string  `json:"class_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date" validate:"required"`
	MaxPoints   float64 `json:"max_points" validate:"required,gt=0"`
}

// Create validates and stores a new assignment.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*dto.AssignmentView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid due date, expected RFC3339")
	}
	created, err := s.api.CreateAssignment(ctx, models.Assignment{
		ClassID:     req.ClassID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		MaxPoints:   req.MaxPoints,
	})
	if err != nil {
		return nil, err
	}
	view := dto.AssignmentView{Assignment: created, Status: StatusOf(created, s.now())}
	return &view, nil
}

// MarkCompleted is the explicit teacher action transitioning an assignment to
// its terminal state.
func (s *AssignmentService) MarkCompleted(ctx context.Context, id string) error {
	view, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if view.Completed {
		return nil
	}
	assignment := view.Assignment
	assignment.Completed = true
	return s.api.UpdateAssignment(ctx, assignment)
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	return s.api.DeleteAssignment(ctx, id)
}

// CheckCompletion re-derives completeness after a grade save: when every
// enrolled student has at least one grade the assignment is transitioned to
// completed upstream. Re-entrant and idempotent; calling it on an
// already-completed assignment is a no-op. The caller decides whether a
// returned error is surfaced or swallowed.
func (s *AssignmentService) CheckCompletion(ctx context.Context, assignmentID string) (bool, error) {
	view, err := s.Get(ctx, assignmentID)
	if err != nil {
		return false, err
	}
	if view.Completed {
		return true, nil
	}

	var (
		grades   []models.Grade
		students []models.Student
		errs     [2]error
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		grades, errs[0] = s.api.GradesByAssignment(ctx, assignmentID)
	}()
	go func() {
		defer wg.Done()
		students, errs[1] = s.api.Students(ctx, view.ClassID)
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return false, err
		}
	}

	if len(students) == 0 {
		return false, nil
	}
	graded := make(map[string]struct{}, len(grades))
	for _, grade := range grades {
		graded[grade.StudentUsername] = struct{}{}
	}
	for _, student := range students {
		if _, ok := graded[student.Username]; !ok {
			return false, nil
		}
	}

	assignment := view.Assignment
	assignment.Completed = true
	if err := s.api.UpdateAssignment(ctx, assignment); err != nil {
		return false, err
	}
	s.logger.Info("assignment auto-completed",
		zap.String("assignment_id", assignmentID),
		zap.Int("students", len(students)))
	return true, nil
}
