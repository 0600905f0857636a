package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/models"
)

type fakeAssignmentAPI struct {
	assignments []models.Assignment
	grades      []models.Grade
	students    []models.Student
	gradesErr   error

	created models.Assignment
	updated []models.Assignment
	deleted []string
}

func (f *fakeAssignmentAPI) Assignments(context.Context, string) ([]models.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeAssignmentAPI) CreateAssignment(_ context.Context, a models.Assignment) (models.Assignment, error) {
	a.ID = "asg-new"
	f.created = a
	return a, nil
}

func (f *fakeAssignmentAPI) UpdateAssignment(_ context.Context, a models.Assignment) error {
	f.updated = append(f.updated, a)
	for i := range f.assignments {
		if f.assignments[i].ID == a.ID {
			f.assignments[i] = a
		}
	}
	return nil
}

func (f *fakeAssignmentAPI) DeleteAssignment(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAssignmentAPI) GradesByAssignment(context.Context, string) ([]models.Grade, error) {
	if f.gradesErr != nil {
		return nil, f.gradesErr
	}
	return f.grades, nil
}

func (f *fakeAssignmentAPI) Students(context.Context, string) ([]models.Student, error) {
	return f.students, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStatusOf(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	active := models.Assignment{DueDate: now.Add(24 * time.Hour)}
	assert.Equal(t, models.AssignmentActive, StatusOf(active, now))

	overdue := models.Assignment{DueDate: now.Add(-time.Minute)}
	assert.Equal(t, models.AssignmentOverdue, StatusOf(overdue, now))

	// Completed is terminal regardless of due date.
	completed := models.Assignment{DueDate: now.Add(-time.Hour), Completed: true}
	assert.Equal(t, models.AssignmentCompleted, StatusOf(completed, now))
}

func TestAssignmentServiceList_DerivesStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAssignmentAPI{
		assignments: []models.Assignment{
			{ID: "a1", DueDate: now.Add(time.Hour)},
			{ID: "a2", DueDate: now.Add(-time.Hour)},
		},
	}
	svc := NewAssignmentService(api, nil, zap.NewNop())
	svc.now = fixedClock(now)

	views, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, models.AssignmentActive, views[0].Status)
	assert.Equal(t, models.AssignmentOverdue, views[1].Status)
}

func TestAssignmentServiceCreate_ParsesDueDate(t *testing.T) {
	api := &fakeAssignmentAPI{}
	svc := NewAssignmentService(api, nil, zap.NewNop())

	view, err := svc.Create(context.Background(), CreateAssignmentRequest{
		ClassID:   "7a",
		Title:     "Ulangan Bab 3",
		DueDate:   "2026-03-10T15:00:00Z",
		MaxPoints: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "asg-new", view.ID)
	assert.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), api.created.DueDate)

	_, err = svc.Create(context.Background(), CreateAssignmentRequest{
		ClassID:   "7a",
		Title:     "Ulangan",
		DueDate:   "10/03/2026",
		MaxPoints: 100,
	})
	assert.Error(t, err)
}

func TestAssignmentServiceCheckCompletion_AllGraded(t *testing.T) {
	api := &fakeAssignmentAPI{
		assignments: []models.Assignment{
			{ID: "a1", ClassID: "7a", DueDate: time.Now().Add(time.Hour)},
		},
		students: []models.Student{
			{Username: "budi", ClassID: "7a"},
			{Username: "sari", ClassID: "7a"},
		},
		grades: []models.Grade{
			{AssignmentID: "a1", StudentUsername: "budi"},
			{AssignmentID: "a1", StudentUsername: "sari"},
		},
	}
	svc := NewAssignmentService(api, nil, zap.NewNop())

	completed, err := svc.CheckCompletion(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, completed)
	require.Len(t, api.updated, 1)
	assert.True(t, api.updated[0].Completed)

	// Second run is a no-op on the already-completed assignment.
	completed, err = svc.CheckCompletion(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Len(t, api.updated, 1)
}

func TestAssignmentServiceCheckCompletion_MissingGrades(t *testing.T) {
	api := &fakeAssignmentAPI{
		assignments: []models.Assignment{{ID: "a1", ClassID: "7a"}},
		students: []models.Student{
			{Username: "budi", ClassID: "7a"},
			{Username: "sari", ClassID: "7a"},
		},
		grades: []models.Grade{{AssignmentID: "a1", StudentUsername: "budi"}},
	}
	svc := NewAssignmentService(api, nil, zap.NewNop())

	completed, err := svc.CheckCompletion(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Empty(t, api.updated)
}

func TestAssignmentServiceCheckCompletion_EmptyRoster(t *testing.T) {
	api := &fakeAssignmentAPI{
		assignments: []models.Assignment{{ID: "a1", ClassID: "7a"}},
	}
	svc := NewAssignmentService(api, nil, zap.NewNop())

	// No students means completeness can never be asserted.
	completed, err := svc.CheckCompletion(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestAssignmentServiceCheckCompletion_FetchErrorSurfaced(t *testing.T) {
	api := &fakeAssignmentAPI{
		assignments: []models.Assignment{{ID: "a1", ClassID: "7a"}},
		students:    []models.Student{{Username: "budi", ClassID: "7a"}},
		gradesErr:   errors.New("grades sheet unavailable"),
	}
	svc := NewAssignmentService(api, nil, zap.NewNop())

	_, err := svc.CheckCompletion(context.Background(), "a1")
	assert.Error(t, err)
}

func TestAssignmentServiceMarkCompleted_Idempotent(t *testing.T) {
	api := &fakeAssignmentAPI{
		assignments: []models.Assignment{{ID: "a1", Completed: true}},
	}
	svc := NewAssignmentService(api, nil, zap.NewNop())

	require.NoError(t, svc.MarkCompleted(context.Background(), "a1"))
	assert.Empty(t, api.updated)
}

func TestAssignmentServiceGet_NotFound(t *testing.T) {
	svc := NewAssignmentService(&fakeAssignmentAPI{}, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "ghost")
	assert.Error(t, err)
}
