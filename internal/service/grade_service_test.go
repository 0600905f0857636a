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

type fakeGradeAPI struct {
	grades   []models.Grade
	students []models.Student

	saved   []models.Grade
	deleted []string
}

func (f *fakeGradeAPI) GradesByAssignment(context.Context, string) ([]models.Grade, error) {
	return f.grades, nil
}

func (f *fakeGradeAPI) AllGrades(context.Context) ([]models.Grade, error) {
	return f.grades, nil
}

func (f *fakeGradeAPI) SaveGrade(_ context.Context, grade models.Grade) (models.Grade, error) {
	grade.ID = "grade-new"
	grade.GradedAt = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	f.saved = append(f.saved, grade)
	return grade, nil
}

func (f *fakeGradeAPI) DeleteGrade(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGradeAPI) Students(context.Context, string) ([]models.Student, error) {
	return f.students, nil
}

type fakeCompletionChecker struct {
	view      *dto.AssignmentView
	completed bool
	checkErr  error
	checked   []string
}

func (f *fakeCompletionChecker) CheckCompletion(_ context.Context, assignmentID string) (bool, error) {
	f.checked = append(f.checked, assignmentID)
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.completed, nil
}

func (f *fakeCompletionChecker) Get(context.Context, string) (*dto.AssignmentView, error) {
	return f.view, nil
}

func TestClassifyScore_Bands(t *testing.T) {
	cases := []struct {
		name      string
		points    float64
		maxPoints float64
		want      models.GradeBand
	}{
		{"excellent boundary", 85, 100, models.BandExcellent},
		{"good upper", 84.9, 100, models.BandGood},
		{"good boundary", 70, 100, models.BandGood},
		{"fair upper", 69.9, 100, models.BandFair},
		{"fair boundary", 60, 100, models.BandFair},
		{"poor", 59.9, 100, models.BandPoor},
		{"zero", 0, 100, models.BandPoor},
		{"scaled max", 17, 20, models.BandExcellent},
		{"zero max", 50, 0, models.BandPoor},
		{"negative max", 50, -10, models.BandPoor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyScore(tc.points, tc.maxPoints))
		})
	}
}

func TestClassifyScore_MonotoneInPoints(t *testing.T) {
	prev := ClassifyScore(0, 100)
	for points := 1; points <= 100; points++ {
		band := ClassifyScore(float64(points), 100)
		assert.GreaterOrEqual(t, band.Rank(), prev.Rank())
		prev = band
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, float64(85), Percentage(17, 20))
	assert.Equal(t, float64(0), Percentage(10, 0))
}

func TestSummarize(t *testing.T) {
	rows := []models.GradeRow{
		{Grade: models.Grade{Points: 90}, Band: models.BandExcellent},
		{Grade: models.Grade{Points: 55}, Band: models.BandPoor},
		{Grade: models.Grade{Points: 70}, Band: models.BandGood},
	}

	summary := Summarize(rows)
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 71.67, summary.Average, 0.01)
	assert.Equal(t, float64(55), summary.Min)
	assert.Equal(t, float64(90), summary.Max)
	assert.Equal(t, 2, summary.Passing)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, float64(0), empty.Average)
}

func assignmentView(maxPoints float64) *dto.AssignmentView {
	return &dto.AssignmentView{
		Assignment: models.Assignment{ID: "a1", ClassID: "7a", Title: "Ulangan", MaxPoints: maxPoints},
		Status:     models.AssignmentActive,
	}
}

func TestGradeServiceListByAssignment_FallbackName(t *testing.T) {
	api := &fakeGradeAPI{
		grades: []models.Grade{
			{ID: "g1", AssignmentID: "a1", StudentUsername: "budi", Points: 90},
			{ID: "g2", AssignmentID: "a1", StudentUsername: "ghost", Points: 50},
		},
		students: []models.Student{{Username: "budi", FullName: "Budi", ClassID: "7a"}},
	}
	svc := NewGradeService(api, &fakeCompletionChecker{view: assignmentView(100)}, nil, zap.NewNop())

	list, err := svc.ListByAssignment(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, list.Grades, 2)

	assert.Equal(t, "Budi", list.Grades[0].StudentName)
	assert.Equal(t, models.BandExcellent, list.Grades[0].Band)
	assert.Equal(t, float64(90), list.Grades[0].Percentage)

	assert.Equal(t, "Siswa tidak ditemukan", list.Grades[1].StudentName)
	assert.Equal(t, models.BandPoor, list.Grades[1].Band)

	assert.Equal(t, 2, list.Summary.Count)
	assert.Equal(t, 1, list.Summary.Passing)
}

func TestGradeServiceSave_TriggersCompletionCheck(t *testing.T) {
	api := &fakeGradeAPI{}
	checker := &fakeCompletionChecker{view: assignmentView(100), completed: true}
	svc := NewGradeService(api, checker, nil, zap.NewNop())

	result, err := svc.Save(context.Background(), SaveGradeRequest{
		AssignmentID:    "a1",
		StudentUsername: "budi",
		Points:          88,
		Feedback:        "Bagus",
	})
	require.NoError(t, err)
	assert.Equal(t, "grade-new", result.Grade.ID)
	assert.True(t, result.AssignmentCompleted)
	assert.Equal(t, []string{"a1"}, checker.checked)
}

func TestGradeServiceSave_CompletionFailureSwallowed(t *testing.T) {
	api := &fakeGradeAPI{}
	checker := &fakeCompletionChecker{view: assignmentView(100), checkErr: errors.New("sheet unavailable")}
	svc := NewGradeService(api, checker, nil, zap.NewNop())

	result, err := svc.Save(context.Background(), SaveGradeRequest{
		AssignmentID:    "a1",
		StudentUsername: "budi",
		Points:          88,
	})
	require.NoError(t, err)
	// The grade stays saved; completion simply reports false.
	require.Len(t, api.saved, 1)
	assert.False(t, result.AssignmentCompleted)
}

func TestGradeServiceSave_RejectsAboveMax(t *testing.T) {
	svc := NewGradeService(&fakeGradeAPI{}, &fakeCompletionChecker{view: assignmentView(50)}, nil, zap.NewNop())

	_, err := svc.Save(context.Background(), SaveGradeRequest{
		AssignmentID:    "a1",
		StudentUsername: "budi",
		Points:          51,
	})
	assert.Error(t, err)
}

func TestGradeServiceDelete_RequiresID(t *testing.T) {
	api := &fakeGradeAPI{}
	svc := NewGradeService(api, &fakeCompletionChecker{view: assignmentView(100)}, nil, zap.NewNop())

	assert.Error(t, svc.Delete(context.Background(), ""))
	require.NoError(t, svc.Delete(context.Background(), "g1"))
	assert.Equal(t, []string{"g1"}, api.deleted)
}
