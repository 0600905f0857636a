package models

import "time"

// AssignmentStatus is derived from due date and completion, never stored as
// ground truth by this service.
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentOverdue   AssignmentStatus = "overdue"
	AssignmentCompleted AssignmentStatus = "completed"
)

// Assignment mirrors the upstream assignment row. Completed is the explicit
// terminal marker; active/overdue are recomputed from DueDate on every read.
type Assignment struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"classId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"dueDate"`
	MaxPoints   float64   `json:"maxPoints"`
	Completed   bool      `json:"completed"`
}

// Grade is a scored submission for an assignment.
type Grade struct {
	ID              string    `json:"id"`
	AssignmentID    string    `json:"assignmentId"`
	StudentUsername string    `json:"studentUsername"`
	Points          float64   `json:"points"`
	Feedback        string    `json:"feedback,omitempty"`
	GradedAt        time.Time `json:"gradedAt"`
}

// GradeBand is the qualitative band for a score.
type GradeBand string

const (
	BandExcellent GradeBand = "excellent"
	BandGood      GradeBand = "good"
	BandFair      GradeBand = "fair"
	BandPoor      GradeBand = "poor"
)

// Rank orders bands ascending by quality (poor=0 .. excellent=3).
func (b GradeBand) Rank() int {
	switch b {
	case BandExcellent:
		return 3
	case BandGood:
		return 2
	case BandFair:
		return 1
	default:
		return 0
	}
}

// Passing reports whether the band contributes to the pass count.
func (b GradeBand) Passing() bool {
	return b != BandPoor
}

// GradeRow is a grade joined with its derived percentage and band.
type GradeRow struct {
	Grade
	StudentName string    `json:"studentName"`
	Percentage  float64   `json:"percentage"`
	Band        GradeBand `json:"band"`
}

// GradeSummary aggregates a set of grade rows.
type GradeSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Passing int     `json:"passing"`
}
