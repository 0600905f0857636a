package dto

import (
	"time"

	"github.com/noah-isme/sma-dash-api/internal/models"
)

// DashboardTotals counts the entities the overview cards display.
type DashboardTotals struct {
	Classes    int `json:"classes"`
	Students   int `json:"students"`
	Badges     int `json:"badges"`
	Challenges int `json:"challenges"`
}

// AssignmentStatusCounts buckets assignments by derived lifecycle state.
type AssignmentStatusCounts struct {
	Active    int `json:"active"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// DashboardSummary is the composed overview payload. Every figure is derived
// from upstream rows at composition time, none is stored.
type DashboardSummary struct {
	Totals      DashboardTotals              `json:"totals"`
	Leaderboard []models.StudentView         `json:"leaderboard"`
	Attendance  models.AttendanceGlobalStats `json:"attendance"`
	Assignments AssignmentStatusCounts       `json:"assignments"`
	GeneratedAt time.Time                    `json:"generatedAt"`
}
