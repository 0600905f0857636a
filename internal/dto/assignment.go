package dto

import "github.com/noah-isme/sma-dash-api/internal/models"

// AssignmentView decorates an assignment with its derived lifecycle status.
type AssignmentView struct {
	models.Assignment
	Status models.AssignmentStatus `json:"status"`
}

// GradeListResponse bundles an assignment's grade rows with their summary.
type GradeListResponse struct {
	Assignment AssignmentView      `json:"assignment"`
	Grades     []models.GradeRow   `json:"grades"`
	Summary    models.GradeSummary `json:"summary"`
}

// SaveGradeResponse reports the stored grade and whether the save completed
// the assignment.
type SaveGradeResponse struct {
	Grade               models.Grade `json:"grade"`
	AssignmentCompleted bool         `json:"assignmentCompleted"`
}
