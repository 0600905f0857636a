package sheets

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-dash-api/internal/models"
)

// Assignments lists assignments, optionally scoped to one class.
func (c *Client) Assignments(ctx context.Context, classID string) ([]models.Assignment, error) {
	var query url.Values
	if classID != "" {
		query = url.Values{"classId": []string{classID}}
	}
	var payload struct {
		envelope
		Assignments []models.Assignment `json:"assignments"`
	}
	if err := c.get(ctx, "/assignments", query, &payload); err != nil {
		return nil, err
	}
	return payload.Assignments, nil
}

// CreateAssignment adds an assignment.
func (c *Client) CreateAssignment(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	var payload struct {
		envelope
		Assignment models.Assignment `json:"assignment"`
	}
	if err := c.post(ctx, "/assignments", a, &payload); err != nil {
		return models.Assignment{}, err
	}
	return payload.Assignment, nil
}

// UpdateAssignment replaces an assignment row.
func (c *Client) UpdateAssignment(ctx context.Context, a models.Assignment) error {
	var payload envelope
	return c.put(ctx, "/assignments/"+url.PathEscape(a.ID), a, &payload)
}

// DeleteAssignment removes an assignment.
func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	var payload envelope
	return c.delete(ctx, "/assignments/"+url.PathEscape(id), &payload)
}

// GradesByAssignment lists grades for one assignment.
func (c *Client) GradesByAssignment(ctx context.Context, assignmentID string) ([]models.Grade, error) {
	query := url.Values{"assignmentId": []string{assignmentID}}
	var payload struct {
		envelope
		Grades []models.Grade `json:"grades"`
	}
	if err := c.get(ctx, "/grades", query, &payload); err != nil {
		return nil, err
	}
	return payload.Grades, nil
}

// AllGrades lists every grade row.
func (c *Client) AllGrades(ctx context.Context) ([]models.Grade, error) {
	var payload struct {
		envelope
		Grades []models.Grade `json:"grades"`
	}
	if err := c.get(ctx, "/grades", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Grades, nil
}

// SaveGrade upserts a grade.
func (c *Client) SaveGrade(ctx context.Context, grade models.Grade) (models.Grade, error) {
	var payload struct {
		envelope
		Grade models.Grade `json:"grade"`
	}
	if err := c.post(ctx, "/grades", grade, &payload); err != nil {
		return models.Grade{}, err
	}
	return payload.Grade, nil
}

// DeleteGrade removes a grade row.
func (c *Client) DeleteGrade(ctx context.Context, id string) error {
	var payload envelope
	return c.delete(ctx, "/grades/"+url.PathEscape(id), &payload)
}
