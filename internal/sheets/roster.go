package sheets

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-dash-api/internal/models"
)

// Classes lists every class.
func (c *Client) Classes(ctx context.Context) ([]models.Class, error) {
	var payload struct {
		envelope
		Classes []models.Class `json:"classes"`
	}
	if err := c.get(ctx, "/classes", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Classes, nil
}

// Students lists the full roster, optionally scoped to one class.
func (c *Client) Students(ctx context.Context, classID string) ([]models.Student, error) {
	var query url.Values
	if classID != "" {
		query = url.Values{"classId": []string{classID}}
	}
	var payload struct {
		envelope
		Students []models.Student `json:"students"`
	}
	if err := c.get(ctx, "/students", query, &payload); err != nil {
		return nil, err
	}
	return payload.Students, nil
}
