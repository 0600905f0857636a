package sheets

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-dash-api/internal/models"
)

// GamificationRecords lists the sparse per-student gamification rows,
// optionally scoped to one class.
func (c *Client) GamificationRecords(ctx context.Context, classID string) ([]models.GamificationRecord, error) {
	var query url.Values
	if classID != "" {
		query = url.Values{"classId": []string{classID}}
	}
	var payload struct {
		envelope
		Records []models.GamificationRecord `json:"records"`
	}
	if err := c.get(ctx, "/gamification", query, &payload); err != nil {
		return nil, err
	}
	return payload.Records, nil
}

// Badges lists the badge catalogue.
func (c *Client) Badges(ctx context.Context) ([]models.Badge, error) {
	var payload struct {
		envelope
		Badges []models.Badge `json:"badges"`
	}
	if err := c.get(ctx, "/badges", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Badges, nil
}

// CreateBadge adds a badge definition.
func (c *Client) CreateBadge(ctx context.Context, badge models.Badge) (models.Badge, error) {
	var payload struct {
		envelope
		Badge models.Badge `json:"badge"`
	}
	if err := c.post(ctx, "/badges", badge, &payload); err != nil {
		return models.Badge{}, err
	}
	return payload.Badge, nil
}

// UpdateBadge replaces a badge definition.
func (c *Client) UpdateBadge(ctx context.Context, badge models.Badge) error {
	var payload envelope
	return c.put(ctx, "/badges/"+url.PathEscape(badge.ID), badge, &payload)
}

// DeleteBadge removes a badge definition.
func (c *Client) DeleteBadge(ctx context.Context, id string) error {
	var payload envelope
	return c.delete(ctx, "/badges/"+url.PathEscape(id), &payload)
}

// Levels lists the level thresholds; order is not guaranteed.
func (c *Client) Levels(ctx context.Context) ([]models.Level, error) {
	var payload struct {
		envelope
		Levels []models.Level `json:"levels"`
	}
	if err := c.get(ctx, "/levels", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Levels, nil
}

// Challenges lists challenge definitions.
func (c *Client) Challenges(ctx context.Context) ([]models.Challenge, error) {
	var payload struct {
		envelope
		Challenges []models.Challenge `json:"challenges"`
	}
	if err := c.get(ctx, "/challenges", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Challenges, nil
}

// AwardPoints grants points to one student and returns the new total.
func (c *Client) AwardPoints(ctx context.Context, classID, username string, points int, reason string) (int, error) {
	body := map[string]interface{}{
		"classId":         classID,
		"studentUsername": username,
		"points":          points,
		"reason":          reason,
	}
	var payload struct {
		envelope
		NewTotal int `json:"newTotal"`
	}
	if err := c.post(ctx, "/gamification/awardPoints", body, &payload); err != nil {
		return 0, err
	}
	return payload.NewTotal, nil
}

// AwardBadge appends a badge name to one student's achievements.
func (c *Client) AwardBadge(ctx context.Context, classID, username, badgeName string) error {
	body := map[string]interface{}{
		"classId":         classID,
		"studentUsername": username,
		"badgeName":       badgeName,
	}
	var payload envelope
	return c.post(ctx, "/gamification/awardBadge", body, &payload)
}

// UpdateLevel persists a student's level after a level-up.
func (c *Client) UpdateLevel(ctx context.Context, classID, username string, level int) error {
	body := map[string]interface{}{
		"classId":         classID,
		"studentUsername": username,
		"level":           level,
	}
	var payload envelope
	return c.post(ctx, "/gamification/updateLevel", body, &payload)
}
