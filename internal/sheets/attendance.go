package sheets

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-dash-api/internal/models"
)

// AllAttendance lists every attendance record across all classes and dates.
func (c *Client) AllAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	var payload struct {
		envelope
		Attendance []models.AttendanceRecord `json:"attendance"`
	}
	if err := c.get(ctx, "/attendance", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Attendance, nil
}

// AttendanceByClassDate lists the records for one class and date.
func (c *Client) AttendanceByClassDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	query := url.Values{
		"classId": []string{classID},
		"date":    []string{date},
	}
	var payload struct {
		envelope
		Attendance []models.AttendanceRecord `json:"attendance"`
	}
	if err := c.get(ctx, "/attendance", query, &payload); err != nil {
		return nil, err
	}
	return payload.Attendance, nil
}

// SaveAttendance upserts the records for one class and date in a single call.
func (c *Client) SaveAttendance(ctx context.Context, classID, date string, records []models.AttendanceRecord) error {
	body := map[string]interface{}{
		"classId":    classID,
		"date":       date,
		"attendance": records,
	}
	var payload envelope
	return c.put(ctx, "/attendance", body, &payload)
}
