package models

import "time"

// GamificationRecord is the sparse per-student gamification row keyed by
// (classId, studentUsername). Not every roster student has one.
type GamificationRecord struct {
	ClassID         string    `json:"classId"`
	StudentUsername string    `json:"studentUsername"`
	Points          int       `json:"points"`
	Level           int       `json:"level"`
	Badges          int       `json:"badges"`
	Achievements    []string  `json:"achievements"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// StudentView is the derived, never-persisted merge of a roster Student with
// its GamificationRecord. Exactly one view exists per roster student; a
// student without a record carries the zero defaults (points 0, level 1,
// no achievements).
type StudentView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	Class        string   `json:"class"`
	ClassID      string   `json:"classId"`
	Points       int      `json:"points"`
	Level        int      `json:"level"`
	Badges       int      `json:"badges"`
	Achievements []string `json:"achievements"`
}

// Badge describes a reward definition from the badge catalogue.
type Badge struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Category     string `json:"category,omitempty"`
	PointValue   int    `json:"pointValue"`
	IsActive     bool   `json:"isActive"`
	AwardedCount int    `json:"awardedCount"`
}

// BadgeKey returns the key used to match a badge against achievement lists.
// Achievement entries store the badge display NAME, not the id, so renaming
// a badge orphans its existing recipients. Intentionally preserved from the
// source system; swap the keying strategy here if that ever changes.
func BadgeKey(b Badge) string {
	return b.Name
}

// Level defines a gamification tier. The list from the sheet is not
// guaranteed to be sorted by PointsRequired.
type Level struct {
	ID             string `json:"id"`
	Level          int    `json:"level"`
	Name           string `json:"name"`
	PointsRequired int    `json:"pointsRequired"`
	Benefits       string `json:"benefits,omitempty"`
	Color          string `json:"color,omitempty"`
}

// Challenge is a time-boxed activity students can earn points from.
type Challenge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PointReward int       `json:"pointReward"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsActive    bool      `json:"isActive"`
}

// ActiveAt reports whether the challenge is running at t. The stored flag
// gates the window: a deactivated challenge is never active, and a zero
// EndDate means the challenge is open-ended.
func (c Challenge) ActiveAt(t time.Time) bool {
	if !c.IsActive {
		return false
	}
	if !c.StartDate.IsZero() && t.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && t.After(c.EndDate) {
		return false
	}
	return true
}
