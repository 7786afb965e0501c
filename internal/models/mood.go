package models

import "time"

// MoodEntry is a user's check-in for a single local day.
type MoodEntry struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Day        string     `json:"day"` // YYYY-MM-DD format
	Mood       string     `json:"mood"`
	Motivation int        `json:"motivation"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}
