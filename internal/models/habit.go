package models

import (
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
)

// Habit is a recurring commitment and its completion state for the local day
// named by ActiveDay.
type Habit struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	Title          string                `json:"title"`
	Icon           string                `json:"icon,omitempty"`
	Category       string                `json:"category,omitempty"`
	TargetCount    int                   `json:"target_count"`
	CompletedToday int                   `json:"completed_today"`
	RecurrenceDays []Weekday             `json:"recurrence_days"`         // empty means every day
	ReminderTime   string                `json:"reminder_time,omitempty"` // HH:MM, local
	Status         constants.HabitStatus `json:"status"`
	Streak         int                   `json:"streak"`
	LastCompleted  *time.Time            `json:"last_completed,omitempty"`
	ActiveDay      string                `json:"active_day"` // YYYY-MM-DD
	IsPublic       bool                  `json:"is_public"`
	Notes          string                `json:"notes,omitempty"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	DeletedAt      *time.Time            `json:"deleted_at,omitempty"`
}

func (h Habit) IsPaused() bool {
	return h.Status == constants.StatusPaused
}

func (h Habit) IsDeleted() bool {
	return h.DeletedAt != nil
}

// CompletedForDay reports whether today's target has been met.
func (h Habit) CompletedForDay() bool {
	return h.CompletedToday >= h.TargetCount
}

// HabitDraft carries the user-editable fields of a habit.
type HabitDraft struct {
	Title          string    `json:"title" validate:"required,max=120"`
	Icon           string    `json:"icon,omitempty" validate:"max=16"`
	Category       string    `json:"category,omitempty" validate:"omitempty,category"`
	TargetCount    int       `json:"target_count" validate:"gte=1,lte=100"`
	RecurrenceDays []Weekday `json:"recurrence_days" validate:"max=7,dive,weekday"`
	ReminderTime   string    `json:"reminder_time,omitempty" validate:"omitempty,clock"`
	IsPublic       bool      `json:"is_public"`
	Notes          string    `json:"notes,omitempty" validate:"max=2000"`
}

// Draft extracts the editable fields of h.
func (h Habit) Draft() HabitDraft {
	return HabitDraft{
		Title:          h.Title,
		Icon:           h.Icon,
		Category:       h.Category,
		TargetCount:    h.TargetCount,
		RecurrenceDays: append([]Weekday(nil), h.RecurrenceDays...),
		ReminderTime:   h.ReminderTime,
		IsPublic:       h.IsPublic,
		Notes:          h.Notes,
	}
}

// HabitDay is the closed-out record of one habit on one local day.
type HabitDay struct {
	HabitID   string    `json:"habit_id"`
	Day       string    `json:"day"` // YYYY-MM-DD
	Completed int       `json:"completed"`
	Target    int       `json:"target"`
	Scheduled bool      `json:"scheduled"`
	Met       bool      `json:"met"`
	Vacation  bool      `json:"vacation"`
	Paused    bool      `json:"paused"`
	Streak    int       `json:"streak"` // streak after the day was closed

	// CompletedAt is when the day's target was last reached, if it was.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Counts reports whether the day takes part in completion-rate statistics.
func (d HabitDay) Counts() bool {
	return d.Scheduled && !d.Vacation && !d.Paused
}

// HistoryStats summarises a habit's closed days over a look-back window.
type HistoryStats struct {
	HabitID        string     `json:"habit_id"`
	WindowDays     int        `json:"window_days"`
	DaysTracked    int        `json:"days_tracked"`
	DaysMet        int        `json:"days_met"`
	CompletionRate float64    `json:"completion_rate"`
	LongestStreak  int        `json:"longest_streak"`
	Days           []HabitDay `json:"days,omitempty"`
}

// HasHistory reports whether at least one counted day was recorded.
func (s HistoryStats) HasHistory() bool {
	return s.DaysTracked > 0
}
