package models

import "github.com/orowoletimothy/vane/internal/constants"

// TimeConflict is an existing habit whose reminder sits close to the candidate's.
type TimeConflict struct {
	HabitID        string `json:"habit_id"`
	HabitTitle     string `json:"habit_title"`
	ReminderTime   string `json:"reminder_time"`
	TimeDifference int    `json:"time_difference"` // minutes on a 24h clock
}

// FeasibilityMetrics are the raw numbers behind a feasibility verdict.
// Averages are nil when no habit has recorded history.
type FeasibilityMetrics struct {
	CurrentHabitCount int            `json:"current_habit_count"`
	EstimatedTimeLoad int            `json:"estimated_time_load"` // minutes per week
	AvgCompletionRate *float64       `json:"avg_completion_rate,omitempty"`
	AvgStreakDuration *float64       `json:"avg_streak_duration,omitempty"`
	TimeConflicts     []TimeConflict `json:"time_conflicts"`
}

// FeasibilityResult is advisory; it never mutates anything.
type FeasibilityResult struct {
	Feasible    bool                 `json:"feasible"`
	Confidence  constants.Confidence `json:"confidence"`
	Warnings    []string             `json:"warnings"`
	Suggestions []string             `json:"suggestions"`
	Metrics     FeasibilityMetrics   `json:"metrics"`
	Overridden  bool                 `json:"overridden,omitempty"`
}
