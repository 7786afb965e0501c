package constants

// Feasibility defaults. All of them can be overridden in the [feasibility]
// table of the settings file.
const (
	// DefaultMaxActiveHabits is the active habit count at which the load is considered too high.
	DefaultMaxActiveHabits = 10
	// DefaultWeeklyMinutesCeiling caps the estimated weekly time commitment (21h).
	DefaultWeeklyMinutesCeiling = 1260
	// DefaultMinutesPerCompletion estimates the time a single completion takes.
	DefaultMinutesPerCompletion = 15
	// DefaultConflictWindowMin is the reminder proximity that counts as a conflict.
	DefaultConflictWindowMin = 30
	// DefaultLowCompletionRate is the historical success rate below which a warning is raised.
	DefaultLowCompletionRate = 0.5

	// DefaultHistoryWindowDays is the look-back window for completion statistics.
	DefaultHistoryWindowDays = 30
	// MaxHistoryDays bounds history queries.
	MaxHistoryDays = 366
)
