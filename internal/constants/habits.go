package constants

// HabitStatus is the daily completion state of a habit.
type HabitStatus string

// Confidence is the feasibility evaluator's qualitative verdict.
type Confidence string

const (
	StatusComplete   HabitStatus = "complete"
	StatusIncomplete HabitStatus = "incomplete"
	StatusPaused     HabitStatus = "paused"

	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"

	// MinutesPerDay is the length of the reminder clock used for conflict distances.
	MinutesPerDay = 24 * 60

	// DefaultIcon is used when a habit is created without one.
	DefaultIcon = "✅"

	// MaxMutationRetries is how many times a versioned habit write is re-applied after a conflict.
	MaxMutationRetries = 3
)

// Categories lists the known habit categories.
var Categories = []string{
	"health",
	"fitness",
	"productivity",
	"education",
	"wellness",
	"relationships",
}

// Moods lists the accepted mood check-in values, best first.
var Moods = []string{"great", "good", "okay", "bad", "awful"}
