// Package feasibility estimates whether a user can take on one more habit.
//
// The evaluator is advisory and pure: it reads the candidate and a snapshot
// of the user's habits and returns a result without touching storage.
package feasibility

import (
	"fmt"
	"sort"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/utils"
)

// Config holds the tunable thresholds. The TOML keys match the [feasibility]
// table of the settings file.
type Config struct {
	MaxActiveHabits       int     `toml:"max_active_habits"`
	WeeklyMinutesCeiling  int     `toml:"weekly_minutes_ceiling"`
	MinutesPerCompletion  int     `toml:"minutes_per_completion"`
	ConflictWindowMinutes int     `toml:"conflict_window_minutes"`
	LowCompletionRate     float64 `toml:"low_completion_rate"`
}

// DefaultConfig returns the built-in thresholds.
func DefaultConfig() Config {
	return Config{
		MaxActiveHabits:       constants.DefaultMaxActiveHabits,
		WeeklyMinutesCeiling:  constants.DefaultWeeklyMinutesCeiling,
		MinutesPerCompletion:  constants.DefaultMinutesPerCompletion,
		ConflictWindowMinutes: constants.DefaultConflictWindowMin,
		LowCompletionRate:     constants.DefaultLowCompletionRate,
	}
}

// Validate rejects thresholds that would make every habit infeasible or
// disable a rule by accident.
func (c Config) Validate() error {
	switch {
	case c.MaxActiveHabits < 1:
		return fmt.Errorf("max_active_habits must be at least 1, got %d", c.MaxActiveHabits)
	case c.WeeklyMinutesCeiling < 1:
		return fmt.Errorf("weekly_minutes_ceiling must be at least 1, got %d", c.WeeklyMinutesCeiling)
	case c.MinutesPerCompletion < 1:
		return fmt.Errorf("minutes_per_completion must be at least 1, got %d", c.MinutesPerCompletion)
	case c.ConflictWindowMinutes < 0 || c.ConflictWindowMinutes > constants.MinutesPerDay/2:
		return fmt.Errorf("conflict_window_minutes must be between 0 and %d, got %d", constants.MinutesPerDay/2, c.ConflictWindowMinutes)
	case c.LowCompletionRate < 0 || c.LowCompletionRate > 1:
		return fmt.Errorf("low_completion_rate must be between 0 and 1, got %v", c.LowCompletionRate)
	}
	return nil
}

// Snapshot is one existing habit together with its recent history, if any.
type Snapshot struct {
	Habit   models.Habit
	History *models.HistoryStats
}

// Request is the input to Evaluate.
type Request struct {
	Candidate models.HabitDraft
	Existing  []Snapshot
	// Override accepts the candidate even when the load is too high.
	Override bool
}

// Evaluator applies Config to feasibility requests.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an Evaluator. Zero-valued thresholds fall back to the
// defaults.
func NewEvaluator(cfg Config) *Evaluator {
	def := DefaultConfig()
	if cfg.MaxActiveHabits == 0 {
		cfg.MaxActiveHabits = def.MaxActiveHabits
	}
	if cfg.WeeklyMinutesCeiling == 0 {
		cfg.WeeklyMinutesCeiling = def.WeeklyMinutesCeiling
	}
	if cfg.MinutesPerCompletion == 0 {
		cfg.MinutesPerCompletion = def.MinutesPerCompletion
	}
	return &Evaluator{cfg: cfg}
}

// Config returns the thresholds in use.
func (e *Evaluator) Config() Config {
	return e.cfg
}

// Evaluate analyses req. It never fails: every input yields a result.
func (e *Evaluator) Evaluate(req Request) models.FeasibilityResult {
	active := activeSnapshots(req.Existing)

	metrics := models.FeasibilityMetrics{
		CurrentHabitCount: len(active),
		EstimatedTimeLoad: e.weeklyMinutes(req.Candidate.RecurrenceDays, req.Candidate.TargetCount),
	}
	for _, s := range active {
		metrics.EstimatedTimeLoad += e.weeklyMinutes(s.Habit.RecurrenceDays, s.Habit.TargetCount)
	}
	metrics.AvgCompletionRate, metrics.AvgStreakDuration = averages(active)
	metrics.TimeConflicts = e.conflicts(req.Candidate.ReminderTime, active)

	r := rules{
		tooMany:    metrics.CurrentHabitCount >= e.cfg.MaxActiveHabits,
		tooLong:    metrics.EstimatedTimeLoad > e.cfg.WeeklyMinutesCeiling,
		lowSuccess: metrics.AvgCompletionRate != nil && *metrics.AvgCompletionRate < e.cfg.LowCompletionRate,
		conflicts:  metrics.TimeConflicts,
		candidate:  req.Candidate,
		metrics:    metrics,
		cfg:        e.cfg,
		override:   req.Override,
	}

	result := models.FeasibilityResult{
		Feasible:    true,
		Confidence:  constants.ConfidenceHigh,
		Warnings:    r.warnings(),
		Suggestions: r.suggestions(),
		Metrics:     metrics,
	}
	switch {
	case r.overloaded():
		result.Confidence = constants.ConfidenceLow
		result.Feasible = req.Override
		result.Overridden = req.Override
	case len(r.conflicts) > 0 || r.lowSuccess:
		result.Confidence = constants.ConfidenceMedium
	}
	return result
}

// activeSnapshots drops paused and deleted habits.
func activeSnapshots(in []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(in))
	for _, s := range in {
		if s.Habit.IsPaused() || s.Habit.IsDeleted() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *Evaluator) weeklyMinutes(days []models.Weekday, target int) int {
	if target < 1 {
		target = 1
	}
	return utils.ScheduledDaysPerWeek(days) * target * e.cfg.MinutesPerCompletion
}

// averages returns the mean completion rate and streak over habits with
// recorded history. Both are nil when no habit has any.
func averages(active []Snapshot) (*float64, *float64) {
	var rateSum, streakSum float64
	n := 0
	for _, s := range active {
		if s.History == nil || !s.History.HasHistory() {
			continue
		}
		rateSum += s.History.CompletionRate
		streakSum += float64(s.Habit.Streak)
		n++
	}
	if n == 0 {
		return nil, nil
	}
	rate := rateSum / float64(n)
	streak := streakSum / float64(n)
	return &rate, &streak
}

func (e *Evaluator) conflicts(reminder string, active []Snapshot) []models.TimeConflict {
	out := []models.TimeConflict{}
	if reminder == "" {
		return out
	}
	at, err := utils.ParseTimeToMinutes(reminder)
	if err != nil {
		return out
	}
	for _, s := range active {
		if s.Habit.ReminderTime == "" {
			continue
		}
		other, err := utils.ParseTimeToMinutes(s.Habit.ReminderTime)
		if err != nil {
			continue
		}
		diff := utils.ClockDistance(at, other)
		if diff >= e.cfg.ConflictWindowMinutes {
			continue
		}
		out = append(out, models.TimeConflict{
			HabitID:        s.Habit.ID,
			HabitTitle:     s.Habit.Title,
			ReminderTime:   s.Habit.ReminderTime,
			TimeDifference: diff,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimeDifference != out[j].TimeDifference {
			return out[i].TimeDifference < out[j].TimeDifference
		}
		return out[i].HabitTitle < out[j].HabitTitle
	})
	return out
}
