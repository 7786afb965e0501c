package feasibility

import (
	"fmt"

	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/utils"
)

// rules records which checks fired for one evaluation. Warning and suggestion
// text is derived from it and nothing else, so equal inputs give equal text.
type rules struct {
	tooMany    bool
	tooLong    bool
	lowSuccess bool
	conflicts  []models.TimeConflict
	candidate  models.HabitDraft
	metrics    models.FeasibilityMetrics
	cfg        Config
	override   bool
}

func (r rules) overloaded() bool {
	return r.tooMany || r.tooLong
}

func (r rules) warnings() []string {
	out := []string{}
	if r.tooMany {
		out = append(out, fmt.Sprintf(
			"You already have %d active habits (limit %d); adding more may spread you too thin.",
			r.metrics.CurrentHabitCount, r.cfg.MaxActiveHabits))
	}
	if r.tooLong {
		out = append(out, fmt.Sprintf(
			"Estimated weekly commitment would be %s, above the %s ceiling.",
			formatMinutes(r.metrics.EstimatedTimeLoad), formatMinutes(r.cfg.WeeklyMinutesCeiling)))
	}
	if r.lowSuccess {
		out = append(out, fmt.Sprintf(
			"Your recent completion rate is %.0f%%, below %.0f%%.",
			*r.metrics.AvgCompletionRate*100, r.cfg.LowCompletionRate*100))
	}
	for _, c := range r.conflicts {
		out = append(out, fmt.Sprintf(
			"Reminder is %d minutes from %q at %s.",
			c.TimeDifference, c.HabitTitle, c.ReminderTime))
	}
	if r.overloaded() && r.override {
		out = append(out, "Created despite the load warning because the check was overridden.")
	}
	return out
}

func (r rules) suggestions() []string {
	out := []string{}
	if r.tooMany {
		out = append(out, "Consider pausing a habit you are struggling with before adding a new one.")
	}
	if r.tooLong {
		if r.candidate.TargetCount > 1 {
			out = append(out, "Consider a lower target count.")
		}
		if utils.ScheduledDaysPerWeek(r.candidate.RecurrenceDays) > 3 {
			out = append(out, "Consider scheduling it on fewer days of the week.")
		}
	}
	if r.lowSuccess {
		out = append(out, "Focus on building consistency with your current habits first.")
	}
	if len(r.conflicts) > 0 {
		out = append(out, "Pick a different reminder time to avoid overlapping reminders.")
	}
	return out
}

// formatMinutes renders a minute count as "4h 30m".
func formatMinutes(m int) string {
	h, rem := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rem)
	case rem == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, rem)
	}
}
