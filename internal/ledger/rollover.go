package ledger

import (
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/utils"
)

// StreakRollover closes out the local calendar day containing day: the day
// the habit's current completion state describes.
//
// Paused habits keep their status and streak but still start the next day
// with a zero count.
// Otherwise the streak is kept on unscheduled days, grows by one for a
// completed day (unless SetStatus already counted it), is kept while on
// vacation and is reset to zero for a missed day. Today's count and status
// are then reset for the next day.
func StreakRollover(h models.Habit, vacation bool, day time.Time) models.Habit {
	h, _, _ = CloseDay(h, vacation, day)
	return h
}

// CloseDay is StreakRollover plus the history record of the closed day. The
// boolean is false when day was already closed, in which case h is returned
// unchanged.
func CloseDay(h models.Habit, vacation bool, day time.Time) (models.Habit, models.HabitDay, bool) {
	dayStr := utils.LocalDay(day)
	if h.ActiveDay != "" && dayStr < h.ActiveDay {
		return h, models.HabitDay{}, false
	}
	next, _ := utils.AddDays(dayStr, 1)

	scheduled := IsScheduledToday(h, day.Weekday())
	record := models.HabitDay{
		HabitID:   h.ID,
		Day:       dayStr,
		Completed: h.CompletedToday,
		Target:    h.TargetCount,
		Scheduled: scheduled,
		Met:       h.Status == constants.StatusComplete,
		Vacation:  vacation,
		Paused:    h.IsPaused(),
		CreatedAt: day.UTC(),
	}
	if record.Met && creditedOn(h, dayStr, day.Location()) {
		completedAt := *h.LastCompleted
		record.CompletedAt = &completedAt
	}

	if h.IsPaused() {
		h.CompletedToday = 0
		h.ActiveDay = next
		record.Streak = h.Streak
		return h, record, true
	}

	switch {
	case !scheduled:
	case h.Status == constants.StatusComplete:
		if !creditedOn(h, dayStr, day.Location()) {
			h.Streak++
		}
	case vacation:
	default:
		h.Streak = 0
	}

	h.CompletedToday = 0
	h.Status = constants.StatusIncomplete
	h.ActiveDay = next
	record.Streak = h.Streak
	return h, record, true
}

// PendingDays lists the days from h.ActiveDay up to, but excluding, today.
// These are the boundaries that have been crossed without a rollover.
func PendingDays(h models.Habit, today string) []string {
	if h.ActiveDay == "" || h.ActiveDay >= today {
		return nil
	}
	var days []string
	for d := h.ActiveDay; d < today; {
		days = append(days, d)
		next, err := utils.AddDays(d, 1)
		if err != nil {
			break
		}
		d = next
	}
	return days
}

// CatchUp closes every pending day before now's local day, oldest first, and
// returns the updated habit with one history record per closed day.
func CatchUp(h models.Habit, vacation bool, now time.Time) (models.Habit, []models.HabitDay) {
	var records []models.HabitDay
	for _, d := range PendingDays(h, utils.LocalDay(now)) {
		day, err := utils.ParseDateInLocation(d, now.Location())
		if err != nil {
			break
		}
		var rec models.HabitDay
		var closed bool
		h, rec, closed = CloseDay(h, vacation, day)
		if closed {
			records = append(records, rec)
		}
	}
	return h, records
}
