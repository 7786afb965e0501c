package utils

import (
	"time"

	"github.com/orowoletimothy/vane/internal/models"
)

// IsScheduledOn reports whether a recurrence list includes weekday. An empty
// list means every day.
func IsScheduledOn(days []models.Weekday, weekday time.Weekday) bool {
	if len(days) == 0 {
		return true
	}
	token := models.WeekdayOf(weekday)
	for _, d := range days {
		if d == token {
			return true
		}
	}
	return false
}

// ScheduledDaysPerWeek counts the distinct valid weekdays in a recurrence list.
func ScheduledDaysPerWeek(days []models.Weekday) int {
	if len(days) == 0 {
		return 7
	}
	seen := make(map[models.Weekday]bool, len(days))
	for _, d := range days {
		if d.Valid() {
			seen[d] = true
		}
	}
	return len(seen)
}
