// Package ledger holds the pure state transitions of a habit: progress,
// status changes and the daily streak rollover. Nothing here touches storage;
// every function takes a value and returns the updated value.
//
// Day-sensitive operations take "now" already converted to the user's
// timezone, so the calendar day and weekday are read directly from it.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/utils"
	"github.com/orowoletimothy/vane/internal/validation"
)

// New validates draft and returns a habit in its initial state.
func New(draft models.HabitDraft, userID string, now time.Time) (models.Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Habit{}, errors.Invalid("user_id", "is required")
	}
	if err := validation.ValidateDraft(&draft); err != nil {
		return models.Habit{}, err
	}

	h := models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    constants.StatusIncomplete,
		ActiveDay: utils.LocalDay(now),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	applyDraft(&h, draft)
	if h.Icon == "" {
		h.Icon = constants.DefaultIcon
	}
	return h, nil
}

// Edit replaces the editable fields of h. Lowering the target clamps today's
// count and re-derives the status. Raising it past today's count takes back
// the streak credit given for today.
func Edit(h models.Habit, draft models.HabitDraft, now time.Time) (models.Habit, error) {
	if err := validation.ValidateDraft(&draft); err != nil {
		return h, err
	}
	wasComplete := h.Status == constants.StatusComplete
	applyDraft(&h, draft)
	if h.CompletedToday > h.TargetCount {
		h.CompletedToday = h.TargetCount
	}
	h.Status = DeriveStatus(h)
	if wasComplete && h.Status == constants.StatusIncomplete {
		h = uncredit(h, now)
	}
	h.UpdatedAt = now.UTC()
	return h, nil
}

func applyDraft(h *models.Habit, d models.HabitDraft) {
	h.Title = d.Title
	if d.Icon != "" {
		h.Icon = d.Icon
	}
	h.Category = d.Category
	h.TargetCount = d.TargetCount
	h.RecurrenceDays = append([]models.Weekday{}, d.RecurrenceDays...)
	h.ReminderTime = d.ReminderTime
	h.IsPublic = d.IsPublic
	h.Notes = d.Notes
}

// IsScheduledToday reports whether h is due on weekday.
func IsScheduledToday(h models.Habit, weekday time.Weekday) bool {
	return utils.IsScheduledOn(h.RecurrenceDays, weekday)
}

// DeriveStatus returns the status implied by the completion count. Paused
// overrides completion.
func DeriveStatus(h models.Habit) constants.HabitStatus {
	switch {
	case h.IsPaused():
		return constants.StatusPaused
	case h.CompletedToday >= h.TargetCount:
		return constants.StatusComplete
	default:
		return constants.StatusIncomplete
	}
}

// RecordProgress adds delta to today's count, clamped to [0, target].
// Reaching the target completes the habit; dropping back below it after
// completion marks it incomplete and undoes today's streak credit. Paused
// habits keep their status.
func RecordProgress(h models.Habit, delta int, now time.Time) models.Habit {
	n := h.CompletedToday + delta
	if n < 0 {
		n = 0
	}
	if n > h.TargetCount {
		n = h.TargetCount
	}
	h.CompletedToday = n
	h.UpdatedAt = now.UTC()

	if h.IsPaused() {
		return h
	}
	switch {
	case n >= h.TargetCount && h.Status != constants.StatusComplete:
		h = markComplete(h, now)
	case n < h.TargetCount && h.Status == constants.StatusComplete:
		h.Status = constants.StatusIncomplete
		h = uncredit(h, now)
	}
	return h
}

// Tap is the single-press increment: below target it adds one, at target it
// resets the count to zero and marks the habit incomplete.
func Tap(h models.Habit, now time.Time) models.Habit {
	if h.CompletedToday >= h.TargetCount {
		return RecordProgress(h, -h.CompletedToday, now)
	}
	return RecordProgress(h, 1, now)
}

// SetStatus applies an explicit status change.
//
//   - complete fills today's count and credits the streak once per scheduled day.
//   - incomplete clears today's count and any credit it earned today; from
//     paused it only unpauses.
//   - paused freezes the habit without resetting anything.
func SetStatus(h models.Habit, status constants.HabitStatus, now time.Time) (models.Habit, error) {
	switch status {
	case constants.StatusComplete:
		h.CompletedToday = h.TargetCount
		h = markComplete(h, now)
	case constants.StatusIncomplete:
		if h.IsPaused() {
			return Unpause(h, now), nil
		}
		h.CompletedToday = 0
		h.Status = constants.StatusIncomplete
		h = uncredit(h, now)
	case constants.StatusPaused:
		h.Status = constants.StatusPaused
	default:
		return h, errors.Invalid("status", "unknown status %q (use complete, incomplete or paused)", status)
	}
	h.UpdatedAt = now.UTC()
	return h, nil
}

// Unpause returns a paused habit to the status its count implies.
func Unpause(h models.Habit, now time.Time) models.Habit {
	if !h.IsPaused() {
		return h
	}
	h.Status = constants.StatusIncomplete
	h.Status = DeriveStatus(h)
	if h.Status == constants.StatusIncomplete {
		h = uncredit(h, now)
	}
	h.UpdatedAt = now.UTC()
	return h
}

func markComplete(h models.Habit, now time.Time) models.Habit {
	h.Status = constants.StatusComplete
	day := utils.LocalDay(now)
	if IsScheduledToday(h, now.Weekday()) && !creditedOn(h, day, now.Location()) {
		h.Streak++
	}
	completed := now.UTC()
	h.LastCompleted = &completed
	return h
}

// uncredit reverses markComplete for now's day. Days already closed by a
// rollover keep their credit.
func uncredit(h models.Habit, now time.Time) models.Habit {
	day := utils.LocalDay(now)
	if h.ActiveDay != "" && h.ActiveDay > day {
		return h
	}
	if !creditedOn(h, day, now.Location()) {
		return h
	}
	if IsScheduledToday(h, now.Weekday()) && h.Streak > 0 {
		h.Streak--
	}
	h.LastCompleted = nil
	return h
}

// creditedOn reports whether the streak already counts day.
func creditedOn(h models.Habit, day string, loc *time.Location) bool {
	if h.LastCompleted == nil {
		return false
	}
	return utils.LocalDay(h.LastCompleted.In(loc)) == day
}
