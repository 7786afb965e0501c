package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitTitle ConflictType = "duplicate_habit_title"
	ConflictInvalidReminderTime ConflictType = "invalid_reminder_time"
	ConflictInvalidRecurrence   ConflictType = "invalid_recurrence"
	ConflictCounterOutOfRange   ConflictType = "counter_out_of_range"
	ConflictStatusMismatch      ConflictType = "status_mismatch"
	ConflictNegativeStreak      ConflictType = "negative_streak"
	ConflictInvalidDay          ConflictType = "invalid_day"
)

// Conflict represents a detected integrity problem in stored habits
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Habit titles involved
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks stored habits against the ledger invariants.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits reports every invariant violation in habits. Deleted habits
// are ignored.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	titles := make(map[string][]string)
	for _, h := range habits {
		if h.IsDeleted() || h.Title == "" {
			continue
		}
		key := h.UserID + "\x00" + strings.ToLower(h.Title)
		titles[key] = append(titles[key], h.ID)
	}
	keys := make([]string, 0, len(titles))
	for k := range titles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ids := titles[k]
		if len(ids) < 2 {
			continue
		}
		title := k[strings.IndexByte(k, 0)+1:]
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateHabitTitle,
			Description: fmt.Sprintf("Duplicate habit title: %q (IDs: %v)", title, ids),
			Items:       []string{title},
			HabitIDs:    ids,
		})
	}

	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		add := func(t ConflictType, format string, args ...interface{}) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        t,
				Description: fmt.Sprintf("Habit %q ", h.Title) + fmt.Sprintf(format, args...),
				Items:       []string{h.Title},
				HabitIDs:    []string{h.ID},
			})
		}

		if h.ReminderTime != "" && !utils.ValidateTimeFormat(h.ReminderTime) {
			add(ConflictInvalidReminderTime, "has invalid reminder time: %s", h.ReminderTime)
		}
		for _, d := range h.RecurrenceDays {
			if !d.Valid() {
				add(ConflictInvalidRecurrence, "has invalid recurrence day: %s", d)
			}
		}
		if h.TargetCount < 1 {
			add(ConflictCounterOutOfRange, "has target count %d (must be at least 1)", h.TargetCount)
		}
		if h.CompletedToday < 0 || (h.TargetCount >= 1 && h.CompletedToday > h.TargetCount) {
			add(ConflictCounterOutOfRange, "has completed count %d outside [0, %d]", h.CompletedToday, h.TargetCount)
		}
		if h.Streak < 0 {
			add(ConflictNegativeStreak, "has negative streak %d", h.Streak)
		}
		switch h.Status {
		case constants.StatusPaused:
		case constants.StatusComplete:
			if !h.CompletedForDay() {
				add(ConflictStatusMismatch, "is complete with %d of %d completions", h.CompletedToday, h.TargetCount)
			}
		case constants.StatusIncomplete:
			if h.TargetCount >= 1 && h.CompletedForDay() {
				add(ConflictStatusMismatch, "is incomplete with its target of %d met", h.TargetCount)
			}
		default:
			add(ConflictStatusMismatch, "has unknown status %q", h.Status)
		}
		if _, err := time.Parse(constants.DateFormat, h.ActiveDay); err != nil {
			add(ConflictInvalidDay, "has invalid active day %q", h.ActiveDay)
		}
	}

	return result
}
