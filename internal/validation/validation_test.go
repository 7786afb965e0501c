package validation

import (
	"strings"
	"testing"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
)

func validHabit(id, title string) models.Habit {
	return models.Habit{
		ID:          id,
		UserID:      "u1",
		Title:       title,
		TargetCount: 1,
		Status:      constants.StatusIncomplete,
		ActiveDay:   "2026-03-02",
	}
}

func hasConflict(result ValidationResult, want ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == want {
			return true
		}
	}
	return false
}

func TestValidateHabits_Clean(t *testing.T) {
	result := New().ValidateHabits([]models.Habit{validHabit("1", "Read"), validHabit("2", "Run")})
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got: %s", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidateHabits_DuplicateTitles(t *testing.T) {
	other := validHabit("3", "read")
	other.UserID = "u2"
	habits := []models.Habit{validHabit("1", "Read"), validHabit("2", "read"), other}

	result := New().ValidateHabits(habits)
	if !hasConflict(result, ConflictDuplicateHabitTitle) {
		t.Fatal("expected duplicate title conflict")
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictDuplicateHabitTitle && len(c.HabitIDs) != 2 {
			t.Errorf("duplicate conflict ids = %v, want the two habits of u1", c.HabitIDs)
		}
	}
}

func TestValidateHabits_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *models.Habit)
		want   ConflictType
	}{
		{name: "bad reminder", mutate: func(h *models.Habit) { h.ReminderTime = "25:00" }, want: ConflictInvalidReminderTime},
		{name: "bad weekday", mutate: func(h *models.Habit) { h.RecurrenceDays = []models.Weekday{"Funday"} }, want: ConflictInvalidRecurrence},
		{name: "zero target", mutate: func(h *models.Habit) { h.TargetCount = 0 }, want: ConflictCounterOutOfRange},
		{name: "over target", mutate: func(h *models.Habit) { h.CompletedToday = 2 }, want: ConflictCounterOutOfRange},
		{name: "negative streak", mutate: func(h *models.Habit) { h.Streak = -1 }, want: ConflictNegativeStreak},
		{
			name: "complete below target",
			mutate: func(h *models.Habit) {
				h.TargetCount = 3
				h.CompletedToday = 1
				h.Status = constants.StatusComplete
			},
			want: ConflictStatusMismatch,
		},
		{
			name: "incomplete at target",
			mutate: func(h *models.Habit) {
				h.CompletedToday = 1
			},
			want: ConflictStatusMismatch,
		},
		{name: "unknown status", mutate: func(h *models.Habit) { h.Status = "done" }, want: ConflictStatusMismatch},
		{name: "bad active day", mutate: func(h *models.Habit) { h.ActiveDay = "03/02/2026" }, want: ConflictInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHabit("1", "Read")
			tt.mutate(&h)
			result := New().ValidateHabits([]models.Habit{h})
			if !hasConflict(result, tt.want) {
				t.Errorf("expected %s conflict, got: %s", tt.want, result.FormatReport())
			}
			if !strings.Contains(result.FormatReport(), `"Read"`) {
				t.Errorf("report should name the habit: %s", result.FormatReport())
			}
		})
	}
}

func TestValidateHabits_PausedAtAnyCount(t *testing.T) {
	h := validHabit("1", "Read")
	h.Status = constants.StatusPaused
	h.CompletedToday = 1
	if result := New().ValidateHabits([]models.Habit{h}); result.HasConflicts() {
		t.Errorf("paused habit should not conflict: %s", result.FormatReport())
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name      string
		draft     models.HabitDraft
		wantField string
	}{
		{
			name:  "valid",
			draft: models.HabitDraft{Title: "  Read  ", TargetCount: 1, RecurrenceDays: []models.Weekday{"Fri", "Mon"}, ReminderTime: "07:30", Category: "Education"},
		},
		{name: "missing title", draft: models.HabitDraft{Title: "   ", TargetCount: 1}, wantField: "title"},
		{name: "zero target", draft: models.HabitDraft{Title: "Read", TargetCount: 0}, wantField: "target_count"},
		{name: "huge target", draft: models.HabitDraft{Title: "Read", TargetCount: 101}, wantField: "target_count"},
		{name: "bad weekday", draft: models.HabitDraft{Title: "Read", TargetCount: 1, RecurrenceDays: []models.Weekday{"Mon", "Funday"}}, wantField: "recurrence_days[1]"},
		{name: "bad reminder", draft: models.HabitDraft{Title: "Read", TargetCount: 1, ReminderTime: "7pm"}, wantField: "reminder_time"},
		{name: "unknown category", draft: models.HabitDraft{Title: "Read", TargetCount: 1, Category: "hobbies"}, wantField: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft
			err := ValidateDraft(&d)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateDraft() error = %v", err)
				}
				return
			}
			if !errors.IsValidation(err) {
				t.Fatalf("ValidateDraft() error = %v, want validation error", err)
			}
			verr := err.(*errors.ValidationError)
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateDraft_Normalizes(t *testing.T) {
	d := models.HabitDraft{Title: "  Read  ", TargetCount: 1, Category: " Education ", RecurrenceDays: []models.Weekday{"Fri", "Mon", "Fri"}}
	if err := ValidateDraft(&d); err != nil {
		t.Fatalf("ValidateDraft() error = %v", err)
	}
	if d.Title != "Read" {
		t.Errorf("Title = %q, want trimmed", d.Title)
	}
	if d.Category != "education" {
		t.Errorf("Category = %q, want education", d.Category)
	}
	if len(d.RecurrenceDays) != 2 || d.RecurrenceDays[0] != models.Monday || d.RecurrenceDays[1] != models.Friday {
		t.Errorf("RecurrenceDays = %v, want [Mon Fri]", d.RecurrenceDays)
	}
}

func TestStructMoodAndSettings(t *testing.T) {
	if err := Struct(MoodInput{Mood: "good", Motivation: 4}); err != nil {
		t.Errorf("valid mood rejected: %v", err)
	}
	if err := Struct(MoodInput{Mood: "meh", Motivation: 4}); !errors.IsValidation(err) {
		t.Errorf("unknown mood error = %v, want validation error", err)
	}
	if err := Struct(MoodInput{Mood: "good", Motivation: 9}); !errors.IsValidation(err) {
		t.Errorf("motivation out of range error = %v, want validation error", err)
	}

	tz := "Mars/Olympus"
	if err := Struct(UserSettingsInput{Timezone: &tz}); !errors.IsValidation(err) {
		t.Errorf("bad timezone error = %v, want validation error", err)
	}
	good := "Africa/Lagos"
	if err := Struct(UserSettingsInput{Timezone: &good}); err != nil {
		t.Errorf("valid timezone rejected: %v", err)
	}
}
