// Package storagetest is a conformance suite run against every
// storage.Provider implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage"
)

var base = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// Run exercises store, which must be initialised and empty.
func Run(t *testing.T, store storage.Provider) {
	t.Run("Users", func(t *testing.T) { testUsers(t, store) })
	t.Run("Habits", func(t *testing.T) { testHabits(t, store) })
	t.Run("VersionConflict", func(t *testing.T) { testVersionConflict(t, store) })
	t.Run("SoftDelete", func(t *testing.T) { testSoftDelete(t, store) })
	t.Run("HabitDays", func(t *testing.T) { testHabitDays(t, store) })
	t.Run("Moods", func(t *testing.T) { testMoods(t, store) })
}

// NewUser stores a user with a random id.
func NewUser(t *testing.T, store storage.Provider) models.User {
	t.Helper()
	u := models.User{
		ID:        uuid.NewString(),
		Username:  "tester",
		Timezone:  "UTC",
		CreatedAt: base,
		UpdatedAt: base,
	}
	if err := store.SaveUser(context.Background(), u); err != nil {
		t.Fatalf("failed to save user: %v", err)
	}
	return u
}

// NewHabit stores a daily habit owned by userID.
func NewHabit(t *testing.T, store storage.Provider, userID, title string) models.Habit {
	t.Helper()
	h, err := store.AddHabit(context.Background(), models.Habit{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          title,
		Icon:           constants.DefaultIcon,
		TargetCount:    2,
		RecurrenceDays: []models.Weekday{models.Monday, models.Friday},
		ReminderTime:   "07:30",
		Status:         constants.StatusIncomplete,
		ActiveDay:      "2026-03-02",
		CreatedAt:      base,
		UpdatedAt:      base,
	})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return h
}

func testUsers(t *testing.T, store storage.Provider) {
	ctx := context.Background()
	u := NewUser(t, store)

	got, err := store.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if got.Username != "tester" || got.Timezone != "UTC" || got.VacationMode {
		t.Errorf("unexpected user: %+v", got)
	}

	u.VacationMode = true
	u.Timezone = "Europe/Berlin"
	u.UpdatedAt = base.Add(time.Hour)
	if err := store.SaveUser(ctx, u); err != nil {
		t.Fatalf("failed to update user: %v", err)
	}
	got, _ = store.GetUser(ctx, u.ID)
	if !got.VacationMode || got.Timezone != "Europe/Berlin" || !got.CreatedAt.Equal(base) {
		t.Errorf("update not applied: %+v", got)
	}

	if _, err := store.GetUser(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testHabits(t *testing.T, store storage.Provider) {
	ctx := context.Background()
	u := NewUser(t, store)
	h := NewHabit(t, store, u.ID, "Meditate")
	if h.Version != 1 {
		t.Errorf("new habit version = %d, want 1", h.Version)
	}

	got, err := store.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if got.Title != "Meditate" || got.TargetCount != 2 || got.ReminderTime != "07:30" {
		t.Errorf("unexpected habit: %+v", got)
	}
	if len(got.RecurrenceDays) != 2 || got.RecurrenceDays[0] != models.Monday {
		t.Errorf("RecurrenceDays = %v", got.RecurrenceDays)
	}
	if got.LastCompleted != nil || got.DeletedAt != nil {
		t.Errorf("unexpected timestamps: %+v", got)
	}

	completed := base.Add(2 * time.Hour)
	got.CompletedToday = 2
	got.Status = constants.StatusComplete
	got.Streak = 1
	got.LastCompleted = &completed
	updated, err := store.UpdateHabit(ctx, got)
	if err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version after update = %d, want 2", updated.Version)
	}

	reloaded, _ := store.GetHabit(ctx, h.ID)
	if reloaded.Status != constants.StatusComplete || reloaded.Streak != 1 || reloaded.Version != 2 {
		t.Errorf("update not persisted: %+v", reloaded)
	}
	if reloaded.LastCompleted == nil || !reloaded.LastCompleted.Equal(completed) {
		t.Errorf("LastCompleted = %v, want %v", reloaded.LastCompleted, completed)
	}

	other := NewUser(t, store)
	NewHabit(t, store, other.ID, "Other")
	list, err := store.ListHabits(ctx, storage.HabitFilter{UserID: u.ID})
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(list) != 1 || list[0].ID != h.ID {
		t.Errorf("ListHabits = %+v", list)
	}

	ids, err := store.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("failed to list user ids: %v", err)
	}
	found := 0
	for _, id := range ids {
		if id == u.ID || id == other.ID {
			found++
		}
	}
	if found != 2 {
		t.Errorf("ListUserIDs = %v", ids)
	}

	if _, err := store.GetHabit(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testVersionConflict(t *testing.T, store storage.Provider) {
	ctx := context.Background()
	u := NewUser(t, store)
	h := NewHabit(t, store, u.ID, "Read")

	first := h
	first.CompletedToday = 1
	if _, err := store.UpdateHabit(ctx, first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	stale := h
	stale.Streak = 9
	_, err := store.UpdateHabit(ctx, stale, models.HabitDay{HabitID: h.ID, Day: "2026-03-02", Target: 2, CreatedAt: base})
	if !errors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// The rejected write must not leave history behind.
	days, err := store.ListHabitDays(ctx, h.ID, "2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatalf("failed to list days: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("conflicting update wrote %d days", len(days))
	}

	missing := h
	missing.ID = "missing"
	if _, err := store.UpdateHabit(ctx, missing); !errors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testSoftDelete(t *testing.T, store storage.Provider) {
	ctx := context.Background()
	u := NewUser(t, store)
	h := NewHabit(t, store, u.ID, "Journal")

	if err := store.DeleteHabit(ctx, h.ID, base); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	if _, err := store.GetHabit(ctx, h.ID); !errors.IsNotFound(err) {
		t.Errorf("deleted habit still visible: %v", err)
	}
	if err := store.DeleteHabit(ctx, h.ID, base); !errors.IsNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
	if _, err := store.UpdateHabit(ctx, h); !errors.IsNotFound(err) {
		t.Errorf("update of deleted habit: expected not found, got %v", err)
	}

	all, _ := store.ListHabits(ctx, storage.HabitFilter{UserID: u.ID, IncludeDeleted: true})
	if len(all) != 1 || all[0].DeletedAt == nil {
		t.Errorf("IncludeDeleted listing = %+v", all)
	}
	live, _ := store.ListHabits(ctx, storage.HabitFilter{UserID: u.ID})
	if len(live) != 0 {
		t.Errorf("live listing = %+v", live)
	}

	if err := store.RestoreHabit(ctx, h.ID, base); err != nil {
		t.Fatalf("failed to restore habit: %v", err)
	}
	restored, err := store.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("restored habit not visible: %v", err)
	}
	if restored.Version != 3 {
		t.Errorf("version after delete and restore = %d, want 3", restored.Version)
	}
	if err := store.RestoreHabit(ctx, h.ID, base); !errors.IsNotFound(err) {
		t.Errorf("restore of live habit: expected not found, got %v", err)
	}
}

func testHabitDays(t *testing.T, store storage.Provider) {
	ctx := context.Background()
	u := NewUser(t, store)
	h := NewHabit(t, store, u.ID, "Walk")

	completed := base.Add(3 * time.Hour)
	h.ActiveDay = "2026-03-04"
	h, err := store.UpdateHabit(ctx, h,
		models.HabitDay{HabitID: h.ID, Day: "2026-03-02", Completed: 2, Target: 2, Scheduled: true, Met: true, Streak: 1, CompletedAt: &completed, CreatedAt: base},
		models.HabitDay{HabitID: h.ID, Day: "2026-03-03", Target: 2, Scheduled: false, Streak: 1, CreatedAt: base},
	)
	if err != nil {
		t.Fatalf("failed to update with days: %v", err)
	}

	// Re-closing a day replaces the record.
	if err := store.SaveHabitDays(ctx, []models.HabitDay{
		{HabitID: h.ID, Day: "2026-03-03", Target: 2, Scheduled: true, Vacation: true, Streak: 1, CreatedAt: base},
	}); err != nil {
		t.Fatalf("failed to save days: %v", err)
	}

	days, err := store.ListHabitDays(ctx, h.ID, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("failed to list days: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	if !days[0].Met || days[0].CompletedAt == nil || !days[0].CompletedAt.Equal(completed) {
		t.Errorf("first day = %+v", days[0])
	}
	if !days[1].Vacation || !days[1].Scheduled {
		t.Errorf("second day not replaced: %+v", days[1])
	}

	narrow, _ := store.ListHabitDays(ctx, h.ID, "2026-03-03", "2026-03-03")
	if len(narrow) != 1 {
		t.Errorf("range filter returned %d days", len(narrow))
	}

	byUser, err := store.ListUserHabitDays(ctx, u.ID, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("failed to list user days: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("ListUserHabitDays returned %d days", len(byUser))
	}
}

func testMoods(t *testing.T, store storage.Provider) {
	ctx := context.Background()
	u := NewUser(t, store)

	first, err := store.SaveMood(ctx, models.MoodEntry{
		ID: uuid.NewString(), UserID: u.ID, Day: "2026-03-02", Mood: "good", Motivation: 4,
		CreatedAt: base, UpdatedAt: base,
	})
	if err != nil {
		t.Fatalf("failed to save mood: %v", err)
	}

	second, err := store.SaveMood(ctx, models.MoodEntry{
		ID: uuid.NewString(), UserID: u.ID, Day: "2026-03-02", Mood: "bad", Motivation: 2, Note: "tired",
		CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to overwrite mood: %v", err)
	}
	if second.ID != first.ID || second.Mood != "bad" || second.Note != "tired" {
		t.Errorf("same-day check-in not merged: %+v", second)
	}

	if _, err := store.SaveMood(ctx, models.MoodEntry{
		ID: uuid.NewString(), UserID: u.ID, Day: "2026-03-03", Mood: "great", Motivation: 5,
		CreatedAt: base, UpdatedAt: base,
	}); err != nil {
		t.Fatalf("failed to save second day: %v", err)
	}

	list, err := store.ListMoods(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("failed to list moods: %v", err)
	}
	if len(list) != 2 || list[0].Day != "2026-03-03" {
		t.Errorf("ListMoods = %+v", list)
	}
	if limited, _ := store.ListMoods(ctx, u.ID, 1); len(limited) != 1 {
		t.Errorf("limit ignored: %d entries", len(limited))
	}

	if _, err := store.GetMood(ctx, u.ID, "2026-01-01"); !errors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
