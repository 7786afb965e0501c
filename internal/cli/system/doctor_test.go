package system

import (
	"testing"
	"time"

	"github.com/orowoletimothy/vane/internal/backup"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/tracker"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _ := newLoadedContext(t)

	// Missing backups is a warning, not a failure.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackupAndHabits(t *testing.T) {
	ctx, dbPath := newLoadedContext(t)
	if _, _, err := ctx.Tracker.CreateHabit(ctx.Ctx, ctx.UserID, models.HabitDraft{Title: "Walk", TargetCount: 1}, tracker.CreateOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := backup.NewManager(dbPath).CreateBackup(); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed: %v", err)
	}
}

func TestDoctorCmd_UninitializedDB(t *testing.T) {
	ctx, _ := newTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the database does not exist")
	}
}

func TestDoctorCmd_CorruptHabit(t *testing.T) {
	ctx, _ := newLoadedContext(t)
	if _, err := ctx.Tracker.EnsureUser(ctx.Ctx, ctx.UserID); err != nil {
		t.Fatal(err)
	}
	_, err := ctx.Store.AddHabit(ctx.Ctx, models.Habit{
		ID:             "broken",
		UserID:         ctx.UserID,
		Title:          "Broken",
		TargetCount:    2,
		CompletedToday: 5,
		Status:         constants.StatusIncomplete,
		ActiveDay:      "2026-03-10",
		RecurrenceDays: []models.Weekday{},
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := checkHabitIntegrity(ctx); err == nil {
		t.Error("expected an integrity failure")
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on a corrupt habit")
	}
}

func TestCheckClock(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"current", testNow, false},
		{"unset clock", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"far future", time.Date(2150, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkClock(tt.now); (err != nil) != tt.wantErr {
				t.Errorf("checkClock(%v) error = %v, wantErr %v", tt.now, err, tt.wantErr)
			}
		})
	}
}
