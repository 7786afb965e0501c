package ledger

import (
	"testing"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
)

func TestStreakRollover(t *testing.T) {
	tests := []struct {
		name       string
		days       []models.Weekday
		status     constants.HabitStatus
		streak     int
		vacation   bool
		day        int // day of March 2026 being closed
		wantStreak int
	}{
		{"completed day extends streak", nil, constants.StatusComplete, 4, false, 2, 5},
		{"missed day resets streak", nil, constants.StatusIncomplete, 4, false, 2, 0},
		{"missed day on vacation keeps streak", nil, constants.StatusIncomplete, 4, true, 2, 4},
		{"completed day on vacation still counts", nil, constants.StatusComplete, 4, true, 2, 5},
		{"unscheduled day keeps streak", []models.Weekday{models.Monday, models.Wednesday, models.Friday}, constants.StatusIncomplete, 4, false, 3, 4},
		{"paused keeps streak", nil, constants.StatusPaused, 4, false, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHabit(t, 1, tt.days...)
			h.Status = tt.status
			h.Streak = tt.streak
			if tt.status == constants.StatusComplete {
				h.CompletedToday = 1
			}

			got := StreakRollover(h, tt.vacation, at(tt.day, 23))
			if got.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if tt.status == constants.StatusPaused {
				if got.Status != constants.StatusPaused || got.CompletedToday != 0 {
					t.Errorf("paused habit: status=%q count=%d", got.Status, got.CompletedToday)
				}
				return
			}
			if got.CompletedToday != 0 || got.Status != constants.StatusIncomplete {
				t.Errorf("not reset: count=%d status=%q", got.CompletedToday, got.Status)
			}
		})
	}
}

func TestRolloverAfterSetStatusCreditsOnce(t *testing.T) {
	h := newHabit(t, 1)
	h.Streak = 4
	h, _ = SetStatus(h, constants.StatusComplete, at(2, 9))
	if h.Streak != 5 {
		t.Fatalf("Streak after complete = %d, want 5", h.Streak)
	}

	h = StreakRollover(h, false, at(2, 23))
	if h.Streak != 5 {
		t.Errorf("Streak after rollover = %d, want 5", h.Streak)
	}

	// Next day missed.
	h = StreakRollover(h, false, at(3, 23))
	if h.Streak != 0 {
		t.Errorf("Streak after missed day = %d, want 0", h.Streak)
	}
}

func TestRolloverAfterProgress(t *testing.T) {
	tests := []struct {
		name       string
		actions    func(models.Habit) models.Habit
		vacation   bool
		wantStreak int
		wantMet    bool
	}{
		{"met by taps", func(h models.Habit) models.Habit {
			return Tap(Tap(h, at(2, 9)), at(2, 10))
		}, false, 5, true},
		{"tap then untap", func(h models.Habit) models.Habit {
			return Tap(Tap(Tap(h, at(2, 9)), at(2, 10)), at(2, 11))
		}, false, 0, false},
		{"tap then untap on vacation", func(h models.Habit) models.Habit {
			return Tap(Tap(Tap(h, at(2, 9)), at(2, 10)), at(2, 11))
		}, true, 4, false},
		{"met then target raised", func(h models.Habit) models.Habit {
			h = RecordProgress(h, 2, at(2, 9))
			d := h.Draft()
			d.TargetCount = 3
			h, _ = Edit(h, d, at(2, 10))
			return h
		}, true, 4, false},
		{"met, untapped, met again", func(h models.Habit) models.Habit {
			h = RecordProgress(h, 2, at(2, 9))
			h = RecordProgress(h, -2, at(2, 10))
			return RecordProgress(h, 2, at(2, 11))
		}, false, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHabit(t, 2)
			h.Streak = 4
			h = tt.actions(h)

			h, rec, closed := CloseDay(h, tt.vacation, at(2, 23))
			if !closed {
				t.Fatal("day not closed")
			}
			if h.Streak != tt.wantStreak || rec.Streak != tt.wantStreak {
				t.Errorf("Streak = %d (record %d), want %d", h.Streak, rec.Streak, tt.wantStreak)
			}
			if rec.Met != tt.wantMet {
				t.Errorf("Met = %v, want %v", rec.Met, tt.wantMet)
			}
		})
	}
}

func TestPausedHabitResumesWithFreshDay(t *testing.T) {
	h := newHabit(t, 1)
	h = RecordProgress(h, 1, at(2, 9))
	h, _ = SetStatus(h, constants.StatusPaused, at(2, 10))

	// Paused from Monday through Thursday.
	h, records := CatchUp(h, false, at(6, 8))
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	if records[0].Completed != 1 || !records[0].Paused {
		t.Errorf("Monday record = %+v", records[0])
	}
	for _, r := range records[1:] {
		if r.Completed != 0 {
			t.Errorf("%s carried a stale count: %+v", r.Day, r)
		}
	}
	if h.Streak != 1 || h.CompletedToday != 0 || h.Status != constants.StatusPaused {
		t.Fatalf("after catch-up: streak=%d count=%d status=%q", h.Streak, h.CompletedToday, h.Status)
	}

	h = Unpause(h, at(6, 9))
	if h.Status != constants.StatusIncomplete || h.CompletedToday != 0 {
		t.Errorf("after unpause: count=%d status=%q", h.CompletedToday, h.Status)
	}
	if h.Streak != 1 {
		t.Errorf("unpause changed streak to %d", h.Streak)
	}

	// Friday passes with no work.
	h = StreakRollover(h, false, at(6, 23))
	if h.Streak != 0 {
		t.Errorf("Streak after missed Friday = %d, want 0", h.Streak)
	}
}

func TestCloseDayIsIdempotent(t *testing.T) {
	h := newHabit(t, 1)
	h = RecordProgress(h, 1, at(2, 9))

	h, rec, closed := CloseDay(h, false, at(2, 23))
	if !closed {
		t.Fatal("expected first close to succeed")
	}
	if rec.Day != "2026-03-02" || !rec.Met || rec.Streak != 1 || rec.CompletedAt == nil {
		t.Errorf("unexpected record: %+v", rec)
	}
	if h.ActiveDay != "2026-03-03" {
		t.Errorf("ActiveDay = %q, want 2026-03-03", h.ActiveDay)
	}

	again, _, closed := CloseDay(h, false, at(2, 23))
	if closed {
		t.Error("closing the same day twice should be a no-op")
	}
	if again.Streak != h.Streak || again.ActiveDay != h.ActiveDay {
		t.Errorf("habit changed on repeated close: %+v", again)
	}
}

func TestPendingDays(t *testing.T) {
	h := newHabit(t, 1)
	if got := PendingDays(h, "2026-03-02"); len(got) != 0 {
		t.Errorf("same day: got %v", got)
	}
	got := PendingDays(h, "2026-03-05")
	want := []string{"2026-03-02", "2026-03-03", "2026-03-04"}
	if len(got) != len(want) {
		t.Fatalf("PendingDays() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PendingDays()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCatchUp(t *testing.T) {
	h := newHabit(t, 1)
	h = RecordProgress(h, 1, at(2, 9))

	// Opened again on Thursday: Monday was done, Tuesday and Wednesday missed.
	got, records := CatchUp(h, false, at(5, 8))
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if !records[0].Met || records[0].Streak != 1 {
		t.Errorf("Monday record = %+v", records[0])
	}
	if records[1].Met || records[1].Streak != 0 {
		t.Errorf("Tuesday record = %+v", records[1])
	}
	if got.Streak != 0 || got.ActiveDay != "2026-03-05" {
		t.Errorf("got streak=%d active=%q", got.Streak, got.ActiveDay)
	}

	again, more := CatchUp(got, false, at(5, 20))
	if len(more) != 0 || again.ActiveDay != got.ActiveDay {
		t.Errorf("second CatchUp closed %d days", len(more))
	}
}

func TestCatchUpOnVacation(t *testing.T) {
	h := newHabit(t, 1)
	h.Streak = 6
	got, records := CatchUp(h, true, at(4, 8))
	if got.Streak != 6 {
		t.Errorf("Streak = %d, want 6", got.Streak)
	}
	for _, r := range records {
		if !r.Vacation || r.Counts() {
			t.Errorf("vacation record should not count: %+v", r)
		}
	}
}
