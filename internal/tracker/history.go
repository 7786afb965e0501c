package tracker

import (
	"context"
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/ledger"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/utils"
)

func (s *Service) window(days int) (int, error) {
	if days == 0 {
		return s.windowDays, nil
	}
	if days < 1 || days > constants.MaxHistoryDays {
		return 0, errors.Invalid("days", "must be between 1 and %d", constants.MaxHistoryDays)
	}
	return days, nil
}

// span returns the closed days covered by a window ending yesterday.
func span(now time.Time, days int) (string, string) {
	today := now.Format(constants.DateFormat)
	from, _ := utils.AddDays(today, -days)
	to, _ := utils.AddDays(today, -1)
	return from, to
}

func (s *Service) summarize(ctx context.Context, habitID string, now time.Time, days int) (models.HistoryStats, error) {
	from, to := span(now, days)
	records, err := s.store.ListHabitDays(ctx, habitID, from, to)
	if err != nil {
		return models.HistoryStats{}, err
	}
	return ledger.Summarize(habitID, days, records), nil
}

// History returns a habit's closed days over the last days days (0 means the
// configured window) with its completion statistics.
func (s *Service) History(ctx context.Context, userID, habitID string, days int) (models.HistoryStats, error) {
	days, err := s.window(days)
	if err != nil {
		return models.HistoryStats{}, err
	}
	if _, err := s.Habit(ctx, userID, habitID); err != nil {
		return models.HistoryStats{}, err
	}
	u, err := s.profile(ctx, userID)
	if err != nil {
		return models.HistoryStats{}, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return models.HistoryStats{}, err
	}
	return s.summarize(ctx, habitID, now, days)
}

// Analytics aggregates the closed days of all of the user's live habits.
func (s *Service) Analytics(ctx context.Context, userID string, days int) (models.Analytics, error) {
	days, err := s.window(days)
	if err != nil {
		return models.Analytics{}, err
	}
	habits, err := s.Habits(ctx, userID, false)
	if err != nil {
		return models.Analytics{}, err
	}
	u, err := s.profile(ctx, userID)
	if err != nil {
		return models.Analytics{}, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return models.Analytics{}, err
	}

	from, to := span(now, days)
	records, err := s.store.ListUserHabitDays(ctx, userID, from, to)
	if err != nil {
		return models.Analytics{}, err
	}
	streaks := make([]int, 0, len(habits))
	for _, h := range habits {
		if !h.IsPaused() {
			streaks = append(streaks, h.Streak)
		}
	}
	return ledger.Analyze(userID, days, records, streaks, now.Location()), nil
}
