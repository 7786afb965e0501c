package tracker

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/ledger"
	"github.com/orowoletimothy/vane/internal/logger"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage"
	"github.com/orowoletimothy/vane/internal/utils"
)

// RolloverReport summarises one user's rollover sweep.
type RolloverReport struct {
	UserID     string `json:"user_id"`
	Through    string `json:"through"`
	Habits     int    `json:"habits"`
	DaysClosed int    `json:"days_closed"`
}

// Rollover closes every open day up to and including through (YYYY-MM-DD in
// the user's timezone) for all of the user's live habits. An empty through
// means yesterday. Closing today is allowed so that an end-of-day scheduler
// can run before midnight; later days are rejected.
func (s *Service) Rollover(ctx context.Context, userID, through string) (RolloverReport, error) {
	u, err := s.profile(ctx, userID)
	if err != nil {
		return RolloverReport{}, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return RolloverReport{}, err
	}
	today := now.Format(constants.DateFormat)
	if through == "" {
		through, _ = utils.AddDays(today, -1)
	}
	if _, err := time.Parse(constants.DateFormat, through); err != nil {
		return RolloverReport{}, errors.Invalid("date", "invalid date %q (expected YYYY-MM-DD)", through)
	}
	if through > today {
		return RolloverReport{}, errors.Invalid("date", "%s is after today (%s)", through, today)
	}
	next, _ := utils.AddDays(through, 1)
	cutoff, _ := utils.ParseDateInLocation(next, now.Location())

	habits, err := s.store.ListHabits(ctx, storage.HabitFilter{UserID: userID})
	if err != nil {
		return RolloverReport{}, err
	}

	report := RolloverReport{UserID: userID, Through: through}
	for _, h := range habits {
		updated, err := s.mutate(ctx, userID, h.ID, func(h models.Habit, u models.User, _ time.Time) (models.Habit, []models.HabitDay, error) {
			h, days := ledger.CatchUp(h, u.VacationMode, cutoff)
			if len(days) == 0 {
				return h, nil, errUnchanged
			}
			return h, days, nil
		})
		if err != nil {
			return report, err
		}
		if n, err := utils.DaysBetween(h.ActiveDay, updated.ActiveDay); err == nil && n > 0 {
			report.Habits++
			report.DaysClosed += n
		}
	}
	logger.Info("Rollover complete", "user", userID, "through", through, "habits", report.Habits, "days", report.DaysClosed)
	return report, nil
}

// RolloverAll runs Rollover for every user with live habits. A failing user
// does not stop the sweep; all failures are returned joined.
func (s *Service) RolloverAll(ctx context.Context, through string) ([]RolloverReport, error) {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]RolloverReport, 0, len(ids))
	var errs []error
	for _, id := range ids {
		r, err := s.Rollover(ctx, id, through)
		if err != nil {
			logger.Error("Rollover failed", "user", id, "error", err)
			errs = append(errs, err)
			continue
		}
		reports = append(reports, r)
	}
	return reports, stderrors.Join(errs...)
}
