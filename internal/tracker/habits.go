package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/feasibility"
	"github.com/orowoletimothy/vane/internal/ledger"
	"github.com/orowoletimothy/vane/internal/logger"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage"
	"github.com/orowoletimothy/vane/internal/validation"
)

// CreateOptions controls the feasibility gate of CreateHabit.
type CreateOptions struct {
	// SkipFeasibilityCheck creates the habit without evaluating it.
	SkipFeasibilityCheck bool
	// Override accepts the habit when the evaluator reports an overload.
	Override bool
}

// Evaluate runs the feasibility check for draft against the user's current
// habits and their recent history.
func (s *Service) Evaluate(ctx context.Context, userID string, draft models.HabitDraft, override bool) (models.FeasibilityResult, error) {
	if err := validation.ValidateDraft(&draft); err != nil {
		return models.FeasibilityResult{}, err
	}
	u, err := s.profile(ctx, userID)
	if err != nil {
		return models.FeasibilityResult{}, err
	}
	habits, err := s.Habits(ctx, userID, false)
	if err != nil {
		return models.FeasibilityResult{}, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return models.FeasibilityResult{}, err
	}

	existing := make([]feasibility.Snapshot, 0, len(habits))
	for _, h := range habits {
		snap := feasibility.Snapshot{Habit: h}
		if !h.IsPaused() {
			stats, err := s.summarize(ctx, h.ID, now, s.windowDays)
			if err != nil {
				return models.FeasibilityResult{}, err
			}
			if stats.HasHistory() {
				snap.History = &stats
			}
		}
		existing = append(existing, snap)
	}

	return s.evaluator.Evaluate(feasibility.Request{
		Candidate: draft,
		Existing:  existing,
		Override:  override,
	}), nil
}

// CreateHabit evaluates and stores a new habit. When the evaluator rejects
// it, the result is returned together with an error wrapping
// errors.ErrNotFeasible and nothing is stored.
func (s *Service) CreateHabit(ctx context.Context, userID string, draft models.HabitDraft, opts CreateOptions) (models.Habit, *models.FeasibilityResult, error) {
	u, err := s.EnsureUser(ctx, userID)
	if err != nil {
		return models.Habit{}, nil, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return models.Habit{}, nil, err
	}
	h, err := ledger.New(draft, userID, now)
	if err != nil {
		return models.Habit{}, nil, err
	}

	var result *models.FeasibilityResult
	if !opts.SkipFeasibilityCheck {
		res, err := s.Evaluate(ctx, userID, draft, opts.Override)
		if err != nil {
			return models.Habit{}, nil, err
		}
		result = &res
		if !res.Feasible {
			return models.Habit{}, result, fmt.Errorf("%q: %w", h.Title, errors.ErrNotFeasible)
		}
	}

	saved, err := s.store.AddHabit(ctx, h)
	if err != nil {
		return models.Habit{}, result, err
	}
	logger.Info("Created habit", "user", userID, "habit", saved.ID, "title", saved.Title)
	return saved, result, nil
}

// Habit returns one habit, caught up to the user's current day.
func (s *Service) Habit(ctx context.Context, userID, habitID string) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, unchanged)
}

// Habits lists the user's habits, oldest first, caught up to the current day.
func (s *Service) Habits(ctx context.Context, userID string, includeDeleted bool) ([]models.Habit, error) {
	u, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	habits, err := s.store.ListHabits(ctx, storage.HabitFilter{UserID: userID, IncludeDeleted: includeDeleted})
	if err != nil {
		return nil, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return nil, err
	}

	today := now.Format(constants.DateFormat)
	for i, h := range habits {
		if h.IsDeleted() || len(ledger.PendingDays(h, today)) == 0 {
			continue
		}
		if habits[i], err = s.Habit(ctx, userID, h.ID); err != nil {
			return nil, err
		}
	}
	return habits, nil
}

// Today lists the habits due on the user's current local day.
func (s *Service) Today(ctx context.Context, userID string) ([]models.Habit, error) {
	u, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	habits, err := s.Habits(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return nil, err
	}

	due := []models.Habit{}
	for _, h := range habits {
		if ledger.IsScheduledToday(h, now.Weekday()) {
			due = append(due, h)
		}
	}
	return due, nil
}

// EditHabit replaces the editable fields of a habit.
func (s *Service) EditHabit(ctx context.Context, userID, habitID string, draft models.HabitDraft) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h models.Habit, _ models.User, now time.Time) (models.Habit, []models.HabitDay, error) {
		h, err := ledger.Edit(h, draft, now)
		return h, nil, err
	})
}

// Progress adds delta to today's completion count.
func (s *Service) Progress(ctx context.Context, userID, habitID string, delta int) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h models.Habit, _ models.User, now time.Time) (models.Habit, []models.HabitDay, error) {
		return ledger.RecordProgress(h, delta, now), nil, nil
	})
}

// Tap increments today's count, or resets it once the target is reached.
func (s *Service) Tap(ctx context.Context, userID, habitID string) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h models.Habit, _ models.User, now time.Time) (models.Habit, []models.HabitDay, error) {
		return ledger.Tap(h, now), nil, nil
	})
}

// SetStatus applies an explicit status change.
func (s *Service) SetStatus(ctx context.Context, userID, habitID string, status constants.HabitStatus) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h models.Habit, _ models.User, now time.Time) (models.Habit, []models.HabitDay, error) {
		h, err := ledger.SetStatus(h, status, now)
		return h, nil, err
	})
}

func (s *Service) Pause(ctx context.Context, userID, habitID string) (models.Habit, error) {
	return s.SetStatus(ctx, userID, habitID, constants.StatusPaused)
}

// Resume unpauses a habit. Resuming an active habit is a no-op.
func (s *Service) Resume(ctx context.Context, userID, habitID string) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h models.Habit, _ models.User, now time.Time) (models.Habit, []models.HabitDay, error) {
		if !h.IsPaused() {
			return h, nil, errUnchanged
		}
		return ledger.Unpause(h, now), nil, nil
	})
}

// DeleteHabit soft-deletes a habit. Its history is kept.
func (s *Service) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if _, err := s.owned(ctx, userID, habitID); err != nil {
		return err
	}
	if err := s.store.DeleteHabit(ctx, habitID, s.clock()); err != nil {
		return err
	}
	logger.Info("Deleted habit", "user", userID, "habit", habitID)
	return nil
}

// RestoreHabit undoes DeleteHabit.
func (s *Service) RestoreHabit(ctx context.Context, userID, habitID string) (models.Habit, error) {
	habits, err := s.store.ListHabits(ctx, storage.HabitFilter{UserID: userID, IncludeDeleted: true})
	if err != nil {
		return models.Habit{}, err
	}
	found := false
	for _, h := range habits {
		if h.ID == habitID && h.IsDeleted() {
			found = true
			break
		}
	}
	if !found {
		return models.Habit{}, errors.NotFound("deleted habit", habitID)
	}
	if err := s.store.RestoreHabit(ctx, habitID, s.clock()); err != nil {
		return models.Habit{}, err
	}
	return s.Habit(ctx, userID, habitID)
}
