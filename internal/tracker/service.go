// Package tracker is the application layer: it loads habits and their history
// from storage, runs the ledger and feasibility rules over them and writes the
// results back.
package tracker

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/orowoletimothy/vane/internal/config"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/feasibility"
	"github.com/orowoletimothy/vane/internal/ledger"
	"github.com/orowoletimothy/vane/internal/logger"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage"
	"github.com/orowoletimothy/vane/internal/utils"
	"github.com/orowoletimothy/vane/internal/validation"
)

const maxUserIDLength = 64

// errUnchanged lets a mutation skip the write.
var errUnchanged = stderrors.New("unchanged")

// Service coordinates storage with the ledger and the feasibility evaluator.
// It is safe for concurrent use; concurrent writes to one habit are resolved
// by the store's version check and retried.
type Service struct {
	store      storage.Provider
	evaluator  *feasibility.Evaluator
	windowDays int
	clock      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func New(store storage.Provider, cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{
		store:      store,
		evaluator:  feasibility.NewEvaluator(cfg.Feasibility),
		windowDays: cfg.History.WindowDays,
		clock:      time.Now,
	}
	if s.windowDays <= 0 {
		s.windowDays = constants.DefaultHistoryWindowDays
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() storage.Provider {
	return s.store
}

func checkUserID(userID string) error {
	id := strings.TrimSpace(userID)
	if id == "" {
		return errors.Invalid("user_id", "is required")
	}
	if id != userID || len(id) > maxUserIDLength {
		return errors.Invalid("user_id", "must be at most %d characters without surrounding spaces", maxUserIDLength)
	}
	return nil
}

func defaultUser(userID string, now time.Time) models.User {
	return models.User{
		ID:        userID,
		Username:  constants.DefaultUsername,
		Timezone:  constants.DefaultTimezone,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// profile returns the stored user, or unsaved defaults for a user that has
// never written anything.
func (s *Service) profile(ctx context.Context, userID string) (models.User, error) {
	if err := checkUserID(userID); err != nil {
		return models.User{}, err
	}
	u, err := s.store.GetUser(ctx, userID)
	if errors.IsNotFound(err) {
		return defaultUser(userID, s.clock()), nil
	}
	return u, err
}

// User returns the profile of userID.
func (s *Service) User(ctx context.Context, userID string) (models.User, error) {
	if err := checkUserID(userID); err != nil {
		return models.User{}, err
	}
	return s.store.GetUser(ctx, userID)
}

// EnsureUser returns the profile of userID, creating it with default
// settings on first use.
func (s *Service) EnsureUser(ctx context.Context, userID string) (models.User, error) {
	if err := checkUserID(userID); err != nil {
		return models.User{}, err
	}
	u, err := s.store.GetUser(ctx, userID)
	if !errors.IsNotFound(err) {
		return u, err
	}
	u = defaultUser(userID, s.clock())
	if err := s.store.SaveUser(ctx, u); err != nil {
		return models.User{}, err
	}
	logger.Info("Created user profile", "user", userID)
	return u, nil
}

// UpdateSettings applies the non-nil fields of in to the user's profile.
func (s *Service) UpdateSettings(ctx context.Context, userID string, in validation.UserSettingsInput) (models.User, error) {
	if err := validation.Struct(&in); err != nil {
		return models.User{}, err
	}
	u, err := s.EnsureUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if in.Timezone != nil {
		u.Timezone = *in.Timezone
	}
	if in.VacationMode != nil {
		u.VacationMode = *in.VacationMode
	}
	u.UpdatedAt = s.clock().UTC()
	if err := s.store.SaveUser(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// localNow is the current time in the user's timezone.
func (s *Service) localNow(u models.User) (time.Time, error) {
	loc, err := utils.LoadLocation(u.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("user %s has invalid timezone %q: %w", u.ID, u.Timezone, err)
	}
	return s.clock().In(loc), nil
}

// mutation transforms a caught-up habit and may return extra closed days.
type mutation func(h models.Habit, u models.User, now time.Time) (models.Habit, []models.HabitDay, error)

// mutate loads a habit owned by userID, closes any days missed since it was
// last written, applies fn and stores the result. A version conflict reloads
// the habit and applies fn again.
func (s *Service) mutate(ctx context.Context, userID, habitID string, fn mutation) (models.Habit, error) {
	var lastErr error
	for attempt := 0; attempt <= constants.MaxMutationRetries; attempt++ {
		u, err := s.profile(ctx, userID)
		if err != nil {
			return models.Habit{}, err
		}
		now, err := s.localNow(u)
		if err != nil {
			return models.Habit{}, err
		}
		h, err := s.owned(ctx, userID, habitID)
		if err != nil {
			return models.Habit{}, err
		}

		h, days := ledger.CatchUp(h, u.VacationMode, now)
		next, extra, err := fn(h, u, now)
		switch {
		case stderrors.Is(err, errUnchanged):
			if len(days) == 0 {
				return h, nil
			}
			next = h
		case err != nil:
			return models.Habit{}, err
		}
		days = append(days, extra...)

		saved, err := s.store.UpdateHabit(ctx, next, days...)
		if err == nil {
			if len(days) > 0 {
				logger.Debug("Closed habit days", "habit", habitID, "days", len(days))
			}
			return saved, nil
		}
		if !errors.IsConflict(err) {
			return models.Habit{}, err
		}
		logger.Debug("Retrying habit write after conflict", "habit", habitID, "attempt", attempt+1)
		lastErr = err
	}
	return models.Habit{}, fmt.Errorf("giving up after %d retries: %w", constants.MaxMutationRetries, lastErr)
}

func unchanged(h models.Habit, _ models.User, _ time.Time) (models.Habit, []models.HabitDay, error) {
	return h, nil, errUnchanged
}

// owned loads a live habit and checks that it belongs to userID. Another
// user's habit is reported as not found.
func (s *Service) owned(ctx context.Context, userID, habitID string) (models.Habit, error) {
	h, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if h.UserID != userID {
		return models.Habit{}, errors.NotFound("habit", habitID)
	}
	return h, nil
}
