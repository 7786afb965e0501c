package tracker

import (
	"context"

	"github.com/google/uuid"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/validation"
)

const defaultMoodHistory = 30

// LogMood records the user's check-in for their current local day. A second
// check-in on the same day replaces the first.
func (s *Service) LogMood(ctx context.Context, userID string, in validation.MoodInput) (models.MoodEntry, error) {
	if err := validation.Struct(&in); err != nil {
		return models.MoodEntry{}, err
	}
	u, err := s.EnsureUser(ctx, userID)
	if err != nil {
		return models.MoodEntry{}, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return models.MoodEntry{}, err
	}
	return s.store.SaveMood(ctx, models.MoodEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Day:        now.Format(constants.DateFormat),
		Mood:       in.Mood,
		Motivation: in.Motivation,
		Note:       in.Note,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	})
}

// TodayMood returns today's check-in or a NotFoundError.
func (s *Service) TodayMood(ctx context.Context, userID string) (models.MoodEntry, error) {
	u, err := s.profile(ctx, userID)
	if err != nil {
		return models.MoodEntry{}, err
	}
	now, err := s.localNow(u)
	if err != nil {
		return models.MoodEntry{}, err
	}
	return s.store.GetMood(ctx, userID, now.Format(constants.DateFormat))
}

// MoodHistory returns up to limit check-ins, newest first. Zero means 30.
func (s *Service) MoodHistory(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultMoodHistory
	}
	if limit < 1 || limit > constants.MaxHistoryDays {
		return nil, errors.Invalid("limit", "must be between 1 and %d", constants.MaxHistoryDays)
	}
	return s.store.ListMoods(ctx, userID, limit)
}
