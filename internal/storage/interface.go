package storage

import (
	"context"
	"time"

	"github.com/orowoletimothy/vane/internal/migration"
	"github.com/orowoletimothy/vane/internal/models"
)

// HabitFilter narrows ListHabits. The zero value lists every live habit.
type HabitFilter struct {
	UserID         string
	IncludeDeleted bool
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaStatus(ctx context.Context) (migration.Status, error)

	// Users
	GetUser(ctx context.Context, id string) (models.User, error)
	SaveUser(ctx context.Context, u models.User) error
	ListUserIDs(ctx context.Context) ([]string, error)

	// Habits
	AddHabit(ctx context.Context, h models.Habit) (models.Habit, error)
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	ListHabits(ctx context.Context, f HabitFilter) ([]models.Habit, error)
	// UpdateHabit is a compare-and-swap on h.Version. It returns
	// errors.ErrConflict when the stored version moved on. Any days are
	// written in the same transaction.
	UpdateHabit(ctx context.Context, h models.Habit, days ...models.HabitDay) (models.Habit, error)
	DeleteHabit(ctx context.Context, id string, at time.Time) error
	RestoreHabit(ctx context.Context, id string, at time.Time) error

	// Habit history
	SaveHabitDays(ctx context.Context, days []models.HabitDay) error
	ListHabitDays(ctx context.Context, habitID, from, to string) ([]models.HabitDay, error)
	ListUserHabitDays(ctx context.Context, userID, from, to string) ([]models.HabitDay, error)

	// Moods
	SaveMood(ctx context.Context, m models.MoodEntry) (models.MoodEntry, error)
	GetMood(ctx context.Context, userID, day string) (models.MoodEntry, error)
	ListMoods(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)

	// Utils
	GetConfigPath() string
	Driver() migration.Driver
}
