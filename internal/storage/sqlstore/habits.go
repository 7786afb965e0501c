package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage"
)

const habitColumns = `id, user_id, title, icon, category, target_count, completed_today,
       recurrence_days, reminder_time, status, streak, last_completed, active_day,
       is_public, notes, version, created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var recurrence, status, createdAt, updatedAt string
	var lastCompleted, deletedAt sql.NullString

	err := row.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Icon, &h.Category, &h.TargetCount, &h.CompletedToday,
		&recurrence, &h.ReminderTime, &status, &h.Streak, &lastCompleted, &h.ActiveDay,
		&h.IsPublic, &h.Notes, &h.Version, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return models.Habit{}, err
	}

	h.Status = constants.HabitStatus(status)
	h.RecurrenceDays = splitWeekdays(recurrence)
	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Habit{}, err
	}
	if h.LastCompleted, err = parseTimePtr(lastCompleted); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = parseTimePtr(deletedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// splitWeekdays keeps unknown tokens so that validation can report them.
func splitWeekdays(s string) []models.Weekday {
	days := []models.Weekday{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			days = append(days, models.Weekday(part))
		}
	}
	return days
}

func joinWeekdays(days []models.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

// AddHabit inserts a new habit at version 1.
func (q *Queries) AddHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	h.Version = 1
	_, err := q.db.ExecContext(ctx, q.rebind(`
INSERT INTO habits (`+habitColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		h.ID, h.UserID, h.Title, h.Icon, h.Category, h.TargetCount, h.CompletedToday,
		joinWeekdays(h.RecurrenceDays), h.ReminderTime, string(h.Status), h.Streak,
		formatTimePtr(h.LastCompleted), h.ActiveDay, h.IsPublic, h.Notes, h.Version,
		formatTime(h.CreatedAt), formatTime(h.UpdatedAt), formatTimePtr(h.DeletedAt),
	)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	return h, nil
}

// GetHabit returns a live habit. Soft-deleted habits are reported as not found.
func (q *Queries) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(`
SELECT `+habitColumns+` FROM habits WHERE id = ? AND deleted_at IS NULL`), id)
	h, err := scanHabit(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, errors.NotFound("habit", id)
		}
		return models.Habit{}, fmt.Errorf("failed to get habit: %w", err)
	}
	return h, nil
}

// ListHabits returns habits matching f, oldest first.
func (q *Queries) ListHabits(ctx context.Context, f storage.HabitFilter) ([]models.Habit, error) {
	var where []string
	var args []interface{}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if !f.IncludeDeleted {
		where = append(where, "deleted_at IS NULL")
	}
	query := `SELECT ` + habitColumns + ` FROM habits`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := q.db.QueryContext(ctx, q.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// UpdateHabit writes h if the stored version still equals h.Version and
// records days in the same transaction. It returns h at its new version, or
// errors.ErrConflict when another writer got there first.
func (q *Queries) UpdateHabit(ctx context.Context, h models.Habit, days ...models.HabitDay) (models.Habit, error) {
	err := q.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q.rebind(`
UPDATE habits SET
	title = ?, icon = ?, category = ?, target_count = ?, completed_today = ?,
	recurrence_days = ?, reminder_time = ?, status = ?, streak = ?, last_completed = ?,
	active_day = ?, is_public = ?, notes = ?, updated_at = ?, version = version + 1
WHERE id = ? AND version = ? AND deleted_at IS NULL`),
			h.Title, h.Icon, h.Category, h.TargetCount, h.CompletedToday,
			joinWeekdays(h.RecurrenceDays), h.ReminderTime, string(h.Status), h.Streak,
			formatTimePtr(h.LastCompleted), h.ActiveDay, h.IsPublic, h.Notes,
			formatTime(h.UpdatedAt), h.ID, h.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if n == 0 {
			return q.missOrConflict(ctx, tx, h.ID)
		}
		return q.saveHabitDays(ctx, tx, days)
	})
	if err != nil {
		return models.Habit{}, err
	}
	h.Version++
	return h, nil
}

// missOrConflict explains why a versioned update touched no rows.
func (q *Queries) missOrConflict(ctx context.Context, tx querier, id string) error {
	var deletedAt sql.NullString
	err := tx.QueryRowContext(ctx, q.rebind(`SELECT deleted_at FROM habits WHERE id = ?`), id).Scan(&deletedAt)
	switch {
	case stderrors.Is(err, sql.ErrNoRows), err == nil && deletedAt.Valid:
		return errors.NotFound("habit", id)
	case err != nil:
		return fmt.Errorf("failed to check habit: %w", err)
	default:
		return fmt.Errorf("habit %s: %w", id, errors.ErrConflict)
	}
}

// DeleteHabit soft-deletes a habit.
func (q *Queries) DeleteHabit(ctx context.Context, id string, at time.Time) error {
	res, err := q.db.ExecContext(ctx, q.rebind(`
UPDATE habits SET deleted_at = ?, updated_at = ?, version = version + 1
WHERE id = ? AND deleted_at IS NULL`), formatTime(at), formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return expectRow(res, "habit", id)
}

// RestoreHabit undoes a soft delete.
func (q *Queries) RestoreHabit(ctx context.Context, id string, at time.Time) error {
	res, err := q.db.ExecContext(ctx, q.rebind(`
UPDATE habits SET deleted_at = NULL, updated_at = ?, version = version + 1
WHERE id = ? AND deleted_at IS NOT NULL`), formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to restore habit: %w", err)
	}
	return expectRow(res, "habit", id)
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if n == 0 {
		return errors.NotFound(kind, id)
	}
	return nil
}
