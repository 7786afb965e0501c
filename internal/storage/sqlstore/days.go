package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/orowoletimothy/vane/internal/models"
)

const dayColumns = `habit_id, day, completed, target, scheduled, met, vacation, paused, streak, completed_at, created_at`

// SaveHabitDays upserts closed-day records.
func (q *Queries) SaveHabitDays(ctx context.Context, days []models.HabitDay) error {
	return q.inTx(ctx, func(tx *sql.Tx) error {
		return q.saveHabitDays(ctx, tx, days)
	})
}

func (q *Queries) saveHabitDays(ctx context.Context, tx querier, days []models.HabitDay) error {
	for _, d := range days {
		_, err := tx.ExecContext(ctx, q.rebind(`
INSERT INTO habit_days (`+dayColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(habit_id, day) DO UPDATE SET
	completed = excluded.completed,
	target = excluded.target,
	scheduled = excluded.scheduled,
	met = excluded.met,
	vacation = excluded.vacation,
	paused = excluded.paused,
	streak = excluded.streak,
	completed_at = excluded.completed_at`),
			d.HabitID, d.Day, d.Completed, d.Target, d.Scheduled, d.Met, d.Vacation, d.Paused,
			d.Streak, formatTimePtr(d.CompletedAt), formatTime(d.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to save habit day %s/%s: %w", d.HabitID, d.Day, err)
		}
	}
	return nil
}

// ListHabitDays returns one habit's records with from <= day <= to, oldest first.
func (q *Queries) ListHabitDays(ctx context.Context, habitID, from, to string) ([]models.HabitDay, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(`
SELECT `+dayColumns+` FROM habit_days
WHERE habit_id = ? AND day >= ? AND day <= ?
ORDER BY day`), habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit days: %w", err)
	}
	return scanDays(rows)
}

// ListUserHabitDays returns the records of every live habit owned by userID.
func (q *Queries) ListUserHabitDays(ctx context.Context, userID, from, to string) ([]models.HabitDay, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(`
SELECT d.habit_id, d.day, d.completed, d.target, d.scheduled, d.met, d.vacation, d.paused,
       d.streak, d.completed_at, d.created_at
FROM habit_days d JOIN habits h ON h.id = d.habit_id
WHERE h.user_id = ? AND h.deleted_at IS NULL AND d.day >= ? AND d.day <= ?
ORDER BY d.day, d.habit_id`), userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit days: %w", err)
	}
	return scanDays(rows)
}

func scanDays(rows *sql.Rows) ([]models.HabitDay, error) {
	defer rows.Close()

	days := []models.HabitDay{}
	for rows.Next() {
		var d models.HabitDay
		var completedAt sql.NullString
		var createdAt string
		if err := rows.Scan(
			&d.HabitID, &d.Day, &d.Completed, &d.Target, &d.Scheduled, &d.Met, &d.Vacation, &d.Paused,
			&d.Streak, &completedAt, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan habit day: %w", err)
		}
		var err error
		if d.CompletedAt, err = parseTimePtr(completedAt); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
