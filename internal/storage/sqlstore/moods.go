package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
)

const moodColumns = `id, user_id, day, mood, motivation, note, created_at, updated_at, deleted_at`

// SaveMood upserts the check-in for (user, day). A second check-in on the same
// day keeps the original id and created_at.
func (q *Queries) SaveMood(ctx context.Context, m models.MoodEntry) (models.MoodEntry, error) {
	_, err := q.db.ExecContext(ctx, q.rebind(`
INSERT INTO moods (`+moodColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
ON CONFLICT(user_id, day) DO UPDATE SET
	mood = excluded.mood,
	motivation = excluded.motivation,
	note = excluded.note,
	updated_at = excluded.updated_at,
	deleted_at = NULL`),
		m.ID, m.UserID, m.Day, m.Mood, m.Motivation, m.Note, formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to save mood: %w", err)
	}
	return q.GetMood(ctx, m.UserID, m.Day)
}

// GetMood returns the check-in of userID on day.
func (q *Queries) GetMood(ctx context.Context, userID, day string) (models.MoodEntry, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(`
SELECT `+moodColumns+` FROM moods WHERE user_id = ? AND day = ? AND deleted_at IS NULL`), userID, day)
	m, err := scanMood(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.MoodEntry{}, errors.NotFound("mood", userID+"/"+day)
		}
		return models.MoodEntry{}, fmt.Errorf("failed to get mood: %w", err)
	}
	return m, nil
}

// ListMoods returns up to limit check-ins of userID, newest first.
func (q *Queries) ListMoods(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(`
SELECT `+moodColumns+` FROM moods
WHERE user_id = ? AND deleted_at IS NULL
ORDER BY day DESC
LIMIT ?`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	defer rows.Close()

	moods := []models.MoodEntry{}
	for rows.Next() {
		m, err := scanMood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood: %w", err)
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

func scanMood(row scanner) (models.MoodEntry, error) {
	var m models.MoodEntry
	var createdAt, updatedAt string
	var deletedAt sql.NullString
	if err := row.Scan(&m.ID, &m.UserID, &m.Day, &m.Mood, &m.Motivation, &m.Note, &createdAt, &updatedAt, &deletedAt); err != nil {
		return models.MoodEntry{}, err
	}
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.MoodEntry{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.MoodEntry{}, err
	}
	if m.DeletedAt, err = parseTimePtr(deletedAt); err != nil {
		return models.MoodEntry{}, err
	}
	return m, nil
}
