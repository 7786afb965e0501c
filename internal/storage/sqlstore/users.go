package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
)

func (q *Queries) GetUser(ctx context.Context, id string) (models.User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(`
SELECT id, username, timezone, vacation_mode, created_at, updated_at
FROM users WHERE id = ?`), id)

	var u models.User
	var createdAt, updatedAt string
	if err := row.Scan(&u.ID, &u.Username, &u.Timezone, &u.VacationMode, &createdAt, &updatedAt); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.User{}, errors.NotFound("user", id)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.User{}, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// SaveUser inserts or replaces a user profile. created_at is kept on update.
func (q *Queries) SaveUser(ctx context.Context, u models.User) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
INSERT INTO users (id, username, timezone, vacation_mode, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	username = excluded.username,
	timezone = excluded.timezone,
	vacation_mode = excluded.vacation_mode,
	updated_at = excluded.updated_at`),
		u.ID, u.Username, u.Timezone, u.VacationMode, formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// ListUserIDs returns every user that owns at least one live habit.
func (q *Queries) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
SELECT DISTINCT user_id FROM habits WHERE deleted_at IS NULL ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
