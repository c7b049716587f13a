package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notecards/internal/models"
	"notecards/internal/repository/database"
)

type SessionRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSessionRepository(db *sql.DB, dialect database.Dialect) *SessionRepository {
	return &SessionRepository{db: db, dialect: dialect}
}

var _ SessionRepo = (*SessionRepository)(nil)

const (
	insertSessionSQL        = `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	selectSessionSQL        = `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?`
	deleteSessionSQL        = `DELETE FROM sessions WHERE id = ?`
	deleteExpiredSessionSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

func (r *SessionRepository) Create(ctx context.Context, s models.Session) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertSessionSQL), s.ID, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session for user %d: %w", s.UserID, err)
	}
	return nil
}

// Get fetches a session by id. Returns (nil, nil) if not found.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectSessionSQL), id).
		Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return &s, nil
}

// Delete removes a session; deleting an unknown id is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteSessionSQL), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired at or before now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteExpiredSessionSQL), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
