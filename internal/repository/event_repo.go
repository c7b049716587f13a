package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"notecards/internal/models"
	"notecards/internal/repository/database"
)

type EventRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewEventRepository(db *sql.DB, dialect database.Dialect) *EventRepository {
	return &EventRepository{db: db, dialect: dialect}
}

var _ EventRepo = (*EventRepository)(nil)

const insertEventSQL = `
		INSERT INTO generation_events (id, user_id, occurred_at, strategy, outcome, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventRepository) Append(ctx context.Context, e models.GenerationEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertEventSQL),
		e.EventID,
		e.UserID,
		e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Strategy)),
		strings.ToUpper(strings.TrimSpace(e.Outcome)),
		e.Description,
		metaPtr,
	)
	return err
}

// List returns the user's events filtered by [from, to] (inclusive) and/or
// strategy, ordered ASC.
func (r *EventRepository) List(ctx context.Context, userID int, from, to time.Time, strategy string) ([]models.GenerationEvent, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if strategy = strings.ToUpper(strings.TrimSpace(strategy)); strategy != "" {
		conds = append(conds, "strategy = ?")
		args = append(args, strategy)
	}

	q := `SELECT id, user_id, occurred_at, strategy, outcome, message, meta FROM generation_events`
	q += " WHERE " + strings.Join(conds, " AND ")
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.GenerationEvent, 0, 64)
	for rows.Next() {
		var ev models.GenerationEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.UserID, &ev.OccurredAt, &ev.Strategy, &ev.Outcome, &ev.Description, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
