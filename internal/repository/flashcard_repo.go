package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"notecards/internal/models"
	"notecards/internal/repository/database"
)

type FlashcardRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewFlashcardRepository(db *sql.DB, dialect database.Dialect) *FlashcardRepository {
	return &FlashcardRepository{db: db, dialect: dialect}
}

var _ FlashcardRepo = (*FlashcardRepository)(nil)

const (
	insertFlashcardSQL = `INSERT INTO flashcards (user_id, question, answer, created_at) VALUES (?, ?, ?, ?) RETURNING id`

	selectFlashcardsByUserSQL = `
		SELECT id, user_id, question, answer, created_at
		FROM flashcards WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
)

// SaveAll stores cards for userID in one transaction. Either every card is
// committed or none is.
func (r *FlashcardRepository) SaveAll(ctx context.Context, userID int, cards []models.Flashcard) ([]models.Flashcard, error) {
	for _, c := range cards {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			return nil, ErrInvalidFlashcard
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save flashcards for user %d: %w", userID, err)
	}
	defer rollback(tx)

	now := time.Now().UTC()
	query := r.dialect.Rebind(insertFlashcardSQL)
	saved := make([]models.Flashcard, 0, len(cards))
	for i, c := range cards {
		card := models.Flashcard{
			UserID:    userID,
			Question:  c.Question,
			Answer:    c.Answer,
			CreatedAt: now,
		}
		if err := tx.QueryRowContext(ctx, query, userID, card.Question, card.Answer, now).Scan(&card.ID); err != nil {
			return nil, fmt.Errorf("insert flashcard %d for user %d: %w", i+1, userID, err)
		}
		saved = append(saved, card)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit flashcards for user %d: %w", userID, err)
	}
	return saved, nil
}

// ListByUser returns the user's flashcards, newest first.
func (r *FlashcardRepository) ListByUser(ctx context.Context, userID int) ([]models.Flashcard, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectFlashcardsByUserSQL), userID)
	if err != nil {
		return nil, fmt.Errorf("select flashcards for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Flashcard, 0, 16)
	for rows.Next() {
		var c models.Flashcard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Question, &c.Answer, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
