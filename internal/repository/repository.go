package repository

import (
	"context"
	"database/sql"
	"time"

	"notecards/internal/models"
	"notecards/internal/repository/database"
)

type Authorization interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

type FlashcardRepo interface {
	SaveAll(ctx context.Context, userID int, cards []models.Flashcard) ([]models.Flashcard, error)
	ListByUser(ctx context.Context, userID int) ([]models.Flashcard, error)
}

type SessionRepo interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.GenerationEvent) error
	List(ctx context.Context, userID int, from, to time.Time, strategy string) ([]models.GenerationEvent, error)
}

type Repository struct {
	Auth       Authorization
	Flashcards FlashcardRepo
	Sessions   SessionRepo
	EventRepo  EventRepo
}

func NewRepository(conn *database.Conn) *Repository {
	return &Repository{
		Auth:       NewUserRepository(conn.DB, conn.Dialect),
		Flashcards: NewFlashcardRepository(conn.DB, conn.Dialect),
		Sessions:   NewSessionRepository(conn.DB, conn.Dialect),
		EventRepo:  NewEventRepository(conn.DB, conn.Dialect),
	}
}

// rollback is deferred after BeginTx; it is a no-op once the tx is committed.
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
