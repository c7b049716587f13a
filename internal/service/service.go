package service

import (
	"context"
	"time"

	"notecards/internal/generator"
	"notecards/internal/logger"
	"notecards/internal/models"
	"notecards/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, email, password string) (int, error)
	SignIn(ctx context.Context, email, password string) (string, models.User, error)
	SignOut(ctx context.Context, token string) error
	ParseToken(ctx context.Context, token string) (Identity, error)
	Status(ctx context.Context, userID int) (models.User, error)
	DeleteAccount(ctx context.Context, userID int) error
}

// Flashcards generates decks from notes and lists what a user has saved.
type Flashcards interface {
	Generate(ctx context.Context, userID int, notes string) ([]models.Flashcard, error)
	List(ctx context.Context, userID int) ([]models.Flashcard, error)
}

// GenerationLog exposes the per-user audit trail of generation requests.
type GenerationLog interface {
	History(ctx context.Context, userID int, f HistoryFilter) ([]models.GenerationEvent, error)
}

// Capabilities exposes which model backends were found at startup.
type Capabilities interface {
	Describe() CapabilityReport
}

// SessionSweeper removes expired sessions in the background.
// Stop via context cancellation in main() for graceful shutdown.
type SessionSweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// CardGenerator is the strategy pipeline built once at startup.
type CardGenerator interface {
	Generate(ctx context.Context, notes string) (generator.Result, error)
	Capabilities() generator.Capabilities
}

type Service struct {
	Authorization
	Flashcards
	GenerationLog
	Capabilities
	SessionSweeper
}

func NewService(repos *repository.Repository, gen CardGenerator, cfg AuthConfig, log *logger.Logger) *Service {
	return &Service{
		Authorization:  NewAuthService(repos.Auth, repos.Sessions, cfg),
		Flashcards:     NewFlashcardService(gen, repos.Flashcards, repos.EventRepo, log),
		GenerationLog:  NewGenerationLogService(repos.EventRepo),
		Capabilities:   NewCapabilityService(gen.Capabilities()),
		SessionSweeper: NewSessionSweeper(repos.Sessions, log),
	}
}
