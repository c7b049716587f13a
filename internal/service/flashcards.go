package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notecards/internal/generator"
	"notecards/internal/logger"
	"notecards/internal/models"
	"notecards/internal/repository"
)

const strategyNone = "NONE"

type FlashcardService struct {
	gen    CardGenerator
	cards  repository.FlashcardRepo
	events repository.EventRepo
	log    *logger.Logger
}

func NewFlashcardService(gen CardGenerator, cards repository.FlashcardRepo, events repository.EventRepo, log *logger.Logger) *FlashcardService {
	if log == nil {
		log = logger.Nop()
	}
	return &FlashcardService{gen: gen, cards: cards, events: events, log: log}
}

// Generate runs the strategy pipeline over notes and stores the resulting
// deck for userID. Blank notes are rejected before any strategy runs.
func (s *FlashcardService) Generate(ctx context.Context, userID int, notes string) ([]models.Flashcard, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, generator.ErrEmptyNotes
	}
	// Once generation starts the deck is saved even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	res, err := s.gen.Generate(ctx, notes)
	if err != nil {
		s.record(ctx, userID, strategyNone, models.OutcomeFailed, err.Error(), attemptsMeta(res.Attempts, len(notes)))
		return nil, err
	}

	cards := make([]models.Flashcard, 0, len(res.Cards))
	for _, c := range res.Cards {
		cards = append(cards, models.Flashcard{Question: c.Question, Answer: c.Answer})
	}

	saved, err := s.cards.SaveAll(ctx, userID, cards)
	if err != nil {
		s.record(ctx, userID, string(res.Strategy), models.OutcomeFailed, "persist flashcards failed", attemptsMeta(res.Attempts, len(notes)))
		return nil, fmt.Errorf("save flashcards: %w", err)
	}

	s.log.Infow("flashcards_generated", "user_id", userID, "strategy", res.Strategy, "cards", len(saved))
	s.record(ctx, userID, string(res.Strategy), models.OutcomeSaved,
		fmt.Sprintf("saved %d flashcards", len(saved)), attemptsMeta(res.Attempts, len(notes)))
	return saved, nil
}

func (s *FlashcardService) List(ctx context.Context, userID int) ([]models.Flashcard, error) {
	return s.cards.ListByUser(ctx, userID)
}

// record appends an audit entry. A failed append never fails the request.
func (s *FlashcardService) record(ctx context.Context, userID int, strategy, outcome, msg string, meta map[string]any) {
	if s.events == nil {
		return
	}
	err := s.events.Append(ctx, models.GenerationEvent{
		UserID:      userID,
		Strategy:    strategy,
		Outcome:     outcome,
		Description: msg,
		Metadata:    meta,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warnw("generation_event_append_failed", "user_id", userID, "err", err)
	}
}

func attemptsMeta(attempts []generator.Attempt, notesLen int) map[string]any {
	return map[string]any{
		"notes_bytes": notesLen,
		"attempts":    attempts,
	}
}
