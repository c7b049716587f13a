package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"notecards/internal/generator"
	"notecards/internal/models"
	"notecards/internal/repository"
)

type GenerationLogService struct {
	eventRepo repository.EventRepo
}

func NewGenerationLogService(eventRepo repository.EventRepo) *GenerationLogService {
	return &GenerationLogService{eventRepo: eventRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidStrategy  = errors.New("invalid strategy: must be LOCAL, REMOTE, DETERMINISTIC or NONE")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeStrategy trims spaces and uppercases the strategy filter.
func normalizeStrategy(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the filter.
func normalizeAndValidateFilter(f HistoryFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	strategy := normalizeStrategy(f.Strategy)
	switch strategy {
	case "", string(generator.Local), string(generator.Remote), string(generator.Deterministic), strategyNone:
	default:
		return time.Time{}, time.Time{}, "", ErrInvalidStrategy
	}
	return from, to, strategy, nil
}

func (s *GenerationLogService) History(ctx context.Context, userID int, f HistoryFilter) ([]models.GenerationEvent, error) {
	from, to, strategy, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, userID, from, to, strategy)
}
