package generator

import (
	"context"
	"fmt"
	"strings"

	"notecards/internal/logger"
)

// Backend runs the two model stages: question generation over the whole
// notes, then extractive question answering against the same notes.
type Backend interface {
	GenerateQuestions(ctx context.Context, notes string) (string, error)
	Answer(ctx context.Context, question, passage string) (string, error)
}

// ModelStrategy generates cards through a Backend. The local and remote
// strategies differ only in the backend they are given.
type ModelStrategy struct {
	name    Name
	backend Backend
	log     *logger.Logger
}

func NewLocalStrategy(b Backend, log *logger.Logger) *ModelStrategy {
	return &ModelStrategy{name: Local, backend: b, log: log}
}

func NewRemoteStrategy(b Backend, log *logger.Logger) *ModelStrategy {
	return &ModelStrategy{name: Remote, backend: b, log: log}
}

func (s *ModelStrategy) Name() Name { return s.name }

// Generate asks the backend for questions and answers each one. A failed or
// blank answer falls back to the question text itself. A question generation
// failure fails the whole strategy and nothing from it is kept.
func (s *ModelStrategy) Generate(ctx context.Context, notes string) Outcome {
	if s.backend == nil {
		return failed(s.name, fmt.Errorf("%s backend not configured", strings.ToLower(string(s.name))))
	}

	raw, err := s.backend.GenerateQuestions(ctx, notes)
	if err != nil {
		return failed(s.name, fmt.Errorf("question generation: %w", err))
	}

	questions := PadQuestions(SplitQuestions(raw))
	cards := make([]Card, 0, len(questions))
	for i, q := range questions {
		answer, err := s.backend.Answer(ctx, q, notes)
		answer = strings.TrimSpace(answer)
		if err != nil || answer == "" {
			// TODO: drop the slot and let Normalize refill it instead of echoing the question.
			if s.log != nil {
				s.log.Warnw("generator_answer_fallback", "strategy", s.name, "slot", i+1, "err", err)
			}
			answer = q
		}
		cards = append(cards, Card{Question: q, Answer: answer})
	}
	return succeeded(s.name, cards)
}
