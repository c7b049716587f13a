package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-test Backend with scripted responses.
type fakeBackend struct {
	questions string
	qgErr     error
	answers   map[string]string
	qaErr     map[string]error
	panicOnQG bool

	qgCalls  int
	qaCalls  []string
	contexts []string
	ctxErrs  []error
}

func (f *fakeBackend) GenerateQuestions(ctx context.Context, notes string) (string, error) {
	f.qgCalls++
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.panicOnQG {
		panic("model crashed")
	}
	return f.questions, f.qgErr
}

func (f *fakeBackend) Answer(ctx context.Context, question, passage string) (string, error) {
	f.qaCalls = append(f.qaCalls, question)
	f.contexts = append(f.contexts, passage)
	if err := f.qaErr[question]; err != nil {
		return "", err
	}
	return f.answers[question], nil
}

func TestModelStrategy_AnswersEveryQuestion(t *testing.T) {
	b := &fakeBackend{
		questions: "What is Paris? What is France?",
		answers: map[string]string{
			"What is Paris?":       "a city",
			"What is France?":      "a country",
			"What is key point 3?": "three",
			"What is key point 4?": "four",
			"What is key point 5?": "five",
		},
	}
	s := NewLocalStrategy(b, nil)
	out := s.Generate(context.Background(), "notes text")

	require.True(t, out.OK())
	assert.Equal(t, Local, out.Strategy)
	require.Len(t, out.Cards, CardCount)
	assert.Equal(t, Card{Question: "What is Paris?", Answer: "a city"}, out.Cards[0])
	assert.Equal(t, Card{Question: "What is key point 5?", Answer: "five"}, out.Cards[4])
	assert.Equal(t, 1, b.qgCalls)
	assert.Len(t, b.qaCalls, CardCount)
	for _, c := range b.contexts {
		assert.Equal(t, "notes text", c)
	}
}

func TestModelStrategy_AnswerFailureUsesQuestion(t *testing.T) {
	b := &fakeBackend{
		questions: "Q1? Q2? Q3? Q4? Q5? Q6?",
		answers:   map[string]string{"Q1?": "A1", "Q3?": "   "},
		qaErr:     map[string]error{"Q2?": errors.New("timeout")},
	}
	out := NewRemoteStrategy(b, nil).Generate(context.Background(), "ctx")

	require.True(t, out.OK())
	assert.Equal(t, Remote, out.Strategy)
	require.Len(t, out.Cards, CardCount)
	assert.Equal(t, "A1", out.Cards[0].Answer)
	assert.Equal(t, "Q2?", out.Cards[1].Answer)
	assert.Equal(t, "Q3?", out.Cards[2].Answer)
	assert.Equal(t, "Q5?", out.Cards[4].Question)
}

func TestModelStrategy_QuestionGenerationFailureDiscardsEverything(t *testing.T) {
	b := &fakeBackend{qgErr: errors.New("model missing")}
	out := NewLocalStrategy(b, nil).Generate(context.Background(), "notes")

	assert.False(t, out.OK())
	assert.Empty(t, out.Cards)
	assert.ErrorContains(t, out.Err, "question generation")
	assert.Empty(t, b.qaCalls)
}

func TestModelStrategy_NilBackend(t *testing.T) {
	out := NewRemoteStrategy(nil, nil).Generate(context.Background(), "notes")
	assert.False(t, out.OK())
	assert.ErrorContains(t, out.Err, "remote backend not configured")
}

func TestOutcome_Reason(t *testing.T) {
	assert.Equal(t, "", succeeded(Local, cardsN(1)).Reason())
	assert.Equal(t, errNoCards.Error(), succeeded(Local, nil).Reason())
	assert.Equal(t, "boom", failed(Local, errors.New("boom")).Reason())
}
