package generator

import "errors"

// Name identifies a generation strategy.
type Name string

const (
	Local         Name = "LOCAL"
	Remote        Name = "REMOTE"
	Deterministic Name = "DETERMINISTIC"
)

var (
	// ErrEmptyNotes is returned for blank notes before any strategy runs.
	ErrEmptyNotes = errors.New("notes are empty")
	// ErrNoContent is returned when every strategy yielded nothing.
	ErrNoContent = errors.New("no flashcards could be generated")

	errNoCards = errors.New("strategy produced no cards")
)

// Outcome is the typed result of one strategy run: either cards or a reason.
type Outcome struct {
	Strategy Name
	Cards    []Card
	Err      error
}

func succeeded(name Name, cards []Card) Outcome {
	return Outcome{Strategy: name, Cards: cards}
}

func failed(name Name, err error) Outcome {
	return Outcome{Strategy: name, Err: err}
}

// OK reports whether the strategy produced usable output.
func (o Outcome) OK() bool {
	return o.Err == nil && len(o.Cards) > 0
}

// Reason explains why the outcome is not OK. Empty for successful outcomes.
func (o Outcome) Reason() string {
	switch {
	case o.Err != nil:
		return o.Err.Error()
	case len(o.Cards) == 0:
		return errNoCards.Error()
	default:
		return ""
	}
}
