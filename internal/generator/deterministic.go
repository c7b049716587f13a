package generator

import "context"

const (
	questionPrefix     = "What is: "
	maxQuestionSnippet = 120
	placeholderSnippet = "the main idea of these notes"
)

// DeterministicStrategy derives cards from the notes' sentences without any
// model. It always produces CardCount cards for non-blank notes.
type DeterministicStrategy struct{}

func (DeterministicStrategy) Name() Name { return Deterministic }

func (DeterministicStrategy) Generate(_ context.Context, notes string) Outcome {
	return succeeded(Deterministic, deterministicCards(notes))
}

func deterministicCards(notes string) []Card {
	sentences := splitSentences(notes)
	cards := make([]Card, 0, CardCount)
	for i := 0; i < CardCount; i++ {
		var snippet string
		switch {
		case i < len(sentences):
			snippet = sentences[i]
		case len(sentences) > 0:
			snippet = sentences[len(sentences)-1]
		default:
			snippet = placeholderSnippet
		}
		cards = append(cards, Card{
			Question: questionPrefix + truncateRunes(snippet, maxQuestionSnippet) + "?",
			Answer:   snippet,
		})
	}
	return cards
}
