package generator

// CardCount is the number of cards every successful generation yields.
const CardCount = 5

// Card is a generated question/answer pair that has not been persisted yet.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Normalize returns exactly CardCount cards. Short input is padded by cycling
// from the first card; excess is truncated. Empty input stays empty.
func Normalize(cards []Card) []Card {
	if len(cards) == 0 {
		return nil
	}
	out := make([]Card, CardCount)
	for i := range out {
		out[i] = cards[i%len(cards)]
	}
	return out
}
