package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQuestions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   \n ", nil},
		{"single without punctuation", "What is Go", []string{"What is Go"}},
		{
			name: "question marks",
			raw:  "What is Go? Who made it?",
			want: []string{"What is Go?", "Who made it?"},
		},
		{
			name: "mixed terminators",
			raw:  "Define a goroutine. Why use channels? Wow!",
			want: []string{"Define a goroutine.", "Why use channels?", "Wow!"},
		},
		{
			name: "decimal point is not a boundary",
			raw:  "Why is pi 3.14? What is e?",
			want: []string{"Why is pi 3.14?", "What is e?"},
		},
		{
			name: "model separator",
			raw:  "What is Paris?<sep> Where is the Eiffel Tower?<sep>",
			want: []string{"What is Paris?", "Where is the Eiffel Tower?"},
		},
		{
			name: "line breaks",
			raw:  "first line\nsecond line",
			want: []string{"first line", "second line"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitQuestions(tt.raw))
		})
	}
}

func TestPadQuestions(t *testing.T) {
	t.Run("fills placeholders by slot", func(t *testing.T) {
		got := PadQuestions([]string{"Q1?", "Q2?"})
		assert.Equal(t, []string{
			"Q1?",
			"Q2?",
			"What is key point 3?",
			"What is key point 4?",
			"What is key point 5?",
		}, got)
	})

	t.Run("no input gives five placeholders", func(t *testing.T) {
		got := PadQuestions(nil)
		assert.Len(t, got, CardCount)
		assert.Equal(t, "What is key point 1?", got[0])
	})

	t.Run("truncates to five", func(t *testing.T) {
		in := []string{"1", "2", "3", "4", "5", "6", "7"}
		assert.Equal(t, in[:5], PadQuestions(in))
	})
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, splitSentences(" a. . b c. "))
	assert.Empty(t, splitSentences("..."))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	long := strings.Repeat("ж", 200)
	assert.Equal(t, 120, len([]rune(truncateRunes(long, 120))))
}
