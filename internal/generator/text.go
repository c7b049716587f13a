package generator

import (
	"fmt"
	"strings"
	"unicode"
)

// separator emitted by end-to-end question generation models between questions.
const qgSeparator = "<sep>"

// SplitQuestions breaks raw model output into trimmed, non-empty fragments
// on sentence boundaries ('.', '?' or '!' followed by whitespace or end of
// text) and on line breaks.
func SplitQuestions(raw string) []string {
	raw = strings.ReplaceAll(raw, qgSeparator, "\n")
	runes := []rune(raw)

	var (
		out   []string
		start int
	)
	flush := func(end int) {
		if frag := strings.TrimSpace(string(runes[start:end])); frag != "" {
			out = append(out, frag)
		}
		start = end
	}
	for i, r := range runes {
		switch {
		case r == '\n':
			flush(i)
		case r == '.' || r == '?' || r == '!':
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				flush(i + 1)
			}
		}
	}
	flush(len(runes))
	return out
}

// PadQuestions keeps at most CardCount questions and fills missing slots with
// "What is key point N?" where N is the 1-based slot number.
func PadQuestions(questions []string) []string {
	if len(questions) > CardCount {
		questions = questions[:CardCount]
	}
	out := make([]string, 0, CardCount)
	out = append(out, questions...)
	for i := len(out); i < CardCount; i++ {
		out = append(out, fmt.Sprintf("What is key point %d?", i+1))
	}
	return out
}

// splitSentences splits notes on '.' and drops blank pieces.
func splitSentences(notes string) []string {
	parts := strings.Split(notes, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
