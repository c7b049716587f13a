package remote

import (
	"encoding/json"
	"strings"
)

type generateRequest struct {
	Inputs  string         `json:"inputs"`
	Options requestOptions `json:"options"`
}

type answerRequest struct {
	Inputs  answerInputs   `json:"inputs"`
	Options requestOptions `json:"options"`
}

type answerInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type generatedText struct {
	GeneratedText string `json:"generated_text"`
}

type answerResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

// decodeGeneratedText accepts both the list form [{"generated_text": ...}]
// and a single object.
func decodeGeneratedText(raw []byte) (string, error) {
	var list []generatedText
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, g := range list {
			if s := strings.TrimSpace(g.GeneratedText); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n"), nil
	}
	var one generatedText
	if err := json.Unmarshal(raw, &one); err != nil {
		return "", err
	}
	return strings.TrimSpace(one.GeneratedText), nil
}

// decodeAnswer accepts an object or a list of ranked answers (best first).
func decodeAnswer(raw []byte) (string, error) {
	var one answerResponse
	if err := json.Unmarshal(raw, &one); err == nil {
		return strings.TrimSpace(one.Answer), nil
	}
	var list []answerResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", nil
	}
	return strings.TrimSpace(list[0].Answer), nil
}
