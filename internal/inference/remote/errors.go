package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotConfigured = errors.New("remote inference api token not set")
	ErrEmptyOutput   = errors.New("remote inference returned no usable output")
)

// HTTPError is returned for non-2xx responses from the inference API.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}

// Temporary reports whether retrying the request may help.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func parseHTTPError(status int, raw []byte) error {
	body := strings.TrimSpace(string(raw))

	// The hosted API answers {"error": "..."}; some gateways nest it.
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && strings.TrimSpace(flat.Error) != "" {
		return &HTTPError{StatusCode: status, Message: strings.TrimSpace(flat.Error), Body: body}
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && strings.TrimSpace(nested.Error.Message) != "" {
		return &HTTPError{StatusCode: status, Message: strings.TrimSpace(nested.Error.Message), Body: body}
	}
	return &HTTPError{StatusCode: status, Body: body}
}
