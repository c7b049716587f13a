package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notecards/internal/models"
	"notecards/internal/service"
)

func getWithAuth(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header = authHeader("tok")
	h.ServeHTTP(w, req)
	return w
}

func TestGetGenerations_ParsesFilters(t *testing.T) {
	gl := &mockGenerationLog{resp: []models.GenerationEvent{{EventID: "e1", Strategy: "LOCAL", Outcome: models.OutcomeSaved}}}
	r := newTestRouter(&service.Service{Authorization: signedIn(6), GenerationLog: gl})

	w := getWithAuth(t, r, "/api/generations?from=2025-08-01&to=2025-08-31&strategy=local")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Count  int                      `json:"count"`
		Events []models.GenerationEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || out.Events[0].EventID != "e1" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	if gl.lastUserID != 6 || gl.lastFilter.Strategy != "LOCAL" {
		t.Fatalf("unexpected filter %+v for user %d", gl.lastFilter, gl.lastUserID)
	}
	wantFrom := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 8, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !gl.lastFilter.From.Equal(wantFrom) || !gl.lastFilter.To.Equal(wantTo) {
		t.Fatalf("range: got %v..%v", gl.lastFilter.From, gl.lastFilter.To)
	}
}

func TestGetGenerations_Errors(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		svcErr   error
		wantCode int
	}{
		{"bad from", "?from=yesterday", nil, http.StatusBadRequest},
		{"bad to", "?to=2025-13-45", nil, http.StatusBadRequest},
		{"inverted range", "?from=2025-02-01&to=2025-01-01", service.ErrInvalidTimeRange, http.StatusBadRequest},
		{"unknown strategy", "?strategy=magic", service.ErrInvalidStrategy, http.StatusBadRequest},
		{"storage failure", "", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gl := &mockGenerationLog{err: tc.svcErr}
			r := newTestRouter(&service.Service{Authorization: signedIn(1), GenerationLog: gl})
			w := getWithAuth(t, r, "/api/generations"+tc.query)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestParseQueryTime(t *testing.T) {
	for _, s := range []string{"2025-08-27T15:04:05Z", "2025-08-27T18:04:05+03:00", "2025-08-27 15:04:05"} {
		got, err := parseQueryTime(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if !got.Equal(time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)) {
			t.Fatalf("%q parsed to %v", s, got)
		}
	}
	if _, err := parseQueryTime("27/08/2025"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}
