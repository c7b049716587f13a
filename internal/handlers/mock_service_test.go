package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"notecards/internal/models"
	"notecards/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID     int
	signUpErr    error
	signInToken  string
	signInUser   models.User
	signInErr    error
	signOutErr   error
	identity     service.Identity
	parseErr     error
	statusUser   models.User
	statusErr    error
	deleteErr    error
	deleteCalled int

	lastSignUpUsername string
	lastSignUpEmail    string
	lastSignInEmail    string
	lastSignOutToken   string
	lastParseToken     string
	parsedTokens       []string
	rejectTokens       map[string]error
	lastUserID         int
}

func (m *mockAuth) SignUp(ctx context.Context, username, email, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpEmail = email
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	m.lastSignInEmail = email
	return m.signInToken, m.signInUser, m.signInErr
}
func (m *mockAuth) SignOut(ctx context.Context, token string) error {
	m.lastSignOutToken = token
	return m.signOutErr
}
func (m *mockAuth) ParseToken(ctx context.Context, token string) (service.Identity, error) {
	m.lastParseToken = token
	m.parsedTokens = append(m.parsedTokens, token)
	if err, ok := m.rejectTokens[token]; ok {
		return service.Identity{}, err
	}
	return m.identity, m.parseErr
}
func (m *mockAuth) Status(ctx context.Context, userID int) (models.User, error) {
	m.lastUserID = userID
	return m.statusUser, m.statusErr
}
func (m *mockAuth) DeleteAccount(ctx context.Context, userID int) error {
	m.lastUserID = userID
	m.deleteCalled++
	return m.deleteErr
}

type mockFlashcards struct {
	generated []models.Flashcard
	genErr    error
	list      []models.Flashcard
	listErr   error

	genCalls   int
	lastUserID int
	lastNotes  string
}

func (m *mockFlashcards) Generate(ctx context.Context, userID int, notes string) ([]models.Flashcard, error) {
	m.genCalls++
	m.lastUserID = userID
	m.lastNotes = notes
	return m.generated, m.genErr
}
func (m *mockFlashcards) List(ctx context.Context, userID int) ([]models.Flashcard, error) {
	m.lastUserID = userID
	return m.list, m.listErr
}

type mockGenerationLog struct {
	resp       []models.GenerationEvent
	err        error
	lastUserID int
	lastFilter service.HistoryFilter
}

func (m *mockGenerationLog) History(ctx context.Context, userID int, f service.HistoryFilter) ([]models.GenerationEvent, error) {
	m.lastUserID = userID
	m.lastFilter = f
	return m.resp, m.err
}

type mockCapabilities struct {
	report service.CapabilityReport
}

func (m *mockCapabilities) Describe() service.CapabilityReport { return m.report }

// ---- Shared Test Helpers ----

// signedIn returns an auth mock that accepts any token as user uid.
func signedIn(uid int) *mockAuth {
	return &mockAuth{identity: service.Identity{UserID: uid, SessionID: "sid"}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Config{})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
