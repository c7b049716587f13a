package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"notecards/internal/models"
	"notecards/internal/repository"
)

const DefaultSessionTTL = 24 * time.Hour

// Domain errors for auth flows.
var (
	ErrMissingFields      = errors.New("username, email and password are required")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthConfig carries the signing secret and session lifetime.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

// AuthService handles sign-up, sign-in and server-side sessions.
type AuthService struct {
	users    repository.Authorization
	sessions repository.SessionRepo
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// Identity is the caller resolved from a valid session token.
type Identity struct {
	UserID    int
	SessionID string
}

func NewAuthService(users repository.Authorization, sessions repository.SessionRepo, cfg AuthConfig) *AuthService {
	secret := cfg.JWTSecret
	if secret == "" {
		// Tokens from a random secret do not survive a restart.
		secret = uuid.NewString()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SignUp hashes password and creates a new user.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (int, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return 0, ErrMissingFields
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}
	return s.users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
}

// Claims defines JWT claims. The registered ID (jti) is the session id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignIn verifies credentials, opens a session and returns its token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", models.User{}, ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, err
	}
	if u == nil {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	now := s.now()
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", models.User{}, err
	}

	token, err := s.issueToken(sess)
	if err != nil {
		return "", models.User{}, err
	}
	return token, *u, nil
}

// SignOut ends the session behind token. Unknown or malformed tokens are
// ignored so signing out is always safe to repeat.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseClaims(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// ParseToken validates the JWT and that its session is still open.
func (s *AuthService) ParseToken(ctx context.Context, token string) (Identity, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return Identity{}, err
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return Identity{}, err
	}
	if sess == nil || sess.UserID != claims.UserID || sess.Expired(s.now()) {
		return Identity{}, ErrSessionNotFound
	}
	return Identity{UserID: sess.UserID, SessionID: sess.ID}, nil
}

// Status returns the signed-in user.
func (s *AuthService) Status(ctx context.Context, userID int) (models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return *u, nil
}

// DeleteAccount removes the user together with all of their data.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *AuthService) parseClaims(accessToken string) (*Claims, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issueToken(sess models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		},
		UserID: sess.UserID,
	})
	return token.SignedString(s.secret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
