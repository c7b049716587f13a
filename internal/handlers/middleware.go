package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"notecards/internal/service"
)

const (
	sessionCookie = "session"

	ctxUserID    = "userId"
	ctxSessionID = "sessionId"
)

var errBadAuthHeader = errors.New("invalid Authorization header format")

// sessionTokens returns the candidate tokens in the order they are tried:
// the session cookie first, then a bearer token. A malformed Authorization
// header is reported alongside whatever cookie token was found.
func sessionTokens(c *gin.Context) ([]string, error) {
	var tokens []string
	if v, err := c.Cookie(sessionCookie); err == nil && v != "" {
		tokens = append(tokens, v)
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return tokens, nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return tokens, errBadAuthHeader
	}
	if bearer := strings.TrimSpace(parts[1]); len(tokens) == 0 || tokens[0] != bearer {
		tokens = append(tokens, bearer)
	}
	return tokens, nil
}

// sessionRejected reports whether err means the token itself is unusable,
// as opposed to a failure looking it up.
func sessionRejected(err error) bool {
	return errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrSessionNotFound)
}

func (h *Handler) sessionMiddleware(c *gin.Context) {
	tokens, headerErr := sessionTokens(c)
	if len(tokens) == 0 {
		msg := "not signed in"
		if headerErr != nil {
			msg = headerErr.Error()
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	// a stale cookie must not shadow a valid bearer token
	for _, token := range tokens {
		id, err := h.services.ParseToken(c.Request.Context(), token)
		if err == nil {
			c.Set(ctxUserID, id.UserID)
			c.Set(ctxSessionID, id.SessionID)
			c.Next()
			return
		}
		if !sessionRejected(err) {
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to verify session", "session_lookup_failed", err)
			c.Abort()
			return
		}
		if h.log != nil {
			h.log.Debugw("session_rejected", "err", err)
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
}

// userID returns the caller set by sessionMiddleware.
func userID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.cfg.SessionTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
}
