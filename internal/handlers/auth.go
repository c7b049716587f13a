package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"notecards/internal/models"
	"notecards/internal/repository"
	"notecards/internal/service"
)

const (
	errInvalidBodyPref = "invalid body: "

	statusSignedOut = "signed_out"
	statusDeleted   = "deleted"
)

// SignUpRequest is the sign-up payload.
type SignUpRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// SignInRequest is the sign-in payload.
type SignInRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// SignInResponse carries the signed-in user and the session token that is
// also set as the session cookie.
type SignInResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignUpRequest  true  "New account"
// @Success      201   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Email, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"id": id})
	case errors.Is(err, repository.ErrDuplicateUser):
		h.logAndJSONError(c, http.StatusConflict, "username or email already registered", "auth_sign_up_conflict", err, "username", input.Username)
	case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrPasswordTooLong):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "auth_sign_up_invalid", err)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to create account", "auth_sign_up_failed", err, "username", input.Username)
	}
}

// @Summary      Sign in
// @Description  Opens a session. The token is set as an HttpOnly "session" cookie and returned in the body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignInRequest  true  "Credentials"
// @Success      200   {object}  SignInResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/signin [post]
func (h *Handler) signIn(c *gin.Context) {
	var input SignInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, user, err := h.services.SignIn(c.Request.Context(), input.Email, input.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials):
		h.logAndJSONError(c, http.StatusUnauthorized, "invalid credentials", "auth_sign_in_failed", err, "email", input.Email)
		return
	case errors.Is(err, service.ErrMissingFields):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "auth_sign_in_invalid", err)
		return
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to sign in", "auth_sign_in_error", err, "email", input.Email)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, SignInResponse{User: user, Token: token})
}

// @Summary      Sign out
// @Description  Ends the current session if there is one and clears the cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/signout [post]
func (h *Handler) signOut(c *gin.Context) {
	tokens, _ := sessionTokens(c)
	for _, token := range tokens {
		if err := h.services.SignOut(c.Request.Context(), token); err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to sign out", "auth_sign_out_failed", err)
			return
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": statusSignedOut})
}

// @Summary      Session status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "authenticated, user"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/status [get]
// @Security     BearerAuth
func (h *Handler) status(c *gin.Context) {
	user, err := h.services.Status(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.logAndJSONError(c, http.StatusUnauthorized, "not signed in", "auth_status_user_gone", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load user", "auth_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}

// @Summary      Delete account
// @Description  Removes the signed-in user together with their flashcards, sessions and generation history.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/account [delete]
// @Security     BearerAuth
func (h *Handler) deleteAccount(c *gin.Context) {
	uid := userID(c)
	if err := h.services.DeleteAccount(c.Request.Context(), uid); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.logAndJSONError(c, http.StatusNotFound, "account not found", "auth_delete_missing", err, "user_id", uid)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to delete account", "auth_delete_failed", err, "user_id", uid)
		return
	}
	if h.log != nil {
		h.log.Infow("account_deleted", "user_id", uid)
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}
