package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"notecards/internal/generator"
	"notecards/internal/models"
)

const (
	maxNotesBodyBytes = 1 << 20 // 1 MB

	errNoContent     = "no flashcards could be generated from these notes"
	errGenerate      = "failed to generate flashcards"
	errListCards     = "failed to load flashcards"
	errNotesRequired = "notes must not be empty"
)

// GenerateRequest is the generation payload.
type GenerateRequest struct {
	Notes string `json:"notes" example:"Paris is the capital of France. It hosts the Louvre."`
}

// @Summary      Generate flashcards
// @Description  Derives exactly five question/answer pairs from the notes and saves them for the signed-in user.
// @Tags         flashcards
// @Accept       json
// @Produce      json
// @Param        body  body      GenerateRequest  true  "Notes"
// @Success      201   {array}   models.Flashcard
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/generate [post]
// @Security     BearerAuth
func (h *Handler) generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxNotesBodyBytes)

	var input GenerateRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	uid := userID(c)
	cards, err := h.services.Flashcards.Generate(c.Request.Context(), uid, input.Notes)
	switch {
	case err == nil:
	case errors.Is(err, generator.ErrEmptyNotes):
		h.logAndJSONError(c, http.StatusBadRequest, errNotesRequired, "generate_empty_notes", err, "user_id", uid)
		return
	case errors.Is(err, generator.ErrNoContent):
		h.logAndJSONError(c, http.StatusUnprocessableEntity, errNoContent, "generate_no_content", err, "user_id", uid)
		return
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errGenerate, "generate_failed", err, "user_id", uid)
		return
	}

	c.JSON(http.StatusCreated, cards)
}

// @Summary      List flashcards
// @Description  Returns the signed-in user's flashcards, newest first.
// @Tags         flashcards
// @Produce      json
// @Success      200  {array}   models.Flashcard
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/flashcards [get]
// @Security     BearerAuth
func (h *Handler) listFlashcards(c *gin.Context) {
	uid := userID(c)
	cards, err := h.services.Flashcards.List(c.Request.Context(), uid)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListCards, "flashcards_list_failed", err, "user_id", uid)
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	c.JSON(http.StatusOK, cards)
}
