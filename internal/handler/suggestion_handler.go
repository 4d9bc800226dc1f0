package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/whisper-api/internal/handler/helper"
	"github.com/yourusername/whisper-api/internal/service"
)

// SuggestionHandler serves generated conversation starters.
type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

// NewSuggestionHandler creates a new suggestion handler.
func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// Suggest returns three message prompts for the compose screen.
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	suggestions, err := h.suggestionService.SuggestMessages(c.Request.Context())
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusOK, "Suggestions generated", gin.H{
		"suggestions": suggestions,
	})
}
