package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/holtzen/flatdocs-backend/internal/http/response"
	"github.com/holtzen/flatdocs-backend/internal/services"
)

type SuggestionHandler struct {
	suggestionService services.SuggestionService
}

func NewSuggestionHandler(suggestionService services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

func (sh *SuggestionHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		DocumentID        string    `json:"document_id"`
		DocumentCreatedAt time.Time `json:"document_created_at"`
		OriginalText      string    `json:"original_text"`
		SuggestedText     string    `json:"suggested_text"`
		Description       string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if req.DocumentCreatedAt.IsZero() {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", nil)
		return
	}

	suggestion, err := sh.suggestionService.Create(c.Request.Context(), caller, services.CreateSuggestionInput{
		DocumentID:        documentID,
		DocumentCreatedAt: req.DocumentCreatedAt,
		OriginalText:      req.OriginalText,
		SuggestedText:     req.SuggestedText,
		Description:       req.Description,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggestion": suggestion})
}

// ListForVersion returns the suggestions anchored to one exact document
// version; each carries anchor_valid so callers can spot orphans.
func (sh *SuggestionHandler) ListForVersion(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	documentID, err := uuid.Parse(c.Query("document_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	documentCreatedAt, err := time.Parse(time.RFC3339Nano, c.Query("document_created_at"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	suggestions, err := sh.suggestionService.ListForVersion(c.Request.Context(), caller, documentID, documentCreatedAt)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": suggestions})
}

func (sh *SuggestionHandler) Resolve(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	suggestion, err := sh.suggestionService.Resolve(c.Request.Context(), caller, id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggestion": suggestion})
}
