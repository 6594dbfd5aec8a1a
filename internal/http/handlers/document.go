package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/http/response"
	"github.com/holtzen/flatdocs-backend/internal/platform/ctxutil"
	"github.com/holtzen/flatdocs-backend/internal/services"
)

type DocumentHandler struct {
	documentService services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthenticated", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// Get resolves document versions by id and/or type. At least one of the two
// query params must be present.
func (dh *DocumentHandler) Get(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var id *uuid.UUID
	if raw := c.Query("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
			return
		}
		id = &parsed
	}
	var docType *types.DocumentType
	if raw := c.Query("type"); raw != "" {
		dt := types.DocumentType(raw)
		if !dt.Valid() {
			response.RespondError(c, http.StatusBadRequest, "invalid_input", nil)
			return
		}
		docType = &dt
	}

	docs, err := dh.documentService.GetDocuments(c.Request.Context(), caller, id, docType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}

func (dh *DocumentHandler) GetByUser(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var docType *types.DocumentType
	if raw := c.Query("type"); raw != "" {
		dt := types.DocumentType(raw)
		if !dt.Valid() {
			response.RespondError(c, http.StatusBadRequest, "invalid_input", nil)
			return
		}
		docType = &dt
	}
	docs, err := dh.documentService.GetByUser(c.Request.Context(), caller, docType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}

// CreateVersion appends a new version for the document id in the query
// string. The id is client-chosen so the first version and later versions go
// through the same path.
func (dh *DocumentHandler) CreateVersion(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	var req struct {
		Title      string          `json:"title"`
		Content    string          `json:"content"`
		Kind       string          `json:"kind"`
		Type       string          `json:"type"`
		Properties json.RawMessage `json:"properties"`
		Visible    *bool           `json:"visible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	in := services.CreateVersionInput{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
		Kind:    types.DocumentKind(req.Kind),
		Type:    types.DocumentType(req.Type),
		Visible: true,
	}
	if len(req.Properties) > 0 {
		in.Properties = datatypes.JSON(req.Properties)
	}
	if req.Visible != nil {
		in.Visible = *req.Visible
	}

	doc, err := dh.documentService.CreateVersion(c.Request.Context(), caller, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// Truncate deletes every version of the document newer than the timestamp in
// the request body and reports how many were removed.
func (dh *DocumentHandler) Truncate(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	var req struct {
		Timestamp time.Time `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Timestamp.IsZero() {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	deleted, err := dh.documentService.TruncateAfter(c.Request.Context(), caller, id, req.Timestamp)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}

func (dh *DocumentHandler) ListApartments(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	docs, err := dh.documentService.ListApartments(c.Request.Context(), caller)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}

// ListPublic serves the anonymous read-only share page for one user's
// visible documents.
func (dh *DocumentHandler) ListPublic(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	docs, err := dh.documentService.ListPublicByUser(c.Request.Context(), ownerID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}
