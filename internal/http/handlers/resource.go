package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/holtzen/flatdocs-backend/internal/http/response"
	"github.com/holtzen/flatdocs-backend/internal/services"
)

type ResourceHandler struct {
	resourceService services.ResourceService
}

func NewResourceHandler(resourceService services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// Ingest stores raw content together with its chunk embeddings in one shot.
func (rh *ResourceHandler) Ingest(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	resource, err := rh.resourceService.Ingest(c.Request.Context(), req.Content)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resource": resource})
}

func (rh *ResourceHandler) Get(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	resource, err := rh.resourceService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resource": resource})
}
