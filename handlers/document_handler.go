package handlers

import (
	"errors"
	"net/http"

	"trialcover-backend/service"

	"github.com/gin-gonic/gin"
)

// DocumentHandler handles HTTP requests for printable documents
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// RenderInquiry handles GET /api/projects/:id/documents/inquiry
func (h *DocumentHandler) RenderInquiry(c *gin.Context) {
	id, userID, ok := projectAndUserID(c)
	if !ok {
		return
	}

	result, err := h.documentService.RenderInquiry(c.Request.Context(), service.RenderInquiryRequest{
		ProjectID: id,
		UserID:    userID,
	})
	if err != nil {
		respondDocumentError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", result.HTML)
}

// RenderApplication handles GET /api/projects/:id/documents/application
func (h *DocumentHandler) RenderApplication(c *gin.Context) {
	id, userID, ok := projectAndUserID(c)
	if !ok {
		return
	}

	result, err := h.documentService.RenderApplication(c.Request.Context(), service.RenderApplicationRequest{
		ProjectID: id,
		UserID:    userID,
	})
	if err != nil {
		respondDocumentError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", result.HTML)
}

// respondDocumentError maps document service errors to HTTP responses
func respondDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Project not found",
			},
		})
	case errors.Is(err, service.ErrNotProjectOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Project does not belong to user",
			},
		})
	case errors.Is(err, service.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_CONFIRMED_PREMIUM",
				"message": "Application document requires a quoted project",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RENDER_FAILED",
				"message": err.Error(),
			},
		})
	}
}
