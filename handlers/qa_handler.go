package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"trialcover-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QAHandler handles HTTP requests for insurance Q&A
type QAHandler struct {
	qaService *service.QAService
}

// NewQAHandler creates a new Q&A handler
func NewQAHandler(qaService *service.QAService) *QAHandler {
	return &QAHandler{qaService: qaService}
}

// AskRequest represents the request body for a question
type AskRequest struct {
	UserID    string  `json:"user_id" binding:"required"`
	ProjectID *string `json:"project_id"`
	Question  string  `json:"question" binding:"required"`
}

// Ask handles POST /api/qa
func (h *QAHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	var projectID *uuid.UUID
	if req.ProjectID != nil {
		pid, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PROJECT_ID",
					"message": "Invalid project_id format",
				},
			})
			return
		}
		projectID = &pid
	}

	result, err := h.qaService.Ask(c.Request.Context(), service.AskRequest{
		UserID:    userID,
		ProjectID: projectID,
		Question:  req.Question,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMPTY_QUESTION",
					"message": "Question is empty",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QA_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"answer": result.Answer,
		},
	})
}

// GetHistory handles GET /api/qa/history
func (h *QAHandler) GetHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid or missing user_id",
			},
		})
		return
	}

	var projectID *uuid.UUID
	if projectStr := c.Query("project_id"); projectStr != "" {
		pid, err := uuid.Parse(projectStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PROJECT_ID",
					"message": "Invalid project_id format",
				},
			})
			return
		}
		projectID = &pid
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.qaService.GetHistory(c.Request.Context(), service.GetHistoryRequest{
		UserID:    userID,
		ProjectID: projectID,
		Limit:     limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HISTORY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Messages,
	})
}
