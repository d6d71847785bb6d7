package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"trialcover-backend/models"
	"trialcover-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles HTTP requests for protocol analysis
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeRequest represents the request body for starting an analysis
type AnalyzeRequest struct {
	UserID       string             `json:"user_id" binding:"required"`
	ProtocolText string             `json:"protocol_text" binding:"required"`
	Previous     models.TrialIntake `json:"previous"`
}

// Analyze handles POST /api/intakes/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
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

	serviceReq := service.AnalyzeProtocolRequest{
		UserID:       userID,
		ProtocolText: req.ProtocolText,
		Previous:     req.Previous,
	}

	// Create job (synchronous, fast)
	result, err := h.analysisService.AnalyzeProtocol(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrEmptyProtocol) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMPTY_PROTOCOL",
					"message": "Protocol text is empty",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for actual processing
	// Use background context (not request context) to avoid cancellation
	protocolText := req.ProtocolText
	previous := req.Previous
	go func() {
		bgCtx := context.Background()
		if err := h.analysisService.ProcessAnalysis(bgCtx, result.JobID, protocolText, previous); err != nil {
			log.Printf("Analysis job %s failed: %v", result.JobID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Analysis job created. Poll /api/analysis-jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/analysis-jobs/:id
func (h *AnalysisHandler) GetJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.analysisService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Analysis job not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}
