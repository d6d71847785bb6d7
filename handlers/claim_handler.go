package handlers

import (
	"errors"
	"net/http"

	"trialcover-backend/models"
	"trialcover-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClaimHandler handles HTTP requests for claims
type ClaimHandler struct {
	claimService *service.ClaimService
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(claimService *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// SubmitClaimRequest represents the request body for filing a claim
type SubmitClaimRequest struct {
	UserID                 string  `json:"user_id" binding:"required"`
	ProjectID              string  `json:"project_id" binding:"required"`
	SubjectName            string  `json:"subject_name" binding:"required"`
	InvoiceAmount          int64   `json:"invoice_amount" binding:"required"`
	MedicalInsuranceAmount int64   `json:"medical_insurance_amount"`
	InvoiceURL             *string `json:"invoice_url"`
	MedicalRecordURL       *string `json:"medical_record_url"`
}

// SubmitClaim handles POST /api/claims
func (h *ClaimHandler) SubmitClaim(c *gin.Context) {
	var req SubmitClaimRequest
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

	projectID, err := uuid.Parse(req.ProjectID)
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

	result, err := h.claimService.SubmitClaim(c.Request.Context(), service.SubmitClaimRequest{
		ProjectID:              projectID,
		UserID:                 userID,
		SubjectName:            req.SubjectName,
		InvoiceAmount:          req.InvoiceAmount,
		MedicalInsuranceAmount: req.MedicalInsuranceAmount,
		InvoiceURL:             req.InvoiceURL,
		MedicalRecordURL:       req.MedicalRecordURL,
	})
	if err != nil {
		respondClaimError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Claim,
	})
}

// ListClaims handles GET /api/claims
func (h *ClaimHandler) ListClaims(c *gin.Context) {
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

	var status *models.ClaimStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.ClaimStatus(statusStr)
		status = &s
	}

	result, err := h.claimService.ListClaims(c.Request.Context(), service.ListClaimsRequest{
		UserID:    userID,
		ProjectID: projectID,
		Status:    status,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Claims,
	})
}

// AdjudicateClaimRequest represents an adjudication decision
type AdjudicateClaimRequest struct {
	ApprovedAmount *int64 `json:"approved_amount"`
}

// ApproveClaim handles POST /api/claims/:id/approve
func (h *ClaimHandler) ApproveClaim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid claim ID format",
			},
		})
		return
	}

	var req AdjudicateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Body is optional for approval
		req.ApprovedAmount = nil
	}

	result, err := h.claimService.AdjudicateClaim(c.Request.Context(), service.AdjudicateClaimRequest{
		ClaimID:        id,
		Approve:        true,
		ApprovedAmount: req.ApprovedAmount,
	})
	if err != nil {
		respondClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Claim,
	})
}

// RejectClaim handles POST /api/claims/:id/reject
func (h *ClaimHandler) RejectClaim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid claim ID format",
			},
		})
		return
	}

	result, err := h.claimService.AdjudicateClaim(c.Request.Context(), service.AdjudicateClaimRequest{
		ClaimID: id,
		Approve: false,
	})
	if err != nil {
		respondClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Claim,
	})
}

// MarkClaimPaid handles POST /api/claims/:id/pay
func (h *ClaimHandler) MarkClaimPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid claim ID format",
			},
		})
		return
	}

	result, err := h.claimService.MarkClaimPaid(c.Request.Context(), service.MarkClaimPaidRequest{ClaimID: id})
	if err != nil {
		respondClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Claim,
	})
}

// respondClaimError maps claim service errors to HTTP responses
func respondClaimError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Claim not found",
			},
		})
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
	case errors.Is(err, service.ErrProjectNotApproved):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROJECT_NOT_APPROVED",
				"message": "Claims can only be filed against approved projects",
			},
		})
	case errors.Is(err, service.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE_TRANSITION",
				"message": err.Error(),
			},
		})
	case errors.Is(err, service.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONCURRENT_MODIFICATION",
				"message": "Claim was modified by another request, reload and retry",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_FAILED",
				"message": err.Error(),
			},
		})
	}
}
