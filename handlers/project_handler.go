package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"trialcover-backend/models"
	"trialcover-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles HTTP requests for insurance projects
type ProjectHandler struct {
	projectService      *service.ProjectService
	underwritingService *service.UnderwritingService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService, underwritingService *service.UnderwritingService) *ProjectHandler {
	return &ProjectHandler{
		projectService:      projectService,
		underwritingService: underwritingService,
	}
}

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	UserID           string             `json:"user_id" binding:"required"`
	FolderID         *string            `json:"folder_id"`
	Intake           models.TrialIntake `json:"intake" binding:"required"`
	AutoFilledFields []string           `json:"auto_filled_fields"`
	FieldConfidence  map[string]int     `json:"field_confidence"`
}

// CreateProject handles POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
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

	var folderID *uuid.UUID
	if req.FolderID != nil {
		fid, err := uuid.Parse(*req.FolderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FOLDER_ID",
					"message": "Invalid folder_id format",
				},
			})
			return
		}
		folderID = &fid
	}

	serviceReq := service.CreateProjectRequest{
		UserID:           userID,
		FolderID:         folderID,
		Intake:           req.Intake,
		AutoFilledFields: req.AutoFilledFields,
		FieldConfidence:  models.FieldConfidence(req.FieldConfidence),
	}

	result, err := h.projectService.CreateProject(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrFolderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FOLDER_NOT_FOUND",
					"message": "Inquiry folder not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Project,
	})
}

// GetProject handles GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, userID, ok := projectAndUserID(c)
	if !ok {
		return
	}

	result, err := h.projectService.GetProject(c.Request.Context(), service.GetProjectRequest{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Project,
	})
}

// UpdateProjectRequest represents the request body for updating a project.
// fields carries only the intake fields the user edited.
type UpdateProjectRequest struct {
	UserID   string                 `json:"user_id" binding:"required"`
	FolderID *string                `json:"folder_id"`
	Fields   map[string]interface{} `json:"fields"`
}

// UpdateProject handles PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	var req UpdateProjectRequest
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

	var folderID *uuid.UUID
	if req.FolderID != nil {
		fid, err := uuid.Parse(*req.FolderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FOLDER_ID",
					"message": "Invalid folder_id format",
				},
			})
			return
		}
		folderID = &fid
	}

	result, err := h.projectService.UpdateProject(c.Request.Context(), service.UpdateProjectRequest{
		ID:       id,
		UserID:   userID,
		FolderID: folderID,
		Fields:   req.Fields,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Project,
	})
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userIDStr := c.Query("user_id")
	userID, err := uuid.Parse(userIDStr)
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

	var status *models.ProjectStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.ProjectStatus(statusStr)
		status = &s
	}

	var folderID *uuid.UUID
	if folderStr := c.Query("folder_id"); folderStr != "" {
		fid, err := uuid.Parse(folderStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FOLDER_ID",
					"message": "Invalid folder_id format",
				},
			})
			return
		}
		folderID = &fid
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.projectService.ListProjects(c.Request.Context(), service.ListProjectsRequest{
		UserID:   userID,
		Status:   status,
		FolderID: folderID,
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
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
		"data":    result.Projects,
	})
}

// GetStats handles GET /api/projects/stats
func (h *ProjectHandler) GetStats(c *gin.Context) {
	userIDStr := c.Query("user_id")
	userID, err := uuid.Parse(userIDStr)
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

	result, err := h.projectService.GetStats(c.Request.Context(), service.GetStatsRequest{UserID: userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STATS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Stats,
	})
}

// DeleteProject handles DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, userID, ok := projectAndUserID(c)
	if !ok {
		return
	}

	_, err := h.projectService.DeleteProject(c.Request.Context(), service.DeleteProjectRequest{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// QuoteRequest represents an underwriter's quote adjustment
type QuoteRequest struct {
	RiskFactor float64 `json:"risk_factor" binding:"required"`
}

// GenerateQuote handles POST /api/projects/:id/quote
func (h *ProjectHandler) GenerateQuote(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	var req QuoteRequest
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

	result, err := h.underwritingService.GenerateQuote(c.Request.Context(), service.GenerateQuoteRequest{
		ProjectID:  id,
		RiskFactor: req.RiskFactor,
	})
	if err != nil {
		respondUnderwritingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"project": result.Project,
			"quote":   result.Quote,
		},
	})
}

// ApproveProject handles POST /api/projects/:id/approve
func (h *ProjectHandler) ApproveProject(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	result, err := h.underwritingService.ApproveProject(c.Request.Context(), service.ApproveProjectRequest{ProjectID: id})
	if err != nil {
		respondUnderwritingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Project,
	})
}

// RejectProject handles POST /api/projects/:id/reject
func (h *ProjectHandler) RejectProject(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	result, err := h.underwritingService.RejectProject(c.Request.Context(), service.RejectProjectRequest{ProjectID: id})
	if err != nil {
		respondUnderwritingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Project,
	})
}

// projectAndUserID parses the path project ID and the user_id query parameter
func projectAndUserID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return uuid.Nil, uuid.Nil, false
	}

	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid or missing user_id",
			},
		})
		return uuid.Nil, uuid.Nil, false
	}

	return id, userID, true
}

// respondProjectError maps project service errors to HTTP responses
func respondProjectError(c *gin.Context, err error) {
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

// respondUnderwritingError maps underwriting errors to HTTP responses
func respondUnderwritingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Project not found",
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
				"message": "Project was modified by another request, reload and retry",
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
