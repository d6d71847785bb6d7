package handlers

import (
	"net/http"

	"trialcover-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileHandler handles HTTP requests for sponsor profiles
type ProfileHandler struct {
	profileRepo *repository.ProfileRepository
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileRepo *repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
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

	profile, err := h.profileRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateProfileRequest represents the request body for a profile update
type UpdateProfileRequest struct {
	CompanyName *string `json:"company_name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
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

	var req UpdateProfileRequest
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

	profile, err := h.profileRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	if req.CompanyName != nil {
		profile.CompanyName = req.CompanyName
	}
	if req.ContactName != nil {
		profile.ContactName = req.ContactName
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}

	if err := h.profileRepo.Update(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}
