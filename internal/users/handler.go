package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/middleware"
	"github.com/tasafe/tasafe-api/pkg/models"
	"github.com/tasafe/tasafe-api/pkg/pagination"
	"github.com/tasafe/tasafe-api/pkg/validation"
)

// Handler handles HTTP requests for users
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetProfile returns the authenticated user's profile
// GET /api/v1/users/profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get profile")
		return
	}

	common.SuccessResponse(c, user)
}

// UpdateProfile edits the authenticated user's profile
// PUT /api/v1/users/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validation.NewValidationError(vErrs)})
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update profile")
		return
	}

	common.SuccessResponse(c, user)
}

// List returns the member directory, staff only
// GET /api/v1/users?limit=20&offset=0
func (h *Handler) List(c *gin.Context) {
	params := pagination.ParseParams(c)

	members, total, err := h.service.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list users")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, total)
	common.SuccessResponseWithMeta(c, gin.H{"users": members}, meta)
}

// GetByID returns the public projection of a user
// GET /api/v1/users/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid user id")
		return
	}

	summary, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get user")
		return
	}

	common.SuccessResponse(c, summary)
}

// RegisterRoutes registers user routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	group := r.Group("/api/v1/users")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.GET("", middleware.RequireRole(models.RoleStaff), h.List)
		group.GET("/profile", h.GetProfile)
		group.PUT("/profile", h.UpdateProfile)
		group.GET("/:id", h.GetByID)
	}
}
