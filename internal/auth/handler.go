package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/models"
	"github.com/tasafe/tasafe-api/pkg/validation"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register creates a new account
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validation.NewValidationError(vErrs)})
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to register")
		return
	}

	common.CreatedMessageResponse(c, "account created", resp)
}

// Login authenticates an account
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to login")
		return
	}

	common.SuccessResponse(c, resp)
}

// RegisterRoutes registers auth routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	group := r.Group("/api/v1/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
	}
}
