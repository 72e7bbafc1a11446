package rides

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/middleware"
	"github.com/tasafe/tasafe-api/pkg/validation"
)

// Handler handles HTTP requests for rides
type Handler struct {
	service *Service
}

// NewHandler creates a new ride handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create posts a new ride offered by the authenticated user
// POST /api/v1/rides
func (h *Handler) Create(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validation.NewValidationError(vErrs)})
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ride, err := h.service.Create(c.Request.Context(), driverID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to create ride")
		return
	}

	common.CreatedResponse(c, ride)
}

// List returns upcoming active rides
// GET /api/v1/rides?type=CAR&destination=campus&date=2025-03-10
func (h *Handler) List(c *gin.Context) {
	filters := ListFilters{}
	if rideType := c.Query("type"); rideType != "" {
		filters.Type = &rideType
	}
	if destination := c.Query("destination"); destination != "" {
		filters.Destination = &destination
	}
	if dateStr := c.Query("date"); dateStr != "" {
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		filters.Date = &t
	}

	rides, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list rides")
		return
	}

	common.SuccessResponse(c, gin.H{"rides": rides})
}

// GetByID returns a single ride with its driver and request list
// GET /api/v1/rides/:id
func (h *Handler) GetByID(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid ride id")
		return
	}

	ride, err := h.service.GetByID(c.Request.Context(), rideID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get ride")
		return
	}

	common.SuccessResponse(c, ride)
}

// Update edits a ride owned by the authenticated user
// PUT /api/v1/rides/:id
func (h *Handler) Update(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid ride id")
		return
	}

	var req UpdateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validation.NewValidationError(vErrs)})
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ride, err := h.service.Update(c.Request.Context(), rideID, userID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update ride")
		return
	}

	common.SuccessResponse(c, ride)
}

// Delete removes a ride owned by the authenticated user
// DELETE /api/v1/rides/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid ride id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), rideID, userID); err != nil {
		common.HandleServiceError(c, err, "failed to delete ride")
		return
	}

	common.SuccessMessageResponse(c, "ride deleted", nil)
}

// ListMine returns the rides offered by the authenticated user
// GET /api/v1/rides/my/offered
func (h *Handler) ListMine(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	rides, err := h.service.ListByDriver(c.Request.Context(), driverID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list rides")
		return
	}

	common.SuccessResponse(c, gin.H{"rides": rides})
}

// RegisterRoutes registers ride routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	group := r.Group("/api/v1/rides")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/my/offered", h.ListMine)
		group.GET("/:id", h.GetByID)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}
