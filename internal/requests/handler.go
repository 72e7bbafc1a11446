package requests

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/middleware"
)

// Handler handles HTTP requests for ride join requests
type Handler struct {
	service *Service
}

// NewHandler creates a new ride request handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create asks to join a ride
// POST /api/v1/requests
func (h *Handler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to create request")
		return
	}

	common.CreatedResponse(c, request)
}

// GetMine returns the authenticated user's requests
// GET /api/v1/requests/my
func (h *Handler) GetMine(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	requests, err := h.service.GetMyRequests(c.Request.Context(), userID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list requests")
		return
	}

	common.SuccessResponse(c, gin.H{"requests": requests})
}

// Accept approves a pending request on the driver's ride
// PUT /api/v1/requests/:id/accept
func (h *Handler) Accept(c *gin.Context) {
	h.decide(c, h.service.Accept)
}

// Reject declines a pending request on the driver's ride
// PUT /api/v1/requests/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *Handler) decide(c *gin.Context, fn func(ctx context.Context, requestID, actorID uuid.UUID) (*RideRequest, error)) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := fn(c.Request.Context(), requestID, userID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to process request")
		return
	}

	common.SuccessResponse(c, request)
}

// Cancel withdraws the authenticated user's request
// DELETE /api/v1/requests/:id
func (h *Handler) Cancel(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), requestID, userID); err != nil {
		common.HandleServiceError(c, err, "failed to cancel request")
		return
	}

	common.SuccessMessageResponse(c, "request cancelled", nil)
}

// RegisterRoutes registers ride request routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	group := r.Group("/api/v1/requests")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.POST("", h.Create)
		group.GET("/my", h.GetMine)
		group.PUT("/:id/accept", h.Accept)
		group.PUT("/:id/reject", h.Reject)
		group.DELETE("/:id", h.Cancel)
	}
}
