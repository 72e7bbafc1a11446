package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/middleware"
	"github.com/tasafe/tasafe-api/pkg/pagination"
)

// Handler handles HTTP requests for notifications
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns the authenticated user's notifications
// GET /api/v1/notifications?limit=20&offset=0
func (h *Handler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)

	notifications, total, err := h.service.List(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, total)
	common.SuccessResponseWithMeta(c, gin.H{"notifications": notifications}, meta)
}

// UnreadCount returns the authenticated user's unread notification count
// GET /api/v1/notifications/unread-count
func (h *Handler) UnreadCount(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to count notifications")
		return
	}

	common.SuccessResponse(c, gin.H{"count": count})
}

// MarkRead flags a notification as read
// PUT /api/v1/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		common.HandleServiceError(c, err, "failed to mark notification read")
		return
	}

	common.SuccessMessageResponse(c, "notification marked as read", nil)
}

// RegisterRoutes registers notification routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	group := r.Group("/api/v1/notifications")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.GET("", h.List)
		group.GET("/unread-count", h.UnreadCount)
		group.PUT("/:id/read", h.MarkRead)
	}
}
