package rides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tasafe/tasafe-api/pkg/middleware"
	"github.com/tasafe/tasafe-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterCustomValidators(v)
	}
}

// setupRouter wires the handler behind a stub auth middleware that
// injects actorID directly.
func setupRouter(h *Handler, actorID uuid.UUID) *gin.Engine {
	router := gin.New()
	group := router.Group("/api/v1/rides")
	group.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, actorID)
		c.Next()
	})
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/my/offered", h.ListMine)
		group.GET("/:id", h.GetByID)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
	return router
}

func newTestHandler(repo RepositoryInterface, now time.Time) *Handler {
	svc := NewService(repo)
	svc.WithNow(func() time.Time { return now })
	return NewHandler(svc)
}

func TestHandlerCreate_Success(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	driverID := uuid.New()
	router := setupRouter(newTestHandler(mockRepo, now), driverID)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*rides.Ride")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"type":           "CAR",
		"origin":         "Campus",
		"destination":    "Downtown",
		"meetingPoint":   "Main gate",
		"departureTime":  now.Add(2 * time.Hour).Format(time.RFC3339),
		"availableSeats": 3,
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/rides", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	mockRepo.AssertExpectations(t)
}

func TestHandlerCreate_InvalidType(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	router := setupRouter(newTestHandler(mockRepo, now), uuid.New())

	body, _ := json.Marshal(map[string]interface{}{
		"type":           "HELICOPTER",
		"origin":         "Campus",
		"destination":    "Downtown",
		"meetingPoint":   "Main gate",
		"departureTime":  now.Add(2 * time.Hour).Format(time.RFC3339),
		"availableSeats": 3,
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/rides", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestHandlerCreate_GroupWithSeats(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	router := setupRouter(newTestHandler(mockRepo, now), uuid.New())

	body, _ := json.Marshal(map[string]interface{}{
		"type":           "GROUP",
		"origin":         "Campus",
		"destination":    "Downtown",
		"meetingPoint":   "Main gate",
		"departureTime":  now.Add(2 * time.Hour).Format(time.RFC3339),
		"availableSeats": 3,
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/rides", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SEATS_NOT_ALLOWED_FOR_GROUP", resp["code"])
	mockRepo.AssertNotCalled(t, "Create")
}

func TestHandlerList_Success(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	router := setupRouter(newTestHandler(mockRepo, now), uuid.New())

	mockRides := []Ride{
		{ID: uuid.New(), Type: TypeCar, Status: StatusActive},
	}
	mockRepo.On("List", mock.Anything, mock.AnythingOfType("rides.ListFilters"), now).
		Return(mockRides, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rides?type=CAR", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestHandlerList_BadDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	router := setupRouter(newTestHandler(mockRepo, now), uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rides?date=10-03-2025", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "List")
}

func TestHandlerGetByID_NotFound(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	router := setupRouter(newTestHandler(mockRepo, now), uuid.New())

	rideID := uuid.New()
	mockRepo.On("GetByID", mock.Anything, rideID).Return(nil, pgx.ErrNoRows)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/rides/%s", rideID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestHandlerGetByID_InvalidID(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	router := setupRouter(newTestHandler(mockRepo, now), uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rides/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestHandlerDelete_Forbidden(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	router := setupRouter(newTestHandler(mockRepo, now), uuid.New())

	rideID := uuid.New()
	mockRepo.On("GetByID", mock.Anything, rideID).
		Return(&Ride{ID: rideID, DriverID: uuid.New()}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/rides/%s", rideID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockRepo.AssertNotCalled(t, "Delete")
}
