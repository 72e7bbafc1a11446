package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// Request statuses. PENDING is the only state a driver can act on.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// RideRequest is a passenger's ask to join a ride
type RideRequest struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RideID    uuid.UUID `json:"rideId" db:"ride_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Message   *string   `json:"message,omitempty" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Ride summary, attached when listing the requester's own requests
	Ride *RideSummary `json:"ride,omitempty"`

	// Requester summary, attached when notifying or inspecting
	User *models.UserSummary `json:"user,omitempty"`
}

// RideSummary is the slice of ride data embedded in request listings
type RideSummary struct {
	ID            uuid.UUID          `json:"id"`
	DriverID      uuid.UUID          `json:"driverId"`
	Type          string             `json:"type"`
	Origin        string             `json:"origin"`
	Destination   string             `json:"destination"`
	MeetingPoint  string             `json:"meetingPoint"`
	DepartureTime time.Time          `json:"departureTime"`
	Status        string             `json:"status"`
	Driver        models.UserSummary `json:"driver"`
}

// RideMeta is the minimum ride state needed to admit a new request
type RideMeta struct {
	DriverID    uuid.UUID
	Status      string
	Destination string
}

// CreateRequestRequest is the payload for asking to join a ride
type CreateRequestRequest struct {
	RideID  uuid.UUID `json:"rideId" binding:"required"`
	Message *string   `json:"message"`
}
