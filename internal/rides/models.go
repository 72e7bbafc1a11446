package rides

import (
	"time"

	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// Ride types. GROUP is a walking/meetup ride and carries no seat count.
const (
	TypeCar        = "CAR"
	TypeMotorcycle = "MOTORCYCLE"
	TypeSharedUber = "SHARED_UBER"
	TypeGroup      = "GROUP"
)

// Ride statuses. ACTIVE is the only state rides are created in and the
// only one matchmaking considers; the rest are driver-set.
const (
	StatusActive    = "ACTIVE"
	StatusFull      = "FULL"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Ride is a posted offer of shared transportation
type Ride struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	DriverID       uuid.UUID  `json:"driverId" db:"driver_id"`
	Type           string     `json:"type" db:"type"`
	Origin         string     `json:"origin" db:"origin"`
	Destination    string     `json:"destination" db:"destination"`
	MeetingPoint   string     `json:"meetingPoint" db:"meeting_point"`
	DepartureTime  time.Time  `json:"departureTime" db:"departure_time"`
	AvailableSeats *int       `json:"availableSeats,omitempty" db:"available_seats"`
	Status         string     `json:"status" db:"status"`
	Description    *string    `json:"description,omitempty" db:"description"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`

	// Driver summary, attached on reads
	Driver *models.UserSummary `json:"driver,omitempty"`

	// Count of ACCEPTED requests, attached on list reads. Informational
	// only: capacity is advisory and never enforced against it.
	AcceptedRequests int `json:"acceptedRequests"`

	// Full request list, attached on detail reads
	Requests []RequestInfo `json:"requests,omitempty"`
}

// RequestInfo is a ride request as embedded in the ride detail view
type RequestInfo struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"userId"`
	Message   *string            `json:"message,omitempty"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	User      models.UserSummary `json:"user"`
}

// CreateRideRequest is the payload for posting a ride
type CreateRideRequest struct {
	Type           string    `json:"type" binding:"required,ride_type"`
	Origin         string    `json:"origin" binding:"required"`
	Destination    string    `json:"destination" binding:"required"`
	MeetingPoint   string    `json:"meetingPoint" binding:"required"`
	DepartureTime  time.Time `json:"departureTime" binding:"required"`
	AvailableSeats *int      `json:"availableSeats" binding:"omitempty,gt=0"`
	Description    *string   `json:"description"`
}

// UpdateRideRequest is the partial-update payload; nil fields are left untouched
type UpdateRideRequest struct {
	Origin         *string    `json:"origin" binding:"omitempty,min=1"`
	Destination    *string    `json:"destination" binding:"omitempty,min=1"`
	MeetingPoint   *string    `json:"meetingPoint" binding:"omitempty,min=1"`
	DepartureTime  *time.Time `json:"departureTime"`
	AvailableSeats *int       `json:"availableSeats" binding:"omitempty,gt=0"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status" binding:"omitempty,ride_status"`
}

// ListFilters narrows the public ride listing
type ListFilters struct {
	Type        *string
	Destination *string    // case-insensitive substring match
	Date        *time.Time // calendar-day match on departure
}
