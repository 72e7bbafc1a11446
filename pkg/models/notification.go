package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds
const (
	NotificationRideRequest     = "RIDE_REQUEST"
	NotificationRequestAccepted = "REQUEST_ACCEPTED"
)

// Notification is an in-app notification stored for a user
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Kind      string    `json:"kind" db:"kind"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
