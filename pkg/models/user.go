package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleStudent = "STUDENT"
	RoleStaff   = "STAFF"
)

// User represents an account at the institution
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Course       *string   `json:"course,omitempty" db:"course"`
	PhotoURL     *string   `json:"photoUrl,omitempty" db:"photo_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Summary strips the user down to what other entities embed
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Course:   u.Course,
		PhotoURL: u.PhotoURL,
	}
}

// UserSummary is the public projection embedded in rides and requests
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role,omitempty"`
	Course   *string   `json:"course,omitempty"`
	PhotoURL *string   `json:"photoUrl,omitempty"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Role     string  `json:"role" binding:"omitempty,user_role"`
	Course   *string `json:"course" binding:"omitempty"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the authenticated user and their token
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
