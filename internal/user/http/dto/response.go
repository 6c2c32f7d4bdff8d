package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse represents the public view of a user. The password hash and
// refresh session never leave the service.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse represents a page of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}
