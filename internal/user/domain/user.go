// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/userauth/internal/errors"
)

// Role is the coarse authorization label attached to a user.
type Role string

const (
	// RoleUser is the default role for self-registered users.
	RoleUser Role = "user"

	// RoleAdmin grants access to all user resources and admin-only endpoints.
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user account in the system.
// Email is stored case-normalized (lowercase) and is unique across all users.
// RefreshTokenHash holds the SHA-256 digest of the single currently valid
// refresh token, or nil when the user has no active session.
type User struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Password         string
	Role             Role
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrRoleElevationDenied indicates a non-admin tried to assign the admin role.
	ErrRoleElevationDenied = errors.Wrap(errors.ErrForbidden, "role elevation requires an admin")

	// ErrInvalidRole indicates the role value is not recognized.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")
)
