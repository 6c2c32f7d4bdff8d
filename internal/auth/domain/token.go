// Package domain defines authentication and authorization domain models.
// Implements role-based access control with signed token pairs, refresh token
// rotation, and audit logging.
package domain

import (
	"time"

	"github.com/google/uuid"

	userDomain "github.com/allisson/userauth/internal/user/domain"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// Both are compact signed tokens; the refresh token is additionally tracked
// server-side as a hash on the user record for rotation and reuse detection.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccessClaims are the verified claims of an access token.
// They exist only inside a signed token and are never persisted.
type AccessClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      userDomain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims are the verified claims of a refresh token.
// Refresh tokens carry only the subject; role and email are re-read from the
// store at rotation time so revoked or role-changed users cannot mint stale claims.
type RefreshClaims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
