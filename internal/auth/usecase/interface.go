// Package usecase defines business logic interfaces for session and audit operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	userDomain "github.com/allisson/userauth/internal/user/domain"
)

// SessionRepository defines the user persistence operations needed by session
// management. Implementations must support transaction-aware operations via
// context propagation.
type SessionRepository interface {
	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)

	// UpdateRefreshTokenHash unconditionally overwrites the stored refresh
	// token hash. A nil hash revokes the session.
	UpdateRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error

	// RotateRefreshTokenHash atomically swaps the stored hash only if it still
	// equals oldHash. Returns false when the stored hash no longer matches.
	RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) (bool, error)
}

// AuditLogRepository defines persistence operations for audit log entries.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *authDomain.AuditLog) error
	List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*authDomain.AuditLog, error)
}

// SessionUseCase defines business logic operations for the session lifecycle:
// credential login, refresh token rotation and explicit logout.
type SessionUseCase interface {
	// Login verifies the email and password and issues a fresh token pair.
	// A successful login replaces any previously stored refresh session, so a
	// user holds at most one active refresh token at a time.
	//
	// Returns ErrInvalidCredentials for both unknown emails and wrong
	// passwords so callers cannot probe which accounts exist.
	Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error)

	// Refresh exchanges a valid refresh token for a new token pair and
	// atomically rotates the stored session. Presenting an already-rotated or
	// revoked token returns ErrTokenReuseDetected and revokes the session.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error)

	// Logout revokes the user's refresh session. Already-issued access tokens
	// remain valid until they expire.
	Logout(ctx context.Context, userID uuid.UUID) error
}

// AuditLogUseCase defines business logic operations for the audit trail.
type AuditLogUseCase interface {
	// Record persists an audit event without blocking the caller. Failures
	// are logged and never propagate to the request path.
	Record(ctx context.Context, event authDomain.AuditEvent, userID *uuid.UUID, metadata map[string]any)

	// List retrieves audit log entries ordered by created_at descending.
	List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error)

	// ListByUserID retrieves audit log entries for a single user.
	ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*authDomain.AuditLog, error)
}
