package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent identifies the kind of security-relevant event being recorded.
type AuditEvent string

const (
	// EventLoginFailed is recorded when credential verification fails.
	EventLoginFailed AuditEvent = "login_failed"

	// EventTokenReuseDetected is recorded when an already-rotated or revoked
	// refresh token is presented.
	EventTokenReuseDetected AuditEvent = "token_reuse_detected"

	// EventUserRegistered is recorded when a new user account is created.
	EventUserRegistered AuditEvent = "user_registered"

	// EventRoleChanged is recorded when an admin changes a user's role.
	EventRoleChanged AuditEvent = "role_changed"

	// EventLogout is recorded when a user explicitly ends their session.
	EventLogout AuditEvent = "logout"
)

// AuditLog records security-relevant events for monitoring and incident
// investigation. UserID is nil when the event could not be attributed to a
// known account (e.g., failed login for an unknown email).
type AuditLog struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Event     AuditEvent
	Metadata  map[string]any
	CreatedAt time.Time
}
