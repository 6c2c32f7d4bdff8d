package domain

import (
	"github.com/google/uuid"

	userDomain "github.com/allisson/userauth/internal/user/domain"
)

// Principal is the request-scoped identity attached after access token
// verification. It is derived from token claims and never persisted.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  userDomain.Role
}

// HasRole reports whether the principal's role is one of the given roles.
func (p *Principal) HasRole(roles ...userDomain.Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// Owns reports whether the principal is the owner of the given resource.
func (p *Principal) Owns(resourceOwnerID uuid.UUID) bool {
	return p.ID == resourceOwnerID
}
