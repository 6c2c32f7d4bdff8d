// Package service provides technical services for authentication operations.
//
// This package implements password hashing, signed token issuance and
// verification, and the credential strategies used by login and per-request
// authentication.
package service

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
)

// PasswordService defines operations for password hashing and verification.
// Implementations must use a randomized, computationally expensive one-way
// function (e.g., argon2id) with a configurable work factor.
type PasswordService interface {
	// Hash hashes a plain text password.
	// Returns ErrInvalidInput for an empty password.
	Hash(plainPassword string) (hashedPassword string, err error)

	// Compare compares a plain text password against a stored hash.
	// The comparison is constant-time and never errors on mismatch.
	Compare(plainPassword string, hashedPassword string) bool
}

// TokenCodec defines operations for issuing and verifying signed tokens.
// Access and refresh tokens use disjoint signing keys and lifetimes so that
// possession of one key class does not grant forgeability of the other.
// Verification is pure: it never consults persisted state.
type TokenCodec interface {
	// IssueAccessToken produces a short-lived signed access token carrying the
	// principal's identity, email, and role.
	IssueAccessToken(principal *authDomain.Principal) (string, error)

	// IssueRefreshToken produces a long-lived signed refresh token carrying
	// only the subject.
	IssueRefreshToken(userID uuid.UUID) (string, error)

	// VerifyAccessToken verifies signature and expiry under the access key.
	// Returns ErrTokenExpired, ErrTokenSignatureInvalid, or ErrTokenMalformed.
	VerifyAccessToken(token string) (*authDomain.AccessClaims, error)

	// VerifyRefreshToken verifies signature and expiry under the refresh key.
	// Returns ErrTokenExpired, ErrTokenSignatureInvalid, or ErrTokenMalformed.
	VerifyRefreshToken(token string) (*authDomain.RefreshClaims, error)

	// HashRefreshToken hashes a refresh token using SHA-256 for server-side
	// storage. Returns the hash as a hexadecimal string.
	HashRefreshToken(token string) string
}

// Credentials is the tagged input for a CredentialStrategy. Exactly one
// credential class is expected to be populated for a given strategy.
type Credentials struct {
	Email       string
	Password    string
	BearerToken string
}

// CredentialStrategy resolves a request-supplied credential to a Principal.
// Strategies are selected explicitly per endpoint: PasswordStrategy for login,
// BearerTokenStrategy for authenticated requests.
type CredentialStrategy interface {
	// Authenticate verifies the credentials and returns the resolved principal.
	Authenticate(ctx context.Context, creds Credentials) (*authDomain.Principal, error)
}
