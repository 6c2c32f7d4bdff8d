package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/userauth/internal/errors"
)

// passwordService implements PasswordService using Argon2id password hashing.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// Hash hashes a plain text password using Argon2id.
// Returns ErrInvalidInput for an empty password.
func (p *passwordService) Hash(plainPassword string) (string, error) {
	if plainPassword == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "password must not be empty")
	}

	hashedPassword, err := p.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashedPassword, nil
}

// Compare performs a constant-time comparison between a plain password and its hash.
// Returns false on any mismatch or malformed hash; it never errors.
func (p *passwordService) Compare(plainPassword string, hashedPassword string) bool {
	ok, err := p.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordService creates a new PasswordService using Argon2id hashing.
// The workFactor selects the hashing policy: "moderate" for a higher cost,
// anything else falls back to "interactive" (suitable for login-path latency).
func NewPasswordService(workFactor string) (PasswordService, error) {
	policy := pwdhash.PolicyInteractive
	if workFactor == "moderate" {
		policy = pwdhash.PolicyModerate
	}

	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(policy),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &passwordService{
		hasher: hasher,
	}, nil
}
