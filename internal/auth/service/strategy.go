package service

import (
	"context"
	"strings"
	"sync"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	apperrors "github.com/allisson/userauth/internal/errors"
	userDomain "github.com/allisson/userauth/internal/user/domain"
)

// dummyPassword seeds the hash verified on unknown emails, so a miss pays the
// same argon2id cost as a wrong password.
const dummyPassword = "userauth-dummy-credential"

// UserFinder is the subset of the user repository needed by PasswordStrategy.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// passwordStrategy authenticates email/password credentials against the store.
type passwordStrategy struct {
	users           UserFinder
	passwordService PasswordService
	dummyHash       func() string
}

// NewPasswordStrategy creates the credential strategy used by the login endpoint.
func NewPasswordStrategy(users UserFinder, passwordService PasswordService) CredentialStrategy {
	return &passwordStrategy{
		users:           users,
		passwordService: passwordService,
		dummyHash: sync.OnceValue(func() string {
			hash, err := passwordService.Hash(dummyPassword)
			if err != nil {
				return ""
			}
			return hash
		}),
	}
}

// Authenticate verifies the password against the stored hash. An unknown email
// and a wrong password both return ErrInvalidCredentials, and the unknown case
// verifies against a dummy hash, so the caller cannot enumerate accounts by
// response or by latency.
func (s *passwordStrategy) Authenticate(
	ctx context.Context,
	creds Credentials,
) (*authDomain.Principal, error) {
	email := strings.TrimSpace(strings.ToLower(creds.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			s.passwordService.Compare(creds.Password, s.dummyHash())
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordService.Compare(creds.Password, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	return &authDomain.Principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// bearerTokenStrategy authenticates a signed access token.
// Verification is stateless: it never consults the store, so per-request
// authentication can run on any number of concurrent requests.
type bearerTokenStrategy struct {
	tokenCodec TokenCodec
}

// NewBearerTokenStrategy creates the credential strategy used on authenticated endpoints.
func NewBearerTokenStrategy(tokenCodec TokenCodec) CredentialStrategy {
	return &bearerTokenStrategy{
		tokenCodec: tokenCodec,
	}
}

// Authenticate verifies the bearer token under the access key and derives the principal.
func (s *bearerTokenStrategy) Authenticate(
	ctx context.Context,
	creds Credentials,
) (*authDomain.Principal, error) {
	claims, err := s.tokenCodec.VerifyAccessToken(creds.BearerToken)
	if err != nil {
		return nil, err
	}

	return &authDomain.Principal{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
