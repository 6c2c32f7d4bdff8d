package domain

import (
	"github.com/allisson/userauth/internal/errors"
)

// Authentication and authorization errors. Every token verification failure
// wraps ErrUnauthorized so handlers surface them as a single uniform outcome
// without leaking which check failed.
var (
	// ErrInvalidCredentials indicates a login failure. Unknown email and wrong
	// password are deliberately indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenExpired indicates the token's expiry has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenSignatureInvalid indicates the signature does not verify under the expected key.
	ErrTokenSignatureInvalid = errors.Wrap(errors.ErrUnauthorized, "token signature invalid")

	// ErrTokenMalformed indicates the token structure cannot be parsed.
	ErrTokenMalformed = errors.Wrap(errors.ErrUnauthorized, "token malformed")

	// ErrTokenReuseDetected indicates presentation of an already-rotated or
	// revoked refresh token. Treated as a compromise signal: the session is
	// revoked and the event is recorded in the audit log.
	ErrTokenReuseDetected = errors.Wrap(errors.ErrUnauthorized, "refresh token reuse detected")
)
