package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	apperrors "github.com/allisson/userauth/internal/errors"
	userDomain "github.com/allisson/userauth/internal/user/domain"
)

// jwtClaims is the wire representation of token claims: three base64url
// segments signed with HMAC-SHA256. Email and role are only present on
// access tokens.
type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// tokenCodec implements TokenCodec using HS256 JWTs with disjoint keys per
// token class.
type tokenCodec struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec creates a TokenCodec with the given signing keys and lifetimes.
// Both keys are required and must differ, so compromise of one token class
// never grants forgeability of the other.
func NewTokenCodec(
	accessKey, refreshKey string,
	accessTTL, refreshTTL time.Duration,
) (TokenCodec, error) {
	if accessKey == "" || refreshKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signing keys must not be empty")
	}
	if accessKey == refreshKey {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "access and refresh signing keys must differ")
	}

	return &tokenCodec{
		accessKey:  []byte(accessKey),
		refreshKey: []byte(refreshKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssueAccessToken produces a signed access token for the principal.
func (t *tokenCodec) IssueAccessToken(principal *authDomain.Principal) (string, error) {
	now := time.Now().UTC()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
		Email: principal.Email,
		Role:  string(principal.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.accessKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

// IssueRefreshToken produces a signed refresh token carrying only the subject.
// The jti claim makes every issuance distinct, so rotating always produces a
// token with a different hash even within the same second.
func (t *tokenCodec) IssueRefreshToken(userID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.refreshKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign refresh token")
	}
	return signed, nil
}

// VerifyAccessToken verifies signature and expiry under the access key.
func (t *tokenCodec) VerifyAccessToken(token string) (*authDomain.AccessClaims, error) {
	claims, err := t.verify(token, t.accessKey)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, authDomain.ErrTokenMalformed
	}

	return &authDomain.AccessClaims{
		UserID:    userID,
		Email:     claims.Email,
		Role:      userDomain.Role(claims.Role),
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// VerifyRefreshToken verifies signature and expiry under the refresh key.
func (t *tokenCodec) VerifyRefreshToken(token string) (*authDomain.RefreshClaims, error) {
	claims, err := t.verify(token, t.refreshKey)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, authDomain.ErrTokenMalformed
	}

	return &authDomain.RefreshClaims{
		UserID:    userID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// HashRefreshToken hashes a refresh token using SHA-256 for server-side storage.
// Returns the hash as a hexadecimal string.
func (t *tokenCodec) HashRefreshToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// verify parses and validates a token under the given key, mapping the jwt
// library's sentinel errors to domain errors.
func (t *tokenCodec) verify(token string, key []byte) (*jwtClaims, error) {
	claims := &jwtClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, authDomain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, authDomain.ErrTokenSignatureInvalid
		default:
			return nil, authDomain.ErrTokenMalformed
		}
	}

	if !parsed.Valid || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, authDomain.ErrTokenMalformed
	}

	return claims, nil
}
