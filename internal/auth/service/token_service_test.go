package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	apperrors "github.com/allisson/userauth/internal/errors"
	userDomain "github.com/allisson/userauth/internal/user/domain"
)

const (
	testAccessKey  = "access-signing-key-for-tests"
	testRefreshKey = "refresh-signing-key-for-tests"
)

func newTestCodec(t *testing.T, accessTTL, refreshTTL time.Duration) TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testAccessKey, testRefreshKey, accessTTL, refreshTTL)
	require.NoError(t, err)
	return codec
}

func testPrincipal() *authDomain.Principal {
	return &authDomain.Principal{
		ID:    uuid.Must(uuid.NewV7()),
		Email: "a@x.com",
		Role:  userDomain.RoleUser,
	}
}

func TestNewTokenCodec(t *testing.T) {
	t.Run("Error_EmptyKeys", func(t *testing.T) {
		_, err := NewTokenCodec("", testRefreshKey, time.Minute, time.Hour)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))

		_, err = NewTokenCodec(testAccessKey, "", time.Minute, time.Hour)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_SameKeyForBothClasses", func(t *testing.T) {
		_, err := NewTokenCodec(testAccessKey, testAccessKey, time.Minute, time.Hour)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestTokenCodec_AccessTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)
	principal := testPrincipal()

	token, err := codec.IssueAccessToken(principal)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := codec.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal.ID, claims.UserID)
	assert.Equal(t, principal.Email, claims.Email)
	assert.Equal(t, principal.Role, claims.Role)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestTokenCodec_RefreshTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)
	userID := uuid.Must(uuid.NewV7())

	token, err := codec.IssueRefreshToken(userID)
	require.NoError(t, err)

	claims, err := codec.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenCodec_Expiry(t *testing.T) {
	// Negative TTL produces an already-expired token
	codec := newTestCodec(t, -time.Minute, -time.Minute)

	t.Run("ExpiredAccessToken", func(t *testing.T) {
		token, err := codec.IssueAccessToken(testPrincipal())
		require.NoError(t, err)

		_, err = codec.VerifyAccessToken(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
	})

	t.Run("ExpiredRefreshToken", func(t *testing.T) {
		token, err := codec.IssueRefreshToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		_, err = codec.VerifyRefreshToken(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
	})
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	token, err := codec.IssueAccessToken(testPrincipal())
	require.NoError(t, err)

	// Flip a byte in the signature segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	signature := []byte(parts[2])
	if signature[0] == 'A' {
		signature[0] = 'B'
	} else {
		signature[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(signature)

	_, err = codec.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, authDomain.ErrTokenSignatureInvalid)
}

func TestTokenCodec_KeyClassesAreDisjoint(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)
	principal := testPrincipal()

	t.Run("AccessTokenFailsUnderRefreshKey", func(t *testing.T) {
		token, err := codec.IssueAccessToken(principal)
		require.NoError(t, err)

		_, err = codec.VerifyRefreshToken(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenSignatureInvalid)
	})

	t.Run("RefreshTokenFailsUnderAccessKey", func(t *testing.T) {
		token, err := codec.IssueRefreshToken(principal.ID)
		require.NoError(t, err)

		_, err = codec.VerifyAccessToken(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenSignatureInvalid)
	})
}

func TestTokenCodec_MalformedToken(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "abc.def"},
		{"invalid base64", "!!!.!!!.!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, authDomain.ErrTokenMalformed)
		})
	}
}

func TestTokenCodec_HashRefreshToken(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)

	first := codec.HashRefreshToken("some-token")
	second := codec.HashRefreshToken("some-token")
	other := codec.HashRefreshToken("other-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64) // SHA-256 hex
}

func TestTokenCodec_IssueRefreshToken_UniquePerIssuance(t *testing.T) {
	codec := newTestCodec(t, 15*time.Minute, 7*24*time.Hour)
	userID := uuid.Must(uuid.NewV7())

	first, err := codec.IssueRefreshToken(userID)
	require.NoError(t, err)
	second, err := codec.IssueRefreshToken(userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, codec.HashRefreshToken(first), codec.HashRefreshToken(second))
}
