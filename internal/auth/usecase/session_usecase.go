// Package usecase implements business logic orchestration for session operations.
package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	"github.com/allisson/userauth/internal/auth/service"
	apperrors "github.com/allisson/userauth/internal/errors"
	userDomain "github.com/allisson/userauth/internal/user/domain"
)

// sessionUseCase implements SessionUseCase on top of the credential strategy,
// the token codec and the user's stored refresh session.
type sessionUseCase struct {
	sessionRepo      SessionRepository
	passwordStrategy service.CredentialStrategy
	tokenCodec       service.TokenCodec
	auditLog         AuditLogUseCase
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	sessionRepo SessionRepository,
	passwordStrategy service.CredentialStrategy,
	tokenCodec service.TokenCodec,
	auditLog AuditLogUseCase,
) SessionUseCase {
	return &sessionUseCase{
		sessionRepo:      sessionRepo,
		passwordStrategy: passwordStrategy,
		tokenCodec:       tokenCodec,
		auditLog:         auditLog,
	}
}

// Login verifies credentials and issues a fresh token pair, replacing any
// previously stored refresh session.
func (s *sessionUseCase) Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error) {
	principal, err := s.passwordStrategy.Authenticate(ctx, service.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, authDomain.ErrInvalidCredentials) {
			s.auditLog.Record(ctx, authDomain.EventLoginFailed, nil, map[string]any{
				"email": strings.TrimSpace(strings.ToLower(email)),
			})
		}
		return nil, err
	}

	return s.issueTokenPair(ctx, principal)
}

// Refresh exchanges a valid refresh token for a new pair, rotating the stored
// session atomically. A stale or revoked token revokes the session.
func (s *sessionUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	claims, err := s.tokenCodec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.sessionRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	presentedHash := s.tokenCodec.HashRefreshToken(refreshToken)

	// A token that no longer matches the stored session was already rotated
	// or revoked. Treat it as evidence of theft: revoke the session so the
	// holder of the current token must also re-authenticate.
	if user.RefreshTokenHash == nil || !hashesEqual(*user.RefreshTokenHash, presentedHash) {
		if err := s.sessionRepo.UpdateRefreshTokenHash(ctx, user.ID, nil); err != nil &&
			!errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, apperrors.Wrap(err, "failed to revoke refresh session")
		}
		s.auditLog.Record(ctx, authDomain.EventTokenReuseDetected, &user.ID, map[string]any{
			"reason": "stale or revoked refresh token presented",
		})
		return nil, authDomain.ErrTokenReuseDetected
	}

	// Role and email come from the user record, not the old token, so a role
	// change takes effect on the next rotation.
	principal := &authDomain.Principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}

	accessToken, err := s.tokenCodec.IssueAccessToken(principal)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue access token")
	}

	newRefreshToken, err := s.tokenCodec.IssueRefreshToken(principal.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue refresh token")
	}

	newHash := s.tokenCodec.HashRefreshToken(newRefreshToken)
	rotated, err := s.sessionRepo.RotateRefreshTokenHash(ctx, user.ID, presentedHash, newHash)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A concurrent refresh won the swap. The loser's token is already
		// invalid and the winner's session stays intact.
		s.auditLog.Record(ctx, authDomain.EventTokenReuseDetected, &user.ID, map[string]any{
			"reason": "concurrent refresh lost rotation",
		})
		return nil, authDomain.ErrTokenReuseDetected
	}

	return &authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the user's refresh session.
func (s *sessionUseCase) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.UpdateRefreshTokenHash(ctx, userID, nil); err != nil {
		return err
	}

	s.auditLog.Record(ctx, authDomain.EventLogout, &userID, nil)
	return nil
}

// issueTokenPair issues a new access and refresh token and overwrites the
// stored refresh session.
func (s *sessionUseCase) issueTokenPair(ctx context.Context, principal *authDomain.Principal) (*authDomain.TokenPair, error) {
	accessToken, err := s.tokenCodec.IssueAccessToken(principal)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := s.tokenCodec.IssueRefreshToken(principal.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue refresh token")
	}

	hash := s.tokenCodec.HashRefreshToken(refreshToken)
	if err := s.sessionRepo.UpdateRefreshTokenHash(ctx, principal.ID, &hash); err != nil {
		return nil, apperrors.Wrap(err, "failed to store refresh session")
	}

	return &authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func hashesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
