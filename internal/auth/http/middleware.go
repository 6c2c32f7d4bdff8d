package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	authService "github.com/allisson/userauth/internal/auth/service"
	apperrors "github.com/allisson/userauth/internal/errors"
	"github.com/allisson/userauth/internal/httputil"
	userDomain "github.com/allisson/userauth/internal/user/domain"
)

// AuthenticationMiddleware authenticates requests via Bearer token in the
// Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Resolves it to a Principal via the credential strategy
// 3. Stores the principal in the request context for downstream handlers
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired/tampered token → 401 Unauthorized
//
// All failure modes return the same 401 body so callers learn nothing about
// why verification failed.
func AuthenticationMiddleware(strategy authService.CredentialStrategy, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := authHeader[len(bearerPrefix):]
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, err := strategy.Authenticate(c.Request.Context(), authService.Credentials{
			BearerToken: token,
		})
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("user_id", principal.ID.String()),
			slog.String("role", string(principal.Role)))

		c.Next()
	}
}

// RequireRoleMiddleware restricts a route to principals holding one of the
// given roles. MUST be used after AuthenticationMiddleware.
//
// Error handling:
//   - No principal in context → 401 Unauthorized
//   - Principal lacks the role → 403 Forbidden
func RequireRoleMiddleware(logger *slog.Logger, roles ...userDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !principal.HasRole(roles...) {
			logger.Debug("authorization failed: insufficient role",
				slog.String("user_id", principal.ID.String()),
				slog.String("role", string(principal.Role)))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireOwnershipOrRole checks whether the principal owns the resource or
// holds one of the given roles. Handlers call it after resolving the resource
// owner from the route.
//
// Returns ErrUnauthorized when principal is nil and ErrForbidden when the
// check fails; nil otherwise.
func RequireOwnershipOrRole(principal *authDomain.Principal, resourceOwnerID uuid.UUID, roles ...userDomain.Role) error {
	if principal == nil {
		return apperrors.ErrUnauthorized
	}
	if principal.Owns(resourceOwnerID) || principal.HasRole(roles...) {
		return nil
	}
	return apperrors.ErrForbidden
}
