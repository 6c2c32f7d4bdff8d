package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	authService "github.com/allisson/userauth/internal/auth/service"
	apperrors "github.com/allisson/userauth/internal/errors"
	userDomain "github.com/allisson/userauth/internal/user/domain"
)

const (
	middlewareTestAccessKey  = "middleware-test-access-key"
	middlewareTestRefreshKey = "middleware-test-refresh-key"
)

func newMiddlewareTestRouter(t *testing.T) (*gin.Engine, authService.TokenCodec) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	tokenCodec, err := authService.NewTokenCodec(
		middlewareTestAccessKey, middlewareTestRefreshKey,
		15*time.Minute, 24*time.Hour,
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	strategy := authService.NewBearerTokenStrategy(tokenCodec)

	router := gin.New()
	protected := router.Group("/", AuthenticationMiddleware(strategy, logger))
	protected.GET("/whoami", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": principal.Email, "role": string(principal.Role)})
	})

	admin := protected.Group("/admin", RequireRoleMiddleware(logger, userDomain.RoleAdmin))
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	return router, tokenCodec
}

func issueTestAccessToken(t *testing.T, tokenCodec authService.TokenCodec, role userDomain.Role) string {
	t.Helper()

	token, err := tokenCodec.IssueAccessToken(&authDomain.Principal{
		ID:    uuid.Must(uuid.NewV7()),
		Email: "a@x.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_ValidToken", func(t *testing.T) {
		router, tokenCodec := newMiddlewareTestRouter(t)
		token := issueTestAccessToken(t, tokenCodec, userDomain.RoleUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "a@x.com")
	})

	t.Run("Success_LowercaseScheme", func(t *testing.T) {
		router, tokenCodec := newMiddlewareTestRouter(t)
		token := issueTestAccessToken(t, tokenCodec, userDomain.RoleUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		router, _ := newMiddlewareTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication is required")
	})

	t.Run("Error_WrongScheme", func(t *testing.T) {
		router, _ := newMiddlewareTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_EmptyToken", func(t *testing.T) {
		router, _ := newMiddlewareTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_TamperedToken", func(t *testing.T) {
		router, tokenCodec := newMiddlewareTestRouter(t)
		token := issueTestAccessToken(t, tokenCodec, userDomain.RoleUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_RefreshTokenRejected", func(t *testing.T) {
		router, tokenCodec := newMiddlewareTestRouter(t)

		refreshToken, err := tokenCodec.IssueRefreshToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+refreshToken)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	t.Run("Success_AdminRole", func(t *testing.T) {
		router, tokenCodec := newMiddlewareTestRouter(t)
		token := issueTestAccessToken(t, tokenCodec, userDomain.RoleAdmin)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_UserRoleForbidden", func(t *testing.T) {
		router, tokenCodec := newMiddlewareTestRouter(t)
		token := issueTestAccessToken(t, tokenCodec, userDomain.RoleUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		router, _ := newMiddlewareTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireOwnershipOrRole(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV7())
	otherID := uuid.Must(uuid.NewV7())

	t.Run("OwnerAllowed", func(t *testing.T) {
		principal := &authDomain.Principal{ID: ownerID, Role: userDomain.RoleUser}
		assert.NoError(t, RequireOwnershipOrRole(principal, ownerID, userDomain.RoleAdmin))
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		principal := &authDomain.Principal{ID: otherID, Role: userDomain.RoleAdmin}
		assert.NoError(t, RequireOwnershipOrRole(principal, ownerID, userDomain.RoleAdmin))
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		principal := &authDomain.Principal{ID: otherID, Role: userDomain.RoleUser}
		err := RequireOwnershipOrRole(principal, ownerID, userDomain.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("NilPrincipalUnauthorized", func(t *testing.T) {
		err := RequireOwnershipOrRole(nil, ownerID, userDomain.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
