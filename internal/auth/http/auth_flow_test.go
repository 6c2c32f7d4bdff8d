package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	"github.com/allisson/userauth/internal/auth/http/dto"
	authService "github.com/allisson/userauth/internal/auth/service"
	authUseCase "github.com/allisson/userauth/internal/auth/usecase"
	userDomain "github.com/allisson/userauth/internal/user/domain"
	userUseCase "github.com/allisson/userauth/internal/user/usecase"
)

// flowUserStore is an in-memory user store backing the full-stack flow tests.
type flowUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userDomain.User
}

func newFlowUserStore() *flowUserStore {
	return &flowUserStore{users: make(map[uuid.UUID]*userDomain.User)}
}

func copyFlowUser(user *userDomain.User) *userDomain.User {
	clone := *user
	if user.RefreshTokenHash != nil {
		hash := *user.RefreshTokenHash
		clone.RefreshTokenHash = &hash
	}
	return &clone
}

func (s *flowUserStore) Create(_ context.Context, user *userDomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return userDomain.ErrUserAlreadyExists
		}
	}
	s.users[user.ID] = copyFlowUser(user)
	return nil
}

func (s *flowUserStore) GetByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return copyFlowUser(user), nil
}

func (s *flowUserStore) GetByEmail(_ context.Context, email string) (*userDomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return copyFlowUser(user), nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

func (s *flowUserStore) List(_ context.Context, offset, limit int) ([]*userDomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*userDomain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, copyFlowUser(user))
	}
	return users, nil
}

func (s *flowUserStore) Update(_ context.Context, user *userDomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return userDomain.ErrUserNotFound
	}
	s.users[user.ID] = copyFlowUser(user)
	return nil
}

func (s *flowUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return userDomain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *flowUserStore) UpdateRefreshTokenHash(_ context.Context, id uuid.UUID, hash *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return userDomain.ErrUserNotFound
	}
	if hash == nil {
		user.RefreshTokenHash = nil
		return nil
	}
	value := *hash
	user.RefreshTokenHash = &value
	return nil
}

func (s *flowUserStore) RotateRefreshTokenHash(
	_ context.Context,
	id uuid.UUID,
	oldHash, newHash string,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return false, userDomain.ErrUserNotFound
	}
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != oldHash {
		return false, nil
	}
	value := newHash
	user.RefreshTokenHash = &value
	return true, nil
}

// flowTxManager executes the function directly, without a database.
type flowTxManager struct{}

func (flowTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// flowAuditLog drops audit events, keeping the flow tests focused on HTTP behavior.
type flowAuditLog struct{}

func (flowAuditLog) Record(context.Context, authDomain.AuditEvent, *uuid.UUID, map[string]any) {}

func (flowAuditLog) List(context.Context, int, int) ([]*authDomain.AuditLog, error) {
	return nil, nil
}

func (flowAuditLog) ListByUserID(context.Context, uuid.UUID, int, int) ([]*authDomain.AuditLog, error) {
	return nil, nil
}

// newFlowRouter wires real services and use cases over the in-memory store,
// mirroring the production route layout.
func newFlowRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store := newFlowUserStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	passwordService, err := authService.NewPasswordService("interactive")
	require.NoError(t, err)

	tokenCodec, err := authService.NewTokenCodec(
		"flow-test-access-key", "flow-test-refresh-key",
		15*time.Minute, 24*time.Hour,
	)
	require.NoError(t, err)

	auditLog := flowAuditLog{}
	passwordStrategy := authService.NewPasswordStrategy(store, passwordService)
	bearerStrategy := authService.NewBearerTokenStrategy(tokenCodec)

	sessionUC := authUseCase.NewSessionUseCase(store, passwordStrategy, tokenCodec, auditLog)
	userUC := userUseCase.NewUserUseCase(flowTxManager{}, store, passwordService, auditLog)

	handler := NewAuthHandler(sessionUC, userUC, logger)

	router := gin.New()
	auth := router.Group("/auth")
	auth.POST("/register", handler.RegisterHandler)
	auth.POST("/login", handler.LoginHandler)
	auth.POST("/refresh", handler.RefreshHandler)

	protected := auth.Group("", AuthenticationMiddleware(bearerStrategy, logger))
	protected.GET("/profile", handler.ProfileHandler)
	protected.POST("/logout", handler.LogoutHandler)

	return router
}

func doJSONRequest(
	router *gin.Engine,
	method, path string,
	body interface{},
	bearerToken string,
) *httptest.ResponseRecorder {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(bodyBytes))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeTokenPair(t *testing.T, w *httptest.ResponseRecorder) dto.TokenPairResponse {
	t.Helper()
	var pair dto.TokenPairResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

func TestAuthFlow(t *testing.T) {
	router := newFlowRouter(t)

	registerBody := dto.RegisterRequest{
		Name:     "John Doe",
		Email:    "John@Example.com",
		Password: "SecurePass123!",
	}
	loginBody := dto.LoginRequest{Email: "john@example.com", Password: "SecurePass123!"}

	t.Run("RegisterSucceeds", func(t *testing.T) {
		w := doJSONRequest(router, http.MethodPost, "/auth/register", registerBody, "")
		assert.Equal(t, http.StatusCreated, w.Code)
		// Email is stored normalized and the password never leaves the server
		assert.Contains(t, w.Body.String(), "john@example.com")
		assert.NotContains(t, w.Body.String(), "SecurePass123!")
	})

	t.Run("DuplicateRegistrationConflicts", func(t *testing.T) {
		w := doJSONRequest(router, http.MethodPost, "/auth/register", registerBody, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		w := doJSONRequest(router, http.MethodPost, "/auth/login", dto.LoginRequest{
			Email:    "john@example.com",
			Password: "WrongPass123!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UnknownEmailLooksIdentical", func(t *testing.T) {
		wrongPassword := doJSONRequest(router, http.MethodPost, "/auth/login", dto.LoginRequest{
			Email:    "john@example.com",
			Password: "WrongPass123!",
		}, "")
		unknownEmail := doJSONRequest(router, http.MethodPost, "/auth/login", dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "WrongPass123!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, unknownEmail.Code, wrongPassword.Code)
		assert.Equal(t, unknownEmail.Body.String(), wrongPassword.Body.String())
	})

	var pair dto.TokenPairResponse
	t.Run("LoginIssuesTokenPair", func(t *testing.T) {
		w := doJSONRequest(router, http.MethodPost, "/auth/login", loginBody, "")
		require.Equal(t, http.StatusOK, w.Code)
		pair = decodeTokenPair(t, w)
	})

	t.Run("ProfileWithAccessToken", func(t *testing.T) {
		w := doJSONRequest(router, http.MethodGet, "/auth/profile", nil, pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "john@example.com")
	})

	t.Run("ProfileRejectsRefreshToken", func(t *testing.T) {
		w := doJSONRequest(router, http.MethodGet, "/auth/profile", nil, pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	var rotated dto.TokenPairResponse
	t.Run("RefreshRotatesSession", func(t *testing.T) {
		w := doJSONRequest(router, http.MethodPost, "/auth/refresh", dto.RefreshRequest{
			RefreshToken: pair.RefreshToken,
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
		rotated = decodeTokenPair(t, w)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	})

	t.Run("ReplayedRefreshTokenRevokesSession", func(t *testing.T) {
		replay := doJSONRequest(router, http.MethodPost, "/auth/refresh", dto.RefreshRequest{
			RefreshToken: pair.RefreshToken,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, replay.Code)

		// Reuse detection revoked the whole session, so the rotated token is dead too
		current := doJSONRequest(router, http.MethodPost, "/auth/refresh", dto.RefreshRequest{
			RefreshToken: rotated.RefreshToken,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, current.Code)
	})

	t.Run("LogoutRevokesRefreshButNotAccess", func(t *testing.T) {
		login := doJSONRequest(router, http.MethodPost, "/auth/login", loginBody, "")
		require.Equal(t, http.StatusOK, login.Code)
		fresh := decodeTokenPair(t, login)

		logout := doJSONRequest(router, http.MethodPost, "/auth/logout", nil, fresh.AccessToken)
		assert.Equal(t, http.StatusNoContent, logout.Code)

		refresh := doJSONRequest(router, http.MethodPost, "/auth/refresh", dto.RefreshRequest{
			RefreshToken: fresh.RefreshToken,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, refresh.Code)

		// Access tokens stay valid until expiry; logout only ends the refresh session
		profile := doJSONRequest(router, http.MethodGet, "/auth/profile", nil, fresh.AccessToken)
		assert.Equal(t, http.StatusOK, profile.Code)
	})
}
