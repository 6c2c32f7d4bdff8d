package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/userauth/internal/auth/http/dto"
	authUseCase "github.com/allisson/userauth/internal/auth/usecase"
	apperrors "github.com/allisson/userauth/internal/errors"
	"github.com/allisson/userauth/internal/httputil"
	userDto "github.com/allisson/userauth/internal/user/http/dto"
	userUseCase "github.com/allisson/userauth/internal/user/usecase"
)

// AuthHandler handles HTTP requests for the session lifecycle: registration,
// login, refresh rotation, logout and profile.
type AuthHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	userUseCase    userUseCase.UseCase
	logger         *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	sessionUseCase authUseCase.SessionUseCase,
	userUC userUseCase.UseCase,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessionUseCase: sessionUseCase,
		userUseCase:    userUC,
		logger:         logger,
	}
}

// RegisterHandler creates a new user account with the regular user role.
// POST /auth/register - Public, rate limited.
// Returns 201 Created with the user representation (no credentials).
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.RegisterUser(c.Request.Context(), userUseCase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, userDto.ToUserResponse(user))
}

// LoginHandler verifies credentials and issues a token pair.
// POST /auth/login - Public, rate limited.
// Returns 200 OK with access and refresh tokens.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pair, err := h.sessionUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenPairResponse(pair))
}

// RefreshHandler exchanges a refresh token for a new token pair.
// POST /auth/refresh - Public, rate limited.
// Returns 200 OK with the rotated pair; presenting a stale token returns 401
// and revokes the session.
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pair, err := h.sessionUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenPairResponse(pair))
}

// LogoutHandler revokes the authenticated user's refresh session.
// POST /auth/logout - Requires authentication.
// Returns 204 No Content.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.sessionUseCase.Logout(c.Request.Context(), principal.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ProfileHandler returns the authenticated user's account.
// GET /auth/profile - Requires authentication.
// Returns 200 OK with the user representation.
func (h *AuthHandler) ProfileHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), principal.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, userDto.ToUserResponse(user))
}
