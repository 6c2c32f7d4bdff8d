// Package http provides HTTP handlers for user management operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	authHTTP "github.com/allisson/userauth/internal/auth/http"
	apperrors "github.com/allisson/userauth/internal/errors"
	"github.com/allisson/userauth/internal/httputil"
	"github.com/allisson/userauth/internal/user/domain"
	"github.com/allisson/userauth/internal/user/http/dto"
	"github.com/allisson/userauth/internal/user/usecase"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// ListHandler retrieves users with pagination support.
// GET /v1/users?offset=0&limit=50 - Admin only.
// Returns 200 OK with the user list.
func (h *UserHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users))
}

// GetHandler retrieves a user by ID.
// GET /v1/users/:id - Owner or admin.
// Returns 200 OK with the user representation.
func (h *UserHandler) GetHandler(c *gin.Context) {
	userID, _, err := h.resolveTarget(c)
	if err != nil {
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateHandler applies partial updates to a user.
// PUT /v1/users/:id - Owner or admin; only admins may change roles.
// Returns 200 OK with the updated user representation.
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	userID, principal, err := h.resolveTarget(c)
	if err != nil {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.UpdateUser(
		c.Request.Context(),
		principal.ID,
		principal.Role,
		userID,
		dto.ToUpdateUserInput(req),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteHandler removes a user account.
// DELETE /v1/users/:id - Owner or admin.
// Returns 204 No Content. Deletion also destroys the stored refresh session.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	userID, _, err := h.resolveTarget(c)
	if err != nil {
		return
	}

	if err := h.userUseCase.DeleteUser(c.Request.Context(), userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// resolveTarget parses the :id route parameter and enforces the owner-or-admin
// rule. On failure the response is already written and a non-nil error is
// returned so the caller can bail out.
func (h *UserHandler) resolveTarget(c *gin.Context) (uuid.UUID, *authDomain.Principal, error) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid user ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, nil, err
	}

	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, nil, apperrors.ErrUnauthorized
	}

	if err := authHTTP.RequireOwnershipOrRole(principal, userID, domain.RoleAdmin); err != nil {
		h.logger.Debug("authorization failed: not owner or admin",
			slog.String("user_id", principal.ID.String()),
			slog.String("target_id", userID.String()))
		httputil.HandleErrorGin(c, err, h.logger)
		return uuid.Nil, nil, err
	}

	return userID, principal, nil
}
