package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/userauth/internal/auth/http/dto"
	authUseCase "github.com/allisson/userauth/internal/auth/usecase"
	"github.com/allisson/userauth/internal/httputil"
)

// AuditLogHandler handles HTTP requests for the audit trail.
type AuditLogHandler struct {
	auditLogUseCase authUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler with required dependencies.
func NewAuditLogHandler(auditLogUseCase authUseCase.AuditLogUseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// ListHandler retrieves audit log entries with pagination, newest first.
// GET /v1/audit-logs?offset=0&limit=50&user_id=<uuid> - Admin only.
// The optional user_id query parameter restricts results to a single user.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if rawUserID := c.Query("user_id"); rawUserID != "" {
		userID, err := uuid.Parse(rawUserID)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid user_id format: must be a valid UUID"),
				h.logger)
			return
		}

		auditLogs, err := h.auditLogUseCase.ListByUserID(c.Request.Context(), userID, offset, limit)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}

		c.JSON(http.StatusOK, dto.ToAuditLogListResponse(auditLogs))
		return
	}

	auditLogs, err := h.auditLogUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditLogListResponse(auditLogs))
}
