package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	"github.com/allisson/userauth/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (s *sessionUseCaseWithMetrics) Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := s.next.Login(ctx, email, password)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_login", status)
	s.metrics.RecordDuration(ctx, "auth", "session_login", time.Since(start), status)

	return pair, err
}

// Refresh records metrics for refresh token rotation operations.
func (s *sessionUseCaseWithMetrics) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := s.next.Refresh(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_refresh", status)
	s.metrics.RecordDuration(ctx, "auth", "session_refresh", time.Since(start), status)

	return pair, err
}

// Logout records metrics for logout operations.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, userID uuid.UUID) error {
	start := time.Now()
	err := s.next.Logout(ctx, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_logout", status)
	s.metrics.RecordDuration(ctx, "auth", "session_logout", time.Since(start), status)

	return err
}

// auditLogUseCaseWithMetrics decorates AuditLogUseCase with metrics instrumentation.
type auditLogUseCaseWithMetrics struct {
	next    AuditLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditLogUseCaseWithMetrics wraps an AuditLogUseCase with metrics recording.
func NewAuditLogUseCaseWithMetrics(useCase AuditLogUseCase, m metrics.BusinessMetrics) AuditLogUseCase {
	return &auditLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for audit event writes.
func (a *auditLogUseCaseWithMetrics) Record(
	ctx context.Context,
	event authDomain.AuditEvent,
	userID *uuid.UUID,
	metadata map[string]any,
) {
	a.next.Record(ctx, event, userID, metadata)
	a.metrics.RecordOperation(ctx, "auth", "audit_log_record", "success")
}

// List records metrics for audit log list operations.
func (a *auditLogUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error) {
	start := time.Now()
	logs, err := a.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "audit_log_list", status)
	a.metrics.RecordDuration(ctx, "auth", "audit_log_list", time.Since(start), status)

	return logs, err
}

// ListByUserID records metrics for per-user audit log list operations.
func (a *auditLogUseCaseWithMetrics) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	start := time.Now()
	logs, err := a.next.ListByUserID(ctx, userID, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "audit_log_list_by_user", status)
	a.metrics.RecordDuration(ctx, "auth", "audit_log_list_by_user", time.Since(start), status)

	return logs, err
}
