package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
	apperrors "github.com/allisson/userauth/internal/errors"
)

// auditRecordTimeout bounds the background write so a slow database cannot
// accumulate goroutines indefinitely.
const auditRecordTimeout = 5 * time.Second

// auditLogUseCase implements AuditLogUseCase. Writes happen in a background
// goroutine so audit persistence never delays or fails the request path.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	logger       *slog.Logger
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository, logger *slog.Logger) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}

// Record persists an audit event in the background. The write survives
// cancellation of the request context but is bounded by its own timeout.
// Failures are logged and never propagate to the caller.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	event authDomain.AuditEvent,
	userID *uuid.UUID,
	metadata map[string]any,
) {
	auditLog := &authDomain.AuditLog{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Event:     event,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditRecordTimeout)
		defer cancel()

		if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
			a.logger.Error("failed to record audit event",
				slog.String("event", string(event)),
				slog.Any("error", err),
			)
		}
	}()
}

// List retrieves audit logs ordered by created_at descending (newest first)
// with pagination. Returns an empty slice if no audit logs are found.
func (a *auditLogUseCase) List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// ListByUserID retrieves a single user's audit logs, newest first.
func (a *auditLogUseCase) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.ListByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs by user id")
	}

	return auditLogs, nil
}
