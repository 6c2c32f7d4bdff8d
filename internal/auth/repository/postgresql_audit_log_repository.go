// Package repository provides data persistence implementations for audit log entries.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/allisson/userauth/internal/auth/domain"
	"github.com/allisson/userauth/internal/database"

	apperrors "github.com/allisson/userauth/internal/errors"
)

// PostgreSQLAuditLogRepository handles audit log persistence for PostgreSQL
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQLAuditLogRepository
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{
		db: db,
	}
}

// Create inserts a new audit log entry
func (r *PostgreSQLAuditLogRepository) Create(ctx context.Context, auditLog *domain.AuditLog) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO audit_logs (id, user_id, event, metadata, created_at)
			  VALUES ($1, $2, $3, $4, NOW())`

	metadata, err := json.Marshal(auditLog.Metadata)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log metadata")
	}

	_, err = querier.ExecContext(ctx, query, auditLog.ID, auditLog.UserID, auditLog.Event, metadata)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

// List retrieves audit log entries ordered by creation time, newest first
func (r *PostgreSQLAuditLogRepository) List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, event, metadata, created_at
			  FROM audit_logs ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() { _ = rows.Close() }()

	var auditLogs []*domain.AuditLog
	for rows.Next() {
		var auditLog domain.AuditLog
		var metadata []byte
		if err := rows.Scan(
			&auditLog.ID, &auditLog.UserID, &auditLog.Event, &metadata, &auditLog.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &auditLog.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
			}
		}
		auditLogs = append(auditLogs, &auditLog)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}

// ListByUserID retrieves audit log entries for a single user, newest first
func (r *PostgreSQLAuditLogRepository) ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, event, metadata, created_at
			  FROM audit_logs WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs by user id")
	}
	defer func() { _ = rows.Close() }()

	var auditLogs []*domain.AuditLog
	for rows.Next() {
		var auditLog domain.AuditLog
		var metadata []byte
		if err := rows.Scan(
			&auditLog.ID, &auditLog.UserID, &auditLog.Event, &metadata, &auditLog.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &auditLog.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
			}
		}
		auditLogs = append(auditLogs, &auditLog)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}
