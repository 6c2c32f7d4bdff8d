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

// MySQLAuditLogRepository handles audit log persistence for MySQL
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQLAuditLogRepository
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{
		db: db,
	}
}

// Create inserts a new audit log entry
func (r *MySQLAuditLogRepository) Create(ctx context.Context, auditLog *domain.AuditLog) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO audit_logs (id, user_id, event, metadata, created_at)
			  VALUES (?, ?, ?, ?, NOW())`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := auditLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	var userIDBytes []byte
	if auditLog.UserID != nil {
		userIDBytes, err = auditLog.UserID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal UUID")
		}
	}

	metadata, err := json.Marshal(auditLog.Metadata)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log metadata")
	}

	_, err = querier.ExecContext(ctx, query, idBytes, userIDBytes, auditLog.Event, metadata)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

// List retrieves audit log entries ordered by creation time, newest first
func (r *MySQLAuditLogRepository) List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, event, metadata, created_at
			  FROM audit_logs ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() { _ = rows.Close() }()

	return scanMySQLAuditLogs(rows)
}

// ListByUserID retrieves audit log entries for a single user, newest first
func (r *MySQLAuditLogRepository) ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, event, metadata, created_at
			  FROM audit_logs WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs by user id")
	}
	defer func() { _ = rows.Close() }()

	return scanMySQLAuditLogs(rows)
}

func scanMySQLAuditLogs(rows *sql.Rows) ([]*domain.AuditLog, error) {
	var auditLogs []*domain.AuditLog
	for rows.Next() {
		var auditLog domain.AuditLog
		var idBytes, userIDBytes, metadata []byte
		if err := rows.Scan(
			&idBytes, &userIDBytes, &auditLog.Event, &metadata, &auditLog.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		// Convert bytes back to UUIDs
		if err := auditLog.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if len(userIDBytes) > 0 {
			var userID uuid.UUID
			if err := userID.UnmarshalBinary(userIDBytes); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
			}
			auditLog.UserID = &userID
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
