package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/userauth/internal/auth/domain"
)

func newMockAuditLogRepository(t *testing.T) (*PostgreSQLAuditLogRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgreSQLAuditLogRepository(db), mock
}

func TestPostgreSQLAuditLogRepository_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockAuditLogRepository(t)

		auditLog := &domain.AuditLog{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: &userID,
			Event:  domain.EventTokenReuseDetected,
			Metadata: map[string]any{
				"remote_addr": "10.0.0.1",
			},
		}

		mock.ExpectExec(`INSERT INTO audit_logs`).
			WithArgs(auditLog.ID, auditLog.UserID, auditLog.Event, []byte(`{"remote_addr":"10.0.0.1"}`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, auditLog)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WithoutUser", func(t *testing.T) {
		repo, mock := newMockAuditLogRepository(t)

		auditLog := &domain.AuditLog{
			ID:    uuid.Must(uuid.NewV7()),
			Event: domain.EventLoginFailed,
		}

		mock.ExpectExec(`INSERT INTO audit_logs`).
			WithArgs(auditLog.ID, nil, auditLog.Event, []byte(`null`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, auditLog)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAuditLogRepository_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	now := time.Now()

	repo, mock := newMockAuditLogRepository(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "event", "metadata", "created_at"}).
		AddRow(uuid.Must(uuid.NewV7()), &userID, "login_failed", []byte(`{"email":"a@x.com"}`), now).
		AddRow(uuid.Must(uuid.NewV7()), nil, "user_registered", nil, now)

	mock.ExpectQuery(`SELECT .+ FROM audit_logs ORDER BY created_at DESC`).
		WithArgs(0, 50).
		WillReturnRows(rows)

	auditLogs, err := repo.List(ctx, 0, 50)

	require.NoError(t, err)
	require.Len(t, auditLogs, 2)
	assert.Equal(t, domain.EventLoginFailed, auditLogs[0].Event)
	assert.Equal(t, "a@x.com", auditLogs[0].Metadata["email"])
	assert.Nil(t, auditLogs[1].UserID)
	assert.Nil(t, auditLogs[1].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditLogRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	now := time.Now()

	repo, mock := newMockAuditLogRepository(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "event", "metadata", "created_at"}).
		AddRow(uuid.Must(uuid.NewV7()), &userID, "logout", nil, now)

	mock.ExpectQuery(`SELECT .+ FROM audit_logs WHERE user_id`).
		WithArgs(userID, 0, 50).
		WillReturnRows(rows)

	auditLogs, err := repo.ListByUserID(ctx, userID, 0, 50)

	require.NoError(t, err)
	require.Len(t, auditLogs, 1)
	require.NotNil(t, auditLogs[0].UserID)
	assert.Equal(t, userID, *auditLogs[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
