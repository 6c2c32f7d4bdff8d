package dto

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/userauth/internal/auth/domain"
)

// TokenPairResponse represents the API response for login and refresh
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ToTokenPairResponse converts a domain TokenPair to a TokenPairResponse DTO
func ToTokenPairResponse(pair *authDomain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

// AuditLogResponse represents a single audit log entry
type AuditLogResponse struct {
	ID        uuid.UUID      `json:"id"`
	UserID    *uuid.UUID     `json:"user_id,omitempty"`
	Event     string         `json:"event"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditLogListResponse represents a page of audit log entries
type AuditLogListResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
}

// ToAuditLogListResponse converts domain audit logs to a list response DTO
func ToAuditLogListResponse(auditLogs []*authDomain.AuditLog) AuditLogListResponse {
	response := AuditLogListResponse{
		AuditLogs: make([]AuditLogResponse, 0, len(auditLogs)),
	}
	for _, auditLog := range auditLogs {
		response.AuditLogs = append(response.AuditLogs, AuditLogResponse{
			ID:        auditLog.ID,
			UserID:    auditLog.UserID,
			Event:     string(auditLog.Event),
			Metadata:  auditLog.Metadata,
			CreatedAt: auditLog.CreatedAt,
		})
	}
	return response
}
