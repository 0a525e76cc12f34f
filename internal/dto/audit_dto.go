package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/streetbars/streetbars-api/internal/models"
)

// AuditLogListRequest defines filters for browsing the audit trail.
type AuditLogListRequest struct {
	EntityType string
	Action     string
	Page       int
	Limit      int
}

// AuditLogResponse serialises an audit record for API consumers.
type AuditLogResponse struct {
	ID         uuid.UUID              `json:"id"`
	EntityType string                 `json:"entity_type"`
	EntityID   uuid.UUID              `json:"entity_id"`
	Action     string                 `json:"action"`
	UserID     *uuid.UUID             `json:"user_id"`
	Changes    map[string]interface{} `json:"changes"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AuditLogListResponse wraps a paginated audit page.
type AuditLogListResponse struct {
	Data       []AuditLogResponse `json:"data"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewAuditLogResponse maps a model onto its API representation.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         entry.ID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		UserID:     entry.UserID,
		Changes:    entry.Changes,
		CreatedAt:  entry.CreatedAt,
	}
}

// NewAuditLogResponses maps a slice of models, never returning nil.
func NewAuditLogResponses(entries []models.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAuditLogResponse(entry))
	}
	return responses
}
