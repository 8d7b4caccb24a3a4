// Package dto provides data transfer objects for the audit HTTP API.
package dto

import (
	"time"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/canonical"
)

// AuditEventResponse represents an audit event in API responses.
type AuditEventResponse struct {
	ID          string             `json:"id"`
	Actor       string             `json:"actor"`
	Action      string             `json:"action"`
	SubjectType string             `json:"subject_type"`
	SubjectID   string             `json:"subject_id"`
	Detail      canonical.Document `json:"detail,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// MapAuditEventToResponse converts a domain audit event to an API response.
func MapAuditEventToResponse(event *auditDomain.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		ID:          event.ID.String(),
		Actor:       event.Actor,
		Action:      event.Action,
		SubjectType: event.SubjectType,
		SubjectID:   event.SubjectID.String(),
		Detail:      event.Detail,
		CreatedAt:   event.CreatedAt,
	}
}

// ListAuditEventsResponse represents a paginated list of audit events.
type ListAuditEventsResponse struct {
	Data []AuditEventResponse `json:"data"`
}

// MapAuditEventsToListResponse converts domain audit events to a list response.
func MapAuditEventsToListResponse(events []*auditDomain.AuditEvent) ListAuditEventsResponse {
	data := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		data = append(data, MapAuditEventToResponse(event))
	}
	return ListAuditEventsResponse{Data: data}
}
