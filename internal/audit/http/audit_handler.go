// Package http provides the HTTP handler for reading the audit trail.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/audit/http/dto"
	auditUseCase "github.com/allisson/piivault/internal/audit/usecase"
	"github.com/allisson/piivault/internal/httputil"
)

// AuditHandler handles HTTP requests for audit events.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditUseCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{auditUseCase: auditUseCase, logger: logger}
}

// ListHandler lists audit events newest first.
// GET /v1/audit-events?subject_id=&action=&subject_type=&created_at_from=&created_at_to=&offset=0&limit=50
func (h *AuditHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := auditDomain.ListFilter{
		Action:      c.Query("action"),
		SubjectType: c.Query("subject_type"),
		Offset:      offset,
		Limit:       limit,
	}

	if s := c.Query("subject_id"); s != "" {
		subjectID, err := uuid.Parse(s)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid subject_id: must be a valid UUID"), h.logger)
			return
		}
		filter.SubjectID = &subjectID
	}

	if filter.CreatedAtFrom, err = parseTimeQuery(c, "created_at_from"); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if filter.CreatedAtTo, err = parseTimeQuery(c, "created_at_to"); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if filter.CreatedAtFrom != nil && filter.CreatedAtTo != nil && filter.CreatedAtFrom.After(*filter.CreatedAtTo) {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("created_at_from must be before or equal to created_at_to"),
			h.logger)
		return
	}

	events, err := h.auditUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEventsToListResponse(events))
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: must be RFC3339 (e.g., 2026-02-01T00:00:00Z)", name)
	}
	utc := parsed.UTC()
	return &utc, nil
}
