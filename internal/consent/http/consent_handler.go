// Package http provides HTTP handlers for the consent ledger.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/piivault/internal/consent/http/dto"
	consentUseCase "github.com/allisson/piivault/internal/consent/usecase"
	"github.com/allisson/piivault/internal/httputil"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// ConsentHandler handles HTTP requests for consents.
type ConsentHandler struct {
	consentUseCase consentUseCase.ConsentUseCase
	logger         *slog.Logger
}

// NewConsentHandler creates a new consent handler.
func NewConsentHandler(consentUseCase consentUseCase.ConsentUseCase, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{consentUseCase: consentUseCase, logger: logger}
}

// SetHandler grants or revokes a purpose for a subject.
// POST /v1/subjects/:id/consents
func (h *ConsentHandler) SetHandler(c *gin.Context) {
	subjectID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.SetConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	actor := httputil.Actor(c)
	set := h.consentUseCase.Revoke
	if *req.Granted {
		set = h.consentUseCase.Grant
	}

	consent, err := set(c.Request.Context(), actor, subjectID, req.Purpose)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentToResponse(consent))
}

// ListHandler lists every consent of a subject ordered by purpose.
// GET /v1/subjects/:id/consents
func (h *ConsentHandler) ListHandler(c *gin.Context) {
	subjectID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	consents, err := h.consentUseCase.List(c.Request.Context(), subjectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentsToListResponse(consents))
}

// RevokeAllHandler revokes every granted consent of a subject.
// POST /v1/subjects/:id/consents/revoke-all
func (h *ConsentHandler) RevokeAllHandler(c *gin.Context) {
	subjectID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	n, err := h.consentUseCase.RevokeAll(c.Request.Context(), httputil.Actor(c), subjectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RevokeAllResponse{Revoked: n})
}

// GetHandler returns a consent by id.
// GET /v1/consents/:id
func (h *ConsentHandler) GetHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	consent, err := h.consentUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentToResponse(consent))
}
