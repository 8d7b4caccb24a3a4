// Package http provides HTTP handlers for the PII record store.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/httputil"
	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
	"github.com/allisson/piivault/internal/subject/http/dto"
	subjectUseCase "github.com/allisson/piivault/internal/subject/usecase"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// SubjectHandler handles HTTP requests for subjects and their PII.
type SubjectHandler struct {
	subjectUseCase subjectUseCase.SubjectUseCase
	logger         *slog.Logger
}

// NewSubjectHandler creates a new subject handler.
func NewSubjectHandler(subjectUseCase subjectUseCase.SubjectUseCase, logger *slog.Logger) *SubjectHandler {
	return &SubjectHandler{subjectUseCase: subjectUseCase, logger: logger}
}

func (h *SubjectHandler) bindWriteRequest(c *gin.Context) (*dto.WriteSubjectRequest, bool) {
	var req dto.WriteSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}
	return &req, true
}

// CreateHandler stores PII for a new subject.
// POST /v1/subjects - Returns 403 when a required purpose is not granted.
func (h *SubjectHandler) CreateHandler(c *gin.Context) {
	req, ok := h.bindWriteRequest(c)
	if !ok {
		return
	}

	input := subjectDomain.WriteInput{
		Actor:            httputil.Actor(c),
		PII:              req.PII,
		RequiredPurposes: req.RequiredPurposes,
	}
	if req.ID != "" {
		id := uuid.MustParse(req.ID)
		input.ID = &id
	}

	subject, err := h.subjectUseCase.Write(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSubjectToResponse(subject))
}

// UpdateHandler replaces the PII of a subject, creating it when absent.
// PUT /v1/subjects/:id
func (h *SubjectHandler) UpdateHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	req, ok := h.bindWriteRequest(c)
	if !ok {
		return
	}

	subject, err := h.subjectUseCase.Write(c.Request.Context(), subjectDomain.WriteInput{
		Actor:            httputil.Actor(c),
		ID:               &id,
		PII:              req.PII,
		RequiredPurposes: req.RequiredPurposes,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubjectToResponse(subject))
}

// GetHandler returns subject metadata, and decrypted PII with ?decrypt=true.
// GET /v1/subjects/:id?decrypt=true
func (h *SubjectHandler) GetHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	decrypt := false
	if s := c.Query("decrypt"); s != "" {
		if decrypt, err = strconv.ParseBool(s); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	}

	view, err := h.subjectUseCase.Read(c.Request.Context(), id, decrypt)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubjectViewToResponse(view))
}

// DeleteHandler anonymizes a subject's PII and revokes its consents.
// DELETE /v1/subjects/:id - Returns 204 No Content.
func (h *SubjectHandler) DeleteHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.subjectUseCase.Delete(c.Request.Context(), httputil.Actor(c), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportHandler returns everything stored about a subject.
// GET /v1/subjects/:id/export
func (h *SubjectHandler) ExportHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	export, err := h.subjectUseCase.Export(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapExportToResponse(export))
}

// ListHandler lists subject metadata.
// GET /v1/subjects?offset=0&limit=50
func (h *SubjectHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	subjects, err := h.subjectUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubjectsToListResponse(subjects))
}
