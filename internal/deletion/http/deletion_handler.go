// Package http provides HTTP handlers for the deletion workflow.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/deletion/http/dto"
	deletionUseCase "github.com/allisson/piivault/internal/deletion/usecase"
	"github.com/allisson/piivault/internal/httputil"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// DeletionHandler handles HTTP requests for deletion requests.
type DeletionHandler struct {
	deletionUseCase deletionUseCase.DeletionUseCase
	logger          *slog.Logger
}

// NewDeletionHandler creates a new deletion handler.
func NewDeletionHandler(deletionUseCase deletionUseCase.DeletionUseCase, logger *slog.Logger) *DeletionHandler {
	return &DeletionHandler{deletionUseCase: deletionUseCase, logger: logger}
}

// SubmitHandler submits a deletion request. Submitting while a request is
// pending returns the existing one.
// POST /v1/deletion-requests
func (h *DeletionHandler) SubmitHandler(c *gin.Context) {
	var req dto.SubmitDeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	request, err := h.deletionUseCase.Submit(c.Request.Context(), httputil.Actor(c), uuid.MustParse(req.SubjectID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.MapDeletionRequestToResponse(request))
}

// GetHandler returns a deletion request by id.
// GET /v1/deletion-requests/:id
func (h *DeletionHandler) GetHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	request, err := h.deletionUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeletionRequestToResponse(request))
}

// ProcessHandler processes one pending request synchronously.
// POST /v1/deletion-requests/:id/process
func (h *DeletionHandler) ProcessHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	completed, err := h.deletionUseCase.Process(ctx, httputil.Actor(c), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	request, err := h.deletionUseCase.Get(ctx, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ProcessResponse{
		Completed: completed,
		Request:   dto.MapDeletionRequestToResponse(request),
	})
}

// ProcessPendingHandler runs one batch over the pending requests.
// POST /v1/deletion-requests/process-pending
func (h *DeletionHandler) ProcessPendingHandler(c *gin.Context) {
	result, err := h.deletionUseCase.ProcessPending(c.Request.Context(), httputil.Actor(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBatchResultToResponse(result))
}

// ListPendingHandler lists pending requests oldest first.
// GET /v1/deletion-requests
func (h *DeletionHandler) ListPendingHandler(c *gin.Context) {
	requests, err := h.deletionUseCase.ListPending(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeletionRequestsToListResponse(requests))
}

// ListBySubjectHandler lists a subject's requests newest first.
// GET /v1/subjects/:id/deletion-requests
func (h *DeletionHandler) ListBySubjectHandler(c *gin.Context) {
	subjectID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	requests, err := h.deletionUseCase.ListBySubject(c.Request.Context(), subjectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeletionRequestsToListResponse(requests))
}

// SafetyHandler reports whether the subject has no pending deletion request.
// GET /v1/subjects/:id/rtbf-safe
func (h *DeletionHandler) SafetyHandler(c *gin.Context) {
	subjectID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	safe, err := h.deletionUseCase.IsSafe(c.Request.Context(), subjectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SafetyResponse{SubjectID: subjectID.String(), Safe: safe})
}
