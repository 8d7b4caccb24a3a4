package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	auditService "github.com/allisson/piivault/internal/audit/service"
	apperrors "github.com/allisson/piivault/internal/errors"
)

const verifyPageSize = 500

type auditUseCase struct {
	repo   AuditEventRepository
	signer auditService.Signer
}

// NewAuditUseCase creates the audit recorder.
func NewAuditUseCase(repo AuditEventRepository, signer auditService.Signer) AuditUseCase {
	return &auditUseCase{repo: repo, signer: signer}
}

// Record signs and appends one audit event.
func (a *auditUseCase) Record(
	ctx context.Context,
	input auditDomain.RecordInput,
) (*auditDomain.AuditEvent, error) {
	if input.Actor == "" {
		input.Actor = auditDomain.SystemActor
	}
	if input.Action == "" || input.SubjectType == "" {
		return nil, apperrors.Wrap(auditDomain.ErrInvalidEvent, "action and subject type are required")
	}

	event := &auditDomain.AuditEvent{
		ID:          uuid.Must(uuid.NewV7()),
		Actor:       input.Actor,
		Action:      input.Action,
		SubjectType: input.SubjectType,
		SubjectID:   input.SubjectID,
		Detail:      input.Detail,
		// storage keeps microsecond precision and the signature must survive a round trip
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	signature, err := a.signer.Sign(event)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auditDomain.ErrRecorderFailure, err)
	}
	event.Signature = signature

	if err := a.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: %w", auditDomain.ErrRecorderFailure, err)
	}
	return event, nil
}

// List returns events matching the filter, newest first.
func (a *auditUseCase) List(
	ctx context.Context,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AuditEvent, error) {
	events, err := a.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return events, nil
}

// Verify recomputes the signature of every event in the optional time range.
func (a *auditUseCase) Verify(ctx context.Context, from, to *time.Time) (*auditDomain.VerifyResult, error) {
	result := &auditDomain.VerifyResult{InvalidIDs: make([]uuid.UUID, 0)}

	for offset := 0; ; offset += verifyPageSize {
		events, err := a.repo.List(ctx, auditDomain.ListFilter{
			CreatedAtFrom: from,
			CreatedAtTo:   to,
			Offset:        offset,
			Limit:         verifyPageSize,
		})
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit events")
		}

		for _, event := range events {
			result.Total++
			err := a.signer.Verify(event)
			switch {
			case err == nil:
				result.Valid++
			case apperrors.Is(err, auditDomain.ErrSignatureInvalid):
				result.Invalid++
				result.InvalidIDs = append(result.InvalidIDs, event.ID)
			default:
				return nil, apperrors.Wrap(err, "failed to verify audit event")
			}
		}

		if len(events) < verifyPageSize {
			return result, nil
		}
	}
}

// RecordBestEffort records input and logs instead of returning on failure.
// Used on paths that are already failing, where an audit error must not mask
// the primary outcome.
func RecordBestEffort(ctx context.Context, recorder Recorder, logger *slog.Logger, input auditDomain.RecordInput) {
	if _, err := recorder.Record(ctx, input); err != nil {
		logger.Error("failed to record audit event",
			slog.String("action", input.Action),
			slog.String("subject_type", input.SubjectType),
			slog.String("subject_id", input.SubjectID.String()),
			slog.Any("error", err),
		)
	}
}
