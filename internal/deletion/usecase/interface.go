// Package usecase implements the right-to-be-forgotten deletion workflow.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	deletionDomain "github.com/allisson/piivault/internal/deletion/domain"
)

// DeletionRequestRepository persists deletion requests.
type DeletionRequestRepository interface {
	// Create returns ErrPendingRequestExists when the subject already has a
	// pending request.
	Create(ctx context.Context, request *deletionDomain.DeletionRequest) error

	Get(ctx context.Context, id uuid.UUID) (*deletionDomain.DeletionRequest, error)

	// GetPendingBySubject returns ErrDeletionRequestNotFound when none is pending.
	GetPendingBySubject(ctx context.Context, subjectID uuid.UUID) (*deletionDomain.DeletionRequest, error)

	// ListBySubject returns the subject's requests newest first.
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*deletionDomain.DeletionRequest, error)

	// ListPending returns up to limit pending requests oldest first.
	ListPending(ctx context.Context, limit int) ([]*deletionDomain.DeletionRequest, error)

	// UpdateState moves the request from one state to another only if it is
	// still in from. It reports whether the row changed.
	UpdateState(
		ctx context.Context,
		id uuid.UUID,
		from, to deletionDomain.State,
		processedAt *time.Time,
	) (bool, error)
}

// DeletionUseCase is the deletion workflow API.
type DeletionUseCase interface {
	// Submit returns the subject's pending request, creating one when none exists.
	Submit(ctx context.Context, actor string, subjectID uuid.UUID) (*deletionDomain.DeletionRequest, error)

	// Process drives a pending request to Completed or Failed and reports
	// whether it completed. Requests that are not pending are left untouched
	// and yield false. An unknown id yields ErrDeletionRequestNotFound.
	Process(ctx context.Context, actor string, id uuid.UUID) (bool, error)

	// ProcessPending processes one batch of pending requests. Cancellation is
	// honored between requests, never in the middle of one.
	ProcessPending(ctx context.Context, actor string) (deletionDomain.BatchResult, error)

	Get(ctx context.Context, id uuid.UUID) (*deletionDomain.DeletionRequest, error)

	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*deletionDomain.DeletionRequest, error)

	ListPending(ctx context.Context) ([]*deletionDomain.DeletionRequest, error)

	// IsSafe reports whether the subject has no pending request.
	IsSafe(ctx context.Context, subjectID uuid.UUID) (bool, error)
}
