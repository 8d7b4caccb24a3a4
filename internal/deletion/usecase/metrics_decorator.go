package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	deletionDomain "github.com/allisson/piivault/internal/deletion/domain"
	"github.com/allisson/piivault/internal/metrics"
)

// deletionUseCaseWithMetrics decorates DeletionUseCase with metrics instrumentation.
type deletionUseCaseWithMetrics struct {
	next    DeletionUseCase
	metrics metrics.BusinessMetrics
}

// NewDeletionUseCaseWithMetrics wraps a DeletionUseCase with metrics recording.
func NewDeletionUseCaseWithMetrics(useCase DeletionUseCase, m metrics.BusinessMetrics) DeletionUseCase {
	return &deletionUseCaseWithMetrics{next: useCase, metrics: m}
}

func (d *deletionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, d.metrics, "deletion", operation, start, err)
}

func (d *deletionUseCaseWithMetrics) Submit(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	start := time.Now()
	request, err := d.next.Submit(ctx, actor, subjectID)
	d.record(ctx, "deletion_submit", start, err)
	return request, err
}

func (d *deletionUseCaseWithMetrics) Process(ctx context.Context, actor string, id uuid.UUID) (bool, error) {
	start := time.Now()
	completed, err := d.next.Process(ctx, actor, id)
	d.record(ctx, "deletion_process", start, err)
	return completed, err
}

// ProcessPending additionally counts each failed request of the batch.
func (d *deletionUseCaseWithMetrics) ProcessPending(
	ctx context.Context,
	actor string,
) (deletionDomain.BatchResult, error) {
	start := time.Now()
	result, err := d.next.ProcessPending(ctx, actor)
	d.record(ctx, "deletion_process_pending", start, err)
	for range result.Failed {
		d.metrics.RecordOperation(ctx, "deletion", "deletion_request_failed", "error")
	}
	return result, err
}

func (d *deletionUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*deletionDomain.DeletionRequest, error) {
	start := time.Now()
	request, err := d.next.Get(ctx, id)
	d.record(ctx, "deletion_get", start, err)
	return request, err
}

func (d *deletionUseCaseWithMetrics) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*deletionDomain.DeletionRequest, error) {
	start := time.Now()
	requests, err := d.next.ListBySubject(ctx, subjectID)
	d.record(ctx, "deletion_list_by_subject", start, err)
	return requests, err
}

func (d *deletionUseCaseWithMetrics) ListPending(ctx context.Context) ([]*deletionDomain.DeletionRequest, error) {
	start := time.Now()
	requests, err := d.next.ListPending(ctx)
	d.record(ctx, "deletion_list_pending", start, err)
	return requests, err
}

func (d *deletionUseCaseWithMetrics) IsSafe(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	start := time.Now()
	safe, err := d.next.IsSafe(ctx, subjectID)
	d.record(ctx, "deletion_is_safe", start, err)
	return safe, err
}
