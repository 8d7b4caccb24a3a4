package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/metrics"
)

// auditUseCaseWithMetrics decorates AuditUseCase with metrics instrumentation.
type auditUseCaseWithMetrics struct {
	next    AuditUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditUseCaseWithMetrics wraps an AuditUseCase with metrics recording.
func NewAuditUseCaseWithMetrics(useCase AuditUseCase, m metrics.BusinessMetrics) AuditUseCase {
	return &auditUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *auditUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, a.metrics, "audit", operation, start, err)
}

func (a *auditUseCaseWithMetrics) Record(
	ctx context.Context,
	input auditDomain.RecordInput,
) (*auditDomain.AuditEvent, error) {
	start := time.Now()
	event, err := a.next.Record(ctx, input)
	a.record(ctx, "audit_record", start, err)
	return event, err
}

func (a *auditUseCaseWithMetrics) List(
	ctx context.Context,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AuditEvent, error) {
	start := time.Now()
	events, err := a.next.List(ctx, filter)
	a.record(ctx, "audit_list", start, err)
	return events, err
}

func (a *auditUseCaseWithMetrics) Verify(
	ctx context.Context,
	from, to *time.Time,
) (*auditDomain.VerifyResult, error) {
	start := time.Now()
	result, err := a.next.Verify(ctx, from, to)
	a.record(ctx, "audit_verify", start, err)
	return result, err
}
