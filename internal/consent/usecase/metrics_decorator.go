package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
	"github.com/allisson/piivault/internal/metrics"
)

// consentUseCaseWithMetrics decorates ConsentUseCase with metrics instrumentation.
type consentUseCaseWithMetrics struct {
	next    ConsentUseCase
	metrics metrics.BusinessMetrics
}

// NewConsentUseCaseWithMetrics wraps a ConsentUseCase with metrics recording.
func NewConsentUseCaseWithMetrics(useCase ConsentUseCase, m metrics.BusinessMetrics) ConsentUseCase {
	return &consentUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *consentUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, c.metrics, "consent", operation, start, err)
}

func (c *consentUseCaseWithMetrics) Grant(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.Grant(ctx, actor, subjectID, purpose)
	c.record(ctx, "consent_grant", start, err)
	return consent, err
}

func (c *consentUseCaseWithMetrics) Revoke(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.Revoke(ctx, actor, subjectID, purpose)
	c.record(ctx, "consent_revoke", start, err)
	return consent, err
}

func (c *consentUseCaseWithMetrics) Get(
	ctx context.Context,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.Get(ctx, subjectID, purpose)
	c.record(ctx, "consent_get", start, err)
	return consent, err
}

func (c *consentUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.GetByID(ctx, id)
	c.record(ctx, "consent_get_by_id", start, err)
	return consent, err
}

func (c *consentUseCaseWithMetrics) List(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*consentDomain.Consent, error) {
	start := time.Now()
	consents, err := c.next.List(ctx, subjectID)
	c.record(ctx, "consent_list", start, err)
	return consents, err
}

func (c *consentUseCaseWithMetrics) RevokeAll(ctx context.Context, actor string, subjectID uuid.UUID) (int64, error) {
	start := time.Now()
	n, err := c.next.RevokeAll(ctx, actor, subjectID)
	c.record(ctx, "consent_revoke_all", start, err)
	return n, err
}

func (c *consentUseCaseWithMetrics) HasGranted(
	ctx context.Context,
	subjectID uuid.UUID,
	purpose string,
) (bool, error) {
	start := time.Now()
	ok, err := c.next.HasGranted(ctx, subjectID, purpose)
	c.record(ctx, "consent_has_granted", start, err)
	return ok, err
}

func (c *consentUseCaseWithMetrics) RequireGranted(
	ctx context.Context,
	subjectID uuid.UUID,
	purposes []string,
) error {
	start := time.Now()
	err := c.next.RequireGranted(ctx, subjectID, purposes)
	c.record(ctx, "consent_require_granted", start, err)
	return err
}
