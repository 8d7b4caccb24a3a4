package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
	"github.com/allisson/piivault/internal/consent/usecase/mocks"
	metricsMocks "github.com/allisson/piivault/internal/metrics/mocks"
)

var _ ConsentUseCase = (*mocks.MockConsentUseCase)(nil)

func expectMetrics(m *metricsMocks.MockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "consent", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "consent", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestConsentMetricsDecorator(t *testing.T) {
	ctx := context.Background()
	subjectID := uuid.Must(uuid.NewV7())

	t.Run("Grant_Success", func(t *testing.T) {
		next := &mocks.MockConsentUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		consent := &consentDomain.Consent{ID: uuid.Must(uuid.NewV7()), Granted: true}

		next.On("Grant", ctx, "admin", subjectID, "marketing").Return(consent, nil).Once()
		expectMetrics(m, ctx, "consent_grant", "success")

		got, err := NewConsentUseCaseWithMetrics(next, m).Grant(ctx, "admin", subjectID, "marketing")
		assert.NoError(t, err)
		assert.Equal(t, consent, got)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Revoke_Error", func(t *testing.T) {
		next := &mocks.MockConsentUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}

		next.On("Revoke", ctx, "admin", subjectID, "marketing").
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()
		expectMetrics(m, ctx, "consent_revoke", "error")

		_, err := NewConsentUseCaseWithMetrics(next, m).Revoke(ctx, "admin", subjectID, "marketing")
		assert.ErrorIs(t, err, consentDomain.ErrConsentNotFound)
		m.AssertExpectations(t)
	})

	t.Run("RevokeAll_Success", func(t *testing.T) {
		next := &mocks.MockConsentUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}

		next.On("RevokeAll", ctx, "admin", subjectID).Return(int64(4), nil).Once()
		expectMetrics(m, ctx, "consent_revoke_all", "success")

		n, err := NewConsentUseCaseWithMetrics(next, m).RevokeAll(ctx, "admin", subjectID)
		assert.NoError(t, err)
		assert.Equal(t, int64(4), n)
		m.AssertExpectations(t)
	})

	t.Run("RequireGranted_Error", func(t *testing.T) {
		next := &mocks.MockConsentUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		missing := &consentDomain.MissingConsentError{Purposes: []string{"storage"}}

		next.On("RequireGranted", ctx, subjectID, []string{"storage"}).Return(missing).Once()
		expectMetrics(m, ctx, "consent_require_granted", "error")

		err := NewConsentUseCaseWithMetrics(next, m).RequireGranted(ctx, subjectID, []string{"storage"})
		assert.ErrorIs(t, err, consentDomain.ErrConsentMissing)
		m.AssertExpectations(t)
	})

	t.Run("List_Success", func(t *testing.T) {
		next := &mocks.MockConsentUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}

		next.On("List", ctx, subjectID).Return([]*consentDomain.Consent{}, nil).Once()
		expectMetrics(m, ctx, "consent_list", "success")

		consents, err := NewConsentUseCaseWithMetrics(next, m).List(ctx, subjectID)
		assert.NoError(t, err)
		assert.Empty(t, consents)
		m.AssertExpectations(t)
	})
}
