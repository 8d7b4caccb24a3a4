package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	auditRepository "github.com/allisson/piivault/internal/audit/repository"
	auditService "github.com/allisson/piivault/internal/audit/service"
	auditUseCase "github.com/allisson/piivault/internal/audit/usecase"
	auditMocks "github.com/allisson/piivault/internal/audit/usecase/mocks"
	consentDomain "github.com/allisson/piivault/internal/consent/domain"
	consentRepository "github.com/allisson/piivault/internal/consent/repository"
	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

type ledgerFixture struct {
	uc     ConsentUseCase
	repo   *consentRepository.MemoryConsentRepository
	events *auditRepository.MemoryAuditEventRepository
	audit  auditUseCase.AuditUseCase
}

func newLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	ms, err := cryptoDomain.NewMasterSecret([]byte("consent-test-master-secret"))
	require.NoError(t, err)

	events := auditRepository.NewMemoryAuditEventRepository()
	audit := auditUseCase.NewAuditUseCase(events, auditService.NewHMACSigner(ms))
	repo := consentRepository.NewMemoryConsentRepository()

	return &ledgerFixture{
		uc:     NewConsentUseCase(database.NewMemoryTxManager(), repo, audit),
		repo:   repo,
		events: events,
		audit:  audit,
	}
}

func (f *ledgerFixture) eventsFor(t *testing.T, action string) []*auditDomain.AuditEvent {
	t.Helper()
	events, err := f.audit.List(context.Background(), auditDomain.ListFilter{Action: action})
	require.NoError(t, err)
	return events
}

func TestConsentUseCase_Grant(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FirstGrant", func(t *testing.T) {
		f := newLedger(t)
		subjectID := uuid.Must(uuid.NewV7())

		consent, err := f.uc.Grant(ctx, "admin", subjectID, "marketing")
		require.NoError(t, err)
		assert.True(t, consent.Granted)
		assert.Equal(t, "marketing", consent.Purpose)

		events := f.eventsFor(t, auditDomain.ActionGrantConsent)
		require.Len(t, events, 1)
		assert.Equal(t, "admin", events[0].Actor)
		assert.Equal(t, auditDomain.SubjectTypeConsent, events[0].SubjectType)
		assert.Equal(t, consent.ID, events[0].SubjectID)
		assert.Nil(t, events[0].Detail["old_granted"])
		assert.Equal(t, true, events[0].Detail["new_granted"])
		assert.Equal(t, subjectID.String(), events[0].Detail["subject_id"])
	})

	t.Run("Success_RegrantKeepsSingleRow", func(t *testing.T) {
		f := newLedger(t)
		subjectID := uuid.Must(uuid.NewV7())

		first, err := f.uc.Grant(ctx, "admin", subjectID, "marketing")
		require.NoError(t, err)
		_, err = f.uc.Revoke(ctx, "admin", subjectID, "marketing")
		require.NoError(t, err)
		second, err := f.uc.Grant(ctx, "admin", subjectID, " marketing ")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		consents, err := f.uc.List(ctx, subjectID)
		require.NoError(t, err)
		assert.Len(t, consents, 1)

		grants := f.eventsFor(t, auditDomain.ActionGrantConsent)
		require.Len(t, grants, 2)
		assert.Equal(t, false, grants[0].Detail["old_granted"])
	})

	t.Run("Error_InvalidPurpose", func(t *testing.T) {
		f := newLedger(t)

		_, err := f.uc.Grant(ctx, "admin", uuid.New(), "   ")
		assert.ErrorIs(t, err, consentDomain.ErrInvalidPurpose)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_AuditFailureRollsBackOutcome", func(t *testing.T) {
		recorder := &auditMocks.MockAuditUseCase{}
		recorder.On("Record", mock.Anything, mock.Anything).
			Return(nil, auditDomain.ErrRecorderFailure).
			Once()
		uc := NewConsentUseCase(
			database.NewMemoryTxManager(),
			consentRepository.NewMemoryConsentRepository(),
			recorder,
		)

		_, err := uc.Grant(ctx, "admin", uuid.New(), "marketing")
		assert.ErrorIs(t, err, auditDomain.ErrRecorderFailure)
		recorder.AssertExpectations(t)
	})

	t.Run("Success_ConcurrentGrantsConverge", func(t *testing.T) {
		f := newLedger(t)
		subjectID := uuid.Must(uuid.NewV7())

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.uc.Grant(ctx, "admin", subjectID, "analytics")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		consents, err := f.uc.List(ctx, subjectID)
		require.NoError(t, err)
		assert.Len(t, consents, 1)
	})
}

func TestConsentUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newLedger(t)
		subjectID := uuid.Must(uuid.NewV7())
		_, err := f.uc.Grant(ctx, "admin", subjectID, "marketing")
		require.NoError(t, err)

		consent, err := f.uc.Revoke(ctx, "dpo", subjectID, "marketing")
		require.NoError(t, err)
		assert.False(t, consent.Granted)

		granted, err := f.uc.HasGranted(ctx, subjectID, "marketing")
		require.NoError(t, err)
		assert.False(t, granted)

		events := f.eventsFor(t, auditDomain.ActionRevokeConsent)
		require.Len(t, events, 1)
		assert.Equal(t, "dpo", events[0].Actor)
		assert.Equal(t, true, events[0].Detail["old_granted"])
		assert.Equal(t, false, events[0].Detail["new_granted"])
	})

	t.Run("Error_UnknownPurpose", func(t *testing.T) {
		f := newLedger(t)

		_, err := f.uc.Revoke(ctx, "admin", uuid.New(), "marketing")
		assert.ErrorIs(t, err, consentDomain.ErrConsentNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, f.eventsFor(t, ""))
	})
}

func TestConsentUseCase_RevokeAll(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t)
	subjectID := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	for _, purpose := range []string{"marketing", "analytics", "profiling"} {
		_, err := f.uc.Grant(ctx, "admin", subjectID, purpose)
		require.NoError(t, err)
	}
	_, err := f.uc.Revoke(ctx, "admin", subjectID, "profiling")
	require.NoError(t, err)
	_, err = f.uc.Grant(ctx, "admin", other, "marketing")
	require.NoError(t, err)

	n, err := f.uc.RevokeAll(ctx, "admin", subjectID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.uc.RevokeAll(ctx, "admin", subjectID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	granted, err := f.uc.HasGranted(ctx, other, "marketing")
	require.NoError(t, err)
	assert.True(t, granted)

	events := f.eventsFor(t, auditDomain.ActionRevokeAll)
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, auditDomain.SubjectTypeSubject, event.SubjectType)
		assert.Equal(t, subjectID, event.SubjectID)
	}
}

func TestConsentUseCase_HasGranted(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t)
	subjectID := uuid.Must(uuid.NewV7())

	granted, err := f.uc.HasGranted(ctx, subjectID, "marketing")
	require.NoError(t, err)
	assert.False(t, granted)

	_, err = f.uc.Grant(ctx, "admin", subjectID, "marketing")
	require.NoError(t, err)

	granted, err = f.uc.HasGranted(ctx, subjectID, "marketing")
	require.NoError(t, err)
	assert.True(t, granted)

	_, err = f.uc.HasGranted(ctx, subjectID, "")
	assert.ErrorIs(t, err, consentDomain.ErrInvalidPurpose)
}

func TestConsentUseCase_RequireGranted(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t)
	subjectID := uuid.Must(uuid.NewV7())

	_, err := f.uc.Grant(ctx, "admin", subjectID, "storage")
	require.NoError(t, err)
	_, err = f.uc.Grant(ctx, "admin", subjectID, "marketing")
	require.NoError(t, err)
	_, err = f.uc.Revoke(ctx, "admin", subjectID, "marketing")
	require.NoError(t, err)

	t.Run("Success_AllGranted", func(t *testing.T) {
		assert.NoError(t, f.uc.RequireGranted(ctx, subjectID, []string{"storage", "storage"}))
		assert.NoError(t, f.uc.RequireGranted(ctx, subjectID, nil))
	})

	t.Run("Error_NamesEveryMissingPurpose", func(t *testing.T) {
		err := f.uc.RequireGranted(ctx, subjectID, []string{"marketing", "storage", "analytics", "marketing"})
		require.Error(t, err)
		assert.ErrorIs(t, err, consentDomain.ErrConsentMissing)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		var missing *consentDomain.MissingConsentError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"marketing", "analytics"}, missing.Purposes)
	})
}

func TestConsentUseCase_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t)

	consent, err := f.uc.Grant(ctx, "admin", uuid.Must(uuid.NewV7()), "marketing")
	require.NoError(t, err)

	got, err := f.uc.GetByID(ctx, consent.ID)
	require.NoError(t, err)
	assert.Equal(t, consent.Purpose, got.Purpose)

	_, err = f.uc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, consentDomain.ErrConsentNotFound)
}
