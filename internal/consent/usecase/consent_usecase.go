package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	auditUseCase "github.com/allisson/piivault/internal/audit/usecase"
	"github.com/allisson/piivault/internal/canonical"
	consentDomain "github.com/allisson/piivault/internal/consent/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

type consentUseCase struct {
	txManager database.TxManager
	repo      ConsentRepository
	recorder  auditUseCase.Recorder
}

// NewConsentUseCase creates the consent ledger.
func NewConsentUseCase(
	txManager database.TxManager,
	repo ConsentRepository,
	recorder auditUseCase.Recorder,
) ConsentUseCase {
	return &consentUseCase{txManager: txManager, repo: repo, recorder: recorder}
}

func normalizePurpose(purpose string) (string, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" || len(purpose) > consentDomain.MaxPurposeLength {
		return "", consentDomain.ErrInvalidPurpose
	}
	return purpose, nil
}

// Grant records consent for purpose and audits the change.
func (c *consentUseCase) Grant(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	return c.set(ctx, actor, subjectID, purpose, true)
}

// Revoke withdraws consent for purpose and audits the change.
func (c *consentUseCase) Revoke(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	return c.set(ctx, actor, subjectID, purpose, false)
}

func (c *consentUseCase) set(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
	purpose string,
	granted bool,
) (*consentDomain.Consent, error) {
	purpose, err := normalizePurpose(purpose)
	if err != nil {
		return nil, err
	}

	var result *consentDomain.Consent
	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		var oldGranted any
		existing, err := c.repo.Get(ctx, subjectID, purpose)
		switch {
		case err == nil:
			oldGranted = existing.Granted
		case apperrors.Is(err, consentDomain.ErrConsentNotFound):
			if !granted {
				return err
			}
		default:
			return err
		}

		consent := &consentDomain.Consent{
			ID:        uuid.Must(uuid.NewV7()),
			SubjectID: subjectID,
			Purpose:   purpose,
			Granted:   granted,
			Timestamp: time.Now().UTC(),
		}
		if existing != nil {
			consent.ID = existing.ID
		}
		if err := c.repo.Upsert(ctx, consent); err != nil {
			return err
		}

		// re-read so a concurrent first grant resolves to the stored row id
		stored, err := c.repo.Get(ctx, subjectID, purpose)
		if err != nil {
			return err
		}

		action := auditDomain.ActionRevokeConsent
		if granted {
			action = auditDomain.ActionGrantConsent
		}
		if _, err := c.recorder.Record(ctx, auditDomain.RecordInput{
			Actor:       actor,
			Action:      action,
			SubjectType: auditDomain.SubjectTypeConsent,
			SubjectID:   stored.ID,
			Detail: canonical.Document{
				"subject_id":  subjectID.String(),
				"purpose":     purpose,
				"old_granted": oldGranted,
				"new_granted": granted,
			},
		}); err != nil {
			return err
		}

		result = stored
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to update consent")
	}
	return result, nil
}

// Get retrieves the consent for a (subject, purpose) pair.
func (c *consentUseCase) Get(
	ctx context.Context,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	purpose, err := normalizePurpose(purpose)
	if err != nil {
		return nil, err
	}
	return c.repo.Get(ctx, subjectID, purpose)
}

// GetByID retrieves a consent by ID.
func (c *consentUseCase) GetByID(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	return c.repo.GetByID(ctx, id)
}

// List returns all consents recorded for the subject.
func (c *consentUseCase) List(ctx context.Context, subjectID uuid.UUID) ([]*consentDomain.Consent, error) {
	consents, err := c.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consents")
	}
	return consents, nil
}

// RevokeAll revokes every granted consent of the subject in one statement and
// returns how many rows changed.
func (c *consentUseCase) RevokeAll(ctx context.Context, actor string, subjectID uuid.UUID) (int64, error) {
	var revoked int64
	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		n, err := c.repo.RevokeAll(ctx, subjectID, time.Now().UTC())
		if err != nil {
			return err
		}

		if _, err := c.recorder.Record(ctx, auditDomain.RecordInput{
			Actor:       actor,
			Action:      auditDomain.ActionRevokeAll,
			SubjectType: auditDomain.SubjectTypeSubject,
			SubjectID:   subjectID,
			Detail:      canonical.Document{"revoked_count": n},
		}); err != nil {
			return err
		}

		revoked = n
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke consents")
	}
	return revoked, nil
}

// HasGranted reports whether purpose is currently granted.
func (c *consentUseCase) HasGranted(ctx context.Context, subjectID uuid.UUID, purpose string) (bool, error) {
	consent, err := c.Get(ctx, subjectID, purpose)
	if apperrors.Is(err, consentDomain.ErrConsentNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return consent.Granted, nil
}

// RequireGranted returns ErrConsentMissing unless every purpose is granted.
func (c *consentUseCase) RequireGranted(ctx context.Context, subjectID uuid.UUID, purposes []string) error {
	if len(purposes) == 0 {
		return nil
	}

	consents, err := c.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return apperrors.Wrap(err, "failed to list consents")
	}

	granted := make(map[string]bool, len(consents))
	for _, consent := range consents {
		granted[consent.Purpose] = consent.Granted
	}

	var missing []string
	seen := make(map[string]bool, len(purposes))
	for _, purpose := range purposes {
		purpose = strings.TrimSpace(purpose)
		if seen[purpose] {
			continue
		}
		seen[purpose] = true
		if !granted[purpose] {
			missing = append(missing, purpose)
		}
	}

	if len(missing) > 0 {
		return &consentDomain.MissingConsentError{Purposes: missing}
	}
	return nil
}
