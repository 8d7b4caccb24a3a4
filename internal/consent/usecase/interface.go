// Package usecase implements the consent ledger.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
)

// ConsentRepository persists consents. At most one row exists per
// (subject, purpose).
type ConsentRepository interface {
	// Upsert inserts consent or, when the (subject, purpose) pair exists,
	// overwrites its granted flag and timestamp.
	Upsert(ctx context.Context, consent *consentDomain.Consent) error

	// Get returns ErrConsentNotFound when the pair is unknown.
	Get(ctx context.Context, subjectID uuid.UUID, purpose string) (*consentDomain.Consent, error)

	GetByID(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error)

	// ListBySubject returns the subject's consents ordered by purpose.
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*consentDomain.Consent, error)

	// RevokeAll flips every granted consent of the subject in one statement
	// and returns the number of rows flipped.
	RevokeAll(ctx context.Context, subjectID uuid.UUID, at time.Time) (int64, error)
}

// ConsentUseCase is the consent ledger API.
type ConsentUseCase interface {
	Grant(ctx context.Context, actor string, subjectID uuid.UUID, purpose string) (*consentDomain.Consent, error)

	// Revoke returns ErrConsentNotFound when the purpose was never recorded.
	Revoke(ctx context.Context, actor string, subjectID uuid.UUID, purpose string) (*consentDomain.Consent, error)

	Get(ctx context.Context, subjectID uuid.UUID, purpose string) (*consentDomain.Consent, error)

	GetByID(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error)

	List(ctx context.Context, subjectID uuid.UUID) ([]*consentDomain.Consent, error)

	// RevokeAll revokes every granted consent of the subject atomically.
	// A second call returns 0.
	RevokeAll(ctx context.Context, actor string, subjectID uuid.UUID) (int64, error)

	HasGranted(ctx context.Context, subjectID uuid.UUID, purpose string) (bool, error)

	// RequireGranted returns a *MissingConsentError naming every purpose in
	// purposes that is not currently granted.
	RequireGranted(ctx context.Context, subjectID uuid.UUID, purposes []string) error
}
