// Package usecase implements the PII record store.
package usecase

import (
	"context"

	"github.com/google/uuid"

	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

// SubjectRepository persists subjects and their envelopes.
type SubjectRepository interface {
	// Create returns ErrSubjectAlreadyExists when the id is taken.
	Create(ctx context.Context, subject *subjectDomain.Subject) error

	Get(ctx context.Context, id uuid.UUID) (*subjectDomain.Subject, error)

	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*subjectDomain.Subject, error)

	// Update overwrites envelope, updated_at and anonymized_at.
	Update(ctx context.Context, subject *subjectDomain.Subject) error

	// List returns subjects ordered by id descending.
	List(ctx context.Context, offset, limit int) ([]*subjectDomain.Subject, error)
}

// SubjectUseCase is the PII record store API.
type SubjectUseCase interface {
	// Write creates or updates a subject's PII. Creation fails with
	// consent.ErrConsentMissing when a required purpose is not granted.
	Write(ctx context.Context, input subjectDomain.WriteInput) (*subjectDomain.Subject, error)

	// Read returns the subject. With decrypt set, a decryption failure is
	// recorded as a decrypt_error audit event and reported through
	// SubjectView.DecryptFailed instead of an error.
	Read(ctx context.Context, id uuid.UUID, decrypt bool) (*subjectDomain.SubjectView, error)

	// Delete overwrites the PII with a redacted payload and revokes all consents.
	Delete(ctx context.Context, actor string, id uuid.UUID) error

	// Export bundles metadata, consents and decrypted PII.
	Export(ctx context.Context, id uuid.UUID) (*subjectDomain.Export, error)

	List(ctx context.Context, offset, limit int) ([]*subjectDomain.Subject, error)
}
