package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	auditUseCase "github.com/allisson/piivault/internal/audit/usecase"
	"github.com/allisson/piivault/internal/canonical"
	consentUseCase "github.com/allisson/piivault/internal/consent/usecase"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

type subjectUseCase struct {
	txManager database.TxManager
	repo      SubjectRepository
	engine    cryptoService.Engine
	consents  consentUseCase.ConsentUseCase
	recorder  auditUseCase.Recorder
	logger    *slog.Logger
}

// NewSubjectUseCase creates the PII record store.
func NewSubjectUseCase(
	txManager database.TxManager,
	repo SubjectRepository,
	engine cryptoService.Engine,
	consents consentUseCase.ConsentUseCase,
	recorder auditUseCase.Recorder,
	logger *slog.Logger,
) SubjectUseCase {
	return &subjectUseCase{
		txManager: txManager,
		repo:      repo,
		engine:    engine,
		consents:  consents,
		recorder:  recorder,
		logger:    logger,
	}
}

func fieldNames(doc canonical.Document) []string {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write encrypts the PII and creates or updates the subject. New subjects
// require every purpose in RequiredPurposes to be granted.
func (s *subjectUseCase) Write(
	ctx context.Context,
	input subjectDomain.WriteInput,
) (*subjectDomain.Subject, error) {
	envelope, err := s.engine.Encrypt(input.PII)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt pii")
	}

	id := uuid.Must(uuid.NewV7())
	if input.ID != nil {
		id = *input.ID
	}

	var result *subjectDomain.Subject
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetForUpdate(ctx, id)
		if err != nil && !apperrors.Is(err, subjectDomain.ErrSubjectNotFound) {
			return err
		}

		now := time.Now().UTC()
		action := auditDomain.ActionUpdate
		detail := canonical.Document{"fields": fieldNames(input.PII)}

		if existing == nil {
			if err := s.consents.RequireGranted(ctx, id, input.RequiredPurposes); err != nil {
				return err
			}
			result = &subjectDomain.Subject{ID: id, Envelope: envelope, CreatedAt: now, UpdatedAt: now}
			if err := s.repo.Create(ctx, result); err != nil {
				return err
			}
			action = auditDomain.ActionCreate
			detail["required_purposes"] = input.RequiredPurposes
		} else {
			if existing.IsAnonymized() {
				return subjectDomain.ErrSubjectAnonymized
			}
			existing.Envelope = envelope
			existing.UpdatedAt = now
			if err := s.repo.Update(ctx, existing); err != nil {
				return err
			}
			result = existing
		}

		_, err = s.recorder.Record(ctx, auditDomain.RecordInput{
			Actor:       input.Actor,
			Action:      action,
			SubjectType: auditDomain.SubjectTypeSubject,
			SubjectID:   id,
			Detail:      detail,
		})
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to write subject")
	}
	return result, nil
}

// Read returns the subject and, when decrypt is set, its PII. A decryption
// failure is audited and reported through DecryptFailed instead of an error.
func (s *subjectUseCase) Read(
	ctx context.Context,
	id uuid.UUID,
	decrypt bool,
) (*subjectDomain.SubjectView, error) {
	subject, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &subjectDomain.SubjectView{Subject: subject}
	if decrypt {
		view.PII, view.DecryptFailed = s.decrypt(ctx, subject)
	}
	return view, nil
}

// decrypt opens the subject envelope. Failures are audited best-effort and
// never surface the crypto error to the caller.
func (s *subjectUseCase) decrypt(ctx context.Context, subject *subjectDomain.Subject) (canonical.Document, bool) {
	pii, err := s.engine.Decrypt(subject.Envelope)
	if err == nil {
		return pii, false
	}

	s.logger.Warn("failed to decrypt subject pii",
		slog.String("subject_id", subject.ID.String()),
		slog.Any("error", err),
	)
	auditUseCase.RecordBestEffort(ctx, s.recorder, s.logger, auditDomain.RecordInput{
		Actor:       auditDomain.SystemActor,
		Action:      auditDomain.ActionDecryptError,
		SubjectType: auditDomain.SubjectTypeSubject,
		SubjectID:   subject.ID,
		Detail:      canonical.Document{"error": "failed to decrypt pii"},
	})
	return nil, true
}

// Delete replaces the PII with a redacted payload and revokes all consents.
// The row itself is kept.
func (s *subjectUseCase) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	envelope, err := s.engine.Encrypt(subjectDomain.RedactedPII(id))
	if err != nil {
		return apperrors.Wrap(err, "failed to encrypt redacted pii")
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		subject, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		subject.Envelope = envelope
		subject.UpdatedAt = now
		subject.AnonymizedAt = &now
		if err := s.repo.Update(ctx, subject); err != nil {
			return err
		}

		revoked, err := s.consents.RevokeAll(ctx, actor, id)
		if err != nil {
			return err
		}

		_, err = s.recorder.Record(ctx, auditDomain.RecordInput{
			Actor:       actor,
			Action:      auditDomain.ActionDelete,
			SubjectType: auditDomain.SubjectTypeSubject,
			SubjectID:   id,
			Detail: canonical.Document{
				"action":           "anonymized_pii",
				"consents_revoked": revoked,
			},
		})
		return err
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete subject")
	}
	return nil
}

// Export bundles the subject, its consents and decrypted PII.
func (s *subjectUseCase) Export(ctx context.Context, id uuid.UUID) (*subjectDomain.Export, error) {
	subject, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	consents, err := s.consents.List(ctx, id)
	if err != nil {
		return nil, err
	}

	export := &subjectDomain.Export{Subject: subject, Consents: consents}
	export.PII, export.DecryptFailed = s.decrypt(ctx, subject)
	return export, nil
}

// List returns subject metadata without decrypting any envelope.
func (s *subjectUseCase) List(ctx context.Context, offset, limit int) ([]*subjectDomain.Subject, error) {
	subjects, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subjects")
	}
	return subjects, nil
}
