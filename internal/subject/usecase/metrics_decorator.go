package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/metrics"
	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

// subjectUseCaseWithMetrics decorates SubjectUseCase with metrics instrumentation.
type subjectUseCaseWithMetrics struct {
	next    SubjectUseCase
	metrics metrics.BusinessMetrics
}

// NewSubjectUseCaseWithMetrics wraps a SubjectUseCase with metrics recording.
func NewSubjectUseCaseWithMetrics(useCase SubjectUseCase, m metrics.BusinessMetrics) SubjectUseCase {
	return &subjectUseCaseWithMetrics{next: useCase, metrics: m}
}

func (s *subjectUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, s.metrics, "subject", operation, start, err)
}

func (s *subjectUseCaseWithMetrics) Write(
	ctx context.Context,
	input subjectDomain.WriteInput,
) (*subjectDomain.Subject, error) {
	start := time.Now()
	subject, err := s.next.Write(ctx, input)
	s.record(ctx, "subject_write", start, err)
	return subject, err
}

// Read counts a sentinel decryption failure as an error outcome.
func (s *subjectUseCaseWithMetrics) Read(
	ctx context.Context,
	id uuid.UUID,
	decrypt bool,
) (*subjectDomain.SubjectView, error) {
	start := time.Now()
	view, err := s.next.Read(ctx, id, decrypt)

	status := err
	if err == nil && view.DecryptFailed {
		status = subjectDomain.ErrDecryptFailed
	}
	s.record(ctx, "subject_read", start, status)
	return view, err
}

func (s *subjectUseCaseWithMetrics) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	start := time.Now()
	err := s.next.Delete(ctx, actor, id)
	s.record(ctx, "subject_delete", start, err)
	return err
}

func (s *subjectUseCaseWithMetrics) Export(ctx context.Context, id uuid.UUID) (*subjectDomain.Export, error) {
	start := time.Now()
	export, err := s.next.Export(ctx, id)
	s.record(ctx, "subject_export", start, err)
	return export, err
}

func (s *subjectUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*subjectDomain.Subject, error) {
	start := time.Now()
	subjects, err := s.next.List(ctx, offset, limit)
	s.record(ctx, "subject_list", start, err)
	return subjects, err
}
