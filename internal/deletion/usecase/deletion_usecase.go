package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	auditUseCase "github.com/allisson/piivault/internal/audit/usecase"
	"github.com/allisson/piivault/internal/canonical"
	consentUseCase "github.com/allisson/piivault/internal/consent/usecase"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
	"github.com/allisson/piivault/internal/database"
	deletionDomain "github.com/allisson/piivault/internal/deletion/domain"
	deletionService "github.com/allisson/piivault/internal/deletion/service"
	apperrors "github.com/allisson/piivault/internal/errors"
	subjectUseCase "github.com/allisson/piivault/internal/subject/usecase"
)

const (
	defaultBatchSize = 100
	maxListPending   = 1000
)

// Config holds deletion workflow configuration.
type Config struct {
	Interval    time.Duration
	BatchSize   int
	Concurrency int
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeCompleted
	outcomeFailed
)

type deletionUseCase struct {
	config     Config
	txManager  database.TxManager
	repo       DeletionRequestRepository
	subjects   subjectUseCase.SubjectRepository
	engine     cryptoService.Engine
	consents   consentUseCase.ConsentUseCase
	recorder   auditUseCase.Recorder
	anonymizer deletionService.Anonymizer
	logger     *slog.Logger
}

// NewDeletionUseCase creates the deletion workflow.
func NewDeletionUseCase(
	config Config,
	txManager database.TxManager,
	repo DeletionRequestRepository,
	subjects subjectUseCase.SubjectRepository,
	engine cryptoService.Engine,
	consents consentUseCase.ConsentUseCase,
	recorder auditUseCase.Recorder,
	anonymizer deletionService.Anonymizer,
	logger *slog.Logger,
) DeletionUseCase {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &deletionUseCase{
		config:     config,
		txManager:  txManager,
		repo:       repo,
		subjects:   subjects,
		engine:     engine,
		consents:   consents,
		recorder:   recorder,
		anonymizer: anonymizer,
		logger:     logger,
	}
}

// Submit opens a Pending request for the subject, or returns the one already
// pending so repeated submissions are idempotent.
func (d *deletionUseCase) Submit(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	var result *deletionDomain.DeletionRequest
	err := d.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := d.repo.GetPendingBySubject(ctx, subjectID)
		if err == nil {
			result = existing
			return nil
		}
		if !apperrors.Is(err, deletionDomain.ErrDeletionRequestNotFound) {
			return err
		}

		request := &deletionDomain.DeletionRequest{
			ID:          uuid.Must(uuid.NewV7()),
			SubjectID:   subjectID,
			State:       deletionDomain.StatePending,
			RequestedAt: time.Now().UTC(),
		}
		if err := d.repo.Create(ctx, request); err != nil {
			return err
		}

		_, err = d.recorder.Record(ctx, auditDomain.RecordInput{
			Actor:       actor,
			Action:      auditDomain.ActionCreateRTBF,
			SubjectType: auditDomain.SubjectTypeDeletionRequest,
			SubjectID:   request.ID,
			Detail:      canonical.Document{"subject_id": subjectID.String()},
		})
		if err != nil {
			return err
		}
		result = request
		return nil
	})

	// A concurrent submit won the unique pending slot.
	if apperrors.Is(err, deletionDomain.ErrPendingRequestExists) {
		return d.repo.GetPendingBySubject(ctx, subjectID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to submit deletion request")
	}
	return result, nil
}

// Process runs one request through the state machine. It reports true only
// when this call completed the request; non-pending requests are left alone.
func (d *deletionUseCase) Process(ctx context.Context, actor string, id uuid.UUID) (bool, error) {
	result, err := d.process(ctx, actor, id)
	return result == outcomeCompleted, err
}

// process claims the request and anonymizes the subject, failing it on error.
func (d *deletionUseCase) process(ctx context.Context, actor string, id uuid.UUID) (outcome, error) {
	request, err := d.repo.Get(ctx, id)
	if err != nil {
		return outcomeSkipped, err
	}
	if request.State != deletionDomain.StatePending {
		return outcomeSkipped, nil
	}

	// The claim commits on its own so a crash leaves a visible Processing row.
	claimed, err := d.repo.UpdateState(ctx, id, deletionDomain.StatePending, deletionDomain.StateProcessing, nil)
	if err != nil {
		return outcomeSkipped, apperrors.Wrap(err, "failed to claim deletion request")
	}
	if !claimed {
		return outcomeSkipped, nil
	}
	request.State = deletionDomain.StateProcessing

	if err := d.anonymize(ctx, actor, request); err != nil {
		return outcomeFailed, d.fail(context.WithoutCancel(ctx), actor, request, err)
	}

	d.logger.Info("deletion request completed",
		slog.String("request_id", id.String()),
		slog.String("subject_id", request.SubjectID.String()),
	)
	return outcomeCompleted, nil
}

// anonymize overwrites the envelope, revokes consents and completes the request
// inside one transaction.
func (d *deletionUseCase) anonymize(
	ctx context.Context,
	actor string,
	request *deletionDomain.DeletionRequest,
) error {
	_, err := d.recorder.Record(ctx, auditDomain.RecordInput{
		Actor:       actor,
		Action:      auditDomain.ActionStartRTBF,
		SubjectType: auditDomain.SubjectTypeDeletionRequest,
		SubjectID:   request.ID,
		Detail:      canonical.Document{"subject_id": request.SubjectID.String()},
	})
	if err != nil {
		return err
	}

	return d.txManager.WithTx(ctx, func(ctx context.Context) error {
		subject, err := d.subjects.GetForUpdate(ctx, request.SubjectID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		pii, err := d.anonymizer.Generate(now)
		if err != nil {
			return apperrors.Wrap(err, "failed to generate anonymized pii")
		}
		envelope, err := d.engine.Encrypt(pii)
		if err != nil {
			return apperrors.Wrap(err, "failed to encrypt anonymized pii")
		}

		subject.Envelope = envelope
		subject.UpdatedAt = now
		subject.AnonymizedAt = &now
		if err := d.subjects.Update(ctx, subject); err != nil {
			return err
		}

		revoked, err := d.consents.RevokeAll(ctx, actor, request.SubjectID)
		if err != nil {
			return err
		}

		// Audit before completing: a store without rollback must never hold a
		// Completed request that has no process_rtbf event.
		_, err = d.recorder.Record(ctx, auditDomain.RecordInput{
			Actor:       actor,
			Action:      auditDomain.ActionProcessRTBF,
			SubjectType: auditDomain.SubjectTypeSubject,
			SubjectID:   request.SubjectID,
			Detail: canonical.Document{
				"request_id":       request.ID.String(),
				"action":           "anonymized_pii",
				"consents_revoked": revoked,
			},
		})
		if err != nil {
			return err
		}

		completed, err := d.repo.UpdateState(
			ctx,
			request.ID,
			deletionDomain.StateProcessing,
			deletionDomain.StateCompleted,
			&now,
		)
		if err != nil {
			return err
		}
		if !completed {
			return deletionDomain.ErrInvalidStateTransition
		}
		return nil
	})
}

// fail moves a Processing request to Failed. The audit event is best-effort.
// Only an error persisting the Failed state is returned.
func (d *deletionUseCase) fail(
	ctx context.Context,
	actor string,
	request *deletionDomain.DeletionRequest,
	cause error,
) error {
	d.logger.Error("deletion request failed",
		slog.String("request_id", request.ID.String()),
		slog.String("subject_id", request.SubjectID.String()),
		slog.Any("error", cause),
	)

	now := time.Now().UTC()
	failed, err := d.repo.UpdateState(
		ctx,
		request.ID,
		deletionDomain.StateProcessing,
		deletionDomain.StateFailed,
		&now,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark deletion request as failed")
	}
	if !failed {
		d.logger.Warn("deletion request left processing state before it could be marked failed",
			slog.String("request_id", request.ID.String()),
		)
	}

	auditUseCase.RecordBestEffort(ctx, d.recorder, d.logger, auditDomain.RecordInput{
		Actor:       actor,
		Action:      auditDomain.ActionRTBFError,
		SubjectType: auditDomain.SubjectTypeDeletionRequest,
		SubjectID:   request.ID,
		Detail: canonical.Document{
			"subject_id": request.SubjectID.String(),
			"error":      cause.Error(),
		},
	})
	return nil
}

// ProcessPending processes up to BatchSize pending requests. A failed request
// is tallied and never aborts the batch; cancellation stops new work.
func (d *deletionUseCase) ProcessPending(ctx context.Context, actor string) (deletionDomain.BatchResult, error) {
	var result deletionDomain.BatchResult

	requests, err := d.repo.ListPending(ctx, d.config.BatchSize)
	if err != nil {
		return result, apperrors.Wrap(err, "failed to list pending deletion requests")
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(d.config.Concurrency)

	for _, request := range requests {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// A started request always runs to a terminal state.
			o, err := d.process(context.WithoutCancel(ctx), actor, request.ID)

			mu.Lock()
			defer mu.Unlock()

			result.Total++
			switch {
			case err != nil:
				d.logger.Error("failed to process deletion request",
					slog.String("request_id", request.ID.String()),
					slog.Any("error", err),
				)
				result.Failed++
			case o == outcomeCompleted:
				result.Processed++
			case o == outcomeFailed:
				result.Failed++
			default:
				result.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	return result, ctx.Err()
}

// Get retrieves a deletion request by ID.
func (d *deletionUseCase) Get(ctx context.Context, id uuid.UUID) (*deletionDomain.DeletionRequest, error) {
	return d.repo.Get(ctx, id)
}

// ListBySubject returns every request filed for the subject.
func (d *deletionUseCase) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*deletionDomain.DeletionRequest, error) {
	return d.repo.ListBySubject(ctx, subjectID)
}

// ListPending returns requests still waiting to be processed.
func (d *deletionUseCase) ListPending(ctx context.Context) ([]*deletionDomain.DeletionRequest, error) {
	return d.repo.ListPending(ctx, maxListPending)
}

// IsSafe reports whether the subject has no pending deletion request.
func (d *deletionUseCase) IsSafe(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	_, err := d.repo.GetPendingBySubject(ctx, subjectID)
	if err == nil {
		return false, nil
	}
	if apperrors.Is(err, deletionDomain.ErrDeletionRequestNotFound) {
		return true, nil
	}
	return false, err
}
