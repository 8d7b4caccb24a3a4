package usecase

import (
	"context"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
)

// Worker periodically processes pending deletion requests.
type Worker struct {
	interval time.Duration
	useCase  DeletionUseCase
	logger   *slog.Logger
}

// NewWorker creates a worker ticking every config.Interval.
func NewWorker(config Config, useCase DeletionUseCase, logger *slog.Logger) *Worker {
	return &Worker{interval: config.Interval, useCase: useCase, logger: logger}
}

// Start runs batches until ctx is cancelled. A batch in flight finishes the
// requests it already started.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("starting deletion worker", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping deletion worker")
			return ctx.Err()
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce processes a single batch and logs its tally.
func (w *Worker) RunOnce(ctx context.Context) {
	result, err := w.useCase.ProcessPending(ctx, auditDomain.SystemActor)
	if err != nil {
		w.logger.Error("failed to process deletion batch", slog.Any("error", err))
	}
	if result.Total == 0 {
		return
	}
	w.logger.Info("processed deletion batch",
		slog.Int("total", result.Total),
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
	)
}
