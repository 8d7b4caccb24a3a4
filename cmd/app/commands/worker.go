package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/allisson/piivault/internal/app"
	"github.com/allisson/piivault/internal/config"
)

// RunWorker runs the deletion worker until SIGINT/SIGTERM. A batch in flight
// finishes the requests it already started before the process exits.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting deletion worker", slog.String("version", version))

	defer closeContainer(container, logger)

	if cfg.DBDriver == "memory" {
		logger.Warn("memory driver state is private to this process, the worker will only see its own requests")
	}

	worker, err := container.DeletionWorker()
	if err != nil {
		return fmt.Errorf("failed to initialize deletion worker: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("deletion worker stopped")
	return nil
}
