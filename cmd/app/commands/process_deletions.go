package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	deletionUseCase "github.com/allisson/piivault/internal/deletion/usecase"
)

// RunProcessDeletions processes one batch of pending deletion requests and
// prints the tally. It fails when any request in the batch failed.
func RunProcessDeletions(
	ctx context.Context,
	useCase deletionUseCase.DeletionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	actor string,
	format string,
) error {
	logger.Info("processing pending deletion requests", slog.String("actor", actor))

	result, err := useCase.ProcessPending(ctx, actor)
	if err != nil {
		return fmt.Errorf("failed to process deletion requests: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"total":     result.Total,
			"processed": result.Processed,
			"failed":    result.Failed,
			"skipped":   result.Skipped,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Total:     %d\n", result.Total)
		_, _ = fmt.Fprintf(writer, "Processed: %d\n", result.Processed)
		_, _ = fmt.Fprintf(writer, "Failed:    %d\n", result.Failed)
		_, _ = fmt.Fprintf(writer, "Skipped:   %d\n", result.Skipped)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d deletion request(s) failed", result.Failed)
	}
	return nil
}
