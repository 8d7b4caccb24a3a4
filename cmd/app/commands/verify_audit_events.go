package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	auditUseCase "github.com/allisson/piivault/internal/audit/usecase"
)

// RunVerifyAuditEvents recomputes the signature of every audit event created
// between startDate and endDate. Empty dates leave that side of the range
// open. It fails when any signature does not match.
func RunVerifyAuditEvents(
	ctx context.Context,
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	startDate, endDate string,
	format string,
) error {
	var from, to *time.Time

	if startDate != "" {
		start, err := parseDate(startDate)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		from = &start
	}

	if endDate != "" {
		end, err := parseDate(endDate)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		to = &end
	}

	if from != nil && to != nil && !to.After(*from) {
		return fmt.Errorf("end date must be after start date")
	}

	logger.Info("verifying audit events",
		slog.String("start_date", startDate),
		slog.String("end_date", endDate),
	)

	result, err := useCase.Verify(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to verify audit events: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"total":       result.Total,
			"valid":       result.Valid,
			"invalid":     result.Invalid,
			"invalid_ids": result.InvalidIDs,
			"passed":      result.Invalid == 0,
		}); err != nil {
			return err
		}
	} else {
		outputVerifyText(writer, result)
	}

	logger.Info("verification completed",
		slog.Int("total", result.Total),
		slog.Int("valid", result.Valid),
		slog.Int("invalid", result.Invalid),
	)

	if result.Invalid > 0 {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", result.Invalid)
	}
	return nil
}

func outputVerifyText(writer io.Writer, result *auditDomain.VerifyResult) {
	_, _ = fmt.Fprintf(writer, "Audit Event Integrity Verification\n")
	_, _ = fmt.Fprintf(writer, "==================================\n\n")
	_, _ = fmt.Fprintf(writer, "Total:    %d\n", result.Total)
	_, _ = fmt.Fprintf(writer, "Valid:    %d\n", result.Valid)
	_, _ = fmt.Fprintf(writer, "Invalid:  %d\n\n", result.Invalid)

	switch {
	case result.Invalid > 0:
		_, _ = fmt.Fprintf(writer, "WARNING: %d event(s) failed integrity check!\n\n", result.Invalid)
		_, _ = fmt.Fprintf(writer, "Invalid Event IDs:\n")
		for _, id := range result.InvalidIDs {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
		_, _ = fmt.Fprintf(writer, "\nStatus: FAILED\n")
	case result.Total == 0:
		_, _ = fmt.Fprintf(writer, "Status: No events found in specified time range\n")
	default:
		_, _ = fmt.Fprintf(writer, "Status: PASSED\n")
	}
}
