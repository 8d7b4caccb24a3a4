package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	auditMocks "github.com/allisson/piivault/internal/audit/usecase/mocks"
)

func TestRunVerifyAuditEvents(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	passed := &auditDomain.VerifyResult{Total: 10, Valid: 10}

	t.Run("success-text", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("*time.Time")).
			Return(passed, nil)

		var out bytes.Buffer
		err := RunVerifyAuditEvents(ctx, mockUseCase, logger, &out, "2025-01-01", "2025-01-02", "text")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Audit Event Integrity Verification")
		assert.Contains(t, out.String(), "Status: PASSED")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("success-json", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("*time.Time")).
			Return(passed, nil)

		var out bytes.Buffer
		err := RunVerifyAuditEvents(ctx, mockUseCase, logger, &out, "2025-01-01", "2025-01-02 12:00:00", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, float64(10), result["total"])
		assert.Equal(t, true, result["passed"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("open-range", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, (*time.Time)(nil), (*time.Time)(nil)).
			Return(&auditDomain.VerifyResult{}, nil)

		var out bytes.Buffer
		err := RunVerifyAuditEvents(ctx, mockUseCase, logger, &out, "", "", "text")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "No events found")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-dates", func(t *testing.T) {
		err := RunVerifyAuditEvents(ctx, nil, logger, nil, "invalid", "2025-01-02", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid start date")

		err = RunVerifyAuditEvents(ctx, nil, logger, nil, "2025-01-02", "2025-01-01", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end date must be after start date")
	})

	t.Run("integrity-failure", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, mock.Anything, mock.Anything).
			Return(&auditDomain.VerifyResult{
				Total:      10,
				Valid:      8,
				Invalid:    2,
				InvalidIDs: []uuid.UUID{uuid.New(), uuid.New()},
			}, nil)

		var out bytes.Buffer
		err := RunVerifyAuditEvents(ctx, mockUseCase, logger, &out, "", "", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "integrity check failed")
		assert.Contains(t, out.String(), "WARNING: 2 event(s) failed integrity check!")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, mock.Anything, mock.Anything).
			Return(nil, errors.New("db down"))

		err := RunVerifyAuditEvents(ctx, mockUseCase, logger, &bytes.Buffer{}, "", "", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to verify audit events")
	})
}
