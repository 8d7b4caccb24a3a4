// Package mocks provides testify mocks of the audit use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
)

// MockAuditUseCase is a mock implementation of usecase.AuditUseCase.
type MockAuditUseCase struct {
	mock.Mock
}

// Record mocks the Record method.
func (m *MockAuditUseCase) Record(
	ctx context.Context,
	input auditDomain.RecordInput,
) (*auditDomain.AuditEvent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.AuditEvent), args.Error(1)
}

// List mocks the List method.
func (m *MockAuditUseCase) List(
	ctx context.Context,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AuditEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEvent), args.Error(1)
}

// Verify mocks the Verify method.
func (m *MockAuditUseCase) Verify(
	ctx context.Context,
	from, to *time.Time,
) (*auditDomain.VerifyResult, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerifyResult), args.Error(1)
}
