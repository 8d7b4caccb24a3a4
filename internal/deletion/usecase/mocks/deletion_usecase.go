// Package mocks provides testify mocks of the deletion use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	deletionDomain "github.com/allisson/piivault/internal/deletion/domain"
)

// MockDeletionUseCase is a mock implementation of usecase.DeletionUseCase.
type MockDeletionUseCase struct {
	mock.Mock
}

// Submit mocks the Submit method.
func (m *MockDeletionUseCase) Submit(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	args := m.Called(ctx, actor, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deletionDomain.DeletionRequest), args.Error(1)
}

// Process mocks the Process method.
func (m *MockDeletionUseCase) Process(ctx context.Context, actor string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, actor, id)
	return args.Bool(0), args.Error(1)
}

// ProcessPending mocks the ProcessPending method.
func (m *MockDeletionUseCase) ProcessPending(
	ctx context.Context,
	actor string,
) (deletionDomain.BatchResult, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(deletionDomain.BatchResult), args.Error(1)
}

// Get mocks the Get method.
func (m *MockDeletionUseCase) Get(ctx context.Context, id uuid.UUID) (*deletionDomain.DeletionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deletionDomain.DeletionRequest), args.Error(1)
}

// ListBySubject mocks the ListBySubject method.
func (m *MockDeletionUseCase) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*deletionDomain.DeletionRequest, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deletionDomain.DeletionRequest), args.Error(1)
}

// ListPending mocks the ListPending method.
func (m *MockDeletionUseCase) ListPending(ctx context.Context) ([]*deletionDomain.DeletionRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deletionDomain.DeletionRequest), args.Error(1)
}

// IsSafe mocks the IsSafe method.
func (m *MockDeletionUseCase) IsSafe(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, subjectID)
	return args.Bool(0), args.Error(1)
}
