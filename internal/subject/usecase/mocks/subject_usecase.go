// Package mocks provides testify mocks of the subject use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

// MockSubjectUseCase is a mock implementation of usecase.SubjectUseCase.
type MockSubjectUseCase struct {
	mock.Mock
}

// Write mocks the Write method.
func (m *MockSubjectUseCase) Write(
	ctx context.Context,
	input subjectDomain.WriteInput,
) (*subjectDomain.Subject, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subjectDomain.Subject), args.Error(1)
}

// Read mocks the Read method.
func (m *MockSubjectUseCase) Read(
	ctx context.Context,
	id uuid.UUID,
	decrypt bool,
) (*subjectDomain.SubjectView, error) {
	args := m.Called(ctx, id, decrypt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subjectDomain.SubjectView), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockSubjectUseCase) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

// Export mocks the Export method.
func (m *MockSubjectUseCase) Export(ctx context.Context, id uuid.UUID) (*subjectDomain.Export, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subjectDomain.Export), args.Error(1)
}

// List mocks the List method.
func (m *MockSubjectUseCase) List(ctx context.Context, offset, limit int) ([]*subjectDomain.Subject, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subjectDomain.Subject), args.Error(1)
}
