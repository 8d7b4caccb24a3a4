// Package mocks provides testify mocks of the consent use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
)

// MockConsentUseCase is a mock implementation of usecase.ConsentUseCase.
type MockConsentUseCase struct {
	mock.Mock
}

func (m *MockConsentUseCase) consent(args mock.Arguments) (*consentDomain.Consent, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.Consent), args.Error(1)
}

// Grant mocks the Grant method.
func (m *MockConsentUseCase) Grant(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	return m.consent(m.Called(ctx, actor, subjectID, purpose))
}

// Revoke mocks the Revoke method.
func (m *MockConsentUseCase) Revoke(
	ctx context.Context,
	actor string,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	return m.consent(m.Called(ctx, actor, subjectID, purpose))
}

// Get mocks the Get method.
func (m *MockConsentUseCase) Get(
	ctx context.Context,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	return m.consent(m.Called(ctx, subjectID, purpose))
}

// GetByID mocks the GetByID method.
func (m *MockConsentUseCase) GetByID(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	return m.consent(m.Called(ctx, id))
}

// List mocks the List method.
func (m *MockConsentUseCase) List(ctx context.Context, subjectID uuid.UUID) ([]*consentDomain.Consent, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consentDomain.Consent), args.Error(1)
}

// RevokeAll mocks the RevokeAll method.
func (m *MockConsentUseCase) RevokeAll(ctx context.Context, actor string, subjectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, actor, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

// HasGranted mocks the HasGranted method.
func (m *MockConsentUseCase) HasGranted(ctx context.Context, subjectID uuid.UUID, purpose string) (bool, error) {
	args := m.Called(ctx, subjectID, purpose)
	return args.Bool(0), args.Error(1)
}

// RequireGranted mocks the RequireGranted method.
func (m *MockConsentUseCase) RequireGranted(ctx context.Context, subjectID uuid.UUID, purposes []string) error {
	return m.Called(ctx, subjectID, purposes).Error(0)
}
