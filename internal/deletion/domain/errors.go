package domain

import (
	apperrors "github.com/allisson/piivault/internal/errors"
)

var (
	// ErrDeletionRequestNotFound indicates no request exists with the given id.
	ErrDeletionRequestNotFound = apperrors.Wrap(apperrors.ErrNotFound, "deletion request not found")

	// ErrInvalidStateTransition indicates a transition the state machine forbids
	// or a compare-and-swap that lost against another writer.
	ErrInvalidStateTransition = apperrors.Wrap(apperrors.ErrConflict, "invalid deletion state transition")

	// ErrPendingRequestExists indicates the subject already has a pending request.
	ErrPendingRequestExists = apperrors.Wrap(apperrors.ErrConflict, "pending deletion request exists")
)
