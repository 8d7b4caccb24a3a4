// Package domain defines right-to-be-forgotten deletion requests and their
// state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a deletion request.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to State) bool {
	switch from {
	case StatePending:
		return to == StateProcessing
	case StateProcessing:
		return to == StateCompleted || to == StateFailed
	default:
		return false
	}
}

// DeletionRequest tracks the erasure of one subject. At most one request per
// subject is Pending at any time.
type DeletionRequest struct {
	ID          uuid.UUID
	SubjectID   uuid.UUID
	State       State
	RequestedAt time.Time
	ProcessedAt *time.Time
}

// BatchResult tallies one pass over the pending requests. Skipped counts
// requests another worker claimed first.
type BatchResult struct {
	Total     int
	Processed int
	Failed    int
	Skipped   int
}
