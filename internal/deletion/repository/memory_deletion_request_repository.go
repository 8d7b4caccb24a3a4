package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	deletionDomain "github.com/allisson/piivault/internal/deletion/domain"
)

// MemoryDeletionRequestRepository keeps deletion requests in process memory.
type MemoryDeletionRequestRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]deletionDomain.DeletionRequest
}

// NewMemoryDeletionRequestRepository creates an empty in-memory repository.
func NewMemoryDeletionRequestRepository() *MemoryDeletionRequestRepository {
	return &MemoryDeletionRequestRepository{requests: make(map[uuid.UUID]deletionDomain.DeletionRequest)}
}

func clone(r deletionDomain.DeletionRequest) *deletionDomain.DeletionRequest {
	if r.ProcessedAt != nil {
		t := *r.ProcessedAt
		r.ProcessedAt = &t
	}
	return &r
}

func (m *MemoryDeletionRequestRepository) Create(
	_ context.Context,
	request *deletionDomain.DeletionRequest,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if request.State == deletionDomain.StatePending {
		for _, existing := range m.requests {
			if existing.SubjectID == request.SubjectID && existing.State == deletionDomain.StatePending {
				return deletionDomain.ErrPendingRequestExists
			}
		}
	}
	m.requests[request.ID] = *clone(*request)
	return nil
}

func (m *MemoryDeletionRequestRepository) Get(
	_ context.Context,
	id uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	request, ok := m.requests[id]
	if !ok {
		return nil, deletionDomain.ErrDeletionRequestNotFound
	}
	return clone(request), nil
}

func (m *MemoryDeletionRequestRepository) GetPendingBySubject(
	_ context.Context,
	subjectID uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, request := range m.requests {
		if request.SubjectID == subjectID && request.State == deletionDomain.StatePending {
			return clone(request), nil
		}
	}
	return nil, deletionDomain.ErrDeletionRequestNotFound
}

func (m *MemoryDeletionRequestRepository) filter(
	keep func(deletionDomain.DeletionRequest) bool,
) []*deletionDomain.DeletionRequest {
	requests := make([]*deletionDomain.DeletionRequest, 0)
	for _, request := range m.requests {
		if keep(request) {
			requests = append(requests, clone(request))
		}
	}
	return requests
}

func (m *MemoryDeletionRequestRepository) ListBySubject(
	_ context.Context,
	subjectID uuid.UUID,
) ([]*deletionDomain.DeletionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	requests := m.filter(func(r deletionDomain.DeletionRequest) bool { return r.SubjectID == subjectID })
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].RequestedAt.Equal(requests[j].RequestedAt) {
			return requests[i].ID.String() > requests[j].ID.String()
		}
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})
	return requests, nil
}

func (m *MemoryDeletionRequestRepository) ListPending(
	_ context.Context,
	limit int,
) ([]*deletionDomain.DeletionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	requests := m.filter(func(r deletionDomain.DeletionRequest) bool {
		return r.State == deletionDomain.StatePending
	})
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].RequestedAt.Equal(requests[j].RequestedAt) {
			return requests[i].ID.String() < requests[j].ID.String()
		}
		return requests[i].RequestedAt.Before(requests[j].RequestedAt)
	})
	if limit > 0 && limit < len(requests) {
		requests = requests[:limit]
	}
	return requests, nil
}

func (m *MemoryDeletionRequestRepository) UpdateState(
	_ context.Context,
	id uuid.UUID,
	from, to deletionDomain.State,
	processedAt *time.Time,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	request, ok := m.requests[id]
	if !ok || request.State != from {
		return false, nil
	}
	request.State = to
	request.ProcessedAt = processedAt
	m.requests[id] = *clone(request)
	return true, nil
}
