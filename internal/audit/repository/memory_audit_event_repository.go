package repository

import (
	"context"
	"sort"
	"sync"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
)

// MemoryAuditEventRepository keeps audit events in process memory. Events are
// copied on the way in and out so callers cannot mutate stored rows.
type MemoryAuditEventRepository struct {
	mu     sync.RWMutex
	events []auditDomain.AuditEvent
}

// NewMemoryAuditEventRepository creates an empty in-memory repository.
func NewMemoryAuditEventRepository() *MemoryAuditEventRepository {
	return &MemoryAuditEventRepository{}
}

func (r *MemoryAuditEventRepository) Create(_ context.Context, event *auditDomain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *event)
	return nil
}

func (r *MemoryAuditEventRepository) List(
	_ context.Context,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*auditDomain.AuditEvent, 0)
	for i := range r.events {
		event := r.events[i]
		if !matches(&event, filter) {
			continue
		}
		matched = append(matched, &event)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() > matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return make([]*auditDomain.AuditEvent, 0), nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func matches(event *auditDomain.AuditEvent, filter auditDomain.ListFilter) bool {
	if filter.SubjectID != nil && event.SubjectID != *filter.SubjectID {
		return false
	}
	if filter.Action != "" && event.Action != filter.Action {
		return false
	}
	if filter.SubjectType != "" && event.SubjectType != filter.SubjectType {
		return false
	}
	if filter.CreatedAtFrom != nil && event.CreatedAt.Before(*filter.CreatedAtFrom) {
		return false
	}
	if filter.CreatedAtTo != nil && event.CreatedAt.After(*filter.CreatedAtTo) {
		return false
	}
	return true
}
