package repository

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

// MemorySubjectRepository keeps subjects in process memory.
type MemorySubjectRepository struct {
	mu       sync.RWMutex
	subjects map[uuid.UUID]subjectDomain.Subject
}

// NewMemorySubjectRepository creates an empty in-memory repository.
func NewMemorySubjectRepository() *MemorySubjectRepository {
	return &MemorySubjectRepository{subjects: make(map[uuid.UUID]subjectDomain.Subject)}
}

func clone(s subjectDomain.Subject) *subjectDomain.Subject {
	s.Envelope = bytes.Clone(s.Envelope)
	if s.AnonymizedAt != nil {
		t := *s.AnonymizedAt
		s.AnonymizedAt = &t
	}
	return &s
}

func (r *MemorySubjectRepository) Create(_ context.Context, subject *subjectDomain.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subjects[subject.ID]; ok {
		return subjectDomain.ErrSubjectAlreadyExists
	}
	r.subjects[subject.ID] = *clone(*subject)
	return nil
}

func (r *MemorySubjectRepository) Get(_ context.Context, id uuid.UUID) (*subjectDomain.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subject, ok := r.subjects[id]
	if !ok {
		return nil, subjectDomain.ErrSubjectNotFound
	}
	return clone(subject), nil
}

// GetForUpdate relies on the memory transaction manager for isolation.
func (r *MemorySubjectRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*subjectDomain.Subject, error) {
	return r.Get(ctx, id)
}

func (r *MemorySubjectRepository) Update(_ context.Context, subject *subjectDomain.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subjects[subject.ID]; !ok {
		return subjectDomain.ErrSubjectNotFound
	}
	r.subjects[subject.ID] = *clone(*subject)
	return nil
}

func (r *MemorySubjectRepository) List(_ context.Context, offset, limit int) ([]*subjectDomain.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subjects := make([]*subjectDomain.Subject, 0, len(r.subjects))
	for _, subject := range r.subjects {
		subjects = append(subjects, clone(subject))
	}
	sort.Slice(subjects, func(i, j int) bool {
		return bytes.Compare(subjects[i].ID[:], subjects[j].ID[:]) > 0
	})

	if offset >= len(subjects) {
		return make([]*subjectDomain.Subject, 0), nil
	}
	subjects = subjects[offset:]
	if limit > 0 && limit < len(subjects) {
		subjects = subjects[:limit]
	}
	return subjects, nil
}
