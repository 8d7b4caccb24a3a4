package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
)

type consentKey struct {
	subjectID uuid.UUID
	purpose   string
}

// MemoryConsentRepository keeps consents in process memory.
type MemoryConsentRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*consentDomain.Consent
	byPurpose map[consentKey]uuid.UUID
}

// NewMemoryConsentRepository creates an empty in-memory repository.
func NewMemoryConsentRepository() *MemoryConsentRepository {
	return &MemoryConsentRepository{
		byID:      make(map[uuid.UUID]*consentDomain.Consent),
		byPurpose: make(map[consentKey]uuid.UUID),
	}
}

func (r *MemoryConsentRepository) Upsert(_ context.Context, consent *consentDomain.Consent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := consentKey{subjectID: consent.SubjectID, purpose: consent.Purpose}
	if id, ok := r.byPurpose[key]; ok {
		stored := r.byID[id]
		stored.Granted = consent.Granted
		stored.Timestamp = consent.Timestamp
		return nil
	}

	stored := *consent
	r.byID[stored.ID] = &stored
	r.byPurpose[key] = stored.ID
	return nil
}

func (r *MemoryConsentRepository) Get(
	_ context.Context,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPurpose[consentKey{subjectID: subjectID, purpose: purpose}]
	if !ok {
		return nil, consentDomain.ErrConsentNotFound
	}
	consent := *r.byID[id]
	return &consent, nil
}

func (r *MemoryConsentRepository) GetByID(_ context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, consentDomain.ErrConsentNotFound
	}
	consent := *stored
	return &consent, nil
}

func (r *MemoryConsentRepository) ListBySubject(
	_ context.Context,
	subjectID uuid.UUID,
) ([]*consentDomain.Consent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	consents := make([]*consentDomain.Consent, 0)
	for _, stored := range r.byID {
		if stored.SubjectID == subjectID {
			consent := *stored
			consents = append(consents, &consent)
		}
	}
	sort.Slice(consents, func(i, j int) bool { return consents[i].Purpose < consents[j].Purpose })
	return consents, nil
}

func (r *MemoryConsentRepository) RevokeAll(_ context.Context, subjectID uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, stored := range r.byID {
		if stored.SubjectID == subjectID && stored.Granted {
			stored.Granted = false
			stored.Timestamp = at
			n++
		}
	}
	return n, nil
}
