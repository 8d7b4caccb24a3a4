package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/canonical"
	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

func newSigner(t *testing.T, secret string) *HMACSigner {
	t.Helper()
	ms, err := cryptoDomain.NewMasterSecret([]byte(secret))
	require.NoError(t, err)
	return NewHMACSigner(ms)
}

func sampleEvent() *auditDomain.AuditEvent {
	return &auditDomain.AuditEvent{
		ID:          uuid.Must(uuid.NewV7()),
		Actor:       "admin",
		Action:      auditDomain.ActionProcessRTBF,
		SubjectType: auditDomain.SubjectTypeSubject,
		SubjectID:   uuid.Must(uuid.NewV7()),
		Detail:      canonical.Document{"request_id": "abc"},
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestHMACSigner_SignVerify(t *testing.T) {
	signer := newSigner(t, "test-master-secret-value")
	event := sampleEvent()

	signature, err := signer.Sign(event)
	require.NoError(t, err)
	assert.Len(t, signature, 32)

	event.Signature = signature
	assert.NoError(t, signer.Verify(event))

	again, err := signer.Sign(event)
	require.NoError(t, err)
	assert.Equal(t, signature, again)
}

func TestHMACSigner_DetectsTampering(t *testing.T) {
	signer := newSigner(t, "test-master-secret-value")

	mutations := map[string]func(e *auditDomain.AuditEvent){
		"actor":        func(e *auditDomain.AuditEvent) { e.Actor = "mallory" },
		"action":       func(e *auditDomain.AuditEvent) { e.Action = auditDomain.ActionCreate },
		"subject type": func(e *auditDomain.AuditEvent) { e.SubjectType = auditDomain.SubjectTypeConsent },
		"subject id":   func(e *auditDomain.AuditEvent) { e.SubjectID = uuid.Must(uuid.NewV7()) },
		"detail":       func(e *auditDomain.AuditEvent) { e.Detail = canonical.Document{"request_id": "xyz"} },
		"nil detail":   func(e *auditDomain.AuditEvent) { e.Detail = nil },
		"created at":   func(e *auditDomain.AuditEvent) { e.CreatedAt = e.CreatedAt.Add(time.Microsecond) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			event := sampleEvent()
			signature, err := signer.Sign(event)
			require.NoError(t, err)
			event.Signature = signature

			mutate(event)
			assert.ErrorIs(t, signer.Verify(event), auditDomain.ErrSignatureInvalid)
		})
	}
}

func TestHMACSigner_DifferentSecret(t *testing.T) {
	event := sampleEvent()
	signature, err := newSigner(t, "test-master-secret-value").Sign(event)
	require.NoError(t, err)
	event.Signature = signature

	err = newSigner(t, "another-master-secret-val").Verify(event)
	assert.ErrorIs(t, err, auditDomain.ErrSignatureInvalid)
}

func TestCanonicalizeEvent_FieldBoundaries(t *testing.T) {
	a := sampleEvent()
	b := *a
	a.Actor, a.Action = "ab", "c"
	b.Actor, b.Action = "a", "bc"

	ca, err := canonicalizeEvent(a)
	require.NoError(t, err)
	cb, err := canonicalizeEvent(&b)
	require.NoError(t, err)
	assert.NotEqual(t, ca, cb)
}
