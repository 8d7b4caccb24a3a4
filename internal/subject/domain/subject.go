// Package domain defines the PII subject and its views.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/canonical"
	consentDomain "github.com/allisson/piivault/internal/consent/domain"
)

// Subject owns one encrypted PII envelope. Rows are never hard-deleted;
// erasure replaces the envelope and stamps AnonymizedAt.
type Subject struct {
	ID           uuid.UUID
	Envelope     []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
	AnonymizedAt *time.Time
}

// IsAnonymized reports whether the subject's PII has been erased.
func (s *Subject) IsAnonymized() bool {
	return s.AnonymizedAt != nil
}

// SubjectView is a subject as returned by a read. PII is nil unless
// decryption was requested and succeeded.
type SubjectView struct {
	Subject       *Subject
	PII           canonical.Document
	DecryptFailed bool
}

// Export is the full data package of one subject.
type Export struct {
	Subject       *Subject
	Consents      []*consentDomain.Consent
	PII           canonical.Document
	DecryptFailed bool
}

// WriteInput describes a PII write. A nil ID creates a subject with a new id;
// a non-nil ID updates that subject or creates it when absent.
// RequiredPurposes are checked only when the subject is created.
type WriteInput struct {
	Actor            string
	ID               *uuid.UUID
	PII              canonical.Document
	RequiredPurposes []string
}

// RedactedPII is the payload written by an explicit subject delete.
func RedactedPII(id uuid.UUID) canonical.Document {
	return canonical.Document{
		"name":    fmt.Sprintf("User_%s", id),
		"phone":   "REDACTED",
		"address": "REDACTED",
	}
}
