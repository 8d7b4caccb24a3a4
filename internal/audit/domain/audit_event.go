// Package domain defines the append-only audit trail model.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/canonical"
)

// Action names recorded by the subject, consent and deletion modules.
const (
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionDecryptError  = "decrypt_error"
	ActionGrantConsent  = "grant_consent"
	ActionRevokeConsent = "revoke_consent"
	ActionRevokeAll     = "revoke_all"
	ActionCreateRTBF    = "create_rtbf"
	ActionStartRTBF     = "start_rtbf"
	ActionProcessRTBF   = "process_rtbf"
	ActionRTBFError     = "rtbf_error"
)

// Subject types an audit event can refer to.
const (
	SubjectTypeSubject         = "subject"
	SubjectTypeConsent         = "consent"
	SubjectTypeDeletionRequest = "deletion_request"
)

// SystemActor is used for events not triggered by an identified caller.
const SystemActor = "system"

// AuditEvent is one immutable row of the audit trail.
type AuditEvent struct {
	ID          uuid.UUID
	Actor       string
	Action      string
	SubjectType string
	SubjectID   uuid.UUID
	// Detail is nil when the event carries no context.
	Detail    canonical.Document
	Signature []byte
	CreatedAt time.Time
}

// RecordInput holds the caller-provided fields of a new audit event.
type RecordInput struct {
	Actor       string
	Action      string
	SubjectType string
	SubjectID   uuid.UUID
	Detail      canonical.Document
}

// ListFilter narrows an audit listing. Zero values mean no filter.
type ListFilter struct {
	SubjectID     *uuid.UUID
	Action        string
	SubjectType   string
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	Offset        int
	Limit         int
}

// VerifyResult summarizes a signature verification run.
type VerifyResult struct {
	Total      int
	Valid      int
	Invalid    int
	InvalidIDs []uuid.UUID
}
