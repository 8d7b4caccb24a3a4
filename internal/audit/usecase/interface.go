// Package usecase implements the audit recorder: appending signed events,
// listing them and verifying their signatures.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
)

// AuditEventRepository persists audit events. Implementations never update or
// delete rows and must honor a transaction carried in ctx.
type AuditEventRepository interface {
	Create(ctx context.Context, event *auditDomain.AuditEvent) error

	// List returns events newest first.
	List(ctx context.Context, filter auditDomain.ListFilter) ([]*auditDomain.AuditEvent, error)
}

// Recorder is the write side of the audit trail used by the other modules.
type Recorder interface {
	// Record appends one signed event. Errors wrap auditDomain.ErrRecorderFailure.
	Record(ctx context.Context, input auditDomain.RecordInput) (*auditDomain.AuditEvent, error)
}

// AuditUseCase is the full audit API.
type AuditUseCase interface {
	Recorder

	List(ctx context.Context, filter auditDomain.ListFilter) ([]*auditDomain.AuditEvent, error)

	// Verify recomputes the signature of every event created in [from, to].
	// nil bounds are open.
	Verify(ctx context.Context, from, to *time.Time) (*auditDomain.VerifyResult, error)
}
