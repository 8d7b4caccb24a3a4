// Package domain defines the consent ledger model: one grant or revocation per
// (subject, purpose) pair.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Consent records whether a subject permits processing for a purpose.
// Timestamp is the time of the last grant or revocation.
type Consent struct {
	ID        uuid.UUID
	SubjectID uuid.UUID
	Purpose   string
	Granted   bool
	Timestamp time.Time
}

// MaxPurposeLength bounds purpose names.
const MaxPurposeLength = 255
