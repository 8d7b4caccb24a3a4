// Package service provides HMAC signing of audit events.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/canonical"
	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

const signingKeyInfo = "audit-event-signing-v1"

// Signer computes and checks audit event signatures.
type Signer interface {
	Sign(event *auditDomain.AuditEvent) ([]byte, error)
	Verify(event *auditDomain.AuditEvent) error
}

// HMACSigner signs events with HMAC-SHA256 under a key derived from the master
// secret with HKDF-SHA256, so the master secret itself never keys a MAC.
type HMACSigner struct {
	masterSecret *cryptoDomain.MasterSecret
}

// NewHMACSigner creates a signer bound to masterSecret.
func NewHMACSigner(masterSecret *cryptoDomain.MasterSecret) *HMACSigner {
	return &HMACSigner{masterSecret: masterSecret}
}

// Sign returns the 32-byte signature of event. event.Signature is ignored.
func (s *HMACSigner) Sign(event *auditDomain.AuditEvent) ([]byte, error) {
	message, err := canonicalizeEvent(event)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize event: %w", err)
	}

	var signature []byte
	err = s.masterSecret.Use(func(secret []byte) error {
		signingKey := make([]byte, 32)
		defer cryptoDomain.Zero(signingKey)

		if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(signingKeyInfo)), signingKey); err != nil {
			return fmt.Errorf("failed to derive signing key: %w", err)
		}

		mac := hmac.New(sha256.New, signingKey)
		mac.Write(message)
		signature = mac.Sum(nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signature, nil
}

// Verify returns ErrSignatureInvalid when event.Signature does not match.
func (s *HMACSigner) Verify(event *auditDomain.AuditEvent) error {
	expected, err := s.Sign(event)
	if err != nil {
		return err
	}
	if !hmac.Equal(event.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}

// canonicalizeEvent lays out:
// id || actor || action || subject_type || subject_id || detail || created_at
// with variable-length fields length-prefixed.
func canonicalizeEvent(event *auditDomain.AuditEvent) ([]byte, error) {
	buf := make([]byte, 0, 256)

	buf = append(buf, event.ID[:]...)
	buf = appendLengthPrefixed(buf, []byte(event.Actor))
	buf = appendLengthPrefixed(buf, []byte(event.Action))
	buf = appendLengthPrefixed(buf, []byte(event.SubjectType))
	buf = append(buf, event.SubjectID[:]...)

	if event.Detail != nil {
		detail, err := canonical.Encode(event.Detail)
		if err != nil {
			return nil, err
		}
		buf = appendLengthPrefixed(buf, detail)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(event.CreatedAt.UnixMicro()))
	return buf, nil
}

func appendLengthPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}
