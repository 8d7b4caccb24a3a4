// Package service generates the synthetic payloads written over erased PII.
package service

import (
	"crypto/rand"
	"io"
	"math/big"
	"time"

	"github.com/allisson/piivault/internal/canonical"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// AnonymizedNote tags every anonymized payload.
	AnonymizedNote = "This data has been anonymized and cannot be recovered"
)

// Anonymizer produces replacement PII for an erased subject.
type Anonymizer interface {
	Generate(now time.Time) (canonical.Document, error)
}

// RandomAnonymizer fills name, phone and address with random tokens.
type RandomAnonymizer struct {
	rand io.Reader
}

// NewRandomAnonymizer creates an anonymizer reading from r, or crypto/rand
// when r is nil.
func NewRandomAnonymizer(r io.Reader) *RandomAnonymizer {
	if r == nil {
		r = rand.Reader
	}
	return &RandomAnonymizer{rand: r}
}

func (a *RandomAnonymizer) token(n int) (string, error) {
	size := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(a.rand, size)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// Generate implements Anonymizer.
func (a *RandomAnonymizer) Generate(now time.Time) (canonical.Document, error) {
	name, err := a.token(8)
	if err != nil {
		return nil, err
	}
	phone, err := a.token(10)
	if err != nil {
		return nil, err
	}
	address, err := a.token(12)
	if err != nil {
		return nil, err
	}

	return canonical.Document{
		"name":          "ANONYMIZED_" + name,
		"phone":         "+" + phone,
		"address":       "ANONYMIZED_ADDRESS_" + address,
		"anonymized_at": now.UTC().Format(time.RFC3339),
		"note":          AnonymizedNote,
	}, nil
}
