package domain

// IsEnvelope reports whether data is long enough to hold a wrapped key and a
// payload. It is a cheap format sniff, not a cryptographic validation.
func IsEnvelope(data []byte) bool {
	return len(data) > WrappedKeySize
}

// SplitEnvelope separates an envelope into its wrapped key prefix and payload.
func SplitEnvelope(envelope []byte) (wrappedKey, payload []byte, err error) {
	if !IsEnvelope(envelope) {
		return nil, nil, ErrInvalidEnvelope
	}
	return envelope[:WrappedKeySize], envelope[WrappedKeySize:], nil
}

// WrappedKey is the parsed form of the 44-byte envelope prefix.
type WrappedKey struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// ParseWrappedKey splits a 44-byte prefix into salt, nonce and ciphertext.
func ParseWrappedKey(b []byte) (WrappedKey, error) {
	if len(b) != WrappedKeySize {
		return WrappedKey{}, ErrInvalidEnvelope
	}
	return WrappedKey{
		Salt:       b[:SaltSize],
		Nonce:      b[SaltSize : SaltSize+WrapNonceSize],
		Ciphertext: b[SaltSize+WrapNonceSize:],
	}, nil
}

// Bytes serializes the wrapped key back into its 44-byte wire form.
func (w WrappedKey) Bytes() []byte {
	out := make([]byte, 0, WrappedKeySize)
	out = append(out, w.Salt...)
	out = append(out, w.Nonce...)
	out = append(out, w.Ciphertext...)
	return out
}
