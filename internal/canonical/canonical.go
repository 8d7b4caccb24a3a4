// Package canonical defines the structured-data type used for PII payloads and
// audit details, together with its canonical textual encoding. The encoding is
// JSON with object keys sorted lexicographically and HTML escaping disabled, so
// two logically identical documents always serialize to the same bytes.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	apperrors "github.com/allisson/piivault/internal/errors"
)

// ErrUnsupportedValue indicates a document holds a value outside the JSON data model.
var ErrUnsupportedValue = apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported document value")

// Document is a JSON-shaped mapping. Values are restricted to nil, bool, string,
// numbers, json.Number, []any, map[string]any and nested Documents. Numbers
// decode as json.Number so integers beyond 2^53 keep every digit.
type Document map[string]any

// Encode serializes doc into its canonical form. A nil document encodes as "{}".
func Encode(doc Document) ([]byte, error) {
	if doc == nil {
		return []byte("{}"), nil
	}

	if err := validate(map[string]any(doc), "$"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(doc)); err != nil {
		return nil, apperrors.Wrap(err, "failed to encode document")
	}

	// json.Encoder always terminates with a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EncodeString is Encode returning a string, convenient for text columns.
func EncodeString(doc Document) (string, error) {
	b, err := Encode(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a canonical (or any JSON object) encoding back into a Document.
// A JSON null decodes to an empty document.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("invalid document: %v", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid document: trailing data")
	}
	if raw == nil {
		return Document{}, nil
	}
	return Document(raw), nil
}

// validate walks the value tree and rejects anything outside the closed value set.
func validate(value any, path string) error {
	switch v := value.(type) {
	case nil, bool, string, json.Number,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil
	case Document:
		return validate(map[string]any(v), path)
	case map[string]any:
		for key, item := range v {
			if err := validate(item, path+"."+key); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, item := range v {
			if err := validate(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case []string:
		return nil
	default:
		return fmt.Errorf("%w: %T at %s", ErrUnsupportedValue, value, path)
	}
}
