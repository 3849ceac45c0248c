package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Decoder turns a response body into a typed value. Implementations must be
// safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// DecoderOption configures a JSONDecoder.
type DecoderOption func(*JSONDecoder)

// WithStrictFields rejects bodies carrying fields the target type lacks.
func WithStrictFields() DecoderOption {
	return func(d *JSONDecoder) { d.strict = true }
}

// JSONDecoder decodes a single JSON document. Dates are ISO-8601: time.Time
// fields accept RFC 3339 strings such as "2024-05-01T10:00:00Z".
// The decoder keeps no state between calls.
type JSONDecoder struct {
	strict bool
}

// NewJSONDecoder creates a JSONDecoder.
func NewJSONDecoder(opts ...DecoderOption) *JSONDecoder {
	d := &JSONDecoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *JSONDecoder) Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if d.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level JSON value")
	}
	return nil
}
