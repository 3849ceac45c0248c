package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies why a call did not produce a value.
type ErrorKind int

const (
	// CouldNotInitRequest: the request could not be built; nothing was sent.
	CouldNotInitRequest ErrorKind = iota + 1
	// DataTaskError: the transport failed (connection refused, timeout, DNS).
	DataTaskError
	// NotHTTPResponse: the transport answered with something other than HTTP.
	NotHTTPResponse
	// EmptyResponse: 2xx status with no body.
	EmptyResponse
	// CouldNotParseResponseData: 2xx status but the body did not decode.
	CouldNotParseResponseData
	// HTTPError: status outside 200-299.
	HTTPError
)

var (
	ErrCouldNotInitRequest       = errors.New("could not init request")
	ErrDataTask                  = errors.New("data task error")
	ErrNotHTTPResponse           = errors.New("not an http response")
	ErrEmptyResponse             = errors.New("empty response")
	ErrCouldNotParseResponseData = errors.New("could not parse response data")
	ErrHTTP                      = errors.New("http error")
)

var kindSentinels = map[ErrorKind]error{
	CouldNotInitRequest:       ErrCouldNotInitRequest,
	DataTaskError:             ErrDataTask,
	NotHTTPResponse:           ErrNotHTTPResponse,
	EmptyResponse:             ErrEmptyResponse,
	CouldNotParseResponseData: ErrCouldNotParseResponseData,
	HTTPError:                 ErrHTTP,
}

func (k ErrorKind) String() string {
	switch k {
	case CouldNotInitRequest:
		return "CouldNotInitRequest"
	case DataTaskError:
		return "DataTaskError"
	case NotHTTPResponse:
		return "NotHttpResponse"
	case EmptyResponse:
		return "EmptyResponse"
	case CouldNotParseResponseData:
		return "CouldNotParseResponseData"
	case HTTPError:
		return "HttpError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the failure branch of an Outcome.
//
// errors.Is matches the sentinel of its kind, so callers can write
// errors.Is(err, backend.ErrHTTP) without inspecting Kind directly.
type Error struct {
	Kind ErrorKind
	// StatusCode is set for HTTPError only.
	StatusCode int
	// Cause is the underlying transport or decode error, if any.
	Cause error

	body []byte
}

func newError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func newHTTPError(status int, body []byte) *Error {
	return &Error{Kind: HTTPError, StatusCode: status, body: body}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := kindSentinels[e.Kind]
	if msg == nil {
		msg = errors.New(e.Kind.String())
	}
	switch {
	case e.Kind == HTTPError:
		return fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	default:
		return msg.Error()
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// Body returns a copy of the raw response body of an HTTPError.
// The body is kept as received; it is never parsed automatically.
func (e *Error) Body() []byte {
	return bytes.Clone(e.body)
}

// Payload decodes the body of an HTTPError as an ErrorPayload.
func (e *Error) Payload() (*ErrorPayload, error) {
	if e.Kind != HTTPError {
		return nil, fmt.Errorf("%s carries no response body", e.Kind)
	}
	return DecodeErrorPayload(e.body)
}

// KindOf returns the ErrorKind of err if it is, or wraps, an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// ErrorPayload is the error body some endpoints return on non-2xx statuses.
type ErrorPayload struct {
	Message *string `json:"error,omitempty"`
	Code    *int    `json:"error-code,omitempty"`
}

// DecodeErrorPayload decodes an error body. Both fields are optional.
func DecodeErrorPayload(data []byte) (*ErrorPayload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyResponse
	}
	var payload ErrorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode error payload: %w", err)
	}
	return &payload, nil
}

func (p *ErrorPayload) String() string {
	switch {
	case p == nil:
		return ""
	case p.Message != nil && p.Code != nil:
		return fmt.Sprintf("%s (code %d)", *p.Message, *p.Code)
	case p.Message != nil:
		return *p.Message
	case p.Code != nil:
		return fmt.Sprintf("code %d", *p.Code)
	default:
		return ""
	}
}
