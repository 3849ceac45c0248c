package backend_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "CouldNotInitRequest", backend.CouldNotInitRequest.String())
	assert.Equal(t, "DataTaskError", backend.DataTaskError.String())
	assert.Equal(t, "NotHttpResponse", backend.NotHTTPResponse.String())
	assert.Equal(t, "EmptyResponse", backend.EmptyResponse.String())
	assert.Equal(t, "CouldNotParseResponseData", backend.CouldNotParseResponseData.String())
	assert.Equal(t, "HttpError", backend.HTTPError.String())
	assert.Equal(t, "ErrorKind(42)", backend.ErrorKind(42).String())
}

func TestError_IsMatchesOnlyItsKind(t *testing.T) {
	sentinels := []error{
		backend.ErrCouldNotInitRequest,
		backend.ErrDataTask,
		backend.ErrNotHTTPResponse,
		backend.ErrEmptyResponse,
		backend.ErrCouldNotParseResponseData,
		backend.ErrHTTP,
	}

	for i, kind := range []backend.ErrorKind{
		backend.CouldNotInitRequest,
		backend.DataTaskError,
		backend.NotHTTPResponse,
		backend.EmptyResponse,
		backend.CouldNotParseResponseData,
		backend.HTTPError,
	} {
		err := error(&backend.Error{Kind: kind})
		for j, sentinel := range sentinels {
			assert.Equal(t, i == j, errors.Is(err, sentinel), "%s vs %v", kind, sentinel)
		}
	}
}

func TestError_Messages(t *testing.T) {
	cause := errors.New("unexpected EOF")

	assert.Equal(t, "http error: status 503", (&backend.Error{Kind: backend.HTTPError, StatusCode: 503}).Error())
	assert.Equal(t, "could not parse response data: unexpected EOF",
		(&backend.Error{Kind: backend.CouldNotParseResponseData, Cause: cause}).Error())
	assert.Equal(t, "empty response", (&backend.Error{Kind: backend.EmptyResponse}).Error())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading profile: %w", &backend.Error{Kind: backend.EmptyResponse})
	kind, ok := backend.KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, backend.EmptyResponse, kind)

	_, ok = backend.KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestDecodeErrorPayload(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantMessage *string
		wantCode    *int
		wantString  string
	}{
		{name: "both fields", body: `{"error":"bad token","error-code":401}`, wantMessage: ptr("bad token"), wantCode: ptr(401), wantString: "bad token (code 401)"},
		{name: "message only", body: `{"error":"nope"}`, wantMessage: ptr("nope"), wantString: "nope"},
		{name: "code only", body: `{"error-code":9}`, wantCode: ptr(9), wantString: "code 9"},
		{name: "unrelated object", body: `{"detail":"x"}`},
		{name: "empty", body: ``, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := backend.DecodeErrorPayload([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMessage, payload.Message)
			assert.Equal(t, tt.wantCode, payload.Code)
			assert.Equal(t, tt.wantString, payload.String())
		})
	}
}

func TestError_PayloadOnlyForHTTPError(t *testing.T) {
	_, err := (&backend.Error{Kind: backend.EmptyResponse}).Payload()
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
