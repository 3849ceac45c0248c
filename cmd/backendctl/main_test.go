package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/brizzai/backend-client/internal/catalog"
	"github.com/brizzai/backend-client/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    backend.Params
		wantErr string
	}{
		{
			name:  "no pairs",
			pairs: nil,
			want:  nil,
		},
		{
			name:  "json and string values",
			pairs: []string{"id=7", "name=bob", "admin=true", "tags=[\"a\",\"b\"]", "note=null"},
			want: backend.Params{
				"id":    7.0,
				"name":  "bob",
				"admin": true,
				"tags":  []any{"a", "b"},
				"note":  nil,
			},
		},
		{
			name:  "value may contain equals",
			pairs: []string{"query=a=b"},
			want:  backend.Params{"query": "a=b"},
		},
		{
			name:  "last occurrence wins",
			pairs: []string{"id=1", "id=2"},
			want:  backend.Params{"id": 2.0},
		},
		{
			name:  "empty value is a string",
			pairs: []string{"name="},
			want:  backend.Params{"name": ""},
		},
		{
			name:    "missing equals",
			pairs:   []string{"name"},
			wantErr: "expected key=value",
		},
		{
			name:    "empty key",
			pairs:   []string{"=bob"},
			wantErr: "empty key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.pairs)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderValue(t *testing.T) {
	value := map[string]any{
		"users": []any{
			map[string]any{"name": "ada", "age": 36.0},
			map[string]any{"name": "bob", "age": 31.0},
		},
	}

	tests := []struct {
		name    string
		filter  string
		format  string
		want    string
		wantErr string
	}{
		{
			name:   "single result as json",
			filter: ".users[0].name",
			format: formatJSON,
			want:   "\"ada\"\n",
		},
		{
			name:   "several results collapse into a list",
			filter: ".users[].name",
			format: formatJSON,
			want:   "[\n  \"ada\",\n  \"bob\"\n]\n",
		},
		{
			name:   "yaml output",
			filter: ".users[1]",
			format: formatYAML,
			want:   "age: 31\nname: bob\n",
		},
		{
			name:   "no filter",
			format: formatJSON,
			want:   "{\n  \"users\": [\n    {\n      \"age\": 36,\n      \"name\": \"ada\"\n    },\n    {\n      \"age\": 31,\n      \"name\": \"bob\"\n    }\n  ]\n}\n",
		},
		{
			name:    "invalid filter",
			filter:  ".users[",
			format:  formatJSON,
			wantErr: "invalid filter expression",
		},
		{
			name:    "filter runtime error",
			filter:  ".users.name",
			format:  formatJSON,
			wantErr: "filter error",
		},
		{
			name:    "unknown format",
			format:  "xml",
			wantErr: "invalid output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := renderValue(&buf, value, tt.filter, tt.format)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDescribeError(t *testing.T) {
	base, err := backend.NewBaseConfigurationFromURL("https://api.example.com/v1/", nil)
	require.NoError(t, err)

	failWith := func(status int, body string) *backend.Error {
		transport := backend.TransportFunc(func(context.Context, *backend.OutgoingRequest) (*backend.RawResponse, error) {
			return &backend.RawResponse{IsHTTP: true, StatusCode: status, Header: http.Header{}, Body: []byte(body)}, nil
		})
		exec := backend.NewExecutor(backend.ExecutorParams{Base: base, Transport: transport})
		outcome := <-backend.Go[any](context.Background(), exec, "users", backend.MethodGet, nil)
		require.NotNil(t, outcome.Err)
		return outcome.Err
	}

	tests := []struct {
		name string
		err  *backend.Error
		want string
	}{
		{
			name: "payload with message and code",
			err:  failWith(http.StatusBadRequest, `{"error":"name is required","error-code":12}`),
			want: "HttpError: status 400: name is required (code 12)",
		},
		{
			name: "body that is not a payload",
			err:  failWith(http.StatusBadGateway, "upstream unavailable"),
			want: "HttpError: status 502: upstream unavailable",
		},
		{
			name: "no body",
			err:  failWith(http.StatusNotFound, ""),
			want: "HttpError: status 404",
		},
		{
			name: "empty response",
			err:  failWith(http.StatusOK, ""),
			want: "EmptyResponse: empty response",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}

func TestBackendSettings(t *testing.T) {
	settings := backendSettings(&config.BackendConfig{
		Transport: config.TransportResty,
		Timeout:   5 * time.Second,
	})
	assert.Equal(t, backend.Settings{Transport: backend.TransportResty, Timeout: 5 * time.Second}, settings)
}

func TestRequestCommandLine(t *testing.T) {
	tests := []struct {
		route catalog.Route
		want  string
	}{
		{catalog.Route{Method: backend.MethodGet, Path: "/users"}, "backendctl request users"},
		{catalog.Route{Method: backend.MethodDelete, Path: "/users/{id}"}, "backendctl request users/{id} -X DELETE"},
	}
	for _, tt := range tests {
		t.Run(tt.route.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, requestCommandLine(tt.route))
		})
	}
}

func TestRouteTable(t *testing.T) {
	data := routeTable([]catalog.Route{
		{Method: backend.MethodPost, Path: "/users", Summary: " Create a user "},
	})
	assert.Equal(t, [][]string{
		{"Method", "Path", "Summary"},
		{"POST", "/users", "Create a user"},
	}, [][]string(data))
}
