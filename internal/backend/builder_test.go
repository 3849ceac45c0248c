package backend_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T, baseURL string) *backend.RequestBuilder {
	t.Helper()
	base, err := backend.NewBaseConfigurationFromURL(baseURL, nil)
	require.NoError(t, err)
	return backend.NewRequestBuilder(base)
}

func TestRequestBuilder_Build(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		path         string
		method       backend.Method
		params       backend.Params
		wantOK       bool
		checkRequest func(t *testing.T, req *backend.OutgoingRequest)
	}{
		{
			name:    "relative path under versioned base",
			baseURL: "https://api.example.com/v1/",
			path:    "users/42",
			method:  backend.MethodGet,
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				assert.Equal(t, "https://api.example.com/v1/users/42", req.URL().String())
				assert.Equal(t, backend.MethodGet, req.Method())
				assert.False(t, req.HasBody())
				assert.Nil(t, req.Body())
			},
		},
		{
			name:    "base without trailing slash replaces last segment",
			baseURL: "https://api.example.com/v1",
			path:    "users",
			method:  backend.MethodGet,
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				assert.Equal(t, "https://api.example.com/users", req.URL().String())
			},
		},
		{
			name:    "absolute path resets to host root",
			baseURL: "https://api.example.com/v1/",
			path:    "/health",
			method:  backend.MethodGet,
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				assert.Equal(t, "https://api.example.com/health", req.URL().String())
			},
		},
		{
			name:    "absolute URL wins over base",
			baseURL: "https://api.example.com/v1/",
			path:    "https://other.example.org/x?y=1",
			method:  backend.MethodDelete,
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				assert.Equal(t, "https://other.example.org/x?y=1", req.URL().String())
			},
		},
		{
			name:    "dot segments and query",
			baseURL: "https://api.example.com/v1/users/",
			path:    "../orders?page=2",
			method:  backend.MethodGet,
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				assert.Equal(t, "https://api.example.com/v1/orders?page=2", req.URL().String())
			},
		},
		{
			name:    "POST with params carries JSON body",
			baseURL: "https://api.example.com/v1/",
			path:    "users",
			method:  backend.MethodPost,
			params:  backend.Params{"name": "Ada", "age": 36},
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				var body map[string]any
				require.NoError(t, json.Unmarshal(req.Body(), &body))
				assert.Equal(t, map[string]any{"name": "Ada", "age": float64(36)}, body)
			},
		},
		{
			name:    "GET with params still carries a body",
			baseURL: "https://api.example.com/v1/",
			path:    "search",
			method:  backend.MethodGet,
			params:  backend.Params{"q": "go"},
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				assert.JSONEq(t, `{"q":"go"}`, string(req.Body()))
				assert.Empty(t, req.URL().RawQuery)
			},
		},
		{
			name:    "unserializable params drop the body",
			baseURL: "https://api.example.com/v1/",
			path:    "users",
			method:  backend.MethodPut,
			params:  backend.Params{"callback": func() {}},
			wantOK:  true,
			checkRequest: func(t *testing.T, req *backend.OutgoingRequest) {
				assert.False(t, req.HasBody())
				assert.Equal(t, "application/json", req.Header().Get("Content-Type"))
			},
		},
		{
			name:    "malformed path",
			baseURL: "https://api.example.com/v1/",
			path:    "users/%zz",
			method:  backend.MethodGet,
			wantOK:  false,
		},
		{
			name:    "missing scheme",
			baseURL: "https://api.example.com/v1/",
			path:    ":users",
			method:  backend.MethodGet,
			wantOK:  false,
		},
		{
			name:    "unsupported method",
			baseURL: "https://api.example.com/v1/",
			path:    "users",
			method:  backend.Method("PATCH"),
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := newBuilder(t, tt.baseURL)

			req, ok := builder.Build(tt.path, tt.method, tt.params)
			if !tt.wantOK {
				assert.False(t, ok)
				assert.Nil(t, req)
				return
			}

			require.True(t, ok)
			require.NotNil(t, req)
			assert.Equal(t, "application/json", req.Header().Get("Content-Type"))
			tt.checkRequest(t, req)
		})
	}
}

func TestRequestBuilder_MatchesReferenceResolution(t *testing.T) {
	bases := []string{
		"https://api.example.com/v1/",
		"https://api.example.com/v1",
		"http://localhost:8080/",
		"https://api.example.com/a/b/c",
	}
	paths := []string{"users/42", "/users", "./x", "../y", "?q=1", "#frag", "", "a/b/../c", "//cdn.example.com/img"}

	for _, rawBase := range bases {
		builder := newBuilder(t, rawBase)
		base, err := url.Parse(rawBase)
		require.NoError(t, err)

		for _, p := range paths {
			ref, err := url.Parse(p)
			require.NoError(t, err)

			req, ok := builder.Build(p, backend.MethodGet, nil)
			require.True(t, ok, "base %q path %q", rawBase, p)
			assert.Equal(t, base.ResolveReference(ref).String(), req.URL().String(), "base %q path %q", rawBase, p)
		}
	}
}

func TestRequestBuilder_EmptyParamsHaveNoBody(t *testing.T) {
	builder := newBuilder(t, "https://api.example.com/v1/")

	for _, params := range []backend.Params{nil, {}} {
		req, ok := builder.Build("users", backend.MethodPost, params)
		require.True(t, ok)
		assert.False(t, req.HasBody())
	}
}

func TestRequestBuilder_Idempotent(t *testing.T) {
	builder := newBuilder(t, "https://api.example.com/v1/")
	params := backend.Params{"b": 2, "a": []any{"x", 1.5}, "c": map[string]any{"nested": true}}

	first, ok := builder.Build("items", backend.MethodPost, params)
	require.True(t, ok)
	second, ok := builder.Build("items", backend.MethodPost, params)
	require.True(t, ok)

	assert.Equal(t, first.URL().String(), second.URL().String())
	assert.Equal(t, first.Method(), second.Method())
	if diff := cmp.Diff(first.Header(), second.Header()); diff != "" {
		t.Errorf("headers differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Body(), second.Body())
}

func TestOutgoingRequest_IsImmutable(t *testing.T) {
	builder := newBuilder(t, "https://api.example.com/v1/")
	req, ok := builder.Build("users", backend.MethodPost, backend.Params{"a": 1})
	require.True(t, ok)

	req.URL().Path = "/changed"
	req.Header().Set("Content-Type", "text/plain")
	body := req.Body()
	body[0] = 'X'

	assert.Equal(t, "/v1/users", req.URL().Path)
	assert.Equal(t, "application/json", req.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, string(req.Body()))
}

func TestParseMethod(t *testing.T) {
	for _, in := range []string{"get", "POST", " Put ", "delete"} {
		m, err := backend.ParseMethod(in)
		require.NoError(t, err, in)
		assert.True(t, m.Valid())
	}

	_, err := backend.ParseMethod("PATCH")
	assert.Error(t, err)
}
