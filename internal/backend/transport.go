package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single round trip when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// RawResponse is what a Transport hands back for one round trip.
type RawResponse struct {
	// IsHTTP is false when the transport got a reply that is not an HTTP response.
	IsHTTP     bool
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends an OutgoingRequest and returns the raw response. A non-nil
// error means the request never produced a response.
type Transport interface {
	RoundTrip(ctx context.Context, req *OutgoingRequest) (*RawResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *OutgoingRequest) (*RawResponse, error)

func (f TransportFunc) RoundTrip(ctx context.Context, req *OutgoingRequest) (*RawResponse, error) {
	return f(ctx, req)
}

// TransportKind selects a Transport implementation.
type TransportKind string

const (
	TransportHTTP  TransportKind = "http"
	TransportResty TransportKind = "resty"
)

// NewTransport creates the transport named by kind. An empty kind means http.
func NewTransport(kind TransportKind, timeout time.Duration) (Transport, error) {
	switch kind {
	case TransportHTTP, "":
		return NewHTTPTransport(timeout), nil
	case TransportResty:
		return NewRestyTransport(timeout), nil
	default:
		return nil, fmt.Errorf("unsupported transport: %s", kind)
	}
}

// HTTPTransport sends requests with a net/http client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates an HTTPTransport with the given client timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// NewHTTPTransportWithClient wraps an existing client, e.g. httptest.Server.Client().
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) RoundTrip(ctx context.Context, req *OutgoingRequest) (*RawResponse, error) {
	var body io.Reader
	if req.HasBody() {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.method), req.url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header = req.Header()

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &RawResponse{
		IsHTTP:     true,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       bodyBytes,
	}, nil
}

// RestyTransport sends requests with a resty client.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a RestyTransport with the given timeout. GET
// payloads are allowed since the builder attaches bodies to every method.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetAllowGetMethodPayload(true)
	return &RestyTransport{client: c}
}

func (t *RestyTransport) RoundTrip(ctx context.Context, req *OutgoingRequest) (*RawResponse, error) {
	r := t.client.R().
		SetContext(ctx).
		SetHeaderMultiValues(req.Header())

	if req.HasBody() {
		r.SetBody(req.Body())
	}

	resp, err := r.Execute(string(req.method), req.url.String())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return &RawResponse{
		IsHTTP:     resp.RawResponse != nil,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
