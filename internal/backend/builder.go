package backend

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/brizzai/backend-client/internal/logger"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

// RequestBuilder builds requests against the configured base URL.
type RequestBuilder struct {
	base *BaseConfiguration
}

// NewRequestBuilder creates a new RequestBuilder
func NewRequestBuilder(base *BaseConfiguration) *RequestBuilder {
	return &RequestBuilder{base: base}
}

// Build resolves path against the base URL using standard relative reference
// rules and attaches params as a JSON object body, for every method, GET
// included. ok is false only when path cannot be parsed or method is not
// supported. A params map that fails to serialize yields a request without
// a body rather than an error.
func (b *RequestBuilder) Build(path string, method Method, params Params) (req *OutgoingRequest, ok bool) {
	if !method.Valid() {
		logger.Debug("unsupported method", zap.String("method", string(method)))
		return nil, false
	}

	ref, err := url.Parse(path)
	if err != nil {
		logger.Debug("invalid request path", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	target := b.base.baseURL.ResolveReference(ref)

	header := make(http.Header)
	header.Set("Content-Type", contentTypeJSON)

	var body []byte
	if len(params) > 0 {
		data, err := json.Marshal(params)
		if err != nil {
			logger.Debug("dropping unserializable request body",
				zap.String("path", path), zap.Error(err))
		} else {
			body = data
		}
	}

	return &OutgoingRequest{
		url:    target,
		method: method,
		header: header,
		body:   body,
	}, true
}
