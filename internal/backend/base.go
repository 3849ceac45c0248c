package backend

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// BaseURLKeyPath is the key path the base URL is read from.
const BaseURLKeyPath = "backend.baseURL"

var (
	ErrMissingBaseURL = errors.New("base url is not configured")
	ErrInvalidBaseURL = errors.New("invalid base url")
)

// ConfigProvider looks up settings by dotted key path.
type ConfigProvider interface {
	ValueAt(keyPath string) (any, bool)
}

// StaticProvider is a ConfigProvider over a flat map of key paths.
type StaticProvider map[string]any

func (p StaticProvider) ValueAt(keyPath string) (any, bool) {
	v, ok := p[keyPath]
	return v, ok
}

// BaseConfiguration holds the resolved base URL and the response decoder.
// It is built once at startup and never mutated, so it is safe to share.
type BaseConfiguration struct {
	baseURL *url.URL
	decoder Decoder
}

// NewBaseConfiguration resolves the base URL from provider. A missing,
// non-string or non-absolute value is a startup error; callers are expected
// to abort rather than retry.
func NewBaseConfiguration(provider ConfigProvider) (*BaseConfiguration, error) {
	if provider == nil {
		return nil, ErrMissingBaseURL
	}
	value, ok := provider.ValueAt(BaseURLKeyPath)
	if !ok || value == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingBaseURL, BaseURLKeyPath)
	}
	raw, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a string", ErrInvalidBaseURL, BaseURLKeyPath, value)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingBaseURL, BaseURLKeyPath)
	}
	return NewBaseConfigurationFromURL(raw, NewJSONDecoder())
}

// NewBaseConfigurationFromURL builds a configuration from a literal base URL.
func NewBaseConfigurationFromURL(raw string, decoder Decoder) (*BaseConfiguration, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidBaseURL, raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w %q: must be absolute", ErrInvalidBaseURL, raw)
	}
	if decoder == nil {
		decoder = NewJSONDecoder()
	}
	return &BaseConfiguration{baseURL: u, decoder: decoder}, nil
}

// BaseURL returns a copy of the base URL.
func (c *BaseConfiguration) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Decoder returns the shared response decoder.
func (c *BaseConfiguration) Decoder() Decoder {
	return c.decoder
}
