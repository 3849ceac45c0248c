package backend

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is one of the HTTP verbs the backend accepts.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// Valid reports whether m is GET, POST, PUT or DELETE.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// ParseMethod parses a verb case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported http method: %q", s)
	}
	return m, nil
}

// Params is the untyped JSON body of a request.
type Params map[string]any
