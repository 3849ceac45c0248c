package backend

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// OutgoingRequest is one fully built call. It is immutable: accessors hand
// out copies.
type OutgoingRequest struct {
	url    *url.URL
	method Method
	header http.Header
	body   []byte
}

// URL returns the absolute target URL.
func (r *OutgoingRequest) URL() *url.URL {
	u := *r.url
	return &u
}

func (r *OutgoingRequest) Method() Method {
	return r.method
}

func (r *OutgoingRequest) Header() http.Header {
	return r.header.Clone()
}

// Body returns the JSON body, or nil when none was attached.
func (r *OutgoingRequest) Body() []byte {
	return bytes.Clone(r.body)
}

func (r *OutgoingRequest) HasBody() bool {
	return len(r.body) > 0
}

// CurlString renders the request as an equivalent curl command for debug
// logs. Cookie headers are left out.
func (r *OutgoingRequest) CurlString() string {
	if r == nil || r.url == nil {
		return ""
	}

	command := []string{fmt.Sprintf(`curl "%s"`, r.url.String())}

	if r.method != MethodGet && r.method != "" {
		command = append(command, "-X "+string(r.method))
	}

	keys := make([]string, 0, len(r.header))
	for key := range r.header {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if http.CanonicalHeaderKey(key) == "Cookie" {
			continue
		}
		for _, value := range r.header[key] {
			command = append(command, fmt.Sprintf("-H '%s: %s'", key, value))
		}
	}

	if len(r.body) > 0 {
		command = append(command, fmt.Sprintf("-d '%s'", r.body))
	}

	return strings.Join(command, " \\\n\t")
}
