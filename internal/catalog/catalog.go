// Package catalog lists the operations an OpenAPI document declares so the
// CLI can offer and sanity-check request paths.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/brizzai/backend-client/internal/logger"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Route is one operation the backend exposes.
type Route struct {
	Method  backend.Method
	Path    string
	Summary string
}

// RelativePath is Path without its leading slash, suitable for resolution
// against a base URL that already carries the API prefix.
func (r Route) RelativePath() string {
	return strings.TrimPrefix(r.Path, "/")
}

func (r Route) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.Path)
}

// Catalog holds the routes of one OpenAPI document, sorted by path then method.
type Catalog struct {
	doc    *openapi3.T
	routes []Route
}

// Load reads an OpenAPI 3 (JSON or YAML) or Swagger 2.0 (JSON) document.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw document bytes.
func Parse(data []byte) (*Catalog, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	c := &Catalog{doc: doc}
	c.collectRoutes()
	logger.Debug("loaded route catalog", zap.Int("routes", len(c.routes)))
	return c, nil
}

// Routes returns a copy of the catalog's routes.
func (c *Catalog) Routes() []Route {
	out := make([]Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// Title returns the document title, if any.
func (c *Catalog) Title() string {
	if c.doc.Info == nil {
		return ""
	}
	return c.doc.Info.Title
}

// Match finds the route whose template matches method and a concrete path,
// e.g. GET /users/42 matches GET /users/{id}. A leading slash on path is
// optional and any query string is ignored.
func (c *Catalog) Match(method backend.Method, path string) (Route, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := splitPath(path)
	for _, route := range c.routes {
		if route.Method != method {
			continue
		}
		if templateMatches(splitPath(route.Path), segments) {
			return route, true
		}
	}
	return Route{}, false
}

// Find fuzzy-matches query against "METHOD /path" of every route, best first.
func (c *Catalog) Find(query string) []Route {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Routes()
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), routeSource(c.routes))
	out := make([]Route, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.routes[m.Index])
	}
	return out
}

type routeSource []Route

func (s routeSource) String(i int) string { return strings.ToLower(s[i].String()) }
func (s routeSource) Len() int            { return len(s) }

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func templateMatches(template, segments []string) bool {
	if len(template) != len(segments) {
		return false
	}
	for i, part := range template {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if part != segments[i] {
			return false
		}
	}
	return true
}

// collectRoutes keeps only the verbs the request builder supports.
func (c *Catalog) collectRoutes() {
	c.routes = c.routes[:0]
	for path, pathItem := range c.doc.Paths.Map() {
		operations := []struct {
			Method    backend.Method
			Operation *openapi3.Operation
		}{
			{backend.MethodGet, pathItem.Get},
			{backend.MethodPost, pathItem.Post},
			{backend.MethodPut, pathItem.Put},
			{backend.MethodDelete, pathItem.Delete},
		}
		for _, op := range operations {
			if op.Operation == nil {
				continue
			}
			summary := op.Operation.Summary
			if summary == "" {
				summary = op.Operation.Description
			}
			c.routes = append(c.routes, Route{Method: op.Method, Path: path, Summary: summary})
		}
	}
	sort.Slice(c.routes, func(i, j int) bool {
		if c.routes[i].Path != c.routes[j].Path {
			return c.routes[i].Path < c.routes[j].Path
		}
		return methodOrder(c.routes[i].Method) < methodOrder(c.routes[j].Method)
	})
}

func methodOrder(m backend.Method) int {
	switch m {
	case backend.MethodGet:
		return 0
	case backend.MethodPost:
		return 1
	case backend.MethodPut:
		return 2
	default:
		return 3
	}
}

// versionHeader reads the version fields of a JSON or YAML document.
type versionHeader struct {
	Swagger string `yaml:"swagger"`
	OpenAPI string `yaml:"openapi"`
}

// parseDocument attempts to parse data as either OpenAPI 2.0 or 3.x
func parseDocument(data []byte) (*openapi3.T, error) {
	var header versionHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	switch {
	case header.Swagger != "":
		return convertOpenAPI2to3(data, header.Swagger)
	case header.OpenAPI != "":
		if !strings.HasPrefix(header.OpenAPI, "3.") {
			return nil, fmt.Errorf("unsupported OpenAPI version: %s", header.OpenAPI)
		}
	default:
		return nil, fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		logger.Error("Failed to parse OpenAPI 3.0 spec", zap.Error(err))
		return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}
	if doc == nil || doc.Paths == nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: document has no paths")
	}
	return doc, nil
}

// convertOpenAPI2to3 converts a Swagger 2.0 JSON document to OpenAPI 3.0
func convertOpenAPI2to3(data []byte, version string) (*openapi3.T, error) {
	if version != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %s", version)
	}

	var swagger2Doc openapi2.T
	if err := json.Unmarshal(data, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse Swagger 2.0 spec (JSON required): %w", err)
	}

	logger.Debug("Detected Swagger 2.0 spec, converting to OpenAPI 3.0")
	doc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3.0: %w", err)
	}
	if doc.Paths == nil {
		doc.Paths = openapi3.NewPaths()
	}
	return doc, nil
}
