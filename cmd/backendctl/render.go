package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"

	// maxBodyPreview bounds how much of an undecodable error body is printed.
	maxBodyPreview = 512
)

// applyFilter runs a jq expression over value. A single result is returned
// as is, several results as a slice.
func applyFilter(value any, expression string) (any, error) {
	if expression == "" {
		return value, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	var results []any
	iter := query.Run(value)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// renderValue writes value to w in the given format after applying the filter.
func renderValue(w io.Writer, value any, expression, format string) error {
	filtered, err := applyFilter(value, expression)
	if err != nil {
		return err
	}

	switch format {
	case formatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(filtered)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(filtered); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("invalid output format %q (must be json or yaml)", format)
	}
}

// describeError explains a failed call. The body of an HTTP error is decoded
// as an error payload when it has that shape and shown raw otherwise.
func describeError(err *backend.Error) string {
	if err == nil {
		return ""
	}
	if err.Kind != backend.HTTPError {
		return fmt.Sprintf("%s: %v", err.Kind, err)
	}

	msg := fmt.Sprintf("%s: status %d", err.Kind, err.StatusCode)
	if payload, perr := err.Payload(); perr == nil {
		if detail := payload.String(); detail != "" {
			return msg + ": " + detail
		}
	}
	if body := strings.TrimSpace(string(err.Body())); body != "" {
		return msg + ": " + preview(body)
	}
	return msg
}

func preview(s string) string {
	if len(s) <= maxBodyPreview {
		return s
	}
	cut := maxBodyPreview
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
