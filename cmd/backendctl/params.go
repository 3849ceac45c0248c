package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brizzai/backend-client/internal/backend"
)

// parseParams turns key=value pairs into request parameters. A value that is
// valid JSON is used decoded, so -p id=7 sends a number and -p name=bob a
// string. The last occurrence of a key wins.
func parseParams(pairs []string) (backend.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(backend.Params, len(pairs))
	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid parameter %q (expected key=value)", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid parameter %q (empty key)", pair)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		params[key] = value
	}
	return params, nil
}
