package ollama

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// DefaultOptions returns the sampling options generate sends unless
// overridden: a low temperature with nucleus sampling and a mild repeat
// penalty, which keeps answers grounded in supplied context.
func DefaultOptions() map[string]interface{} {
	return map[string]interface{}{
		"temperature":    0.3,
		"top_p":          0.9,
		"repeat_penalty": 1.1,
	}
}

// ParseOptions applies key=value pairs on top of a copy of base. Values
// are read as JSON when they parse (numbers, booleans, arrays such as
// stop=["\n"]) and as plain strings otherwise. An empty value removes the
// key.
func ParseOptions(base map[string]interface{}, pairs []string) (map[string]interface{}, error) {
	opts := maps.Clone(base)
	if opts == nil {
		opts = map[string]interface{}{}
	}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q: expected key=value", pair)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			delete(opts, key)
			continue
		}
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		opts[key] = v
	}
	return opts, nil
}
