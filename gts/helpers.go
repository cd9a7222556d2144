/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "strings"

// buildPath joins a base attribute path with the next property name,
// used by the cast engine and the x-gts-ref constraint walker to report
// field-level diagnostics.
func buildPath(base, prop string) string {
	if base == "" {
		return prop
	}
	if strings.HasPrefix(prop, "[") {
		return base + prop
	}
	return base + "." + prop
}

// deepCopyMap returns a structural copy of m so transformations (cast) never
// mutate the store's entities.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
