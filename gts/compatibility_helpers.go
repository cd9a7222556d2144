/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"
	"sort"
	"strings"
)

func getPropertiesMap(schema map[string]any) map[string]any {
	if props, ok := schema["properties"].(map[string]any); ok {
		return props
	}
	return make(map[string]any)
}

func getRequiredSet(schema map[string]any) map[string]bool {
	set := make(map[string]bool)
	if req, ok := schema["required"].([]any); ok {
		for _, item := range req {
			if str, ok := item.(string); ok {
				set[str] = true
			}
		}
	}
	return set
}

func getString(m map[string]any, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getMap(m map[string]any, key string) map[string]any {
	if val, ok := m[key]; ok {
		if mapVal, ok := val.(map[string]any); ok {
			return mapVal
		}
	}
	return nil
}

func getNumber(m map[string]any, key string) *float64 {
	if val, ok := m[key]; ok {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getStringSlice(m map[string]any, key string) []string {
	var result []string
	if val, ok := m[key]; ok {
		if slice, ok := val.([]any); ok {
			for _, item := range slice {
				if str, ok := item.(string); ok {
					result = append(result, str)
				}
			}
		}
	}
	return result
}

func getKeys(m map[string]any) map[string]bool {
	keys := make(map[string]bool)
	for k := range m {
		keys[k] = true
	}
	return keys
}

func setDifference(a, b map[string]bool) []string {
	var diff []string
	for k := range a {
		if !b[k] {
			diff = append(diff, k)
		}
	}
	sort.Strings(diff)
	return diff
}

func setIntersection(a, b map[string]bool) []string {
	var intersection []string
	for k := range a {
		if b[k] {
			intersection = append(intersection, k)
		}
	}
	sort.Strings(intersection)
	return intersection
}

func joinStrings(strs []string) string {
	return strings.Join(strs, ", ")
}

func stringSliceToSet(slice []string) map[string]bool {
	set := make(map[string]bool)
	for _, s := range slice {
		set[s] = true
	}
	return set
}

// floatToString renders a constraint bound without trailing zeros, e.g. "3"
// rather than "3.0000000000".
func floatToString(f float64) string {
	s := fmt.Sprintf("%.10f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
