/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"
	"strings"
)

// RefConstraintViolation is raised when an instance value fails the
// x-gts-ref pattern its schema declares for that field.
type RefConstraintViolation struct {
	Path    string
	Value   string
	Pattern string
	Reason  string
}

func (e *RefConstraintViolation) Error() string {
	return fmt.Sprintf("x-gts-ref violation at %s: %s", e.Path, e.Reason)
}

// ValidateRefConstraints walks schema in lockstep with instance, checking
// any "x-gts-ref" pattern a property declares against the corresponding
// instance value. This is supplementary to the §4.3 dependency graph: it
// constrains *instance data*, the graph tracks *schema-to-schema* edges.
//
// A pattern may itself be a "/json/pointer" into the root schema (e.g.
// "/$id" for a field that must restate the schema's own id) rather than an
// absolute GTS pattern; such pointers are resolved against schema, the
// document passed in as the root, before matching.
func ValidateRefConstraints(instance, schema map[string]any) []*RefConstraintViolation {
	var errs []*RefConstraintViolation
	walkRefConstraints(instance, schema, "", schema, &errs)
	return errs
}

func walkRefConstraints(instance any, schema map[string]any, path string, root map[string]any, errs *[]*RefConstraintViolation) {
	if schema == nil {
		return
	}

	if patternVal, ok := schema["x-gts-ref"]; ok {
		if strInstance, ok := instance.(string); ok {
			pattern, ok := patternVal.(string)
			if !ok {
				*errs = append(*errs, &RefConstraintViolation{Path: path, Value: strInstance, Reason: "x-gts-ref must be a string"})
			} else if resolved, err := resolveRefPattern(pattern, root); err != nil {
				*errs = append(*errs, &RefConstraintViolation{Path: path, Value: strInstance, Pattern: pattern, Reason: err.Error()})
			} else if err := matchesRefPattern(strInstance, resolved); err != nil {
				*errs = append(*errs, &RefConstraintViolation{Path: path, Value: strInstance, Pattern: resolved, Reason: err.Error()})
			}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	if properties != nil {
		if instanceMap, ok := instance.(map[string]any); ok {
			for prop, propSchemaAny := range properties {
				propSchema, ok := propSchemaAny.(map[string]any)
				if !ok {
					continue
				}
				val, present := instanceMap[prop]
				if !present {
					continue
				}
				walkRefConstraints(val, propSchema, buildPath(path, prop), root, errs)
			}
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		if instanceArr, ok := instance.([]any); ok {
			for i, item := range instanceArr {
				walkRefConstraints(item, items, fmt.Sprintf("%s[%d]", path, i), root, errs)
			}
		}
	}
}

// resolveRefPattern resolves a "/json/pointer" pattern against root,
// following a chain of pointers (a pointer may itself land on another
// x-gts-ref pointer) until it reaches an absolute "gts."-prefixed pattern.
// Patterns that are already absolute pass through unchanged.
func resolveRefPattern(pattern string, root map[string]any) (string, error) {
	seen := map[string]bool{}
	for strings.HasPrefix(pattern, "/") {
		if seen[pattern] {
			return "", fmt.Errorf("cyclic x-gts-ref pointer at %q", pattern)
		}
		seen[pattern] = true

		resolved, ok := resolveJSONPointer(root, pattern)
		if !ok {
			return "", fmt.Errorf("cannot resolve reference path %q", pattern)
		}
		pattern = resolved
	}
	if !strings.HasPrefix(pattern, "gts.") {
		return "", fmt.Errorf("resolved reference %q is not a GTS pattern", pattern)
	}
	return pattern, nil
}

// resolveJSONPointer walks a slash-delimited path of map keys (RFC 6901
// without the "~0"/"~1" escapes, which never arise in GTS schema property
// names) and returns the string found there, or the "x-gts-ref" value of
// the map found there if the leaf itself is an object declaring one.
func resolveJSONPointer(root map[string]any, pointer string) (string, bool) {
	path := strings.TrimPrefix(pointer, "/")
	if path == "" {
		return "", false
	}

	var current any = root
	for _, part := range strings.Split(path, "/") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = currentMap[part]
		if !ok {
			return "", false
		}
	}

	if str, ok := current.(string); ok {
		return str, true
	}
	if currentMap, ok := current.(map[string]any); ok {
		if ref, ok := currentMap["x-gts-ref"].(string); ok {
			return ref, true
		}
	}
	return "", false
}

// matchesRefPattern validates value against a GTS pattern declared via
// x-gts-ref. The bare "gts.*" accepts any valid id; every other pattern is
// parsed and matched segment-wise with WildcardMatch, so a pattern without
// wildcards requires an exact id.
func matchesRefPattern(value, pattern string) error {
	if !IsValid(value) {
		return fmt.Errorf("value %q is not a valid GTS id", value)
	}
	if pattern == "gts.*" {
		return nil
	}
	ok, err := WildcardMatch(value, pattern)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("value %q does not match pattern %q", value, pattern)
	}
	return nil
}
