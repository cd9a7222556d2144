/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "fmt"

// Reference is a GTS id found somewhere inside a schema document, together
// with the JSON path it was found at (spec §4.3 "Reference extraction").
type Reference struct {
	ID         string
	SourcePath string
}

// extractReferences walks a document collecting GTS-id-shaped strings. In
// strict mode, only values under cfg.ReferenceKey count; otherwise any
// string that parses as a valid id counts (spec §4.3, §6 "strict_references").
func extractReferences(doc map[string]any, cfg *Config) []Reference {
	cfg = cfg.orDefault()
	var refs []Reference
	seen := map[string]bool{}
	walkRefs(doc, "", cfg, false, &refs, seen)
	return refs
}

func walkRefs(node any, path string, cfg *Config, underRefKey bool, refs *[]Reference, seen map[string]bool) {
	switch v := node.(type) {
	case string:
		if !IsValid(v) {
			return
		}
		if cfg.StrictReferences && !underRefKey {
			return
		}
		loc := path
		if loc == "" {
			loc = "root"
		}
		key := v + "|" + loc
		if seen[key] {
			return
		}
		seen[key] = true
		*refs = append(*refs, Reference{ID: v, SourcePath: loc})
	case map[string]any:
		for k, val := range v {
			next := k
			if path != "" {
				next = path + "." + k
			}
			walkRefs(val, next, cfg, k == cfg.ReferenceKey, refs, seen)
		}
	case []any:
		for i, val := range v {
			next := fmt.Sprintf("%s[%d]", path, i)
			walkRefs(val, next, cfg, underRefKey, refs, seen)
		}
	}
}
