/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"strconv"
	"strings"
)

// Entity pairs a parsed document with its derived GTS id (spec §3, §4.2).
type Entity struct {
	Document map[string]any

	// ID is the parsed identifier. For an anonymous instance (one whose id
	// field is not a valid GTS id) this is nil and RawID carries the
	// document's own non-GTS id value instead.
	ID    *Id
	RawID string

	IsSchema  bool
	Anonymous bool

	// SchemaID is the schema this entity is or belongs to: for a schema
	// entity it equals ID.String(); for an instance it's the schema id
	// the instance was validated/cast against.
	SchemaID string

	// Source, when set by a reader, names where the document came from
	// (spec §3 "source_name" of the reader stream).
	Source string
}

// FromDocument adapts a parsed JSON document into an Entity using cfg's id
// properties. Returns nil if no derivable id is found (spec §3: "An entity
// without a derivable id is not an entity").
func FromDocument(doc map[string]any, cfg *Config) *Entity {
	cfg = cfg.orDefault()

	if schemaVal, ok := stringField(doc, cfg.SchemaIDKey); ok {
		if id, err := Parse(schemaVal); err == nil {
			return &Entity{
				Document: doc,
				ID:       id,
				IsSchema: true,
				SchemaID: id.String(),
			}
		}
	}

	if instanceVal, ok := stringField(doc, cfg.InstanceIDKey); ok {
		if id, err := Parse(instanceVal); err == nil {
			return &Entity{
				Document: doc,
				ID:       id,
				IsSchema: false,
				SchemaID: id.SchemaID(),
			}
		}
		// Anonymous instance: non-GTS id value, schema named via "type"/"schema".
		schemaID := ""
		for _, key := range []string{"type", "schema", cfg.SchemaIDKey} {
			if v, ok := stringField(doc, key); ok && IsValid(v) {
				schemaID = v
				break
			}
		}
		return &Entity{
			Document:  doc,
			RawID:     instanceVal,
			Anonymous: true,
			SchemaID:  schemaID,
		}
	}

	return nil
}

func stringField(doc map[string]any, key string) (string, bool) {
	if key == "" || doc == nil {
		return "", false
	}
	v, ok := doc[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Key returns the string the store indexes this entity under: the
// canonical id for addressable entities, the raw non-GTS id for anonymous
// instances.
func (e *Entity) Key() string {
	if e.ID != nil {
		return e.ID.String()
	}
	return e.RawID
}

// ResolveResult is the outcome of resolving an attribute path against an
// entity (spec §4.2).
type ResolveResult struct {
	Value    any
	Resolved bool
	Err      error
}

// ResolvePath navigates a dotted path into the entity, spec §4.2: plain
// paths descend into the document; a leading "@" selects identifier
// metadata instead of payload.
func (e *Entity) ResolvePath(path string) ResolveResult {
	if strings.HasPrefix(path, "@") {
		return e.resolveMeta(path[1:])
	}
	return resolveDocumentPath(path, e.Document)
}

func (e *Entity) resolveMeta(key string) ResolveResult {
	if e.ID == nil {
		return ResolveResult{Err: &PathError{Path: "@" + key, Reason: "no_such_path"}}
	}
	id := e.ID
	switch key {
	case "id":
		return ResolveResult{Value: id.String(), Resolved: true}
	case "schema":
		return ResolveResult{Value: e.SchemaID, Resolved: true}
	case "vendor":
		return ResolveResult{Value: id.Vendor, Resolved: true}
	case "package":
		return ResolveResult{Value: id.Package, Resolved: true}
	case "namespace":
		ns := make([]any, len(id.Namespace))
		for i, v := range id.Namespace {
			ns[i] = v
		}
		return ResolveResult{Value: ns, Resolved: true}
	case "type":
		return ResolveResult{Value: id.Type, Resolved: true}
	case "major":
		return ResolveResult{Value: id.Major, Resolved: true}
	case "minor":
		if id.Minor == nil {
			return ResolveResult{Resolved: true, Value: nil}
		}
		return ResolveResult{Value: *id.Minor, Resolved: true}
	case "patch":
		if id.Patch == nil {
			return ResolveResult{Resolved: true, Value: nil}
		}
		return ResolveResult{Value: *id.Patch, Resolved: true}
	case "instance":
		return ResolveResult{Value: strings.Join(id.Instance, "."), Resolved: true}
	default:
		return ResolveResult{Err: &PathError{Path: "@" + key, Reason: "no_such_path"}}
	}
}

// resolveDocumentPath walks a dotted/indexed path ("a.b.0.c" or
// "a.b[0].c") into a JSON value tree.
func resolveDocumentPath(path string, root any) ResolveResult {
	parts := splitPathSegments(path)
	var current any = root

	for _, part := range parts {
		switch node := current.(type) {
		case map[string]any:
			val, ok := node[part]
			if !ok {
				return ResolveResult{Err: &PathError{Path: path, Reason: "no_such_path"}}
			}
			current = val
		case []any:
			idx, err := strconv.Atoi(strings.Trim(part, "[]"))
			if err != nil || idx < 0 || idx >= len(node) {
				return ResolveResult{Err: &PathError{Path: path, Reason: "no_such_path"}}
			}
			current = node[idx]
		default:
			return ResolveResult{Err: &PathError{Path: path, Reason: "path_type_mismatch"}}
		}
	}

	return ResolveResult{Value: current, Resolved: true}
}

// splitPathSegments turns "a.0.b" or "a[0].b" into ["a", "0", "b"].
func splitPathSegments(path string) []string {
	normalized := strings.ReplaceAll(path, "/", ".")
	var parts []string
	for _, seg := range strings.Split(normalized, ".") {
		if seg == "" {
			continue
		}
		parts = append(parts, splitBracketed(seg)...)
	}
	return parts
}

func splitBracketed(seg string) []string {
	var out []string
	buf := strings.Builder{}
	i := 0
	for i < len(seg) {
		if seg[i] == '[' {
			if buf.Len() > 0 {
				out = append(out, buf.String())
				buf.Reset()
			}
			j := strings.IndexByte(seg[i:], ']')
			if j < 0 {
				buf.WriteString(seg[i:])
				break
			}
			out = append(out, seg[i+1:i+j])
			i += j + 1
			continue
		}
		buf.WriteByte(seg[i])
		i++
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}
