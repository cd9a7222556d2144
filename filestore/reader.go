/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package filestore implements gts.Reader over a filesystem tree of JSON,
// JSONC and YAML documents, mirroring the scanning approach the core
// package's own file reader used before the Reader boundary moved outside
// the core (spec §6 "Reader").
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/gts-io/gts/gts"
)

// ExcludeDirs names directories a directory walk never descends into.
var ExcludeDirs = []string{"node_modules", "dist", "build", ".git"}

var extensionDecoders = map[string]func([]byte) (any, error){
	".json":  decodeJSON,
	".jsonc": decodeJSONC,
	".gts":   decodeJSON,
	".yaml":  decodeYAML,
	".yml":   decodeYAML,
}

// Reader walks one or more filesystem paths, decoding every recognized file
// into gts.Documents, one per top-level JSON/YAML object (or one per
// element, for a file whose top level is an array).
type Reader struct {
	paths []string

	initialized bool
	files       []string
	fileIdx     int

	pending    []gts.Document
	pendingIdx int
}

// NewReader builds a Reader over paths, each of which may be a file or a
// directory to walk recursively.
func NewReader(paths ...string) *Reader {
	expanded := make([]string, len(paths))
	for i, p := range paths {
		if strings.HasPrefix(p, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				p = filepath.Join(home, p[2:])
			}
		}
		expanded[i] = p
	}
	return &Reader{paths: expanded}
}

// Next implements gts.Reader.
func (r *Reader) Next() (gts.Document, bool) {
	if !r.initialized {
		r.collectFiles()
		r.initialized = true
	}

	for {
		if r.pendingIdx < len(r.pending) {
			doc := r.pending[r.pendingIdx]
			r.pendingIdx++
			return doc, true
		}

		if r.fileIdx >= len(r.files) {
			return gts.Document{}, false
		}

		path := r.files[r.fileIdx]
		r.fileIdx++
		r.pending = decodeFile(path)
		r.pendingIdx = 0
	}
}

func (r *Reader) collectFiles() {
	seen := make(map[string]bool)
	var collected []string

	for _, path := range r.paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			addFile(abs, seen, &collected)
			continue
		}

		_ = filepath.Walk(abs, func(walkPath string, walkInfo os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if walkInfo.IsDir() {
				for _, excluded := range ExcludeDirs {
					if walkInfo.Name() == excluded {
						return filepath.SkipDir
					}
				}
				return nil
			}
			addFile(walkPath, seen, &collected)
			return nil
		})
	}

	r.files = collected
}

func addFile(path string, seen map[string]bool, collected *[]string) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := extensionDecoders[ext]; !ok {
		return
	}
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		real = path
	}
	if seen[real] {
		return
	}
	seen[real] = true
	*collected = append(*collected, real)
}

func decodeFile(path string) []gts.Document {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := extensionDecoders[ext]
	if !ok {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	content, err := decode(data)
	if err != nil {
		return nil
	}

	switch v := content.(type) {
	case map[string]any:
		return []gts.Document{{Source: path, Content: v}}
	case []any:
		var docs []gts.Document
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				docs = append(docs, gts.Document{Source: path, Content: m})
			}
		}
		return docs
	default:
		return nil
	}
}

func decodeJSON(data []byte) (any, error) {
	var content any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// decodeJSONC strips "//" line comments before decoding as JSON. GTS schema
// authoring tools commonly annotate fixtures this way.
func decodeJSONC(data []byte) (any, error) {
	return decodeJSON(stripLineComments(data))
}

func stripLineComments(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		inString := false
		for j := 0; j < len(line)-1; j++ {
			switch line[j] {
			case '"':
				if j == 0 || line[j-1] != '\\' {
					inString = !inString
				}
			case '/':
				if !inString && line[j+1] == '/' {
					lines[i] = line[:j]
					j = len(line)
				}
			}
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

func decodeYAML(data []byte) (any, error) {
	var content any
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, err
	}
	return normalizeYAML(content), nil
}

// normalizeYAML converts goccy/go-yaml's map[any]any nodes into
// map[string]any so downstream code only ever sees JSON-shaped values.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[keyToString(k)] = normalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}

func keyToString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return ""
}
