/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package filestore

import (
	"os"
	"path/filepath"
	"testing"
)

func drain(t *testing.T, r *Reader) []string {
	t.Helper()
	var sources []string
	for {
		doc, ok := r.Next()
		if !ok {
			break
		}
		sources = append(sources, doc.Source)
	}
	return sources
}

func TestReader_SingleJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(path, []byte(`{"$id": "gts.x.core.events.event.v1~", "type": "object"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewReader(path)
	doc, ok := r.Next()
	if !ok {
		t.Fatal("expected a document")
	}
	if doc.Content["$id"] != "gts.x.core.events.event.v1~" {
		t.Errorf("Content[$id] = %v, want schema id", doc.Content["$id"])
	}
	if _, ok := r.Next(); ok {
		t.Error("expected no further documents")
	}
}

func TestReader_JSONCStripsLineComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.jsonc")
	content := "{\n  // a comment\n  \"$id\": \"gts.x.core.events.event.v1~\",\n  \"type\": \"object\" // trailing\n}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewReader(path)
	doc, ok := r.Next()
	if !ok {
		t.Fatal("expected a document")
	}
	if doc.Content["$id"] != "gts.x.core.events.event.v1~" {
		t.Errorf("Content[$id] = %v, want schema id", doc.Content["$id"])
	}
	if doc.Content["type"] != "object" {
		t.Errorf("Content[type] = %v, want 'object'", doc.Content["type"])
	}
}

func TestReader_YAMLDecoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	content := "$id: gts.x.core.events.event.v1~\ntype: object\nproperties:\n  a:\n    type: string\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewReader(path)
	doc, ok := r.Next()
	if !ok {
		t.Fatal("expected a document")
	}
	if doc.Content["$id"] != "gts.x.core.events.event.v1~" {
		t.Errorf("Content[$id] = %v, want schema id", doc.Content["$id"])
	}
	props, ok := doc.Content["properties"].(map[string]any)
	if !ok {
		t.Fatalf("Content[properties] is not a map[string]any: %T", doc.Content["properties"])
	}
	if _, ok := props["a"]; !ok {
		t.Error("expected nested property 'a' to survive YAML normalization")
	}
}

func TestReader_ArrayFileYieldsOneDocumentPerElement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instances.json")
	content := `[{"gtsId": "gts.x.core.events.event.v1~a"}, {"gtsId": "gts.x.core.events.event.v1~b"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewReader(path)
	var ids []any
	for {
		doc, ok := r.Next()
		if !ok {
			break
		}
		ids = append(ids, doc.Content["gtsId"])
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 documents from the array file, got %d", len(ids))
	}
}

func TestReader_DirectoryWalkSkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "node_modules"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "node_modules", "skip.json"), []byte(`{"$id": "gts.x.core.events.skip.v1~"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "keep.json"), []byte(`{"$id": "gts.x.core.events.keep.v1~"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewReader(dir)
	sources := drain(t, r)
	if len(sources) != 1 {
		t.Fatalf("expected 1 document (node_modules excluded), got %d: %v", len(sources), sources)
	}
}

func TestReader_UnrecognizedExtensionIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewReader(dir)
	if _, ok := r.Next(); ok {
		t.Error("expected no documents from a directory containing only unrecognized extensions")
	}
}
