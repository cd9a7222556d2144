/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "testing"

func TestFromDocument_Schema(t *testing.T) {
	doc := map[string]any{
		"$id":  "gts.x.core.events.event.v1~",
		"type": "object",
	}
	e := FromDocument(doc, nil)
	if e == nil {
		t.Fatal("expected a non-nil entity")
	}
	if !e.IsSchema {
		t.Error("expected IsSchema=true")
	}
	if e.Key() != "gts.x.core.events.event.v1~" {
		t.Errorf("Key() = %q, want schema id", e.Key())
	}
}

func TestFromDocument_Instance(t *testing.T) {
	doc := map[string]any{
		"gtsId": "gts.x.core.events.event.v1~i.v1",
		"name":  "hello",
	}
	e := FromDocument(doc, nil)
	if e == nil {
		t.Fatal("expected a non-nil entity")
	}
	if e.IsSchema {
		t.Error("expected IsSchema=false")
	}
	if e.SchemaID != "gts.x.core.events.event.v1~" {
		t.Errorf("SchemaID = %q, want schema id", e.SchemaID)
	}
}

func TestFromDocument_NoDerivableID(t *testing.T) {
	doc := map[string]any{"foo": "bar"}
	if e := FromDocument(doc, nil); e != nil {
		t.Errorf("expected nil entity for a document without a derivable id, got %+v", e)
	}
}

func TestFromDocument_AnonymousInstance(t *testing.T) {
	doc := map[string]any{
		"gtsId": "not-a-gts-id-12345",
		"type":  "gts.x.core.events.event.v1~",
	}
	e := FromDocument(doc, nil)
	if e == nil {
		t.Fatal("expected a non-nil anonymous entity")
	}
	if !e.Anonymous {
		t.Error("expected Anonymous=true")
	}
	if e.SchemaID != "gts.x.core.events.event.v1~" {
		t.Errorf("SchemaID = %q, want resolved from 'type' field", e.SchemaID)
	}
	if e.Key() != "not-a-gts-id-12345" {
		t.Errorf("Key() = %q, want raw id", e.Key())
	}
}

func TestResolvePath_Document(t *testing.T) {
	doc := map[string]any{
		"gtsId": "gts.x.core.events.event.v1~i.v1",
		"user": map[string]any{
			"name": "ada",
			"tags": []any{"a", "b", "c"},
		},
	}
	e := FromDocument(doc, nil)
	if e == nil {
		t.Fatal("expected entity")
	}

	res := e.ResolvePath("user.name")
	if !res.Resolved || res.Value != "ada" {
		t.Errorf("ResolvePath(user.name) = %+v, want resolved 'ada'", res)
	}

	res = e.ResolvePath("user.tags.1")
	if !res.Resolved || res.Value != "b" {
		t.Errorf("ResolvePath(user.tags.1) = %+v, want resolved 'b'", res)
	}

	res = e.ResolvePath("user.missing")
	if res.Resolved || res.Err == nil {
		t.Errorf("ResolvePath(user.missing) = %+v, want NoSuchPath error", res)
	}

	res = e.ResolvePath("user.name.nested")
	if res.Resolved || res.Err == nil {
		t.Errorf("ResolvePath(user.name.nested) = %+v, want PathTypeMismatch error", res)
	}
}

func TestResolvePath_Metadata(t *testing.T) {
	doc := map[string]any{"gtsId": "gts.x.core.events.event.v1.2~i.v1"}
	e := FromDocument(doc, nil)
	if e == nil {
		t.Fatal("expected entity")
	}

	cases := map[string]any{
		"@vendor": "x",
		"@type":   "event",
		"@major":  1,
		"@minor":  2,
	}
	for path, want := range cases {
		res := e.ResolvePath(path)
		if !res.Resolved {
			t.Fatalf("ResolvePath(%q) did not resolve: %v", path, res.Err)
		}
		if res.Value != want {
			t.Errorf("ResolvePath(%q) = %v, want %v", path, res.Value, want)
		}
	}
}
