/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "testing"

func TestCast_DefaultFillsMissingRequired(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a":     map[string]any{"type": "string"},
			"gtsId": map[string]any{"type": "string"},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{"a", "b"},
		"properties": map[string]any{
			"a":     map[string]any{"type": "string"},
			"b":     map[string]any{"type": "number", "default": 0.0},
			"gtsId": map[string]any{"type": "string"},
		},
	}
	instance := map[string]any{
		"gtsId": "gts.x.core.events.event.v1.0~i.v1",
		"a":     "hello",
	}

	store := Load(NewSliceReader([]Document{
		{Source: "v10.json", Content: v10},
		{Source: "v11.json", Content: v11},
		{Source: "inst.json", Content: instance},
	}), nil)

	result, err := store.Cast("gts.x.core.events.event.v1.0~i.v1", "gts.x.core.events.event.v1.1~")
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}

	if result.Instance["a"] != "hello" {
		t.Errorf("Instance[a] = %v, want 'hello'", result.Instance["a"])
	}
	if result.Instance["b"] != 0.0 {
		t.Errorf("Instance[b] = %v, want defaulted 0", result.Instance["b"])
	}
	if result.Instance["gtsId"] != "gts.x.core.events.event.v1.1~i.v1" {
		t.Errorf("Instance[gtsId] = %v, want re-stamped to the target schema", result.Instance["gtsId"])
	}
	if len(result.Added) != 1 || result.Added[0] != "b" {
		t.Errorf("Added = %v, want [b]", result.Added)
	}
}

func TestCast_Idempotent(t *testing.T) {
	schema := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a":     map[string]any{"type": "string"},
			"gtsId": map[string]any{"type": "string"},
		},
	}
	instance := map[string]any{
		"gtsId": "gts.x.core.events.event.v1.0~i.v1",
		"a":     "hello",
	}
	store := Load(NewSliceReader([]Document{
		{Source: "schema.json", Content: schema},
		{Source: "inst.json", Content: instance},
	}), nil)

	result, err := store.Cast("gts.x.core.events.event.v1.0~i.v1", "gts.x.core.events.event.v1.0~")
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if result.Instance["a"] != "hello" {
		t.Errorf("Instance[a] = %v, want unchanged 'hello'", result.Instance["a"])
	}
	if len(result.Added) != 0 || len(result.Removed) != 0 {
		t.Errorf("expected no diagnostics for a same-schema cast, got added=%v removed=%v", result.Added, result.Removed)
	}
}

func TestCast_MissingRequiredWithoutDefault_Fails(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a":     map[string]any{"type": "string"},
			"gtsId": map[string]any{"type": "string"},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{"a", "b"},
		"properties": map[string]any{
			"a":     map[string]any{"type": "string"},
			"b":     map[string]any{"type": "integer"},
			"gtsId": map[string]any{"type": "string"},
		},
	}
	instance := map[string]any{
		"gtsId": "gts.x.core.events.event.v1.0~i.v1",
		"a":     "hello",
	}
	store := Load(NewSliceReader([]Document{
		{Source: "v10.json", Content: v10},
		{Source: "v11.json", Content: v11},
		{Source: "inst.json", Content: instance},
	}), nil)

	if _, err := store.Cast("gts.x.core.events.event.v1.0~i.v1", "gts.x.core.events.event.v1.1~"); err == nil {
		t.Error("expected NotCastable when a newly required field has no default")
	}
}

func TestCast_MajorVersionMismatch(t *testing.T) {
	v1 := map[string]any{"$id": "gts.x.core.events.event.v1~", "type": "object", "properties": map[string]any{"gtsId": map[string]any{"type": "string"}}}
	v2 := map[string]any{"$id": "gts.x.core.events.event.v2~", "type": "object", "properties": map[string]any{"gtsId": map[string]any{"type": "string"}}}
	instance := map[string]any{"gtsId": "gts.x.core.events.event.v1~i.v1"}
	store := Load(NewSliceReader([]Document{
		{Source: "v1.json", Content: v1},
		{Source: "v2.json", Content: v2},
		{Source: "inst.json", Content: instance},
	}), nil)

	if _, err := store.Cast("gts.x.core.events.event.v1~i.v1", "gts.x.core.events.event.v2~"); err == nil {
		t.Error("expected an error casting across a MAJOR version boundary")
	}
}

func TestCast_FromSchemaRejected(t *testing.T) {
	schema := map[string]any{"$id": "gts.x.core.events.event.v1~", "type": "object"}
	store := Load(NewSliceReader([]Document{{Source: "s.json", Content: schema}}), nil)

	if _, err := store.Cast("gts.x.core.events.event.v1~", "gts.x.core.events.event.v1~"); err == nil {
		t.Error("expected an error casting a schema id instead of an instance id")
	}
}
