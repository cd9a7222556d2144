/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "testing"

func loadTwoSchemas(t *testing.T, from, to map[string]any) *Store {
	t.Helper()
	return Load(NewSliceReader([]Document{
		{Source: "from.json", Content: from},
		{Source: "to.json", Content: to},
	}), nil)
}

func TestCheckCompatibility_Identity(t *testing.T) {
	schema := map[string]any{
		"$id":      "gts.x.core.events.event.v1~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
	}
	store := Load(NewSliceReader([]Document{{Source: "a.json", Content: schema}}), nil)

	report, err := store.CheckCompatibility("gts.x.core.events.event.v1~", "gts.x.core.events.event.v1~")
	if err != nil {
		t.Fatalf("CheckCompatibility error: %v", err)
	}
	if report.Verdict != VerdictFull {
		t.Errorf("is_minor_compatible(A, A) = %v, want full", report.Verdict)
	}
}

func TestCheckCompatibility_AddOptionalWithDefault_FullyCompatible(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "integer", "default": 0},
		},
	}
	store := loadTwoSchemas(t, v10, v11)

	report, err := store.CheckCompatibility("gts.x.core.events.event.v1.0~", "gts.x.core.events.event.v1.1~")
	if err != nil {
		t.Fatalf("CheckCompatibility error: %v", err)
	}
	if report.Verdict != VerdictFull {
		t.Errorf("Verdict = %v, want full; backward errs: %v forward errs: %v", report.Verdict, report.BackwardErrors, report.ForwardErrors)
	}
}

func TestCheckCompatibility_OptionalWithoutDefault_BackwardOnly(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "integer"},
		},
	}
	store := loadTwoSchemas(t, v10, v11)

	report, err := store.CheckCompatibility("gts.x.core.events.event.v1.0~", "gts.x.core.events.event.v1.1~")
	if err != nil {
		t.Fatalf("CheckCompatibility error: %v", err)
	}
	if report.Verdict != VerdictBackward {
		t.Errorf("Verdict = %v, want backward only (removing the default from 'b'); errs: %v", report.Verdict, report.ForwardErrors)
	}
}

func TestCheckCompatibility_NewRequiredWithDefault_StaysBackwardCompatible(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{"a", "b"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "integer", "default": 0},
		},
	}
	store := loadTwoSchemas(t, v10, v11)

	report, err := store.CheckCompatibility("gts.x.core.events.event.v1.0~", "gts.x.core.events.event.v1.1~")
	if err != nil {
		t.Fatalf("CheckCompatibility error: %v", err)
	}
	if !(report.Verdict == VerdictFull || report.Verdict == VerdictBackward) {
		t.Errorf("a new required field with a default must not break backward compatibility, got verdict %v errs %v", report.Verdict, report.BackwardErrors)
	}
}

func TestCheckCompatibility_NewRequiredWithoutDefault_BreaksBackward(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{"a", "b"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "integer"},
		},
	}
	store := loadTwoSchemas(t, v10, v11)

	report, err := store.CheckCompatibility("gts.x.core.events.event.v1.0~", "gts.x.core.events.event.v1.1~")
	if err != nil {
		t.Fatalf("CheckCompatibility error: %v", err)
	}
	if report.Verdict == VerdictFull || report.Verdict == VerdictBackward {
		t.Errorf("an undefaulted new required field must break backward compatibility, got %v", report.Verdict)
	}
}

func TestCheckCompatibility_EnumNarrowing(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{},
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "enum": []any{"active", "inactive", "pending"}},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{},
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "enum": []any{"active", "inactive"}},
		},
	}
	store := loadTwoSchemas(t, v10, v11)

	report, err := store.CheckCompatibility("gts.x.core.events.event.v1.0~", "gts.x.core.events.event.v1.1~")
	if err != nil {
		t.Fatalf("CheckCompatibility error: %v", err)
	}
	// Narrowing an enum breaks backward compatibility (spec §4.4).
	if report.Verdict == VerdictFull || report.Verdict == VerdictBackward {
		t.Errorf("narrowing an enum must break backward compatibility, got %v", report.Verdict)
	}
}

func TestCheckCompatibility_TypeChangeBreaksBoth(t *testing.T) {
	v10 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.0~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
	}
	v11 := map[string]any{
		"$id":      "gts.x.core.events.event.v1.1~",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "integer"},
		},
	}
	store := loadTwoSchemas(t, v10, v11)

	report, err := store.CheckCompatibility("gts.x.core.events.event.v1.0~", "gts.x.core.events.event.v1.1~")
	if err != nil {
		t.Fatalf("CheckCompatibility error: %v", err)
	}
	if report.Verdict != VerdictNone {
		t.Errorf("changing a property's type must break both directions, got %v", report.Verdict)
	}
}

func TestCheckCompatibility_Incomparable(t *testing.T) {
	v1 := map[string]any{"$id": "gts.x.core.events.event.v1~", "type": "object"}
	v2 := map[string]any{"$id": "gts.x.core.events.event.v2~", "type": "object"}
	store := loadTwoSchemas(t, v1, v2)

	if _, err := store.CheckCompatibility("gts.x.core.events.event.v1~", "gts.x.core.events.event.v2~"); err == nil {
		t.Error("expected IncomparableError across a MAJOR-version boundary")
	}
}
