/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "testing"

func buildQueryFixtureStore(t *testing.T) *Store {
	t.Helper()
	schema := eventSchemaDoc("gts.x.core.events.event.v1~")
	instances := []map[string]any{
		{"gtsId": "gts.x.core.events.event.v1~a", "status": "active", "user": 1.0},
		{"gtsId": "gts.x.core.events.event.v1~b", "status": "inactive", "user": 2.0},
		{"gtsId": "gts.x.core.events.event.v1~c", "status": "active", "user": 1.0},
	}
	docs := []Document{{Source: "schema.json", Content: schema}}
	for _, inst := range instances {
		docs = append(docs, Document{Source: "inst.json", Content: inst})
	}
	return Load(NewSliceReader(docs), nil)
}

func TestQuery_PredicatesAnd(t *testing.T) {
	store := buildQueryFixtureStore(t)

	matches, err := store.Query("gts.x.core.events.event.v1~*[status=active, user=1]", 0)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("count = %d, want 2", len(matches))
	}
	want := []string{"gts.x.core.events.event.v1~a", "gts.x.core.events.event.v1~c"}
	for i, e := range matches {
		if e.Key() != want[i] {
			t.Errorf("matches[%d] = %q, want %q", i, e.Key(), want[i])
		}
	}
}

func TestQuery_SchemaOnlyPattern(t *testing.T) {
	store := buildQueryFixtureStore(t)

	matches, err := store.Query("gts.*~", 0)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("count = %d, want 1 (only the schema entity)", len(matches))
	}
}

func TestQuery_AllWildcard(t *testing.T) {
	store := buildQueryFixtureStore(t)

	matches, err := store.Query("gts.*~*", 0)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(matches) != 4 {
		t.Fatalf("count = %d, want 4 (every entity)", len(matches))
	}
}

func TestQuery_SubstringOp(t *testing.T) {
	store := buildQueryFixtureStore(t)

	matches, err := store.Query(`gts.x.core.events.event.v1~*[status~"activ"]`, 0)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("count = %d, want 3 (both 'active' and 'inactive' contain 'activ')", len(matches))
	}
}

func TestQuery_QuotedCommaIsContent(t *testing.T) {
	doc := map[string]any{
		"gtsId": "gts.x.core.events.event.v1~z",
		"status": "a,b",
	}
	store := Load(NewSliceReader([]Document{
		{Source: "schema.json", Content: eventSchemaDoc("gts.x.core.events.event.v1~")},
		{Source: "inst.json", Content: doc},
	}), nil)

	matches, err := store.Query(`gts.x.core.events.event.v1~*[status="a,b"]`, 0)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("count = %d, want 1", len(matches))
	}
}

func TestQuery_MalformedUnbalancedBracket(t *testing.T) {
	store := buildQueryFixtureStore(t)
	if _, err := store.Query("gts.x.core.events.event.v1~*[status=active", 0); err == nil {
		t.Error("expected MalformedQueryError for an unbalanced bracket")
	}
}

func TestQuery_UnresolvedPredicateExcludesRatherThanFails(t *testing.T) {
	store := buildQueryFixtureStore(t)
	matches, err := store.Query("gts.x.core.events.event.v1~*[missing_field=anything]", 0)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("count = %d, want 0 (no entities carry 'missing_field', but the query itself must not fail)", len(matches))
	}
}
