/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Violation is a single diagnostic from the external validator (spec §6).
type Violation struct {
	Path    string
	Message string
}

// Validator validates a document against a schema document and reports any
// violations (spec §6 "Validator"). The core supplies document and schema;
// it never interprets violations beyond surfacing them. Implementations
// must be reentrant: the store may invoke the same Validator concurrently
// from multiple reader threads once loaded (spec §5).
type Validator func(document, schema map[string]any) ([]Violation, error)

// JSONSchemaValidator returns a Validator backed by
// santhosh-tekuri/jsonschema/v6, resolving "$ref" targets that are GTS ids
// against store so schema cross-references work without network access.
func JSONSchemaValidator(store *Store) Validator {
	return func(document, schema map[string]any) ([]Violation, error) {
		compiler := jsonschema.NewCompiler()
		compiler.UseLoader(&storeLoader{store: store})

		schemaID, _ := schema["$id"].(string)
		if schemaID == "" {
			schemaID = "urn:gts:validation-target"
		}
		if err := compiler.AddResource(schemaID, schema); err != nil {
			return nil, fmt.Errorf("add schema resource: %w", err)
		}
		for id, e := range store.entities {
			if e.IsSchema && id != schemaID {
				_ = compiler.AddResource(id, e.Document)
			}
		}

		compiled, err := compiler.Compile(schemaID)
		if err != nil {
			return nil, fmt.Errorf("compile schema: %w", err)
		}

		var violations []Violation
		if err := compiled.Validate(document); err != nil {
			ve, ok := err.(*jsonschema.ValidationError)
			if !ok {
				return nil, err
			}
			violations = flattenValidationError(ve)
		}

		for _, rv := range ValidateRefConstraints(document, schema) {
			violations = append(violations, Violation{Path: rv.Path, Message: rv.Error()})
		}
		return violations, nil
	}
}

func flattenValidationError(ve *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Violation{
				Path:    "/" + strings.Join(e.InstanceLocation, "/"),
				Message: e.Error(),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

// storeLoader resolves GTS ids as JSON Schema $ref targets via the store,
// implementing the GTS reference mechanism spec.md §1 calls out as the
// only permitted form of cross-schema $ref resolution.
type storeLoader struct {
	store *Store
}

func (l *storeLoader) Load(url string) (any, error) {
	if !IsValid(url) {
		return nil, fmt.Errorf("unsupported schema reference: %s", url)
	}
	e := l.store.Get(url)
	if e == nil || !e.IsSchema {
		return nil, fmt.Errorf("unresolvable GTS schema reference: %s", url)
	}
	return e.Document, nil
}
