/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// CastResult is the outcome of casting an instance across minor versions of
// its schema (spec §3 "Cast result", §4.5).
type CastResult struct {
	FromID, ToID string

	Added   []string
	Removed []string

	Instance map[string]any
}

// Cast transforms the instance at instanceID so it conforms to toSchemaID,
// which must share vendor/package/namespace/type/MAJOR with the instance's
// current schema (spec §4.5). Casting a schema entity itself is rejected
// with *CastFromSchemaError.
func (s *Store) Cast(instanceID, toSchemaID string) (*CastResult, error) {
	instance := s.Get(instanceID)
	if instance == nil {
		return nil, &NoSuchInstanceError{ID: instanceID}
	}
	if instance.IsSchema {
		return nil, &CastFromSchemaError{ID: instanceID}
	}
	if instance.SchemaID == "" {
		return nil, &NoSchemaForInstanceError{ID: instanceID}
	}

	fromSchema := s.Get(instance.SchemaID)
	if fromSchema == nil || !fromSchema.IsSchema {
		return nil, &NoSuchSchemaError{ID: instance.SchemaID}
	}
	toSchema := s.Get(toSchemaID)
	if toSchema == nil || !toSchema.IsSchema {
		return nil, &NoSuchSchemaError{ID: toSchemaID}
	}

	fromParsed, err := Parse(instance.SchemaID)
	if err != nil {
		return nil, err
	}
	toParsed, err := Parse(toSchemaID)
	if err != nil {
		return nil, err
	}
	if !sameIdentity(fromParsed, toParsed) || fromParsed.Major != toParsed.Major {
		return nil, &NotCastableError{From: instance.SchemaID, To: toSchemaID, OffendingFields: []string{"major version mismatch"}}
	}

	targetSchema := flattenSchema(toSchema.Document)
	casted, added, removed, incompatible := castInstanceToSchema(deepCopyMap(instance.Document), targetSchema, "")

	if instance.ID != nil {
		// toSchemaID is itself a canonical schema id and already ends in
		// "~"; only the instance segments need appending.
		casted[s.cfg.InstanceIDKey] = toSchemaID + joinDots(instance.ID.Instance)
	}

	if len(incompatible) == 0 {
		if violations, err := validateWithIDTolerance(casted, toSchema.Document, s); err != nil {
			incompatible = append(incompatible, err.Error())
		} else {
			for _, v := range violations {
				incompatible = append(incompatible, v.Path+": "+v.Message)
			}
		}
	}

	if len(incompatible) > 0 {
		return nil, &NotCastableError{From: instance.SchemaID, To: toSchemaID, OffendingFields: incompatible}
	}

	return &CastResult{
		FromID:   instanceID,
		ToID:     toSchemaID,
		Added:    dedupSorted(added),
		Removed:  dedupSorted(removed),
		Instance: casted,
	}, nil
}

func joinDots(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += "."
		}
		out += t
	}
	return out
}

// castInstanceToSchema structurally transforms instance to conform to
// schema: required properties are defaulted when possible, GTS-id const
// fields are re-stamped, properties outside the schema are dropped when
// additionalProperties is false, and object/array properties recurse.
func castInstanceToSchema(instance map[string]any, schema map[string]any, basePath string) (map[string]any, []string, []string, []string) {
	var added, removed, incompatible []string

	if instance == nil {
		return nil, added, removed, []string{"instance must be an object for casting"}
	}

	targetProps := getPropertiesMap(schema)
	required := getRequiredSet(schema)
	additionalAllowed := getAdditionalProperties(schema)

	result := deepCopyMap(instance)

	for reqProp := range required {
		if _, exists := result[reqProp]; exists {
			continue
		}
		propSchema := getMap(targetProps, reqProp)
		if propSchema == nil {
			continue
		}
		if defaultVal, hasDefault := propSchema["default"]; hasDefault {
			result[reqProp] = deepCopyValue(defaultVal)
			added = append(added, buildPath(basePath, reqProp))
		} else {
			incompatible = append(incompatible, fmt.Sprintf("missing required property %q and no default is defined", buildPath(basePath, reqProp)))
		}
	}

	for prop, propSchemaAny := range targetProps {
		if required[prop] {
			continue
		}
		propSchema, ok := propSchemaAny.(map[string]any)
		if !ok {
			continue
		}
		if _, exists := result[prop]; exists {
			continue
		}
		if defaultVal, hasDefault := propSchema["default"]; hasDefault {
			result[prop] = deepCopyValue(defaultVal)
			added = append(added, buildPath(basePath, prop))
		}
	}

	for prop, propSchemaAny := range targetProps {
		propSchema, ok := propSchemaAny.(map[string]any)
		if !ok {
			continue
		}
		constVal, hasConst := propSchema["const"].(string)
		if !hasConst {
			continue
		}
		existing, exists := result[prop].(string)
		if exists && IsValid(constVal) && IsValid(existing) && existing != constVal {
			result[prop] = constVal
		}
	}

	if !additionalAllowed {
		for prop := range result {
			if _, inTarget := targetProps[prop]; !inTarget {
				delete(result, prop)
				removed = append(removed, buildPath(basePath, prop))
			}
		}
	}

	for prop, propSchemaAny := range targetProps {
		val, exists := result[prop]
		if !exists {
			continue
		}
		propSchema, ok := propSchemaAny.(map[string]any)
		if !ok {
			continue
		}
		propType := getString(propSchema, "type")

		if propType == "object" {
			if valMap, isMap := val.(map[string]any); isMap {
				nested := effectiveObjectSchema(propSchema)
				newObj, addSub, remSub, incSub := castInstanceToSchema(valMap, nested, buildPath(basePath, prop))
				result[prop] = newObj
				added = append(added, addSub...)
				removed = append(removed, remSub...)
				incompatible = append(incompatible, incSub...)
			}
		}

		if propType == "array" {
			if valArr, isArr := val.([]any); isArr {
				itemsSchema := getMap(propSchema, "items")
				if itemsSchema != nil && getString(itemsSchema, "type") == "object" {
					nested := effectiveObjectSchema(itemsSchema)
					newList := make([]any, 0, len(valArr))
					for idx, item := range valArr {
						itemMap, isMap := item.(map[string]any)
						if !isMap {
							newList = append(newList, item)
							continue
						}
						newItem, addSub, remSub, incSub := castInstanceToSchema(itemMap, nested, fmt.Sprintf("%s[%d]", buildPath(basePath, prop), idx))
						newList = append(newList, newItem)
						added = append(added, addSub...)
						removed = append(removed, remSub...)
						incompatible = append(incompatible, incSub...)
					}
					result[prop] = newList
				}
			}
		}
	}

	return result, added, removed, incompatible
}

// effectiveObjectSchema extracts the object shape from an allOf-composed
// schema fragment when it carries no direct properties/required of its own.
func effectiveObjectSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return make(map[string]any)
	}
	if _, ok := schema["properties"]; ok {
		return schema
	}
	if _, ok := schema["required"]; ok {
		return schema
	}
	if allOfList, ok := schema["allOf"].([]any); ok {
		for _, partAny := range allOfList {
			part, ok := partAny.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := part["properties"]; ok {
				return part
			}
			if _, ok := part["required"]; ok {
				return part
			}
		}
	}
	return schema
}

func getAdditionalProperties(schema map[string]any) bool {
	if val, ok := schema["additionalProperties"].(bool); ok {
		return val
	}
	return true
}

// validateWithIDTolerance validates instance against schema, treating a GTS
// id "const" constraint as a mere type:string constraint — the cast engine
// has already re-stamped the id, so the original const would otherwise
// always fail for a cross-version cast.
func validateWithIDTolerance(instance, schema map[string]any, store *Store) ([]Violation, error) {
	relaxed := removeIDConstConstraints(schema)

	compiler := jsonschema.NewCompiler()
	compiler.UseLoader(&storeLoader{store: store})
	for id, e := range store.entities {
		if e.IsSchema {
			_ = compiler.AddResource(id, e.Document)
		}
	}

	const castTargetID = "urn:gts:cast-target"
	if err := compiler.AddResource(castTargetID, relaxed); err != nil {
		return nil, fmt.Errorf("add cast target schema: %w", err)
	}
	compiled, err := compiler.Compile(castTargetID)
	if err != nil {
		return nil, fmt.Errorf("compile cast target schema: %w", err)
	}

	if err := compiled.Validate(instance); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return flattenValidationError(ve), nil
		}
		return nil, err
	}
	return nil, nil
}

func removeIDConstConstraints(schema any) any {
	switch v := schema.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if key == "const" {
				if s, ok := val.(string); ok && IsValid(s) {
					out["type"] = "string"
					continue
				}
			}
			out[key] = removeIDConstConstraints(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = removeIDConstConstraints(item)
		}
		return out
	default:
		return v
	}
}

func dedupSorted(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
