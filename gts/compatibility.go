/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

// Verdict classifies the compatibility relationship between two minor
// versions of the same schema (spec §4.4).
type Verdict string

const (
	VerdictFull     Verdict = "full"
	VerdictBackward Verdict = "backward"
	VerdictForward  Verdict = "forward"
	VerdictNone     Verdict = "none"
)

// CompatibilityReport is the result of comparing two schema entities that
// share an identity but differ in minor/patch version (spec §3
// "Compatibility verdict", §4.4).
type CompatibilityReport struct {
	From, To       string
	Verdict        Verdict
	BackwardErrors []string
	ForwardErrors  []string
}

// CheckCompatibility compares the schemas at fromID and toID. Two schemas
// are comparable only when they share vendor/package/namespace/type and
// MAJOR version (spec §4.4 "Incomparable"); anything else returns
// *IncomparableError.
func (s *Store) CheckCompatibility(fromID, toID string) (*CompatibilityReport, error) {
	fromEntity := s.Get(fromID)
	toEntity := s.Get(toID)
	if fromEntity == nil || !fromEntity.IsSchema {
		return nil, &NoSuchSchemaError{ID: fromID}
	}
	if toEntity == nil || !toEntity.IsSchema {
		return nil, &NoSuchSchemaError{ID: toID}
	}

	fromParsed, err := Parse(fromID)
	if err != nil {
		return nil, err
	}
	toParsed, err := Parse(toID)
	if err != nil {
		return nil, err
	}
	if !sameIdentity(fromParsed, toParsed) || fromParsed.Major != toParsed.Major {
		return nil, &IncomparableError{A: fromID, B: toID}
	}

	backwardOK, backwardErrors := checkSchemaCompatibility(fromEntity.Document, toEntity.Document, true)
	forwardOK, forwardErrors := checkSchemaCompatibility(fromEntity.Document, toEntity.Document, false)

	verdict := VerdictNone
	switch {
	case backwardOK && forwardOK:
		verdict = VerdictFull
	case backwardOK:
		verdict = VerdictBackward
	case forwardOK:
		verdict = VerdictForward
	}

	return &CompatibilityReport{
		From:           fromID,
		To:             toID,
		Verdict:        verdict,
		BackwardErrors: backwardErrors,
		ForwardErrors:  forwardErrors,
	}, nil
}

// flattenSchema merges allOf branches into a single properties/required view
// so compatibility checks see the effective schema shape.
func flattenSchema(schema map[string]any) map[string]any {
	result := map[string]any{
		"properties": make(map[string]any),
		"required":   []any{},
	}

	if allOfList, ok := schema["allOf"].([]any); ok {
		for _, subAny := range allOfList {
			sub, ok := subAny.(map[string]any)
			if !ok {
				continue
			}
			flattened := flattenSchema(sub)
			mergeFlattened(result, flattened)
		}
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		resultProps := result["properties"].(map[string]any)
		for k, v := range props {
			resultProps[k] = v
		}
	}
	if req, ok := schema["required"].([]any); ok {
		result["required"] = append(result["required"].([]any), req...)
	}
	if addProps, ok := schema["additionalProperties"]; ok {
		result["additionalProperties"] = addProps
	}

	return result
}

func mergeFlattened(result, flattened map[string]any) {
	if props, ok := flattened["properties"].(map[string]any); ok {
		resultProps := result["properties"].(map[string]any)
		for k, v := range props {
			resultProps[k] = v
		}
	}
	if req, ok := flattened["required"].([]any); ok {
		result["required"] = append(result["required"].([]any), req...)
	}
	if addProps, ok := flattened["additionalProperties"]; ok {
		result["additionalProperties"] = addProps
	}
}

// checkSchemaCompatibility is the shared backward/forward checker.
// checkBackward true means: can a consumer built for "to" read data
// produced under "from"? False means the reverse.
func checkSchemaCompatibility(fromSchema, toSchema map[string]any, checkBackward bool) (bool, []string) {
	var errors []string

	fromFlat := flattenSchema(fromSchema)
	toFlat := flattenSchema(toSchema)

	fromProps := getPropertiesMap(fromFlat)
	toProps := getPropertiesMap(toFlat)
	fromRequired := getRequiredSet(fromFlat)
	toRequired := getRequiredSet(toFlat)

	if checkBackward {
		newlyRequired := setDifference(toRequired, fromRequired)
		var undefaulted []string
		for _, prop := range newlyRequired {
			propSchema, _ := toProps[prop].(map[string]any)
			if propSchema == nil {
				undefaulted = append(undefaulted, prop)
				continue
			}
			if _, hasDefault := propSchema["default"]; !hasDefault {
				undefaulted = append(undefaulted, prop)
			}
		}
		if len(undefaulted) > 0 {
			errors = append(errors, "added required properties without a default: "+joinStrings(undefaulted))
		}
	} else {
		removedRequired := setDifference(fromRequired, toRequired)
		if len(removedRequired) > 0 {
			errors = append(errors, "removed required properties: "+joinStrings(removedRequired))
		}
		var addedUndefaulted []string
		for _, prop := range setDifference(getKeys(toProps), getKeys(fromProps)) {
			propSchema, _ := toProps[prop].(map[string]any)
			if _, hasDefault := propSchema["default"]; !hasDefault {
				addedUndefaulted = append(addedUndefaulted, prop)
			}
		}
		if len(addedUndefaulted) > 0 {
			errors = append(errors, "added properties without a default: "+joinStrings(addedUndefaulted))
		}
	}

	for _, prop := range setIntersection(getKeys(fromProps), getKeys(toProps)) {
		fromPropSchema, ok1 := fromProps[prop].(map[string]any)
		toPropSchema, ok2 := toProps[prop].(map[string]any)
		if !ok1 || !ok2 {
			continue
		}

		fromType := getString(fromPropSchema, "type")
		toType := getString(toPropSchema, "type")
		if fromType != "" && toType != "" && fromType != toType {
			errors = append(errors, "property '"+prop+"' type changed from "+fromType+" to "+toType)
		}

		fromEnum := getStringSlice(fromPropSchema, "enum")
		toEnum := getStringSlice(toPropSchema, "enum")
		if len(fromEnum) > 0 && len(toEnum) > 0 {
			fromSet := stringSliceToSet(fromEnum)
			toSet := stringSliceToSet(toEnum)
			if checkBackward {
				// Narrowing the enum (removing values the old schema allowed)
				// rejects old data under the new schema.
				if removed := setDifference(fromSet, toSet); len(removed) > 0 {
					errors = append(errors, "property '"+prop+"' removed enum values: "+joinStrings(removed))
				}
			} else if added := setDifference(toSet, fromSet); len(added) > 0 {
				// Widening the enum (adding values the old schema never had)
				// means the old schema can't accept the new values.
				errors = append(errors, "property '"+prop+"' added enum values: "+joinStrings(added))
			}
		}

		errors = append(errors, checkConstraintCompatibility(prop, fromPropSchema, toPropSchema, checkBackward)...)

		if fromType == "object" && toType == "object" {
			if ok, nested := checkSchemaCompatibility(fromPropSchema, toPropSchema, checkBackward); !ok {
				for _, e := range nested {
					errors = append(errors, "property '"+prop+"': "+e)
				}
			}
		}

		if fromType == "array" && toType == "array" {
			fromItems := getMap(fromPropSchema, "items")
			toItems := getMap(toPropSchema, "items")
			if fromItems != nil && toItems != nil {
				if ok, nested := checkSchemaCompatibility(fromItems, toItems, checkBackward); !ok {
					for _, e := range nested {
						errors = append(errors, "property '"+prop+"' array items: "+e)
					}
				}
			}
		}
	}

	return len(errors) == 0, errors
}

func checkConstraintCompatibility(prop string, fromPropSchema, toPropSchema map[string]any, checkBackward bool) []string {
	var errors []string
	propType := getString(fromPropSchema, "type")

	switch propType {
	case "number", "integer":
		errors = append(errors, checkMinMaxConstraint(prop, fromPropSchema, toPropSchema, "minimum", "maximum", checkBackward)...)
	case "string":
		errors = append(errors, checkMinMaxConstraint(prop, fromPropSchema, toPropSchema, "minLength", "maxLength", checkBackward)...)
	case "array":
		errors = append(errors, checkMinMaxConstraint(prop, fromPropSchema, toPropSchema, "minItems", "maxItems", checkBackward)...)
	}

	return errors
}

// checkMinMaxConstraint enforces that backward compatibility never tightens
// a constraint and forward compatibility never relaxes one (spec §4.4).
func checkMinMaxConstraint(prop string, fromSchema, toSchema map[string]any, minKey, maxKey string, checkBackward bool) []string {
	var errors []string

	fromMin := getNumber(fromSchema, minKey)
	toMin := getNumber(toSchema, minKey)
	fromMax := getNumber(fromSchema, maxKey)
	toMax := getNumber(toSchema, maxKey)

	if checkBackward {
		switch {
		case fromMin != nil && toMin != nil && *toMin > *fromMin:
			errors = append(errors, "property '"+prop+"' "+minKey+" increased from "+floatToString(*fromMin)+" to "+floatToString(*toMin))
		case fromMin == nil && toMin != nil:
			errors = append(errors, "property '"+prop+"' added "+minKey+" constraint: "+floatToString(*toMin))
		}
	} else {
		switch {
		case fromMin != nil && toMin != nil && *toMin < *fromMin:
			errors = append(errors, "property '"+prop+"' "+minKey+" decreased from "+floatToString(*fromMin)+" to "+floatToString(*toMin))
		case fromMin != nil && toMin == nil:
			errors = append(errors, "property '"+prop+"' removed "+minKey+" constraint")
		}
	}

	if checkBackward {
		switch {
		case fromMax != nil && toMax != nil && *toMax < *fromMax:
			errors = append(errors, "property '"+prop+"' "+maxKey+" decreased from "+floatToString(*fromMax)+" to "+floatToString(*toMax))
		case fromMax == nil && toMax != nil:
			errors = append(errors, "property '"+prop+"' added "+maxKey+" constraint: "+floatToString(*toMax))
		}
	} else {
		switch {
		case fromMax != nil && toMax != nil && *toMax > *fromMax:
			errors = append(errors, "property '"+prop+"' "+maxKey+" increased from "+floatToString(*fromMax)+" to "+floatToString(*toMax))
		case fromMax != nil && toMax == nil:
			errors = append(errors, "property '"+prop+"' removed "+maxKey+" constraint")
		}
	}

	return errors
}
