/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "fmt"

// MalformedIDError is returned when a string does not satisfy the GTS
// identifier grammar.
type MalformedIDError struct {
	ID    string
	Cause string
}

func (e *MalformedIDError) Error() string {
	if e.Cause == "" {
		return fmt.Sprintf("malformed GTS id: %q", e.ID)
	}
	return fmt.Sprintf("malformed GTS id: %q: %s", e.ID, e.Cause)
}

// MalformedSegmentError pinpoints a single offending token inside an
// otherwise well-formed id, carrying the byte offset for caller diagnostics.
type MalformedSegmentError struct {
	ID     string
	Offset int
	Token  string
	Cause  string
}

func (e *MalformedSegmentError) Error() string {
	return fmt.Sprintf("malformed GTS segment @ offset %d in %q: %q: %s", e.Offset, e.ID, e.Token, e.Cause)
}

// MalformedPatternError is returned when a wildcard pattern violates the
// placement rules in addition to the base grammar.
type MalformedPatternError struct {
	Pattern string
	Cause   string
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed GTS pattern %q: %s", e.Pattern, e.Cause)
}

// MalformedQueryError is returned when a query expression does not parse.
type MalformedQueryError struct {
	Query string
	Cause string
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed GTS query %q: %s", e.Query, e.Cause)
}

// NoSuchEntityError is returned by store lookups that miss.
type NoSuchEntityError struct {
	ID string
}

func (e *NoSuchEntityError) Error() string {
	return fmt.Sprintf("no such entity: %s", e.ID)
}

// NoSuchSchemaError is returned when a schema id does not resolve in the store.
type NoSuchSchemaError struct {
	ID string
}

func (e *NoSuchSchemaError) Error() string {
	return fmt.Sprintf("no such schema: %s", e.ID)
}

// NoSuchInstanceError is returned when an instance id does not resolve in the store.
type NoSuchInstanceError struct {
	ID string
}

func (e *NoSuchInstanceError) Error() string {
	return fmt.Sprintf("no such instance: %s", e.ID)
}

// SchemaViolationError wraps a single diagnostic from the external validator.
type SchemaViolationError struct {
	Path    string
	Message string
}

func (e *SchemaViolationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// IncomparableError is returned when compatibility is requested across a
// MAJOR-version or identity boundary.
type IncomparableError struct {
	A, B string
}

func (e *IncomparableError) Error() string {
	return fmt.Sprintf("incomparable: %s and %s do not share identity and MAJOR", e.A, e.B)
}

// NotCastableError is returned when an instance cannot be cast to the
// target schema: the MAJOR versions differ, a required target field is
// missing and has no default, or the cast instance fails validation against
// the target schema. No schema-level compatibility check is made.
type NotCastableError struct {
	From, To        string
	OffendingFields []string
}

func (e *NotCastableError) Error() string {
	return fmt.Sprintf("cannot cast %s to %s: offending fields: %v", e.From, e.To, e.OffendingFields)
}

// PathError is returned by attribute-path resolution.
type PathError struct {
	Path   string
	Reason string // "no_such_path" or "path_type_mismatch"
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

// CastFromSchemaError is returned when the caller tries to cast a schema id
// instead of an instance id.
type CastFromSchemaError struct {
	ID string
}

func (e *CastFromSchemaError) Error() string {
	return fmt.Sprintf("cannot cast from schema id %q: from-id must be an instance", e.ID)
}

// NoSchemaForInstanceError is returned when an instance has no resolvable schema id.
type NoSchemaForInstanceError struct {
	ID string
}

func (e *NoSchemaForInstanceError) Error() string {
	return fmt.Sprintf("cannot determine schema id for instance %q", e.ID)
}
