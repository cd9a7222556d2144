/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package gts implements the core identifier algebra and schema/instance
// store of the Global Type System: parsing and matching of GTS identifiers,
// an in-memory entity store with dependency-graph and broken-reference
// tracking, minor-version compatibility analysis, instance casting, and a
// small query language over identifier collections.
package gts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// Prefix is the fixed literal that opens every GTS identifier.
	Prefix = "gts."

	// maxIDLength bounds the length of any single identifier accepted by
	// the parser, guarding against pathological input.
	maxIDLength = 2048
)

// Namespace is the deterministic UUID namespace used to derive per-id
// UUIDs (spec §6, "uuid_namespace"). It is the RFC 4122 DNS namespace
// constant; changing it would break cross-implementation UUID agreement,
// so it is a build-time constant rather than anything computed.
var Namespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// segmentToken matches a single lowercase alphanumeric/underscore/hyphen
// token — the charset spec §3 allows for vendor, package, namespace and
// type segments.
var segmentToken = regexp.MustCompile(`^[a-z0-9_-]+$`)

var majorToken = regexp.MustCompile(`^v(0|[1-9][0-9]*)$`)
var numericToken = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// Id is a validated, parsed GTS identifier. Zero value is not meaningful;
// construct with Parse.
type Id struct {
	raw string // canonical string, always equal to String()

	Vendor    string
	Package   string
	Namespace []string
	Type      string

	Major int
	Minor *int
	Patch *int

	// HasInstance is true when the identifier carries an instance suffix
	// after the mandatory "~" separator. False means this is a schema id.
	HasInstance bool
	Instance    []string
}

// IsValid reports whether s satisfies the canonical GTS identifier grammar.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse validates and decomposes a GTS identifier string. It fails with
// *MalformedIDError or *MalformedSegmentError on any grammar violation.
func Parse(s string) (*Id, error) {
	raw := strings.TrimSpace(s)

	if raw == "" {
		return nil, &MalformedIDError{ID: s, Cause: "empty"}
	}
	if len(raw) > maxIDLength {
		return nil, &MalformedIDError{ID: s, Cause: "too long"}
	}
	if raw != strings.ToLower(raw) {
		return nil, &MalformedIDError{ID: s, Cause: "must be lower case"}
	}
	if !strings.HasPrefix(raw, Prefix) {
		return nil, &MalformedIDError{ID: s, Cause: fmt.Sprintf("must start with %q", Prefix)}
	}

	rest := raw[len(Prefix):]

	tildeIdx := strings.Index(rest, "~")
	if tildeIdx < 0 {
		return nil, &MalformedIDError{ID: s, Cause: "missing '~' separator"}
	}
	if strings.Count(rest, "~") > 1 {
		return nil, &MalformedIDError{ID: s, Cause: "too many '~' separators"}
	}

	body := rest[:tildeIdx]
	suffix := rest[tildeIdx+1:]

	id := &Id{raw: raw}

	if err := id.parseBody(s, body, len(Prefix)); err != nil {
		return nil, err
	}

	if suffix != "" {
		id.HasInstance = true
		tokens := strings.Split(suffix, ".")
		pos := len(Prefix) + tildeIdx + 1
		for _, tok := range tokens {
			if !segmentToken.MatchString(tok) {
				return nil, &MalformedSegmentError{
					ID: s, Offset: pos, Token: tok,
					Cause: "instance suffix token must match [a-z0-9_-]+",
				}
			}
			pos += len(tok) + 1
		}
		id.Instance = tokens
	}

	return id, nil
}

// parseBody parses the vendor/package/namespace/type/version portion of
// the id, preceding the '~'. The version is identified as the last token
// matching the major-version shape (v<digits>); everything before it
// (minimum vendor, package, one namespace segment, type) must be present.
func (id *Id) parseBody(original, body string, offset int) error {
	tokens := strings.Split(body, ".")

	verIdx := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if majorToken.MatchString(tokens[i]) {
			verIdx = i
			break
		}
	}
	if verIdx < 0 {
		return &MalformedIDError{ID: original, Cause: "no version token (v<MAJOR>) found"}
	}
	if verIdx < 4 {
		return &MalformedIDError{ID: original, Cause: "too few segments before version (need vendor, package, namespace, type)"}
	}

	pos := offset
	for _, tok := range tokens[:verIdx] {
		if !segmentToken.MatchString(tok) {
			return &MalformedSegmentError{ID: original, Offset: pos, Token: tok, Cause: "segment must match [a-z0-9_-]+"}
		}
		pos += len(tok) + 1
	}

	id.Vendor = tokens[0]
	id.Package = tokens[1]
	id.Namespace = append([]string{}, tokens[2:verIdx-1]...)
	id.Type = tokens[verIdx-1]

	major, err := strconv.Atoi(tokens[verIdx][1:])
	if err != nil {
		return &MalformedSegmentError{ID: original, Offset: pos, Token: tokens[verIdx], Cause: "major version must be an integer"}
	}
	id.Major = major

	rem := tokens[verIdx+1:]
	if len(rem) > 2 {
		return &MalformedIDError{ID: original, Cause: "too many version components (max MAJOR.MINOR.PATCH)"}
	}
	if len(rem) >= 1 {
		if !numericToken.MatchString(rem[0]) {
			return &MalformedSegmentError{ID: original, Offset: pos + len(tokens[verIdx]) + 1, Token: rem[0], Cause: "minor version must be a non-negative integer"}
		}
		minor, _ := strconv.Atoi(rem[0])
		id.Minor = &minor
	}
	if len(rem) == 2 {
		if !numericToken.MatchString(rem[1]) {
			return &MalformedSegmentError{ID: original, Offset: pos + len(tokens[verIdx]) + len(rem[0]) + 2, Token: rem[1], Cause: "patch version must be a non-negative integer"}
		}
		patch, _ := strconv.Atoi(rem[1])
		id.Patch = &patch
	}

	return nil
}

// String returns the canonical textual form of the id. Parsing it again
// always yields an equal Id (spec §3 round-trip invariant).
func (id *Id) String() string {
	if id.raw != "" {
		return id.raw
	}
	return id.canonicalize()
}

func (id *Id) canonicalize() string {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteString(id.Vendor)
	b.WriteByte('.')
	b.WriteString(id.Package)
	for _, ns := range id.Namespace {
		b.WriteByte('.')
		b.WriteString(ns)
	}
	b.WriteByte('.')
	b.WriteString(id.Type)
	b.WriteString(".v")
	b.WriteString(strconv.Itoa(id.Major))
	if id.Minor != nil {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(*id.Minor))
	}
	if id.Patch != nil {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(*id.Patch))
	}
	b.WriteByte('~')
	if id.HasInstance {
		b.WriteString(strings.Join(id.Instance, "."))
	}
	return b.String()
}

// IsSchema reports whether this id denotes a schema (no instance suffix).
func (id *Id) IsSchema() bool { return !id.HasInstance }

// IsInstance reports whether this id denotes an instance of some schema.
func (id *Id) IsInstance() bool { return id.HasInstance }

// SchemaID returns the schema id this identifier names or belongs to: for
// a schema id that's itself; for an instance id it's the same identity and
// version with the instance suffix stripped.
func (id *Id) SchemaID() string {
	cp := *id
	cp.HasInstance = false
	cp.Instance = nil
	cp.raw = ""
	return cp.canonicalize()
}

// ToUUID derives a deterministic UUIDv5 from the canonical id string under
// the fixed GTS namespace (spec §4.1, §6). Equal ids always produce equal
// UUIDs; this is guaranteed by hashing the exact canonical string.
func (id *Id) ToUUID() uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(id.String()))
}

// sameIdentity reports whether two ids share vendor/package/namespace/type
// — the "identity" the compatibility engine requires to be equal (spec §4.4).
func sameIdentity(a, b *Id) bool {
	if a.Vendor != b.Vendor || a.Package != b.Package || a.Type != b.Type {
		return false
	}
	if len(a.Namespace) != len(b.Namespace) {
		return false
	}
	for i := range a.Namespace {
		if a.Namespace[i] != b.Namespace[i] {
			return false
		}
	}
	return true
}
