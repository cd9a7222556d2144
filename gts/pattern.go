/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"strconv"
	"strings"
)

// wildcardToken marks a segment position that matches anything.
const wildcardToken = "*"

// Pattern is a parsed GTS wildcard pattern (spec §3, §4.1): syntactically
// an id in which any segment, or the version component, may be "*". A
// suffix of literal "~*" additionally refines the version match: it
// leaves any version component the pattern doesn't specify unbounded, and
// accepts entities with or without an instance suffix.
type Pattern struct {
	raw string

	Vendor     string
	VendorWild bool

	Package     string
	PackageWild bool

	Namespace     []string
	NamespaceWild []bool

	Type     string
	TypeWild bool

	// VersionWild is true when the whole version component is "*".
	VersionWild bool
	Major       *int
	Minor       *int
	Patch       *int

	// SuffixWild is true for the "~*" refinement form: matches any
	// instance suffix (including none) and leaves unspecified version
	// components unbounded.
	SuffixWild bool
	// HasInstance/Instance describe an exact (non-wildcard) suffix
	// requirement, mirroring Id.
	HasInstance bool
	Instance    []string

	// WholeBodyWild is true when the id portion of the pattern is the bare
	// "*" token (forms like "gts.*~" or "gts.*~*"): it matches any vendor,
	// package, type and namespace of any length, not just one segment.
	WholeBodyWild bool
}

// ParsePattern validates and decomposes a wildcard pattern string. The bare
// whole-body wildcard forms "*~" and "*~*" are accepted without the "gts."
// literal prefix (spec §8's all-schemas / all-entities invariants are
// stated in that bare spelling); every other pattern still requires it.
func ParsePattern(s string) (*Pattern, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return nil, &MalformedPatternError{Pattern: s, Cause: "empty"}
	}
	if raw != strings.ToLower(raw) {
		return nil, &MalformedPatternError{Pattern: s, Cause: "must be lower case"}
	}

	hasPrefix := strings.HasPrefix(raw, Prefix)
	rest := raw
	if hasPrefix {
		rest = raw[len(Prefix):]
	}

	tildeIdx := strings.Index(rest, "~")
	if tildeIdx < 0 {
		return nil, &MalformedPatternError{Pattern: s, Cause: "missing '~' separator"}
	}
	if strings.Count(rest, "~") > 1 {
		return nil, &MalformedPatternError{Pattern: s, Cause: "too many '~' separators"}
	}

	body := rest[:tildeIdx]
	suffix := rest[tildeIdx+1:]

	if !hasPrefix && body != wildcardToken {
		return nil, &MalformedPatternError{Pattern: s, Cause: "must start with " + Prefix}
	}

	p := &Pattern{raw: raw}

	if err := p.parseBody(s, body); err != nil {
		return nil, err
	}

	if suffix == wildcardToken {
		p.SuffixWild = true
	} else if suffix != "" {
		p.HasInstance = true
		for _, tok := range strings.Split(suffix, ".") {
			if tok != wildcardToken && !segmentToken.MatchString(tok) {
				return nil, &MalformedPatternError{Pattern: s, Cause: "invalid instance suffix token: " + tok}
			}
			p.Instance = append(p.Instance, tok)
		}
	}

	return p, nil
}

func (p *Pattern) parseBody(original, body string) error {
	if body == wildcardToken {
		p.WholeBodyWild = true
		p.VendorWild = true
		p.PackageWild = true
		p.TypeWild = true
		p.VersionWild = true
		return nil
	}

	tokens := strings.Split(body, ".")

	verIdx := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] == wildcardToken || majorToken.MatchString(tokens[i]) {
			verIdx = i
			break
		}
	}
	if verIdx < 0 {
		return &MalformedPatternError{Pattern: original, Cause: "no version token found"}
	}
	if verIdx < 4 {
		return &MalformedPatternError{Pattern: original, Cause: "too few segments before version"}
	}

	for _, tok := range tokens[:verIdx] {
		if tok != wildcardToken && !segmentToken.MatchString(tok) {
			return &MalformedPatternError{Pattern: original, Cause: "invalid segment token: " + tok}
		}
	}

	p.Vendor = tokens[0]
	p.VendorWild = tokens[0] == wildcardToken
	p.Package = tokens[1]
	p.PackageWild = tokens[1] == wildcardToken

	nsTokens := tokens[2 : verIdx-1]
	p.Namespace = append([]string{}, nsTokens...)
	p.NamespaceWild = make([]bool, len(nsTokens))
	for i, tok := range nsTokens {
		p.NamespaceWild[i] = tok == wildcardToken
	}

	p.Type = tokens[verIdx-1]
	p.TypeWild = tokens[verIdx-1] == wildcardToken

	verTok := tokens[verIdx]
	if verTok == wildcardToken {
		p.VersionWild = true
		return nil
	}

	major, err := strconv.Atoi(verTok[1:])
	if err != nil {
		return &MalformedPatternError{Pattern: original, Cause: "invalid major version: " + verTok}
	}
	p.Major = &major

	rem := tokens[verIdx+1:]
	if len(rem) > 2 {
		return &MalformedPatternError{Pattern: original, Cause: "too many version components"}
	}
	if len(rem) >= 1 {
		if !numericToken.MatchString(rem[0]) {
			return &MalformedPatternError{Pattern: original, Cause: "invalid minor version: " + rem[0]}
		}
		minor, _ := strconv.Atoi(rem[0])
		p.Minor = &minor
	}
	if len(rem) == 2 {
		if !numericToken.MatchString(rem[1]) {
			return &MalformedPatternError{Pattern: original, Cause: "invalid patch version: " + rem[1]}
		}
		patch, _ := strconv.Atoi(rem[1])
		p.Patch = &patch
	}

	return nil
}

// Match reports whether id satisfies pattern (spec §4.1).
func (p *Pattern) Match(id *Id) bool {
	if !p.VendorWild && p.Vendor != id.Vendor {
		return false
	}
	if !p.PackageWild && p.Package != id.Package {
		return false
	}
	if !p.TypeWild && p.Type != id.Type {
		return false
	}
	if !p.WholeBodyWild {
		if len(p.Namespace) != len(id.Namespace) {
			return false
		}
		for i := range p.Namespace {
			if !p.NamespaceWild[i] && p.Namespace[i] != id.Namespace[i] {
				return false
			}
		}
	}

	if !p.matchVersion(id) {
		return false
	}

	return p.matchSuffix(id)
}

func (p *Pattern) matchVersion(id *Id) bool {
	if p.VersionWild {
		return true
	}
	if p.Major == nil || *p.Major != id.Major {
		return false
	}

	if p.SuffixWild {
		// Unspecified minor/patch are unbounded under the "~*" refinement form.
		if p.Minor != nil {
			if id.Minor == nil || *p.Minor != *id.Minor {
				return false
			}
			if p.Patch != nil && (id.Patch == nil || *p.Patch != *id.Patch) {
				return false
			}
		}
		return true
	}

	// Exact comparison: a pattern minor that is nil only matches a
	// candidate id that also carries no minor.
	if (p.Minor == nil) != (id.Minor == nil) {
		return false
	}
	if p.Minor != nil && *p.Minor != *id.Minor {
		return false
	}
	if (p.Patch == nil) != (id.Patch == nil) {
		return false
	}
	if p.Patch != nil && *p.Patch != *id.Patch {
		return false
	}
	return true
}

func (p *Pattern) matchSuffix(id *Id) bool {
	if p.SuffixWild {
		return true
	}
	if !p.HasInstance {
		return !id.HasInstance
	}
	if !id.HasInstance {
		return false
	}
	if len(p.Instance) != len(id.Instance) {
		return false
	}
	for i, tok := range p.Instance {
		if tok != wildcardToken && tok != id.Instance[i] {
			return false
		}
	}
	return true
}

// WildcardMatch parses candidate and pattern and reports whether candidate
// matches. It mirrors the store-level convenience the CLI and query engine
// both need.
func WildcardMatch(candidate, pattern string) (bool, error) {
	id, err := Parse(candidate)
	if err != nil {
		return false, err
	}
	p, err := ParsePattern(pattern)
	if err != nil {
		return false, err
	}
	return p.Match(id), nil
}
