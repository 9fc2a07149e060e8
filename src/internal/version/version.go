// Package version models resolved and unresolved version specifications
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CanaryName is the literal used for canary (nightly) builds
const CanaryName = "canary"

var aliasPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_./*-]*$`)

// Spec is a resolved, concrete version. The zero value is invalid.
type Spec struct {
	canary  bool
	version *semver.Version
}

// NewSpec wraps a parsed semantic version
func NewSpec(v *semver.Version) Spec {
	return Spec{version: v}
}

// CanarySpec returns the canary spec
func CanarySpec() Spec {
	return Spec{canary: true}
}

// ParseSpec parses a concrete version ("1.2.3", "v20.0.0", "1.0.0-rc.1") or "canary"
func ParseSpec(value string) (Spec, error) {
	value = strings.TrimSpace(value)
	if value == CanaryName {
		return CanarySpec(), nil
	}

	v, err := semver.StrictNewVersion(trimV(value))
	if err != nil {
		return Spec{}, fmt.Errorf("invalid version %q: %w", value, err)
	}

	return Spec{version: v}, nil
}

// MustParseSpec is like ParseSpec but panics on error
func MustParseSpec(value string) Spec {
	s, err := ParseSpec(value)
	if err != nil {
		panic(err)
	}
	return s
}

// IsCanary reports whether this is the canary spec
func (s Spec) IsCanary() bool {
	return s.canary
}

// Semver returns the underlying version, or nil for canary
func (s Spec) Semver() *semver.Version {
	return s.version
}

// Major returns the major component (0 for canary)
func (s Spec) Major() uint64 {
	if s.version == nil {
		return 0
	}
	return s.version.Major()
}

// Equal checks if two specs are equal
func (s Spec) Equal(other Spec) bool {
	if s.canary || other.canary {
		return s.canary == other.canary
	}
	if s.version == nil || other.version == nil {
		return s.version == other.version
	}
	return s.version.Equal(other.version)
}

// String returns the version without any "v" prefix
func (s Spec) String() string {
	switch {
	case s.canary:
		return CanaryName
	case s.version == nil:
		return ""
	default:
		return s.version.String()
	}
}

// Unresolved converts the spec back into an unresolved one
func (s Spec) Unresolved() Unresolved {
	if s.canary {
		return Unresolved{kind: KindCanary, raw: CanaryName}
	}
	return Unresolved{kind: KindVersion, raw: s.String(), version: s.version}
}

// MarshalText implements encoding.TextMarshaler
func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Spec) UnmarshalText(data []byte) error {
	parsed, err := ParseSpec(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Kind identifies the variant held by an Unresolved spec
type Kind int

const (
	KindAlias Kind = iota + 1
	KindVersion
	KindReq
	KindCanary
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindVersion:
		return "version"
	case KindReq:
		return "requirement"
	case KindCanary:
		return "canary"
	default:
		return "unknown"
	}
}

// Unresolved is a user supplied version: a literal version, a requirement
// expression or an alias.
type Unresolved struct {
	kind    Kind
	raw     string
	version *semver.Version
	req     *semver.Constraints
}

// Alias creates an alias spec without validation
func Alias(name string) Unresolved {
	return Unresolved{kind: KindAlias, raw: name}
}

// Parse classifies and parses a user supplied version string
func Parse(value string) (Unresolved, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Unresolved{}, fmt.Errorf("version cannot be empty")
	}

	if value == CanaryName {
		return Unresolved{kind: KindCanary, raw: value}, nil
	}

	if aliasPattern.MatchString(value) && !looksVersioned(value) && !isWildcard(value) {
		return Alias(value), nil
	}

	if v, err := semver.StrictNewVersion(trimV(value)); err == nil {
		return Unresolved{kind: KindVersion, raw: v.String(), version: v}, nil
	}

	req, err := semver.NewConstraint(value)
	if err != nil {
		return Unresolved{}, fmt.Errorf("invalid version or requirement %q: %w", value, err)
	}

	return Unresolved{kind: KindReq, raw: value, req: req}, nil
}

// MustParse is like Parse but panics on error
func MustParse(value string) Unresolved {
	u, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return u
}

// Kind returns the variant
func (u Unresolved) Kind() Kind {
	return u.kind
}

// IsAlias reports whether the spec is an alias with one of the given names.
// Without names it reports whether the spec is any alias.
func (u Unresolved) IsAlias(names ...string) bool {
	if u.kind != KindAlias {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if u.raw == name {
			return true
		}
	}
	return false
}

// AliasName returns the alias and true when the spec is an alias
func (u Unresolved) AliasName() (string, bool) {
	if u.kind != KindAlias {
		return "", false
	}
	return u.raw, true
}

// Version returns the literal version when the spec is one
func (u Unresolved) Version() (*semver.Version, bool) {
	return u.version, u.kind == KindVersion
}

// Constraints returns the requirement when the spec is one
func (u Unresolved) Constraints() (*semver.Constraints, bool) {
	return u.req, u.kind == KindReq
}

// Majors returns the major versions named by a literal version or by the
// comparators of a requirement, in order of appearance.
func (u Unresolved) Majors() []uint64 {
	switch u.kind {
	case KindVersion:
		return []uint64{u.version.Major()}
	case KindReq:
		return comparatorMajors(u.raw)
	default:
		return nil
	}
}

// String returns the original (normalized for literal versions) text
func (u Unresolved) String() string {
	return u.raw
}

// MarshalText implements encoding.TextMarshaler
func (u Unresolved) MarshalText() ([]byte, error) {
	return []byte(u.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *Unresolved) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func trimV(value string) string {
	if looksVersioned(value) {
		return value[1:]
	}
	return value
}

// isWildcard matches the "any version" ranges "x", "X" and "x.x.x"
func isWildcard(value string) bool {
	for _, part := range strings.Split(value, ".") {
		if part != "x" && part != "X" && part != "*" {
			return false
		}
	}
	return true
}

// looksVersioned matches "v1", "V20.1.0" and friends
func looksVersioned(value string) bool {
	return len(value) > 1 && (value[0] == 'v' || value[0] == 'V') && value[1] >= '0' && value[1] <= '9'
}

func comparatorMajors(expr string) []uint64 {
	var majors []uint64
	seen := make(map[uint64]bool)

	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ' ' || r == ',' || r == '|' || r == '\t'
	})

	for _, field := range fields {
		field = strings.TrimLeft(field, "=<>!~^vV")
		end := 0
		for end < len(field) && field[end] >= '0' && field[end] <= '9' {
			end++
		}
		if end == 0 {
			continue
		}
		major, err := strconv.ParseUint(field[:end], 10, 64)
		if err != nil || seen[major] {
			continue
		}
		seen[major] = true
		majors = append(majors, major)
	}

	return majors
}
