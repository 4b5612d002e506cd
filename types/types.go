// Package types implements the type lattice: the Type variant, the
// subtype relation, and pretty-printing. It is a leaf package — it knows
// nothing about symbol tables, ASTs, or reflection; class/interface
// ancestry is supplied to Subtype through the small ClassHierarchy
// interface so this package stays dependency-free.
package types

import (
	"sort"
	"strings"
)

// Kind tags which Type variant a value holds.
type Kind string

const (
	KindNamed        Kind = "NAMED"
	KindUnion        Kind = "UNION"
	KindIntersection Kind = "INTERSECTION"
	KindUnknown      Kind = "UNKNOWN"
)

// Primitive type names. Class/interface/trait names are also Named
// values; they are distinguished at query time by asking a
// ClassHierarchy, not by a tag on Named itself.
const (
	Int      = "int"
	Float    = "float"
	String   = "string"
	Bool     = "bool"
	True     = "true"
	False    = "false"
	Null     = "null"
	Array    = "array"
	Object   = "object"
	Callable = "callable"
	Iterable = "iterable"
	Void     = "void"
	Never    = "never"
	Mixed    = "mixed"
	Resource = "resource"
	SelfKw   = "self"
	StaticKw = "static"
	ParentKw = "parent"
	Closure  = "closure"
)

// Type is the closed variant described in
type Type interface {
	Kind() Kind
	String() string
}

// Named is a primitive tag or a fully qualified class/interface/trait
// name, optionally nullable.
type Named struct {
	Name     string
	Nullable bool
}

func (n Named) Kind() Kind { return KindNamed }

func (n Named) String() string {
	if n.Nullable {
		return "?" + n.Name
	}
	return n.Name
}

// NewNamed builds a Named type. Name is stored as written; comparisons
// are case-insensitive (see sameName).
func NewNamed(name string, nullable bool) Named {
	return Named{Name: name, Nullable: nullable}
}

// Union is an unordered, deduplicated, non-empty set of Type. A Union
// never contains another Union (flattened on construction).
type Union struct {
	Members []Type
}

func (u Union) Kind() Kind { return KindUnion }

func (u Union) String() string { return typeToString(u, false) }

// Intersection holds two or more class/interface Named members, all
// non-nullable.
type Intersection struct {
	Members []Named
}

func (i Intersection) Kind() Kind { return KindIntersection }

func (i Intersection) String() string { return typeToString(i, false) }

// unknownType is the sentinel distinguishing "not inferred" from the
// definite type `never`. It compares equal to itself only.
type unknownType struct{}

func (unknownType) Kind() Kind   { return KindUnknown }
func (unknownType) String() string { return "<unknown>" }

// Unknown is the sentinel value. Any subtype query touching it succeeds
// optimistically.
var Unknown Type = unknownType{}

// IsUnknown reports whether t is the Unknown sentinel, or a Union that
// contains it (a union with an unknown member is treated as unknown for
// subtype purposes).
func IsUnknown(t Type) bool {
	if t == nil {
		return true
	}
	if _, ok := t.(unknownType); ok {
		return true
	}
	if u, ok := t.(Union); ok {
		for _, m := range u.Members {
			if IsUnknown(m) {
				return true
			}
		}
	}
	return false
}

func sameName(a, b string) bool { return strings.EqualFold(a, b) }

// NewUnion flattens nested unions, dedups members by String(), and
// collapses a singleton to its one member. An empty input list is
// invalid; callers should go through PossibleTypes.ToType()'s
// empty/unknown-set rules instead of constructing Union directly from
// an empty slice.
func NewUnion(members ...Type) Type {
	var flat []Type
	for _, m := range members {
		if m == nil {
			continue
		}
		if sub, ok := m.(Union); ok {
			flat = append(flat, sub.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	flat = dedupTypes(flat)
	if len(flat) == 0 {
		return Unknown
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Union{Members: flat}
}

func dedupTypes(in []Type) []Type {
	seen := make(map[string]bool, len(in))
	var out []Type
	for _, t := range in {
		key := strings.ToLower(t.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// NewIntersection builds an Intersection from two or more class names.
// Members are forced non-nullable.
func NewIntersection(members ...Named) Type {
	if len(members) == 0 {
		return Unknown
	}
	out := make([]Named, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		m.Nullable = false
		key := strings.ToLower(m.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	if len(out) == 1 {
		return out[0]
	}
	return Intersection{Members: out}
}

// TypeToString pretty-prints t. sort=true sorts Union/Intersection
// members for structural comparison (interface-conformance checks);
// sort=false preserves author order for error messages.
func TypeToString(t Type, sort bool) string { return typeToString(t, sort) }

func typeToString(t Type, sortMembers bool) string {
	switch v := t.(type) {
	case nil:
		return "<unknown>"
	case unknownType:
		return "<unknown>"
	case Named:
		return v.String()
	case Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = typeToString(m, sortMembers)
		}
		if sortMembers {
			sort.Strings(parts)
		}
		return strings.Join(parts, "|")
	case Intersection:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = m.String()
		}
		if sortMembers {
			sort.Strings(parts)
		}
		return strings.Join(parts, "&")
	default:
		return t.String()
	}
}
