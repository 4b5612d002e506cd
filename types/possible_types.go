package types

import "strings"

// PossibleTypes is the set of Type a variable or expression might hold
// at runtime. An empty set means "known invalid" (e.g. an
// undefined variable); a singleton {Unknown} means "not determinable".
type PossibleTypes struct {
	members []Type
}

// NewPossibleTypes builds a PossibleTypes from the given members,
// deduplicating by pretty-printed form.
func NewPossibleTypes(members ...Type) PossibleTypes {
	var pt PossibleTypes
	for _, m := range members {
		pt = pt.With(m)
	}
	return pt
}

// UnknownPossibleTypes is the canonical {Unknown} singleton.
func UnknownPossibleTypes() PossibleTypes {
	return PossibleTypes{members: []Type{Unknown}}
}

// IsEmpty reports whether no type has been recorded (an invalid value).
func (pt PossibleTypes) IsEmpty() bool { return len(pt.members) == 0 }

// IsUnknown reports whether the set is exactly {Unknown}.
func (pt PossibleTypes) IsUnknown() bool {
	return len(pt.members) == 1 && IsUnknown(pt.members[0])
}

// Members returns the underlying type slice; callers must not mutate it.
func (pt PossibleTypes) Members() []Type { return pt.members }

// With returns a new PossibleTypes with t unioned in (deduplicated).
// Once the set already is {Unknown}, With is a no-op: Unknown absorbs
// further writes (the monotone widening in).
func (pt PossibleTypes) With(t Type) PossibleTypes {
	if t == nil {
		return pt
	}
	if pt.IsUnknown() {
		return pt
	}
	if IsUnknown(t) {
		return UnknownPossibleTypes()
	}
	if u, ok := t.(Union); ok {
		out := pt
		for _, m := range u.Members {
			out = out.With(m)
		}
		return out
	}
	key := strings.ToLower(t.String())
	for _, existing := range pt.members {
		if strings.ToLower(existing.String()) == key {
			return pt
		}
	}
	next := make([]Type, len(pt.members), len(pt.members)+1)
	copy(next, pt.members)
	next = append(next, t)
	return PossibleTypes{members: next}
}

// Union merges two PossibleTypes sets.
func (pt PossibleTypes) Union(other PossibleTypes) PossibleTypes {
	out := pt
	for _, m := range other.members {
		out = out.With(m)
	}
	return out
}

// ToType collapses the set to a single Type value: empty becomes
// Unknown (callers that need the Never type use NewNamed(Never,false)
// explicitly — ToType only handles the common non-empty case), a
// singleton returns its member, and multiple members become a Union.
func (pt PossibleTypes) ToType() Type {
	if len(pt.members) == 0 {
		return Unknown
	}
	if len(pt.members) == 1 {
		return pt.members[0]
	}
	return NewUnion(pt.members...)
}

// String renders the set sorted and pipe-joined, "<invalid>" when empty.
// Diagnostic messages render types unsorted instead.
func (pt PossibleTypes) String() string {
	if len(pt.members) == 0 {
		return "<invalid>"
	}
	return TypeToString(pt.ToType(), true)
}
