package types

// ClassHierarchy supplies the class/interface ancestry queries Subtype
// needs without creating an import cycle with the reflection facade.
// Names are matched case-insensitively by the implementation.
type ClassHierarchy interface {
	// IsClassLike reports whether name is a registered class, interface,
	// or trait (as opposed to an unknown or primitive name).
	IsClassLike(name string) bool
	// IsAssignableClass reports whether an instance of class/interface
	// `name` may stand in wherever `target` is expected: target is `name`
	// itself, one of its ancestors, or one of the interfaces in its
	// transitive interface_names_closure.
	IsAssignableClass(name, target string) bool
	// ImplementsStringable reports whether `name` (transitively)
	// implements the Stringable marker interface.
	ImplementsStringable(name string) bool
}

// Subtype answers "is every runtime value of type a also acceptable
// where type b is expected?" per the table in hierarchy
// may be nil; in that case class-to-class rules beyond identity always
// fail closed (conservative, never optimistic) except where the generic
// Unknown/mixed escape hatches already apply.
func Subtype(a, b Type, hierarchy ClassHierarchy) bool {
	if IsUnknown(a) || IsUnknown(b) {
		return true
	}
	if isMixed(a) || isMixed(b) {
		return true
	}

	if ua, ok := a.(Union); ok {
		for _, x := range ua.Members {
			if !Subtype(x, b, hierarchy) {
				return false
			}
		}
		return true
	}
	if ub, ok := b.(Union); ok {
		for _, y := range ub.Members {
			if Subtype(a, y, hierarchy) {
				return true
			}
		}
		return false
	}
	if ib, ok := b.(Intersection); ok {
		for _, y := range ib.Members {
			if !Subtype(a, y, hierarchy) {
				return false
			}
		}
		return true
	}
	if ia, ok := a.(Intersection); ok {
		for _, x := range ia.Members {
			if Subtype(x, b, hierarchy) {
				return true
			}
		}
		return false
	}

	na, aok := a.(Named)
	nb, bok := b.(Named)
	if !aok || !bok {
		return false
	}
	return subtypeNamed(na, nb, hierarchy)
}

func isMixed(t Type) bool {
	n, ok := t.(Named)
	return ok && sameName(n.Name, Mixed)
}

func subtypeNamed(a, b Named, hierarchy ClassHierarchy) bool {
	if sameName(a.Name, b.Name) {
		if !a.Nullable || b.Nullable {
			return true
		}
		// a is nullable, b is not: only fails if a can actually be null.
		return false
	}

	if sameName(a.Name, Null) {
		return b.Nullable
	}
	if a.Nullable && b.Nullable {
		return subtypeNamed(Named{Name: a.Name}, Named{Name: b.Name}, hierarchy)
	}
	if a.Nullable && sameName(b.Name, Null) {
		return true
	}

	if sameName(a.Name, Int) && sameName(b.Name, Float) {
		return true
	}
	if sameName(a.Name, True) && sameName(b.Name, Bool) {
		return true
	}
	if sameName(a.Name, False) && sameName(b.Name, Bool) {
		return true
	}
	if sameName(a.Name, Closure) && sameName(b.Name, Callable) {
		return true
	}
	if sameName(a.Name, Callable) && sameName(b.Name, Closure) {
		return true
	}
	if sameName(a.Name, String) && sameName(b.Name, Callable) {
		return true
	}

	if hierarchy != nil {
		aIsClass := hierarchy.IsClassLike(a.Name)
		bIsClass := hierarchy.IsClassLike(b.Name)
		if aIsClass && sameName(b.Name, Object) {
			return true
		}
		if sameName(a.Name, Object) && bIsClass {
			return true
		}
		if aIsClass && bIsClass {
			if hierarchy.IsAssignableClass(a.Name, b.Name) {
				return true
			}
		}
		if sameName(a.Name, String) && bIsClass && hierarchy.ImplementsStringable(b.Name) {
			return true
		}
		if aIsClass && sameName(b.Name, String) && hierarchy.ImplementsStringable(a.Name) {
			return true
		}
	}

	return false
}
