package types

import "testing"

type fakeHierarchy struct {
	ancestors    map[string][]string
	closures     map[string][]string
	stringable   map[string]bool
	classLike    map[string]bool
}

func (f *fakeHierarchy) IsClassLike(name string) bool { return f.classLike[lower(name)] }

func (f *fakeHierarchy) IsAssignableClass(name, target string) bool {
	name, target = lower(name), lower(target)
	if name == target {
		return true
	}
	for _, a := range f.ancestors[name] {
		if lower(a) == target {
			return true
		}
	}
	for _, i := range f.closures[name] {
		if lower(i) == target {
			return true
		}
	}
	return false
}

func (f *fakeHierarchy) ImplementsStringable(name string) bool { return f.stringable[lower(name)] }

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func TestSubtypeReflexivity(t *testing.T) {
	cases := []Type{
		NewNamed(Int, false),
		NewNamed(String, true),
		NewUnion(NewNamed(Int, false), NewNamed(String, false)),
	}
	for _, tt := range cases {
		if !Subtype(tt, tt, nil) {
			t.Errorf("Subtype(%v, %v) = false, want true (reflexivity)", tt, tt)
		}
	}
}

func TestSubtypeMixedAbsorbs(t *testing.T) {
	mixed := NewNamed(Mixed, false)
	i := NewNamed(Int, false)
	if !Subtype(i, mixed, nil) {
		t.Errorf("Subtype(int, mixed) = false, want true")
	}
	if !Subtype(mixed, i, nil) {
		t.Errorf("Subtype(mixed, int) = false, want true")
	}
}

func TestSubtypeUnknownOptimism(t *testing.T) {
	if !Subtype(Unknown, NewNamed(Int, false), nil) {
		t.Errorf("Subtype(Unknown, int) = false, want true")
	}
	if !Subtype(NewNamed(Int, false), Unknown, nil) {
		t.Errorf("Subtype(int, Unknown) = false, want true")
	}
}

func TestSubtypeNumericWidening(t *testing.T) {
	if !Subtype(NewNamed(Int, false), NewNamed(Float, false), nil) {
		t.Errorf("int should be a subtype of float")
	}
	if Subtype(NewNamed(Float, false), NewNamed(Int, false), nil) {
		t.Errorf("float must not be a subtype of int")
	}
}

func TestSubtypeNullable(t *testing.T) {
	nullableInt := NewNamed(Int, true)
	plainInt := NewNamed(Int, false)
	null := NewNamed(Null, false)

	if Subtype(nullableInt, plainInt, nil) {
		t.Errorf("?int must not be a subtype of int")
	}
	if !Subtype(plainInt, nullableInt, nil) {
		t.Errorf("int should be a subtype of ?int")
	}
	if !Subtype(null, nullableInt, nil) {
		t.Errorf("null should be a subtype of ?int")
	}
	if Subtype(null, plainInt, nil) {
		t.Errorf("null must not be a subtype of int")
	}
}

func TestSubtypeCallableString(t *testing.T) {
	if !Subtype(NewNamed(String, false), NewNamed(Callable, false), nil) {
		t.Errorf("string should be a subtype of callable")
	}
	if !Subtype(NewNamed(Closure, false), NewNamed(Callable, false), nil) {
		t.Errorf("Closure should be a subtype of callable")
	}
	if !Subtype(NewNamed(Callable, false), NewNamed(Closure, false), nil) {
		t.Errorf("callable should be a subtype of Closure (conservative, symmetric)")
	}
}

func TestSubtypeClassHierarchy(t *testing.T) {
	h := &fakeHierarchy{
		classLike: map[string]bool{"dog": true, "animal": true, "object": false},
		ancestors: map[string][]string{"dog": {"animal"}},
	}
	dog := NewNamed("Dog", false)
	animal := NewNamed("Animal", false)
	if !Subtype(dog, animal, h) {
		t.Errorf("Dog should be a subtype of its ancestor Animal")
	}
	if Subtype(animal, dog, h) {
		t.Errorf("Animal must not be a subtype of Dog")
	}
	if !Subtype(dog, NewNamed(Object, false), h) {
		t.Errorf("any class should be a subtype of object")
	}
}

func TestSubtypeStringableClass(t *testing.T) {
	h := &fakeHierarchy{
		classLike:  map[string]bool{"money": true},
		stringable: map[string]bool{"money": true},
	}
	if !Subtype(NewNamed("Money", false), NewNamed(String, false), h) {
		t.Errorf("a Stringable class should be a subtype of string")
	}
}

func TestUnionDistributesOverSubtype(t *testing.T) {
	u := NewUnion(NewNamed(Int, false), NewNamed(String, false))
	if Subtype(u, NewNamed(Int, false), nil) {
		t.Errorf("int|string must not be a subtype of int alone")
	}
	if !Subtype(NewNamed(Int, false), u, nil) {
		t.Errorf("int should be a subtype of int|string")
	}
}

func TestIntersectionRequiresAllMembers(t *testing.T) {
	h := &fakeHierarchy{
		classLike: map[string]bool{"a": true, "b": true, "c": true},
		ancestors: map[string][]string{"c": {}},
		closures:  map[string][]string{"c": {"A", "B"}},
	}
	inter := NewIntersection(NewNamed("A", false), NewNamed("B", false))
	if !Subtype(NewNamed("C", false), inter, h) {
		t.Errorf("C implementing both A and B should satisfy A&B")
	}
}
