package reflect

import "testing"

func TestStdlibHostFunctionLookup(t *testing.T) {
	r := NewRegistry(NewStdlibHost())
	f, ok := r.GetFunction("strlen")
	if !ok {
		t.Fatalf("expected strlen to be registered")
	}
	if len(f.Parameters) != 1 {
		t.Fatalf("expected strlen to take one parameter, got %d", len(f.Parameters))
	}
}

func TestStdlibHostClassHierarchy(t *testing.T) {
	r := NewRegistry(NewStdlibHost())
	if !r.IsAssignableClass("RuntimeException", "Exception") {
		t.Errorf("RuntimeException should be assignable to its parent Exception")
	}
	if !r.IsAssignableClass("Exception", "Throwable") {
		t.Errorf("Exception should be assignable to Throwable via its interface closure")
	}
	if !r.ImplementsStringable("Exception") {
		t.Errorf("Exception should implement Stringable through Throwable")
	}
}

func TestRegistryDeclareClassRejectsDuplicate(t *testing.T) {
	r := NewRegistry(nil)
	c1 := &ClassInfo{QualifiedName: "Foo"}
	c2 := &ClassInfo{QualifiedName: "foo"}
	if _, ok := r.DeclareClass(c1); !ok {
		t.Fatalf("first declaration of Foo should succeed")
	}
	if _, ok := r.DeclareClass(c2); ok {
		t.Fatalf("case-insensitive redeclaration of Foo should be rejected")
	}
}

func TestRegistryConstantLookup(t *testing.T) {
	r := NewRegistry(NewStdlibHost())
	if !r.ConstantExists("PHP_EOL") {
		t.Errorf("expected PHP_EOL constant to exist")
	}
	if r.ConstantExists("NOT_A_REAL_CONSTANT") {
		t.Errorf("unexpected constant found")
	}
}
