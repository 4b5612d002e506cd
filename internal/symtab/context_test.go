package symtab

import (
	"testing"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/diagnostics"
	"github.com/phlint-dev/phlint/reflect"
	"github.com/phlint-dev/phlint/types"
)

func newTestContext() *Context {
	return NewContext(reflect.NewRegistry(reflect.NewStdlibHost()), diagnostics.NewSink(), "test.php")
}

func TestSuperGlobalsPreloaded(t *testing.T) {
	c := newTestContext()
	for _, name := range SuperGlobals {
		v, ok := c.LookupVariable(name)
		if !ok {
			t.Fatalf("expected super-global %s to be preloaded", name)
		}
		if v.PossibleTypes.String() != "array" {
			t.Errorf("super-global %s should be typed array, got %s", name, v.PossibleTypes.String())
		}
	}
}

func TestAddDefinedVariableWidens(t *testing.T) {
	c := newTestContext()
	c.AddDefinedVariable("x", types.NewNamed(types.Int, false))
	c.AddDefinedVariable("x", types.NewNamed(types.String, false))
	v, _ := c.LookupVariable("x")
	if v.PossibleTypes.String() != "int|string" {
		t.Errorf("expected widened union, got %s", v.PossibleTypes.String())
	}
}

func TestAddDefinedVariableUnknownAbsorbs(t *testing.T) {
	c := newTestContext()
	c.AddDefinedVariable("x", types.Unknown)
	c.AddDefinedVariable("x", types.NewNamed(types.Int, false))
	v, _ := c.LookupVariable("x")
	if !v.PossibleTypes.IsUnknown() {
		t.Errorf("Unknown must absorb further writes")
	}
}

func TestResolveNameUseAlias(t *testing.T) {
	c := newTestContext()
	c.CurrentNamespace = "App"
	c.AddUseAlias("Bar", "Vendor\\Bar")
	n := &ast.Name{Value: "Bar\\Baz"}
	if got := c.ResolveName(n); got != "Vendor\\Bar\\Baz" {
		t.Errorf("ResolveName with alias = %q, want %q", got, "Vendor\\Bar\\Baz")
	}

	plain := &ast.Name{Value: "Thing"}
	if got := c.ResolveName(plain); got != "App\\Thing" {
		t.Errorf("ResolveName without alias = %q, want %q", got, "App\\Thing")
	}

	fq := &ast.Name{Value: "Other\\Thing", FullyQual: true}
	if got := c.ResolveName(fq); got != "Other\\Thing" {
		t.Errorf("fully qualified ResolveName = %q, want %q", got, "Other\\Thing")
	}
}

func TestFQClassNameSelfOutsideClass(t *testing.T) {
	c := newTestContext()
	n := &ast.Name{Value: "self", PosVal: ast.Position{File: "test.php", Line: 1}}
	_, ok := c.FQClassName(n, true)
	if ok {
		t.Fatalf("self outside a class scope should fail to resolve")
	}
	if !c.Errors.HasError() {
		t.Fatalf("expected an error to be emitted for self outside class scope")
	}
}
