package checker

import (
	"strings"
	"testing"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/reflect"
)

// Each scenario here is a hand-built AST for one line of source, paired
// with the single diagnostic message substring that line must produce.
// They exercise the checker end to end the way a real CLI invocation
// would, one AST shape at a time instead of mixing several defects into
// one fixture.

func mustContain(t *testing.T, diags []string, want string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d, want) {
			return
		}
	}
	t.Fatalf("expected a diagnostic containing %q, got %v", want, diags)
}

func diagMessages(res Result) []string {
	out := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		out = append(out, d.Message)
	}
	return out
}

// S1: print($x) where $x is never assigned.
func TestScenarioUndefinedVariable(t *testing.T) {
	file := &ast.File{
		Path: "/s1.php",
		Stmts: []ast.Stmt{
			&ast.ExprStmt{
				PosVal: pos("/s1.php", 1),
				X: &ast.Call{
					PosVal: pos("/s1.php", 1),
					Name:   &ast.Name{Value: "print"},
					Args:   []ast.Arg{{Value: &ast.Variable{PosVal: pos("/s1.php", 1), Name: "x"}}},
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/s1.php": file}}
	res := Run([]string{"/s1.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Undefined variable `$x`")
}

// S2: function f(): int { return "a"; }
func TestScenarioReturnTypeMismatch(t *testing.T) {
	file := &ast.File{
		Path: "/s2.php",
		Stmts: []ast.Stmt{
			&ast.FunctionDecl{
				PosVal:     pos("/s2.php", 1),
				Name:       &ast.Name{Value: "f"},
				ReturnType: &ast.NamedType{Name: &ast.Name{Value: "int"}},
				Body: []ast.Stmt{
					&ast.Return{
						PosVal: pos("/s2.php", 1),
						Value:  &ast.Literal{Kind: ast.LiteralString, Raw: "a"},
					},
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/s2.php": file}}
	res := Run([]string{"/s2.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "incompatible with the declared return type")
}

// S3: function f(int $a, int $b) {} f(1);
func TestScenarioTooFewArguments(t *testing.T) {
	file := &ast.File{
		Path: "/s3.php",
		Stmts: []ast.Stmt{
			&ast.FunctionDecl{
				PosVal: pos("/s3.php", 1),
				Name:   &ast.Name{Value: "f"},
				Params: []*ast.Param{
					{Name: "a", Type: &ast.NamedType{Name: &ast.Name{Value: "int"}}},
					{Name: "b", Type: &ast.NamedType{Name: &ast.Name{Value: "int"}}},
				},
				Body: []ast.Stmt{},
			},
			&ast.ExprStmt{
				PosVal: pos("/s3.php", 2),
				X: &ast.Call{
					PosVal: pos("/s3.php", 2),
					Name:   &ast.Name{Value: "f"},
					Args:   []ast.Arg{{Value: &ast.Literal{Kind: ast.LiteralInt, Raw: "1"}}},
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/s3.php": file}}
	res := Run([]string{"/s3.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Too few arguments")
}

// S4: $x = 1; if ($x === "a") {}
func TestScenarioIdentityComparisonTautology(t *testing.T) {
	file := &ast.File{
		Path: "/s4.php",
		Stmts: []ast.Stmt{
			&ast.Assign{
				PosVal: pos("/s4.php", 1),
				Target: &ast.AssignTarget{Var: &ast.Variable{Name: "x"}},
				Value:  &ast.Literal{Kind: ast.LiteralInt, Raw: "1"},
			},
			&ast.If{
				PosVal: pos("/s4.php", 2),
				Cond: &ast.BinaryOp{
					PosVal: pos("/s4.php", 2),
					Op:     "===",
					Left:   &ast.Variable{PosVal: pos("/s4.php", 2), Name: "x"},
					Right:  &ast.Literal{Kind: ast.LiteralString, Raw: "a"},
				},
				Then: []ast.Stmt{},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/s4.php": file}}
	res := Run([]string{"/s4.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Condition is always false")
}

// S5: interface I { function m(int $x): void; }
//
//	class C implements I { function m(string $x): void {} }
func TestScenarioInterfaceConformance(t *testing.T) {
	file := &ast.File{
		Path: "/s5.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{
				PosVal: pos("/s5.php", 1),
				Name:   &ast.Name{Value: "I"},
				Kind:   ast.KindInterface,
				Members: []ast.ClassMember{
					&ast.MethodDecl{
						PosVal: pos("/s5.php", 1),
						Name:   "m",
						Params: []*ast.Param{{Name: "x", Type: &ast.NamedType{Name: &ast.Name{Value: "int"}}}},
						ReturnType: &ast.NamedType{Name: &ast.Name{Value: "void"}},
					},
				},
			},
			&ast.ClassDecl{
				PosVal:     pos("/s5.php", 2),
				Name:       &ast.Name{Value: "C"},
				Kind:       ast.KindClass,
				Interfaces: []*ast.Name{{Value: "I"}},
				Members: []ast.ClassMember{
					&ast.MethodDecl{
						PosVal: pos("/s5.php", 2),
						Name:   "m",
						Params: []*ast.Param{{Name: "x", Type: &ast.NamedType{Name: &ast.Name{Value: "string"}}}},
						ReturnType: &ast.NamedType{Name: &ast.Name{Value: "void"}},
						Body:       []ast.Stmt{},
					},
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/s5.php": file}}
	res := Run([]string{"/s5.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "`m`")
}

// S6: abstract class A {} new A();
func TestScenarioAbstractInstantiation(t *testing.T) {
	file := &ast.File{
		Path: "/s6.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{
				PosVal:    pos("/s6.php", 1),
				Name:      &ast.Name{Value: "A"},
				Kind:      ast.KindClass,
				Modifiers: ast.ModAbstract,
			},
			&ast.ExprStmt{
				PosVal: pos("/s6.php", 2),
				X: &ast.New{
					PosVal:    pos("/s6.php", 2),
					ClassName: &ast.Name{Value: "A"},
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/s6.php": file}}
	res := Run([]string{"/s6.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Cannot instantiate abstract class")
}
