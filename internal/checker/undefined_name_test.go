package checker

import (
	"testing"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/reflect"
)

// Covers the "Undefined name" diagnostics the validator raises for a
// statically-named reference that never resolves: function, method,
// property, class constant, bare constant, and type hint.

func TestUndefinedFunction(t *testing.T) {
	file := &ast.File{
		Path: "/u1.php",
		Stmts: []ast.Stmt{
			&ast.ExprStmt{
				PosVal: pos("/u1.php", 1),
				X: &ast.Call{
					PosVal: pos("/u1.php", 1),
					Name:   &ast.Name{Value: "noSuchFunction"},
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/u1.php": file}}
	res := Run([]string{"/u1.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Undefined function `noSuchFunction`")
}

func TestUndefinedMethod(t *testing.T) {
	file := &ast.File{
		Path: "/u2.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{
				PosVal: pos("/u2.php", 1),
				Name:   &ast.Name{Value: "C"},
				Kind:   ast.KindClass,
			},
			&ast.Assign{
				PosVal: pos("/u2.php", 2),
				Target: &ast.AssignTarget{Var: &ast.Variable{Name: "c"}},
				Value:  &ast.New{PosVal: pos("/u2.php", 2), ClassName: &ast.Name{Value: "C"}},
			},
			&ast.ExprStmt{
				PosVal: pos("/u2.php", 3),
				X: &ast.MethodCall{
					PosVal:   pos("/u2.php", 3),
					Receiver: &ast.Variable{PosVal: pos("/u2.php", 3), Name: "c"},
					Method:   "doesNotExist",
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/u2.php": file}}
	res := Run([]string{"/u2.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Undefined method `doesNotExist` on class `C`")
}

func TestUndefinedStaticProperty(t *testing.T) {
	file := &ast.File{
		Path: "/u3.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{
				PosVal: pos("/u3.php", 1),
				Name:   &ast.Name{Value: "C"},
				Kind:   ast.KindClass,
			},
			&ast.ExprStmt{
				PosVal: pos("/u3.php", 2),
				X: &ast.StaticPropertyFetch{
					PosVal: pos("/u3.php", 2),
					Class:  &ast.Name{Value: "C"},
					Prop:   "noSuchProp",
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/u3.php": file}}
	res := Run([]string{"/u3.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Undefined property `$noSuchProp` on class `C`")
}

func TestUndefinedClassConstant(t *testing.T) {
	file := &ast.File{
		Path: "/u4.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{
				PosVal: pos("/u4.php", 1),
				Name:   &ast.Name{Value: "C"},
				Kind:   ast.KindClass,
			},
			&ast.ExprStmt{
				PosVal: pos("/u4.php", 2),
				X: &ast.ClassConstFetch{
					PosVal: pos("/u4.php", 2),
					Class:  &ast.Name{Value: "C"},
					Const:  "NO_SUCH_CONST",
				},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/u4.php": file}}
	res := Run([]string{"/u4.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Undefined class constant `NO_SUCH_CONST` on class `C`")
}

func TestUndefinedBareConstant(t *testing.T) {
	file := &ast.File{
		Path: "/u5.php",
		Stmts: []ast.Stmt{
			&ast.ExprStmt{
				PosVal: pos("/u5.php", 1),
				X:      &ast.ConstFetch{PosVal: pos("/u5.php", 1), Name: &ast.Name{Value: "NO_SUCH_CONST"}},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/u5.php": file}}
	res := Run([]string{"/u5.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Undefined constant `NO_SUCH_CONST`")
}

func TestUndefinedTypeHint(t *testing.T) {
	file := &ast.File{
		Path: "/u6.php",
		Stmts: []ast.Stmt{
			&ast.FunctionDecl{
				PosVal: pos("/u6.php", 1),
				Name:   &ast.Name{Value: "f"},
				Params: []*ast.Param{
					{Name: "x", Type: &ast.NamedType{Name: &ast.Name{Value: "NoSuchClass"}}},
				},
				Body: []ast.Stmt{},
			},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/u6.php": file}}
	res := Run([]string{"/u6.php"}, fs, Options{Host: reflect.NewStdlibHost()})
	if !res.HasError {
		t.Fatalf("expected an error diagnostic")
	}
	mustContain(t, diagMessages(res), "Undefined type `NoSuchClass`")
}
