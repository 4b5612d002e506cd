package loader

import (
	"fmt"
	"testing"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/diagnostics"
	"github.com/phlint-dev/phlint/reflect"
)

// fakeFS is an in-memory FileProvider keyed by canonical path, standing
// in for the real lexer/parser + filesystem.
type fakeFS struct {
	files map[string]*ast.File
}

func (f *fakeFS) Canonicalize(path, dir string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if path[0] == '/' {
		return path, nil
	}
	if dir == "" || dir == "/" {
		return "/" + path, nil
	}
	return dir + "/" + path, nil
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) Parse(path string) (*ast.File, error) {
	file, ok := f.files[path]
	if !ok {
		return nil, &ParseError{Message: "no such file: " + path}
	}
	return file, nil
}

func pos(file string, line int) ast.Position { return ast.Position{File: file, Line: line} }

func TestLoaderRegistersClassAndFunction(t *testing.T) {
	file := &ast.File{
		Path: "/app.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{PosVal: pos("/app.php", 1), Name: &ast.Name{Value: "Foo"}, Kind: ast.KindClass},
			&ast.FunctionDecl{PosVal: pos("/app.php", 2), Name: &ast.Name{Value: "bar"}},
			&ast.ConstDecl{PosVal: pos("/app.php", 3), Name: "BAZ"},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/app.php": file}}
	reg := reflect.NewRegistry(nil)
	sink := diagnostics.NewSink()
	l := New(reg, sink, fs, false)

	l.LoadFile("/app.php", "")

	if sink.HasError() {
		t.Fatalf("unexpected errors: %v", sink.Items())
	}
	if _, ok := reg.GetClass("Foo"); !ok {
		t.Errorf("expected class Foo to be registered")
	}
	if _, ok := reg.GetFunction("bar"); !ok {
		t.Errorf("expected function bar to be registered")
	}
	if !reg.ConstantExists("BAZ") {
		t.Errorf("expected constant BAZ to be registered")
	}
}

func TestLoaderDuplicateClassEmitsOneError(t *testing.T) {
	file := &ast.File{
		Path: "/app.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{PosVal: pos("/app.php", 1), Name: &ast.Name{Value: "Foo"}, Kind: ast.KindClass},
			&ast.ClassDecl{PosVal: pos("/app.php", 2), Name: &ast.Name{Value: "Foo"}, Kind: ast.KindClass},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/app.php": file}}
	reg := reflect.NewRegistry(nil)
	sink := diagnostics.NewSink()
	l := New(reg, sink, fs, false)

	l.LoadFile("/app.php", "")

	if len(sink.Items()) != 1 {
		t.Fatalf("expected exactly one redeclaration diagnostic, got %d: %v", len(sink.Items()), sink.Items())
	}
}

func TestLoaderSelfCheckSuppressesRedeclaration(t *testing.T) {
	file := &ast.File{
		Path: "/app.php",
		Stmts: []ast.Stmt{
			&ast.ConstDecl{PosVal: pos("/app.php", 1), Name: "BAZ"},
			&ast.ConstDecl{PosVal: pos("/app.php", 2), Name: "BAZ"},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/app.php": file}}
	reg := reflect.NewRegistry(nil)
	sink := diagnostics.NewSink()
	l := New(reg, sink, fs, true)

	l.LoadFile("/app.php", "")

	if sink.HasError() {
		t.Fatalf("self-check mode should suppress redeclaration errors, got %v", sink.Items())
	}
}

func TestLoaderFollowsStaticInclude(t *testing.T) {
	lib := &ast.File{
		Path: "/lib.php",
		Stmts: []ast.Stmt{
			&ast.ClassDecl{PosVal: pos("/lib.php", 1), Name: &ast.Name{Value: "Lib"}, Kind: ast.KindClass},
		},
	}
	main := &ast.File{
		Path: "/app.php",
		Stmts: []ast.Stmt{
			&ast.Include{PosVal: pos("/app.php", 1), Target: &ast.Literal{Kind: ast.LiteralString, Raw: "lib.php"}},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/app.php": main, "/lib.php": lib}}
	reg := reflect.NewRegistry(nil)
	sink := diagnostics.NewSink()
	l := New(reg, sink, fs, false)

	l.LoadFile("/app.php", "")

	if sink.HasError() {
		t.Fatalf("unexpected errors: %v", sink.Items())
	}
	if _, ok := reg.GetClass("Lib"); !ok {
		t.Errorf("expected Lib to be registered via static include")
	}
}

func TestLoaderSkipsDynamicInclude(t *testing.T) {
	main := &ast.File{
		Path: "/app.php",
		Stmts: []ast.Stmt{
			&ast.Include{PosVal: pos("/app.php", 1), Target: &ast.Variable{Name: "path"}},
		},
	}
	fs := &fakeFS{files: map[string]*ast.File{"/app.php": main}}
	reg := reflect.NewRegistry(nil)
	sink := diagnostics.NewSink()
	l := New(reg, sink, fs, false)

	l.LoadFile("/app.php", "")

	if sink.HasError() {
		t.Fatalf("a dynamic include should warn, not error: %v", sink.Items())
	}
	if len(sink.Items()) != 1 || sink.Items()[0].Severity != diagnostics.SeverityWarning {
		t.Fatalf("expected exactly one warning diagnostic, got %v", sink.Items())
	}
}
