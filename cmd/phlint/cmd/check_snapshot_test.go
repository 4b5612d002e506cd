package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/checker"
	"github.com/phlint-dev/phlint/reflect"
)

// fakeProvider is a minimal in-memory loader.FileProvider, mirroring
// internal/loader and internal/checker's test doubles — the CLI's
// diagnostic formatting is what this test snapshots, not parsing.
type fakeProvider struct {
	files map[string]*ast.File
}

func (f *fakeProvider) Canonicalize(path, dir string) (string, error) { return path, nil }
func (f *fakeProvider) Exists(path string) bool                       { _, ok := f.files[path]; return ok }
func (f *fakeProvider) Parse(path string) (*ast.File, error)          { return f.files[path], nil }

func pos(file string, line int) ast.Position { return ast.Position{File: file, Line: line} }

// TestCheckOutputSnapshot exercises the CLI's text-format diagnostic
// rendering over a file with a deliberate missing-return defect.
func TestCheckOutputSnapshot(t *testing.T) {
	file := &ast.File{
		Path: "/snap.php",
		Stmts: []ast.Stmt{
			&ast.FunctionDecl{
				PosVal:     pos("/snap.php", 1),
				Name:       &ast.Name{Value: "missingReturn"},
				ReturnType: &ast.NamedType{Name: &ast.Name{Value: "int"}},
				Body:       []ast.Stmt{},
			},
		},
	}
	fp := &fakeProvider{files: map[string]*ast.File{"/snap.php": file}}

	result := checker.Run([]string{"/snap.php"}, fp, checker.Options{Host: reflect.NewStdlibHost()})

	var buf bytes.Buffer
	for _, d := range result.Diagnostics {
		buf.WriteString(d.Block())
		buf.WriteString("\n")
	}

	snaps.MatchSnapshot(t, buf.String())
}

func TestMain(m *testing.M) {
	code := m.Run()
	snaps.Clean(m)
	os.Exit(code)
}
