package diagnostics

import (
	"testing"

	"github.com/phlint-dev/phlint/ast"
)

func TestBlockFormat(t *testing.T) {
	d := Diagnostic{File: "./foo.php", Line: 3, Message: "Undefined variable `$x`"}
	want := "`./foo.php` line 3:\nUndefined variable `$x`"
	if got := d.Block(); got != want {
		t.Errorf("Block() = %q, want %q", got, want)
	}
}

func TestSinkHasError(t *testing.T) {
	s := NewSink()
	if s.HasError() {
		t.Fatalf("fresh sink should not have an error")
	}
	s.Warning(ast.Position{File: "a.php", Line: 1}, "dynamic include skipped")
	if s.HasError() {
		t.Fatalf("a warning alone must not set HasError")
	}
	s.Error(ast.Position{File: "a.php", Line: 2}, "Undefined variable `$%s`", "y")
	if !s.HasError() {
		t.Fatalf("an error diagnostic must set HasError")
	}
	if len(s.Items()) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(s.Items()))
	}
}

func TestSinkMergePropagatesHasError(t *testing.T) {
	parent := NewSink()
	child := NewSink()
	child.Error(ast.Position{File: "a.php", Line: 1}, "boom")
	parent.Merge(child)
	if !parent.HasError() {
		t.Fatalf("merging a sink with an error must OR HasError back into the parent")
	}
}

func TestRelativizePath(t *testing.T) {
	got := RelativizePath("/work/src/foo.php", "/work")
	if got != "./src/foo.php" {
		t.Errorf("RelativizePath() = %q, want %q", got, "./src/foo.php")
	}
	got = RelativizePath("/elsewhere/foo.php", "/work")
	if got != "/elsewhere/foo.php" {
		t.Errorf("RelativizePath() outside cwd should stay absolute, got %q", got)
	}
}
