package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phlint-dev/phlint/ast"
)

func TestCanonicalizeAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.php")
	os.WriteFile(path, []byte("<?php"), 0o644)

	d := NewDiskProvider()
	canon, err := d.Canonicalize(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canon != path {
		t.Errorf("expected %s, got %s", path, canon)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.php")
	os.WriteFile(path, []byte("<?php"), 0o644)

	d := NewDiskProvider()
	if !d.Exists(path) {
		t.Error("expected file to exist")
	}
	if d.Exists(filepath.Join(dir, "missing.php")) {
		t.Error("expected missing file to not exist")
	}
}

func TestParseWithoutWiredParserReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.php")
	os.WriteFile(path, []byte("<?php"), 0o644)

	d := NewDiskProvider()
	if _, err := d.Parse(path); err == nil {
		t.Fatal("expected an error when no parser is wired")
	}
}

func TestParseWithWiredParser(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.php")
	os.WriteFile(path, []byte("<?php"), 0o644)

	d := NewDiskProvider()
	d.SetParseFunc(func(p string, contents []byte) (*ast.File, error) {
		return &ast.File{Path: p}, nil
	})
	file, err := d.Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Path != path {
		t.Errorf("expected path %s, got %s", path, file.Path)
	}
}
