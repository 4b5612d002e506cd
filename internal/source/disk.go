// Package source provides the production loader.FileProvider: real path
// canonicalization and existence checks against the OS filesystem. The
// AST parser itself is an external collaborator explicitly
// keeps out of scope, so Parse is a seam a host binary wires a real
// parser into via SetParseFunc — phlint's own tests exercise the rest of
// the pipeline through an in-memory fake instead (internal/loader,
// internal/checker).
package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phlint-dev/phlint/ast"
)

// ParseFunc parses file contents into an AST, reporting {line, message}
// on a syntax error via *loader.ParseError.
type ParseFunc func(path string, contents []byte) (*ast.File, error)

// DiskProvider implements loader.FileProvider against the real
// filesystem. Parse is nil until SetParseFunc is called; calling
// Parse before that returns a descriptive error rather than panicking.
type DiskProvider struct {
	parse ParseFunc
}

// NewDiskProvider builds a DiskProvider with no parser wired in yet.
func NewDiskProvider() *DiskProvider {
	return &DiskProvider{}
}

// SetParseFunc wires the real parser a production binary embeds.
func (d *DiskProvider) SetParseFunc(fn ParseFunc) {
	d.parse = fn
}

func (d *DiskProvider) Canonicalize(path, dir string) (string, error) {
	target := path
	if !filepath.IsAbs(target) && dir != "" {
		target = filepath.Join(dir, target)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func (d *DiskProvider) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (d *DiskProvider) Parse(path string) (*ast.File, error) {
	if d.parse == nil {
		return nil, fmt.Errorf("no parser wired into phlint: internal/source.DiskProvider.SetParseFunc was never called")
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.parse(path, contents)
}

// EvalProvider implements loader.FileProvider over a single in-memory
// snippet, backing the CLI's `--eval` flag the same way DiskProvider
// backs a file argument: Parse still needs a real parser wired in via
// SetParseFunc.
type EvalProvider struct {
	path  string
	code  string
	parse ParseFunc
}

// NewEvalProvider wraps code as the single file named path (conventionally
// "<eval>").
func NewEvalProvider(path, code string) *EvalProvider {
	return &EvalProvider{path: path, code: code}
}

func (e *EvalProvider) SetParseFunc(fn ParseFunc) { e.parse = fn }

func (e *EvalProvider) Canonicalize(path, dir string) (string, error) { return e.path, nil }

func (e *EvalProvider) Exists(path string) bool { return path == e.path }

func (e *EvalProvider) Parse(path string) (*ast.File, error) {
	if e.parse == nil {
		return nil, fmt.Errorf("no parser wired into phlint: internal/source.EvalProvider.SetParseFunc was never called")
	}
	return e.parse(path, []byte(e.code))
}
