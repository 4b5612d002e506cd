// Package loader implements the global loader: the first
// pass over each input file, registering classes/functions/constants and
// following static `include` paths. Parsing and file I/O are external
// collaborators — Loader is built against the FileProvider
// interface so tests can supply an in-memory fixture set instead of a
// real parser and filesystem.
package loader

import "github.com/phlint-dev/phlint/ast"

// FileProvider is the external parser + filesystem collaborator the
// loader depends on. A production binary backs this with a real PHP-like
// parser and os.ReadFile; tests back it with a fixed map of pre-built
// ASTs (see loader_test.go).
type FileProvider interface {
	// Canonicalize resolves path to an absolute, symlink-resolved form
	// relative to dir (the including file's directory, or "" for a
	// command-line argument). Canonicalize must be stable: the same
	// logical file always canonicalizes to the same string, which is
	// what lets the loader dedupe repeat includes.
	Canonicalize(path, dir string) (string, error)
	// Exists reports whether a canonicalized path refers to a real file.
	Exists(path string) bool
	// Parse reads and parses the file at a canonicalized path. A parse
	// error aborts only that file; the returned error's
	// message is used verbatim as the diagnostic reported at that file
	// and line.
	Parse(path string) (*ast.File, error)
}

// ParseError is the shape Parse should return on a parse failure so the
// loader can report the message at the failing file and line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string { return e.Message }
