// Package diagnostics is the unified error-reporting channel: every
// defect the checker finds funnels through here as a formatted message
// carrying source position, collected on a sink instead of raised as a
// Go error.
package diagnostics

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/phlint-dev/phlint/ast"
)

// Severity distinguishes a hard error from an advisory (e.g. a skipped
// dynamic include, step 4).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported defect.
type Diagnostic struct {
	File     string
	Line     int
	Message  string
	Severity Severity
}

// Block renders the diagnostic in the exact format mandates:
//
//	`<path>` line <N>:
//	<message>
//
// path is relative (./…) if inside cwd, absolute otherwise — that
// normalization is the caller's job (see RelativizePath); Block just
// formats whatever File already holds.
func (d Diagnostic) Block() string {
	return fmt.Sprintf("`%s` line %d:\n%s", d.File, d.Line, d.Message)
}

// RelativizePath renders path relative to cwd with a "./" prefix when
// possible, or leaves it absolute otherwise.
func RelativizePath(path, cwd string) string {
	if cwd == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// Sink collects diagnostics for one checker run. It is part of the
// per-file Context, not a package-level/global stream, so tests can
// intercept it with a fresh buffer-backed instance.
type Sink struct {
	items    []Diagnostic
	hasError bool
}

// NewSink returns an empty sink.
func NewSink() *Sink { return &Sink{} }

// Emit appends a diagnostic at pos with message, derived from an AST
// position. Warnings do not set HasError.
func (s *Sink) Emit(pos ast.Position, message string, severity Severity) {
	s.items = append(s.items, Diagnostic{
		File:     pos.File,
		Line:     pos.Line,
		Message:  message,
		Severity: severity,
	})
	if severity == SeverityError {
		s.hasError = true
	}
}

// Error emits a SeverityError diagnostic — the common case callers use.
func (s *Sink) Error(pos ast.Position, format string, args ...any) {
	s.Emit(pos, fmt.Sprintf(format, args...), SeverityError)
}

// Warning emits a SeverityWarning diagnostic.
func (s *Sink) Warning(pos ast.Position, format string, args ...any) {
	s.Emit(pos, fmt.Sprintf(format, args...), SeverityWarning)
}

// HasError reports whether any SeverityError diagnostic was emitted —
// this drives the process exit code.
func (s *Sink) HasError() bool { return s.hasError }

// Items returns all diagnostics in encounter order.
func (s *Sink) Items() []Diagnostic { return s.items }

// Merge appends other's diagnostics onto s, OR-ing HasError: errors
// always propagate back to the parent scope even when the child
// Context that found them is discarded.
func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	s.items = append(s.items, other.items...)
	if other.hasError {
		s.hasError = true
	}
}

// InternalError represents the one fatal condition the checker has: an
// invariant violation, e.g. an AST kind reaching a switch that assumed
// it was exhaustive.
type InternalError struct {
	Pos     ast.Position
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error at %s line %d: %s", e.Pos.File, e.Pos.Line, e.Message)
}
