// Package symtab implements the per-file, per-scope Context: current
// namespace, use-aliases, enclosing function/class,
// defined variables, and the shared error sink. It is threaded by the
// walker as a value, never a singleton.
package symtab

import (
	"strings"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/diagnostics"
	"github.com/phlint-dev/phlint/reflect"
	"github.com/phlint-dev/phlint/types"
)

// Context is the mutable per-scope state threaded through the loader,
// resolver, pre-scan, typer, and validator.
type Context struct {
	Registry          *reflect.Registry
	Errors            *diagnostics.Sink
	CurrentFile       string
	CurrentNamespace  string
	UseAliases        map[string]string // lower(alias) -> FQN
	CurrentClass      reflect.ClassID   // reflect.NoClass outside a class
	CurrentFunction   *reflect.FunctionSig
	DefinedVariables  map[string]*DefinedVariable
	GlobalVariables   map[string]*DefinedVariable // snapshot set by ResetDefinedVariables
	IsInAssignment    bool
	SelfCheck         bool // suppresses redeclaration diagnostics
	HasReturn         bool // set by a `return` anywhere in the current function body
}

// NewContext creates the root Context for one file.
func NewContext(registry *reflect.Registry, sink *diagnostics.Sink, file string) *Context {
	c := &Context{
		Registry:         registry,
		Errors:           sink,
		CurrentFile:      file,
		UseAliases:       map[string]string{},
		CurrentClass:     reflect.NoClass,
		DefinedVariables: map[string]*DefinedVariable{},
	}
	c.preloadSuperGlobals()
	return c
}

// NewContextAt rebuilds the Context as it stood at a prior declaration
// site (namespace + use-aliases), for passes that run after the file
// that declared something is no longer being walked — the Class
// resolver and the free-function pass of, both of
// which run once per class/function rather than once per file.
func NewContextAt(registry *reflect.Registry, sink *diagnostics.Sink, file, namespace string, aliases map[string]string, class reflect.ClassID) *Context {
	cloned := make(map[string]string, len(aliases))
	for k, v := range aliases {
		cloned[k] = v
	}
	c := &Context{
		Registry:         registry,
		Errors:           sink,
		CurrentFile:      file,
		CurrentNamespace: namespace,
		UseAliases:       cloned,
		CurrentClass:     class,
		DefinedVariables: map[string]*DefinedVariable{},
	}
	return c
}

func (c *Context) preloadSuperGlobals() {
	for _, name := range SuperGlobals {
		c.DefinedVariables[name] = &DefinedVariable{
			Name:          name,
			PossibleTypes: types.NewPossibleTypes(types.NewNamed(types.Array, false)),
		}
	}
}

// clone produces a shallow scope-clone: the Errors sink is shared (so
// diagnostics always land in file order regardless of nesting depth —
// equivalent to "has_error is OR'd back into the parent" without a
// separate merge step), namespace/aliases/class/function carry over by
// value, and DefinedVariables/IsInAssignment are NOT inherited: the
// clone starts with an empty variable map. EnterNamespace and EnterClass
// then share the parent's map, EnterArrowFunction copies it, and
// EnterFunction keeps the fresh one.
func (c *Context) clone() *Context {
	aliases := make(map[string]string, len(c.UseAliases))
	for k, v := range c.UseAliases {
		aliases[k] = v
	}
	return &Context{
		Registry:         c.Registry,
		Errors:           c.Errors,
		CurrentFile:      c.CurrentFile,
		CurrentNamespace: c.CurrentNamespace,
		UseAliases:       aliases,
		CurrentClass:     c.CurrentClass,
		CurrentFunction:  c.CurrentFunction,
		DefinedVariables: map[string]*DefinedVariable{},
	}
}

// EnterNamespace clones the context for a braced `namespace {}` block,
// resetting use-aliases.
func (c *Context) EnterNamespace(name string) *Context {
	child := c.clone()
	child.CurrentNamespace = name
	child.UseAliases = map[string]string{}
	child.DefinedVariables = c.DefinedVariables
	return child
}

// EnterClass clones the context for a class body.
func (c *Context) EnterClass(id reflect.ClassID) *Context {
	child := c.clone()
	child.CurrentClass = id
	child.DefinedVariables = c.DefinedVariables
	return child
}

// EnterFunction clones the context for a function/method/closure body:
// defined variables reset to a fresh scope with super-globals preloaded.
func (c *Context) EnterFunction(fn *reflect.FunctionSig) *Context {
	child := c.clone()
	child.CurrentFunction = fn
	child.preloadSuperGlobals()
	return child
}

// EnterArrowFunction clones the context for a `fn(...) => expr` body:
// unlike EnterFunction, the enclosing scope's variables remain visible
// (arrow functions implicitly capture by value), so DefinedVariables is
// copied rather than reset.
func (c *Context) EnterArrowFunction(fn *reflect.FunctionSig) *Context {
	child := c.clone()
	child.CurrentFunction = fn
	for k, v := range c.DefinedVariables {
		cp := *v
		child.DefinedVariables[k] = &cp
	}
	return child
}

// AddDefinedVariable implements: create on first write;
// ignore new info once already Unknown; otherwise union the types.
func (c *Context) AddDefinedVariable(name string, t types.Type) {
	existing, ok := c.DefinedVariables[name]
	if !ok {
		c.DefinedVariables[name] = &DefinedVariable{
			Name:          name,
			PossibleTypes: types.NewPossibleTypes(t),
		}
		return
	}
	if existing.PossibleTypes.IsUnknown() {
		return
	}
	existing.PossibleTypes = existing.PossibleTypes.With(t)
}

// SetDefinedVariable overwrites (not unions) a variable's type set —
// used by `instanceof` narrowing, which replaces rather than widens.
func (c *Context) SetDefinedVariable(name string, t types.Type) {
	c.DefinedVariables[name] = &DefinedVariable{
		Name:          name,
		PossibleTypes: types.NewPossibleTypes(t),
	}
}

// LookupVariable returns the variable's DefinedVariable, or nil if
// undefined in this scope.
func (c *Context) LookupVariable(name string) (*DefinedVariable, bool) {
	v, ok := c.DefinedVariables[name]
	return v, ok
}

// ResetDefinedVariables snapshots the current map into GlobalVariables,
// clears the scope, and preloads super-globals.
func (c *Context) ResetDefinedVariables() {
	c.GlobalVariables = c.DefinedVariables
	c.DefinedVariables = map[string]*DefinedVariable{}
	c.preloadSuperGlobals()
}

// AddUseAlias records `use Foo\Bar as Baz;` (alias lowercased for lookup).
func (c *Context) AddUseAlias(alias, fqn string) {
	c.UseAliases[strings.ToLower(alias)] = fqn
}

// ResolveName implements the name-resolution order of:
// fully qualified names pass through; otherwise the first segment is
// checked against a use-alias (case-insensitively); failing that the
// current namespace is prepended. The fallback to the bare name in the
// global namespace, used for constants and functions but never for
// classes, is done by ResolveWithFallback, not here.
func (c *Context) ResolveName(n *ast.Name) string {
	if n == nil {
		return ""
	}
	if n.FullyQual {
		return strings.TrimPrefix(n.Value, "\\")
	}
	segments := strings.SplitN(n.Value, "\\", 2)
	first := segments[0]
	if fqn, ok := c.UseAliases[strings.ToLower(first)]; ok {
		if len(segments) == 2 {
			return fqn + "\\" + segments[1]
		}
		return fqn
	}
	if c.CurrentNamespace == "" {
		return n.Value
	}
	return c.CurrentNamespace + "\\" + n.Value
}

// FQClassName resolves a class name reference, handling self/parent/
// static against CurrentClass, and reports an error through reportErr
// when class scope is absent or parent is missing.
// ok is false when resolution failed and an error has already been
// emitted (if reportErr is true) — callers should not emit a second
// "undefined class" diagnostic for the same reference in that case.
func (c *Context) FQClassName(n *ast.Name, reportErr bool) (fqn string, ok bool) {
	if n == nil {
		return "", false
	}
	lower := strings.ToLower(n.Value)
	switch lower {
	case "self", "static":
		if c.CurrentClass == reflect.NoClass {
			if reportErr {
				c.Errors.Error(n.Pos(), "Cannot use %q outside of a class scope", n.Value)
			}
			return "", false
		}
		cls := c.Registry.ClassByID(c.CurrentClass)
		if cls == nil {
			return "", false
		}
		return cls.QualifiedName, true
	case "parent":
		if c.CurrentClass == reflect.NoClass {
			if reportErr {
				c.Errors.Error(n.Pos(), "Cannot use %q outside of a class scope", n.Value)
			}
			return "", false
		}
		cls := c.Registry.ClassByID(c.CurrentClass)
		if cls == nil || cls.Parent == reflect.NoClass {
			if reportErr {
				c.Errors.Error(n.Pos(), "Cannot use %q: class has no parent", n.Value)
			}
			return "", false
		}
		parent := c.Registry.ClassByID(cls.Parent)
		return parent.QualifiedName, true
	default:
		return c.ResolveName(n), true
	}
}

// ResolveWithFallback resolves n the way ResolveName does, but if the
// namespaced form is not registered (checked via exists) it retries the
// bare, unqualified name in the global namespace — the asymmetry
// calls out for constants and functions (never classes).
func (c *Context) ResolveWithFallback(n *ast.Name, exists func(string) bool) string {
	resolved := c.ResolveName(n)
	if exists(resolved) {
		return resolved
	}
	if !n.FullyQual && c.CurrentNamespace != "" {
		if exists(n.Value) {
			return n.Value
		}
	}
	return resolved
}
