// Package reflect is the reflection facade: a uniform
// read-only view over classes, functions, methods, properties, and
// constants, whether they come from analyzed source or from the host
// environment the checker embeds. Callers never branch on "is this
// host or user-defined" — they query a *ClassInfo/*FunctionSig handle.
package reflect

import (
	"strings"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/types"
)

// ClassID is a stable identifier for a class/interface/trait/enum,
// handed out by the Registry. Cross-references (parent, interfaces,
// traits) are ClassID values, never direct pointers, so the loader can
// register a lazy, not-yet-initialized class without a forward-pointer
// cycle.
type ClassID int

// Kind mirrors ast.ClassKind for a resolved ClassInfo.
type Kind = ast.ClassKind

// ParamInfo mirrors ast.Param after type resolution.
type ParamInfo struct {
	Name       string
	Type       types.Type // nil/Unknown if untyped
	ByRef      bool
	Optional   bool
	Variadic   bool
	HasDefault bool
	Default    ast.Expr
}

// FunctionSig is a resolved function or method signature.
type FunctionSig struct {
	QualifiedName  string
	Parameters     []ParamInfo
	ReturnType     types.Type // nil means untyped (no hint)
	IsVariadic     bool
	IsGenerator    bool
	IsAbstract     bool
	IsReturnNeeded bool
	DeclaringClass ClassID // 0 (NoClass) for free functions
	Node           ast.Node
	Host           bool
}

// NoClass is the zero ClassID, meaning "not a method".
const NoClass ClassID = 0

// PropInfo is a resolved class property.
type PropInfo struct {
	Name      string
	Type      types.Type
	Default   ast.Expr
	Modifiers ast.Modifier
}

// ConstInfo is a resolved class constant (or enum case value).
type ConstInfo struct {
	Name      string
	Type      types.Type
	Modifiers ast.Modifier
}

// ClassInfo is a fully resolved class/interface/trait/enum.
type ClassInfo struct {
	ID                    ClassID
	QualifiedName         string
	Kind                  Kind
	IsAbstract            bool
	IsFinal               bool
	ParentName            string  // parent name before resolution (host classes)
	Parent                ClassID // NoClass if none, resolved from ParentName
	Interfaces            []ClassID
	Traits                []ClassID
	Properties            map[string]PropInfo    // case-sensitive
	Constants             map[string]ConstInfo   // case-sensitive
	Methods               map[string]FunctionSig // lower(name)
	EnumBacking           types.Type
	InterfaceNamesClosure map[string]bool // lower(FQN) set
	Host                  bool
	Node                  *ast.ClassDecl // nil for host classes
	initialized           bool
	poisoned              bool
}

func lowerKey(s string) string { return strings.ToLower(s) }
