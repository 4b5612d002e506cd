// Package resolver implements the Class resolver and the
// shared FunctionSig construction it and the free-function pass
// (ResolveFreeFunctions) both need.
package resolver

import (
	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/symtab"
	"github.com/phlint-dev/phlint/types"
)

var primitiveNames = map[string]bool{
	types.Int: true, types.Float: true, types.String: true, types.Bool: true,
	types.True: true, types.False: true, types.Null: true, types.Array: true,
	types.Object: true, types.Callable: true, types.Iterable: true,
	types.Void: true, types.Never: true, types.Mixed: true, types.Resource: true,
	types.Closure: true,
}

// ResolveTypeExpr resolves a parsed TypeExpression into a
// lattice types.Type using ctx for self/parent/static and namespace/
// use-alias resolution of class names. Returns types.Unknown (with no
// diagnostic) when te is nil, matching an absent type hint.
func ResolveTypeExpr(te ast.TypeExpression, ctx *symtab.Context) types.Type {
	if te == nil {
		return types.Unknown
	}
	switch t := te.(type) {
	case *ast.NamedType:
		return resolveNamedType(t, ctx)
	case *ast.NullableType:
		inner := ResolveTypeExpr(t.Inner, ctx)
		return makeNullable(inner)
	case *ast.UnionType:
		members := make([]types.Type, 0, len(t.Members))
		for _, m := range t.Members {
			members = append(members, ResolveTypeExpr(m, ctx))
		}
		return types.NewUnion(members...)
	case *ast.IntersectionType:
		members := make([]types.Named, 0, len(t.Members))
		for _, m := range t.Members {
			resolved := ResolveTypeExpr(m, ctx)
			if n, ok := resolved.(types.Named); ok {
				n.Nullable = false
				members = append(members, n)
			}
		}
		return types.NewIntersection(members...)
	default:
		return types.Unknown
	}
}

func resolveNamedType(t *ast.NamedType, ctx *symtab.Context) types.Type {
	if t.Name == nil {
		return types.Unknown
	}
	lowerVal := lowerASCII(t.Name.Value)
	if primitiveNames[lowerVal] {
		return types.NewNamed(t.Name.Value, false)
	}
	switch lowerVal {
	case "self", "static", "parent":
		fqn, ok := ctx.FQClassName(t.Name, false)
		if !ok {
			return types.Unknown
		}
		return types.NewNamed(fqn, false)
	default:
		fqn := ctx.ResolveName(t.Name)
		if !ctx.Registry.IsClassLike(fqn) {
			ctx.Errors.Error(t.Name.Pos(), "Undefined type `%s`", fqn)
		}
		return types.NewNamed(fqn, false)
	}
}

func makeNullable(t types.Type) types.Type {
	switch v := t.(type) {
	case types.Named:
		v.Nullable = true
		return v
	default:
		return types.NewUnion(t, types.NewNamed(types.Null, false))
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// LiteralType returns the primitive Type of a default-value / constant
// expression, when it is a simple literal or array literal the resolver
// can check without full expression typing. ok is false for any other
// expression shape (the check is then skipped, not failed — this is
// intentionally shallow).
func LiteralType(e ast.Expr) (t types.Type, ok bool) {
	switch v := e.(type) {
	case *ast.Literal:
		switch v.Kind {
		case ast.LiteralInt:
			return types.NewNamed(types.Int, false), true
		case ast.LiteralFloat:
			return types.NewNamed(types.Float, false), true
		case ast.LiteralString:
			return types.NewNamed(types.String, false), true
		case ast.LiteralTrue:
			return types.NewNamed(types.True, false), true
		case ast.LiteralFalse:
			return types.NewNamed(types.False, false), true
		case ast.LiteralNull:
			return types.NewNamed(types.Null, false), true
		}
		return nil, false
	case *ast.ArrayLiteral:
		return types.NewNamed(types.Array, false), true
	default:
		return nil, false
	}
}
