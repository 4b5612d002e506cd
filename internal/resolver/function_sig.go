package resolver

import (
	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/symtab"
	"github.com/phlint-dev/phlint/reflect"
	"github.com/phlint-dev/phlint/types"
)

// funcShape is the common shape FunctionDecl, MethodDecl, Closure, and
// ArrowFunction all present to FunctionSig construction.
type funcShape struct {
	Params     []*ast.Param
	ReturnType ast.TypeExpression
	Body       []ast.Stmt
	IsAbstract bool
}

func shapeOf(node ast.Node) funcShape {
	switch n := node.(type) {
	case *ast.FunctionDecl:
		return funcShape{Params: n.Params, ReturnType: n.ReturnType, Body: n.Body}
	case *ast.MethodDecl:
		return funcShape{Params: n.Params, ReturnType: n.ReturnType, Body: n.Body, IsAbstract: n.Modifiers&ast.ModAbstract != 0}
	case *ast.Closure:
		return funcShape{Params: n.Params, ReturnType: n.ReturnType, Body: n.Body}
	case *ast.ArrowFunction:
		return funcShape{Params: n.Params, ReturnType: n.ReturnType, Body: []ast.Stmt{&ast.Return{PosVal: n.Pos(), Value: n.Body}}}
	default:
		return funcShape{}
	}
}

// BuildFunctionSig constructs a FunctionSig for a function/method AST
// node. ctx must already be aligned to the declaration's
// original namespace/use-aliases (and, for a method, CurrentClass must
// be set) so self/parent/static and class-name resolution behave the way
// they did at the declaration site.
func BuildFunctionSig(qualifiedName string, node ast.Node, ctx *symtab.Context, errors errorSink) reflect.FunctionSig {
	shape := shapeOf(node)
	params := make([]reflect.ParamInfo, 0, len(shape.Params))
	for i, p := range shape.Params {
		pi := reflect.ParamInfo{
			Name:       p.Name,
			Type:       ResolveTypeExpr(p.Type, ctx),
			ByRef:      p.ByRef,
			Variadic:   p.Variadic,
			HasDefault: p.HasDefault,
			Default:    p.Default,
			Optional:   p.HasDefault || p.Variadic,
		}
		if p.Variadic && p.HasDefault {
			errors.Error(p.Pos(), "Variadic parameter `$%s` cannot have a default value", p.Name)
		}
		if p.Variadic && i != len(shape.Params)-1 {
			errors.Error(p.Pos(), "Only the last parameter may be variadic")
		}
		if p.HasDefault && p.Default != nil && !types.IsUnknown(pi.Type) {
			// Compatibility quirk: a non-nullable
			// declared type defaulting to literal null is treated as
			// nullable, surfaced explicitly rather than hidden.
			if isNullLiteral(p.Default) {
				if n, isNamed := pi.Type.(types.Named); isNamed && !n.Nullable {
					pi.Type = types.NewUnion(pi.Type, types.NewNamed(types.Null, false))
				}
			}
			if lit, ok := LiteralType(p.Default); ok {
				if !types.Subtype(lit, pi.Type, ctx.Registry) {
					errors.Error(p.Pos(), "Default value type `%s` is incompatible with the declared type `%s` of parameter `$%s`",
						types.TypeToString(lit, false), types.TypeToString(pi.Type, false), p.Name)
				}
			}
		}
		params = append(params, pi)
	}

	returnType := ResolveTypeExpr(shape.ReturnType, ctx)
	isGenerator := bodyHasYield(shape.Body)
	isAbstract := shape.IsAbstract
	isReturnRequired := shape.Body != nil && !isAbstract && !isGenerator &&
		!types.IsUnknown(returnType) && !isVoidOrNever(returnType)

	return reflect.FunctionSig{
		QualifiedName:  qualifiedName,
		Parameters:     params,
		ReturnType:     returnType,
		IsVariadic:     len(shape.Params) > 0 && shape.Params[len(shape.Params)-1].Variadic,
		IsGenerator:    isGenerator,
		IsAbstract:     isAbstract,
		IsReturnNeeded: isReturnRequired,
		DeclaringClass: ctx.CurrentClass,
		Node:           node,
	}
}

// errorSink is the minimal diagnostics surface resolver needs, kept
// narrow so this file doesn't import the diagnostics package's full
// Severity/Sink API just to call Error.
type errorSink interface {
	Error(pos ast.Position, format string, args ...any)
}

func isVoidOrNever(t types.Type) bool {
	n, ok := t.(types.Named)
	return ok && (lowerASCII(n.Name) == types.Void || lowerASCII(n.Name) == types.Never)
}

func isNullLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.LiteralNull
}

func bodyHasYield(stmts []ast.Stmt) bool {
	found := false
	var walkStmt func(ast.Stmt)
	var walkExpr func(ast.Expr)

	walkExpr = func(e ast.Expr) {
		if e == nil || found {
			return
		}
		switch v := e.(type) {
		case *ast.BinaryOp:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.AssignExpr:
			walkExpr(v.Target)
			walkExpr(v.Value)
		case *ast.Call:
			for _, a := range v.Args {
				walkExpr(a.Value)
			}
		case *ast.MethodCall:
			walkExpr(v.Receiver)
			for _, a := range v.Args {
				walkExpr(a.Value)
			}
		case *ast.Yield:
			found = true
		}
	}

	walkStmt = func(s ast.Stmt) {
		if found {
			return
		}
		switch v := s.(type) {
		case *ast.ExprStmt:
			walkExpr(v.X)
		case *ast.Return:
			walkExpr(v.Value)
		case *ast.If:
			walkExpr(v.Cond)
			for _, b := range v.Then {
				walkStmt(b)
			}
			for _, ei := range v.ElseIf {
				for _, b := range ei.Body {
					walkStmt(b)
				}
			}
			for _, b := range v.Else {
				walkStmt(b)
			}
		case *ast.While:
			for _, b := range v.Body {
				walkStmt(b)
			}
		case *ast.DoWhile:
			for _, b := range v.Body {
				walkStmt(b)
			}
		case *ast.For:
			for _, b := range v.Body {
				walkStmt(b)
			}
		case *ast.Foreach:
			for _, b := range v.Body {
				walkStmt(b)
			}
		case *ast.Try:
			for _, b := range v.Body {
				walkStmt(b)
			}
			for _, c := range v.Catches {
				for _, b := range c.Body {
					walkStmt(b)
				}
			}
			for _, b := range v.Finally {
				walkStmt(b)
			}
		case *ast.Block:
			for _, b := range v.Stmts {
				walkStmt(b)
			}
		}
	}
	for _, s := range stmts {
		walkStmt(s)
		if found {
			break
		}
	}
	return found
}
