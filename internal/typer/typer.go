// Package typer implements the Expression typer:
// possible_types(expr) -> PossibleTypes, queried by the Statement
// validator through the Context/Reflection facade.
package typer

import (
	"strings"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/symtab"
	"github.com/phlint-dev/phlint/reflect"
	"github.com/phlint-dev/phlint/types"
)

// PossibleTypes computes the statically possible types of expr. An
// empty result means "invalid" (e.g. undefined variable); {Unknown}
// means "not determinable" and suppresses further checks downstream.
func PossibleTypes(expr ast.Expr, ctx *symtab.Context) types.PossibleTypes {
	if expr == nil {
		return types.NewPossibleTypes()
	}
	switch e := expr.(type) {
	case *ast.Literal:
		return types.NewPossibleTypes(literalType(e))

	case *ast.ArrayLiteral:
		return types.NewPossibleTypes(types.NewNamed(types.Array, false))

	case *ast.Variable:
		if e.Name == "this" {
			if ctx.CurrentClass == reflect.NoClass {
				return types.NewPossibleTypes()
			}
			cls := ctx.Registry.ClassByID(ctx.CurrentClass)
			if cls == nil {
				return types.UnknownPossibleTypes()
			}
			return types.NewPossibleTypes(types.NewNamed(cls.QualifiedName, false))
		}
		v, ok := ctx.LookupVariable(e.Name)
		if !ok {
			return types.NewPossibleTypes()
		}
		return v.PossibleTypes

	case *ast.ConstFetch:
		return constFetchType(e, ctx)

	case *ast.New:
		if e.ClassExpr != nil {
			return types.UnknownPossibleTypes()
		}
		fqn, ok := ctx.FQClassName(e.ClassName, false)
		if !ok {
			return types.NewPossibleTypes()
		}
		return types.NewPossibleTypes(types.NewNamed(fqn, false))

	case *ast.Call:
		return callType(e, ctx)

	case *ast.MethodCall:
		return methodCallType(e, ctx)

	case *ast.StaticCall:
		return staticCallType(e, ctx)

	case *ast.PropertyFetch:
		return propertyFetchType(e, ctx)

	case *ast.StaticPropertyFetch:
		return staticPropertyFetchType(e, ctx)

	case *ast.ClassConstFetch:
		return classConstFetchType(e, ctx)

	case *ast.BinaryOp:
		return binaryOpType(e, ctx)

	case *ast.InstanceOf:
		return types.NewPossibleTypes(types.NewNamed(types.Bool, false))

	case *ast.Closure:
		return types.NewPossibleTypes(types.NewNamed(types.Closure, false))

	case *ast.ArrowFunction:
		return types.NewPossibleTypes(types.NewNamed(types.Closure, false))

	case *ast.AssignExpr:
		return PossibleTypes(e.Value, ctx)

	case *ast.IndexFetch:
		return types.UnknownPossibleTypes()

	default:
		return types.UnknownPossibleTypes()
	}
}

func literalType(l *ast.Literal) types.Type {
	switch l.Kind {
	case ast.LiteralInt:
		return types.NewNamed(types.Int, false)
	case ast.LiteralFloat:
		return types.NewNamed(types.Float, false)
	case ast.LiteralString:
		return types.NewNamed(types.String, false)
	case ast.LiteralTrue:
		return types.NewNamed(types.True, false)
	case ast.LiteralFalse:
		return types.NewNamed(types.False, false)
	case ast.LiteralNull:
		return types.NewNamed(types.Null, false)
	default:
		return types.Unknown
	}
}

func constFetchType(e *ast.ConstFetch, ctx *symtab.Context) types.PossibleTypes {
	if e.Name == nil {
		return types.UnknownPossibleTypes()
	}
	name := ctx.ResolveWithFallback(e.Name, ctx.Registry.ConstantExists)
	if c, ok := ctx.Registry.GetConstant(name); ok {
		if c.Type == nil || types.IsUnknown(c.Type) {
			return types.UnknownPossibleTypes()
		}
		return types.NewPossibleTypes(c.Type)
	}
	return types.UnknownPossibleTypes()
}

func callType(e *ast.Call, ctx *symtab.Context) types.PossibleTypes {
	if e.CalleeExpr != nil {
		return types.UnknownPossibleTypes()
	}
	if e.Name == nil {
		return types.UnknownPossibleTypes()
	}
	name := ctx.ResolveWithFallback(e.Name, ctx.Registry.FunctionExists)
	sig, ok := ctx.Registry.GetFunction(name)
	if !ok || sig.ReturnType == nil || types.IsUnknown(sig.ReturnType) {
		return types.UnknownPossibleTypes()
	}
	return types.NewPossibleTypes(sig.ReturnType)
}

// classInfoFor looks t up as a *reflect.ClassInfo when t is a Named
// class-like type; it does not initialize the class.
func classInfoFor(t types.Type, ctx *symtab.Context) *reflect.ClassInfo {
	n, ok := t.(types.Named)
	if !ok {
		return nil
	}
	c, ok := ctx.Registry.GetClass(n.Name)
	if !ok {
		return nil
	}
	return c
}

// hasMagicMethod reports whether any receiver type defines the named
// magic method, used to suppress false positives.
func hasMagicMethod(recv types.PossibleTypes, ctx *symtab.Context, magic string) bool {
	for _, m := range recv.Members() {
		c := classInfoFor(m, ctx)
		if c == nil {
			continue
		}
		if _, ok := c.Methods[magic]; ok {
			return true
		}
		if types.IsUnknown(m) || isBroadType(m) {
			return true
		}
	}
	return false
}

func isBroadType(t types.Type) bool {
	n, ok := t.(types.Named)
	if !ok {
		return false
	}
	lower := strings.ToLower(n.Name)
	return lower == types.Mixed || lower == types.Object || lower == "stdclass"
}

func methodCallType(e *ast.MethodCall, ctx *symtab.Context) types.PossibleTypes {
	recv := PossibleTypes(e.Receiver, ctx)
	if recv.IsUnknown() || hasMagicMethod(recv, ctx, "__call") {
		return types.UnknownPossibleTypes()
	}
	result := types.NewPossibleTypes()
	lowerMethod := strings.ToLower(e.Method)
	found := false
	for _, m := range recv.Members() {
		c := classInfoFor(m, ctx)
		if c == nil {
			return types.UnknownPossibleTypes()
		}
		sig, ok := c.Methods[lowerMethod]
		if !ok {
			continue
		}
		found = true
		if sig.ReturnType == nil || types.IsUnknown(sig.ReturnType) {
			return types.UnknownPossibleTypes()
		}
		result = result.With(sig.ReturnType)
	}
	if !found {
		return types.UnknownPossibleTypes()
	}
	return result
}

func staticCallType(e *ast.StaticCall, ctx *symtab.Context) types.PossibleTypes {
	var fqn string
	var ok bool
	if e.Class != nil {
		fqn, ok = ctx.FQClassName(e.Class, false)
	}
	if !ok {
		return types.UnknownPossibleTypes()
	}
	c, exists := ctx.Registry.GetClass(fqn)
	if !exists {
		return types.UnknownPossibleTypes()
	}
	if _, ok := c.Methods["__callstatic"]; ok {
		return types.UnknownPossibleTypes()
	}
	sig, ok := c.Methods[strings.ToLower(e.Method)]
	if !ok || sig.ReturnType == nil || types.IsUnknown(sig.ReturnType) {
		return types.UnknownPossibleTypes()
	}
	return types.NewPossibleTypes(sig.ReturnType)
}

func propertyFetchType(e *ast.PropertyFetch, ctx *symtab.Context) types.PossibleTypes {
	recv := PossibleTypes(e.Receiver, ctx)
	if recv.IsUnknown() {
		return types.UnknownPossibleTypes()
	}
	magic := "__get"
	if ctx.IsInAssignment {
		magic = "__set"
	}
	if hasMagicMethod(recv, ctx, magic) {
		return types.UnknownPossibleTypes()
	}
	result := types.NewPossibleTypes()
	found := false
	for _, m := range recv.Members() {
		c := classInfoFor(m, ctx)
		if c == nil {
			return types.UnknownPossibleTypes()
		}
		prop, ok := c.Properties[e.Property]
		if !ok {
			continue
		}
		found = true
		if prop.Type == nil || types.IsUnknown(prop.Type) {
			return types.UnknownPossibleTypes()
		}
		result = result.With(prop.Type)
	}
	if !found {
		return types.UnknownPossibleTypes()
	}
	return result
}

func staticPropertyFetchType(e *ast.StaticPropertyFetch, ctx *symtab.Context) types.PossibleTypes {
	fqn, ok := ctx.FQClassName(e.Class, false)
	if !ok {
		return types.UnknownPossibleTypes()
	}
	c, exists := ctx.Registry.GetClass(fqn)
	if !exists {
		return types.UnknownPossibleTypes()
	}
	prop, ok := c.Properties[e.Prop]
	if !ok || prop.Type == nil || types.IsUnknown(prop.Type) {
		return types.UnknownPossibleTypes()
	}
	return types.NewPossibleTypes(prop.Type)
}

func classConstFetchType(e *ast.ClassConstFetch, ctx *symtab.Context) types.PossibleTypes {
	fqn, ok := ctx.FQClassName(e.Class, false)
	if !ok {
		return types.UnknownPossibleTypes()
	}
	if e.Const == "class" {
		return types.NewPossibleTypes(types.NewNamed(types.String, false))
	}
	c, exists := ctx.Registry.GetClass(fqn)
	if !exists {
		return types.UnknownPossibleTypes()
	}
	cst, ok := c.Constants[e.Const]
	if !ok || cst.Type == nil || types.IsUnknown(cst.Type) {
		return types.UnknownPossibleTypes()
	}
	return types.NewPossibleTypes(cst.Type)
}

func binaryOpType(e *ast.BinaryOp, ctx *symtab.Context) types.PossibleTypes {
	switch e.Op {
	case "===", "!==", "==", "!=", "<", ">", "<=", ">=", "&&", "||", "and", "or", "instanceof":
		return types.NewPossibleTypes(types.NewNamed(types.Bool, false))
	case ".":
		return types.NewPossibleTypes(types.NewNamed(types.String, false))
	default:
		return types.UnknownPossibleTypes()
	}
}
