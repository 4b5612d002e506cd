// Package prescan implements the scope pre-scan: a
// stripped-down walk of a function/method/closure body that collects
// every variable name that will ever be written to, so the Statement
// validator can tolerate forward references within the same scope
// instead of flagging a variable used before its first textual
// assignment.
package prescan

import "github.com/phlint-dev/phlint/ast"

// FindDefinedVariables returns the set of variable names written
// anywhere in body: foreach targets, assignment left-hand sides
// (including destructuring), catch-bound exception variables, `global`
// and `static` declarations, and variables captured by reference into a
// nested closure's `use` clause and written there. It does not descend
// into nested class or function declarations and only partially
// descends into closures —
// solely to discover by-reference use-bindings that are written.
func FindDefinedVariables(body []ast.Stmt) map[string]bool {
	set := map[string]bool{}
	walkStmts(body, set)
	return set
}

func walkStmts(stmts []ast.Stmt, set map[string]bool) {
	for _, s := range stmts {
		walkStmt(s, set)
	}
}

func walkStmt(s ast.Stmt, set map[string]bool) {
	switch v := s.(type) {
	case *ast.ExprStmt:
		walkExpr(v.X, set)
	case *ast.Assign:
		collectTarget(v.Target, set)
		walkExpr(v.Value, set)
	case *ast.Return:
		walkExpr(v.Value, set)
	case *ast.If:
		walkExpr(v.Cond, set)
		walkStmts(v.Then, set)
		for _, ei := range v.ElseIf {
			walkExpr(ei.Cond, set)
			walkStmts(ei.Body, set)
		}
		walkStmts(v.Else, set)
	case *ast.Foreach:
		walkExpr(v.Subject, set)
		if v.KeyVar != nil {
			collectTarget(v.KeyVar, set)
		}
		collectTarget(v.ValueVar, set)
		walkStmts(v.Body, set)
	case *ast.While:
		walkExpr(v.Cond, set)
		walkStmts(v.Body, set)
	case *ast.DoWhile:
		walkExpr(v.Cond, set)
		walkStmts(v.Body, set)
	case *ast.For:
		for _, e := range v.Init {
			walkExpr(e, set)
		}
		for _, e := range v.Cond {
			walkExpr(e, set)
		}
		for _, e := range v.Step {
			walkExpr(e, set)
		}
		walkStmts(v.Body, set)
	case *ast.Try:
		walkStmts(v.Body, set)
		for _, c := range v.Catches {
			if c.VarName != "" {
				set[c.VarName] = true
			}
			walkStmts(c.Body, set)
		}
		walkStmts(v.Finally, set)
	case *ast.Throw:
		walkExpr(v.Value, set)
	case *ast.Global:
		for _, n := range v.Names {
			set[n] = true
		}
	case *ast.StaticVar:
		for _, d := range v.Vars {
			set[d.Name] = true
			walkExpr(d.Default, set)
		}
	case *ast.Block:
		walkStmts(v.Stmts, set)
	case *ast.Namespace:
		walkStmts(v.Body, set)
	}
}

func collectTarget(t *ast.AssignTarget, set map[string]bool) {
	if t == nil {
		return
	}
	switch {
	case t.Var != nil:
		set[t.Var.Name] = true
	case t.List != nil:
		for _, item := range t.List {
			collectTarget(item, set)
		}
	case t.Prop != nil:
		walkExpr(t.Prop.Receiver, set)
	case t.StaticP != nil:
		// Static property target carries no local variable to define.
	case t.Index != nil:
		walkExpr(t.Index.Base, set)
		walkExpr(t.Index.Index, set)
	}
}

func walkExpr(e ast.Expr, set map[string]bool) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *ast.AssignExpr:
		if target, ok := v.Target.(*ast.Variable); ok {
			set[target.Name] = true
		} else {
			walkExpr(v.Target, set)
		}
		walkExpr(v.Value, set)
	case *ast.ArrayLiteral:
		for _, item := range v.Items {
			walkExpr(item.Key, set)
			walkExpr(item.Value, set)
		}
	case *ast.New:
		walkExpr(v.ClassExpr, set)
		for _, a := range v.Args {
			walkExpr(a.Value, set)
		}
	case *ast.Call:
		walkExpr(v.CalleeExpr, set)
		walkArgs(v.Args, set)
	case *ast.MethodCall:
		walkExpr(v.Receiver, set)
		walkArgs(v.Args, set)
	case *ast.StaticCall:
		walkExpr(v.ClassExp, set)
		walkArgs(v.Args, set)
	case *ast.PropertyFetch:
		walkExpr(v.Receiver, set)
	case *ast.IndexFetch:
		walkExpr(v.Base, set)
		walkExpr(v.Index, set)
	case *ast.BinaryOp:
		walkExpr(v.Left, set)
		walkExpr(v.Right, set)
	case *ast.InstanceOf:
		walkExpr(v.Expr, set)
		walkExpr(v.ClassExpr, set)
	case *ast.Closure:
		inner := FindDefinedVariables(v.Body)
		for _, use := range v.Uses {
			if use.ByRef && inner[use.Name] {
				set[use.Name] = true
			}
		}
	case *ast.ArrowFunction:
		// Implicitly captures by value only; nothing written here is
		// observable in the enclosing scope.
	case *ast.Yield:
		walkExpr(v.Key, set)
		walkExpr(v.Value, set)
	}
}

// walkArgs records by-reference call arguments as writes: a by-ref
// argument that is itself a plain variable becomes defined by the
// callee regardless of whether it existed before the call
// (by-reference parameters in nested calls).
func walkArgs(args []ast.Arg, set map[string]bool) {
	for _, a := range args {
		if a.ByRef {
			if v, ok := a.Value.(*ast.Variable); ok {
				set[v.Name] = true
				continue
			}
		}
		walkExpr(a.Value, set)
	}
}
