package prescan

import (
	"testing"

	"github.com/phlint-dev/phlint/ast"
)

func varTarget(name string) *ast.AssignTarget {
	return &ast.AssignTarget{Var: &ast.Variable{Name: name}}
}

func TestFindDefinedVariablesAssign(t *testing.T) {
	body := []ast.Stmt{
		&ast.Assign{Target: varTarget("x"), Value: &ast.Literal{Kind: ast.LiteralInt, Raw: "1"}},
	}
	got := FindDefinedVariables(body)
	if !got["x"] {
		t.Errorf("expected x to be recorded as defined, got %v", got)
	}
}

func TestFindDefinedVariablesDestructuring(t *testing.T) {
	body := []ast.Stmt{
		&ast.Assign{
			Target: &ast.AssignTarget{List: []*ast.AssignTarget{varTarget("a"), nil, varTarget("b")}},
			Value:  &ast.Variable{Name: "pair"},
		},
	}
	got := FindDefinedVariables(body)
	if !got["a"] || !got["b"] {
		t.Errorf("expected a and b to be recorded, got %v", got)
	}
}

func TestFindDefinedVariablesForeach(t *testing.T) {
	body := []ast.Stmt{
		&ast.Foreach{
			Subject:  &ast.Variable{Name: "items"},
			KeyVar:   varTarget("k"),
			ValueVar: varTarget("v"),
			Body:     nil,
		},
	}
	got := FindDefinedVariables(body)
	if !got["k"] || !got["v"] {
		t.Errorf("expected k and v to be recorded, got %v", got)
	}
}

func TestFindDefinedVariablesCatch(t *testing.T) {
	body := []ast.Stmt{
		&ast.Try{
			Catches: []ast.CatchClause{{Types: []*ast.Name{{Value: "Exception"}}, VarName: "e"}},
		},
	}
	got := FindDefinedVariables(body)
	if !got["e"] {
		t.Errorf("expected e to be recorded, got %v", got)
	}
}

func TestFindDefinedVariablesGlobalAndStatic(t *testing.T) {
	body := []ast.Stmt{
		&ast.Global{Names: []string{"config"}},
		&ast.StaticVar{Vars: []ast.StaticVarDecl{{Name: "counter"}}},
	}
	got := FindDefinedVariables(body)
	if !got["config"] || !got["counter"] {
		t.Errorf("expected config and counter to be recorded, got %v", got)
	}
}

func TestFindDefinedVariablesClosureByRefUse(t *testing.T) {
	body := []ast.Stmt{
		&ast.ExprStmt{X: &ast.Closure{
			Uses: []ast.ClosureUse{{Name: "total", ByRef: true}, {Name: "label", ByRef: false}},
			Body: []ast.Stmt{
				&ast.Assign{Target: varTarget("total"), Value: &ast.Literal{Kind: ast.LiteralInt, Raw: "1"}},
				&ast.Assign{Target: varTarget("label"), Value: &ast.Literal{Kind: ast.LiteralString, Raw: "x"}},
			},
		}},
	}
	got := FindDefinedVariables(body)
	if !got["total"] {
		t.Errorf("expected by-ref captured `total` to propagate out, got %v", got)
	}
	if got["label"] {
		t.Errorf("by-value captured `label` must not leak out, got %v", got)
	}
}

func TestFindDefinedVariablesByRefCallArgument(t *testing.T) {
	body := []ast.Stmt{
		&ast.ExprStmt{X: &ast.Call{
			Name: &ast.Name{Value: "preg_match"},
			Args: []ast.Arg{{Value: &ast.Variable{Name: "matches"}, ByRef: true}},
		}},
	}
	got := FindDefinedVariables(body)
	if !got["matches"] {
		t.Errorf("expected by-ref call argument to be recorded, got %v", got)
	}
}
