package loader

import (
	"path/filepath"

	"github.com/phlint-dev/phlint/ast"
)

// evalStaticIncludePath resolves a statically computable include target
// expression: a literal string, `__FILE__`/
// `__DIR__`, or a pure concatenation of those. Any other expression
// shape (a variable, a function call, string interpolation) returns
// ok=false and the include is treated as dynamic.
func evalStaticIncludePath(e ast.Expr, currentFile string) (path string, ok bool) {
	switch v := e.(type) {
	case *ast.Literal:
		if v.Kind == ast.LiteralString {
			return v.Raw, true
		}
		return "", false
	case *ast.ConstFetch:
		if v.Name == nil {
			return "", false
		}
		switch v.Name.Value {
		case "__FILE__":
			return currentFile, true
		case "__DIR__":
			return filepath.Dir(currentFile), true
		default:
			return "", false
		}
	case *ast.BinaryOp:
		if v.Op != "." {
			return "", false
		}
		left, lok := evalStaticIncludePath(v.Left, currentFile)
		if !lok {
			return "", false
		}
		right, rok := evalStaticIncludePath(v.Right, currentFile)
		if !rok {
			return "", false
		}
		return left + right, true
	default:
		return "", false
	}
}
