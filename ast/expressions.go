package ast

// LiteralKind tags a Literal's primitive kind.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralTrue
	LiteralFalse
	LiteralNull
)

// Literal is a scalar literal.
type Literal struct {
	PosVal Position
	Kind   LiteralKind
	Raw    string
}

func (e *Literal) Pos() Position { return e.PosVal }
func (e *Literal) exprNode()     {}

// ArrayItem is one entry of an ArrayLiteral; Key is nil for list entries.
type ArrayItem struct {
	Key    Expr
	Value  Expr
	Spread bool
}

// ArrayLiteral is `[a, b => c, ...$d]`.
type ArrayLiteral struct {
	PosVal Position
	Items  []ArrayItem
}

func (e *ArrayLiteral) Pos() Position { return e.PosVal }
func (e *ArrayLiteral) exprNode()     {}

// Variable is a read of a local variable, e.g. `$x`.
type Variable struct {
	PosVal Position
	Name   string
}

func (e *Variable) Pos() Position { return e.PosVal }
func (e *Variable) exprNode()     {}

// ConstFetch is a bare constant reference, e.g. `PHP_EOL`.
type ConstFetch struct {
	PosVal Position
	Name   *Name
}

func (e *ConstFetch) Pos() Position { return e.PosVal }
func (e *ConstFetch) exprNode()     {}

// Arg is one call-site argument.
type Arg struct {
	Name     string // non-empty for named arguments
	Value    Expr
	ByRef    bool
	Spread   bool
}

// New is `new ClassName(...)`. ClassExpr is nil when ClassName is a
// static, directly-written name (the common case); when the instantiated
// class is itself computed (`new ($cls)(...)`) ClassExpr is set instead.
type New struct {
	PosVal    Position
	ClassName *Name
	ClassExpr Expr
	Args      []Arg
}

func (e *New) Pos() Position { return e.PosVal }
func (e *New) exprNode()     {}

// Call is a function call with a statically named callee; CalleeExpr is
// set instead of Name for dynamic calls (`$fn()`).
type Call struct {
	PosVal     Position
	Name       *Name
	CalleeExpr Expr
	Args       []Arg
}

func (e *Call) Pos() Position { return e.PosVal }
func (e *Call) exprNode()     {}

// MethodCall is `$recv->method(...)`.
type MethodCall struct {
	PosVal   Position
	Receiver Expr
	Method   string
	Args     []Arg
}

func (e *MethodCall) Pos() Position { return e.PosVal }
func (e *MethodCall) exprNode()     {}

// StaticCall is `ClassRef::method(...)`.
type StaticCall struct {
	PosVal   Position
	Class    *Name
	ClassExp Expr // set when the class ref is itself an expression
	Method   string
	Args     []Arg
}

func (e *StaticCall) Pos() Position { return e.PosVal }
func (e *StaticCall) exprNode()     {}

// PropertyFetch is `$recv->prop`.
type PropertyFetch struct {
	PosVal   Position
	Receiver Expr
	Property string
}

func (e *PropertyFetch) Pos() Position { return e.PosVal }
func (e *PropertyFetch) exprNode()     {}

// StaticPropertyFetch is `ClassRef::$prop`.
type StaticPropertyFetch struct {
	PosVal Position
	Class  *Name
	Prop   string
}

func (e *StaticPropertyFetch) Pos() Position { return e.PosVal }
func (e *StaticPropertyFetch) exprNode()     {}

// ClassConstFetch is `ClassRef::CONST` (also used for `ClassRef::class`).
type ClassConstFetch struct {
	PosVal Position
	Class  *Name
	Const  string
}

func (e *ClassConstFetch) Pos() Position { return e.PosVal }
func (e *ClassConstFetch) exprNode()     {}

// IndexFetch is `$x[$y]`; Index is nil for the append form `$x[]`.
type IndexFetch struct {
	PosVal Position
	Base   Expr
	Index  Expr
}

func (e *IndexFetch) Pos() Position { return e.PosVal }
func (e *IndexFetch) exprNode()     {}

// BinaryOp is any binary expression; Op carries the operator token, e.g.
// "===", "!==", "+", "instanceof".
type BinaryOp struct {
	PosVal Position
	Op     string
	Left   Expr
	Right  Expr
}

func (e *BinaryOp) Pos() Position { return e.PosVal }
func (e *BinaryOp) exprNode()     {}

// InstanceOf is `$x instanceof ClassRef`. ClassExpr is set for a dynamic
// right-hand side; Class is set for the common statically-named form.
type InstanceOf struct {
	PosVal    Position
	Expr      Expr
	Class     *Name
	ClassExpr Expr
}

func (e *InstanceOf) Pos() Position { return e.PosVal }
func (e *InstanceOf) exprNode()     {}

// Closure is an anonymous function, `function(...) use (...) {...}`.
type Closure struct {
	PosVal     Position
	Params     []*Param
	Uses       []ClosureUse
	ReturnType TypeExpression
	Body       []Stmt
	Static     bool
}

func (e *Closure) Pos() Position { return e.PosVal }
func (e *Closure) exprNode()     {}

// ClosureUse is one `use (&$x)` capture.
type ClosureUse struct {
	Name  string
	ByRef bool
}

// ArrowFunction is `fn(...) => expr`; it implicitly captures by value.
type ArrowFunction struct {
	PosVal     Position
	Params     []*Param
	ReturnType TypeExpression
	Body       Expr
	Static     bool
}

func (e *ArrowFunction) Pos() Position { return e.PosVal }
func (e *ArrowFunction) exprNode()     {}

// Yield is `yield`, `yield $v`, or `yield $k => $v`; its presence in a
// function body marks that function as a generator.
type Yield struct {
	PosVal Position
	Key    Expr
	Value  Expr
}

func (e *Yield) Pos() Position { return e.PosVal }
func (e *Yield) exprNode()     {}

// AssignExpr is `$x = expr` used in expression position; statement-level
// assignment is ast.Assign (see statements.go); this separate node is
// the form used inside larger expressions (`$y = $x = 1`).
type AssignExpr struct {
	PosVal Position
	Target Expr
	Value  Expr
}

func (e *AssignExpr) Pos() Position { return e.PosVal }
func (e *AssignExpr) exprNode()     {}
