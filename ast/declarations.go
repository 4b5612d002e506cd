package ast

// ParamModifier flags a promoted-constructor-property or by-ref/variadic
// parameter; combine with bitwise OR.
type ParamModifier int

const (
	ParamNone ParamModifier = 0
	ParamPublic ParamModifier = 1 << iota
	ParamProtected
	ParamPrivate
	ParamReadonly
)

// Param is one function/method/closure parameter.
type Param struct {
	PosVal    Position
	Name      string
	Type      TypeExpression
	ByRef     bool
	Variadic  bool
	HasDefault bool
	Default   Expr
	Modifiers ParamModifier
}

func (p *Param) Pos() Position { return p.PosVal }

// FunctionDecl is a top-level `function name(...): T {...}`.
type FunctionDecl struct {
	PosVal     Position
	Name       *Name
	Params     []*Param
	ReturnType TypeExpression
	Body       []Stmt // nil for none (never true at top level, but
	                    // kept nil-able so FunctionDecl and MethodDecl
	                    // share shape)
}

func (s *FunctionDecl) Pos() Position { return s.PosVal }
func (s *FunctionDecl) stmtNode()     {}

// Modifier is a class/method/property visibility-and-kind bitmask.
type Modifier int

const (
	ModPublic Modifier = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModAbstract
	ModFinal
	ModReadonly
)

// MethodDecl is a method inside a ClassDecl body.
type MethodDecl struct {
	PosVal     Position
	Name       string
	Params     []*Param
	ReturnType TypeExpression
	Body       []Stmt // nil for abstract/interface methods
	Modifiers  Modifier
}

func (s *MethodDecl) Pos() Position { return s.PosVal }
func (s *MethodDecl) stmtNode()     {}
func (s *MethodDecl) classMember()  {}

// PropertyDecl is one property inside a PropertyGroup.
type PropertyDecl struct {
	Name    string
	Default Expr
}

// PropertyGroup is `public ?int $a, $b = 1;` — one or more properties
// sharing a type hint and modifier set.
type PropertyGroup struct {
	PosVal    Position
	Type      TypeExpression
	Modifiers Modifier
	Props     []PropertyDecl
}

func (s *PropertyGroup) Pos() Position { return s.PosVal }
func (s *PropertyGroup) stmtNode()     {}
func (s *PropertyGroup) classMember()  {}

// ClassConstDecl is one constant inside a ClassConstGroup.
type ClassConstDecl struct {
	Name    string
	Default Expr
}

// ClassConstGroup is `const [Type] A = 1, B = 2;` inside a class body.
type ClassConstGroup struct {
	PosVal    Position
	Type      TypeExpression
	Modifiers Modifier
	Consts    []ClassConstDecl
}

func (s *ClassConstGroup) Pos() Position { return s.PosVal }
func (s *ClassConstGroup) stmtNode()     {}
func (s *ClassConstGroup) classMember()  {}

// TraitAdaptation records one `insteadof`/`as` adjustment in a `use`
// block, e.g. `A::foo insteadof B;` or `B::foo as bar;`.
type TraitAdaptation struct {
	Trait      string
	Method     string
	InsteadOf  []string // other trait names this method wins over
	AliasAs    string   // non-empty for an `as` rename
	AliasVis   Modifier // visibility override from `as`, 0 if none
}

// TraitUse is `use TraitA, TraitB { ... }` inside a class body.
type TraitUse struct {
	PosVal      Position
	Traits      []*Name
	Adaptations []TraitAdaptation
}

func (s *TraitUse) Pos() Position { return s.PosVal }
func (s *TraitUse) stmtNode()     {}
func (s *TraitUse) classMember()  {}

// EnumCaseDecl is one `case Foo = 'value';` inside an enum.
type EnumCaseDecl struct {
	PosVal Position
	Name   string
	Value  Expr // nil for a pure (non-backed) case
}

func (s *EnumCaseDecl) Pos() Position { return s.PosVal }
func (s *EnumCaseDecl) stmtNode()     {}
func (s *EnumCaseDecl) classMember()  {}

// ClassMember is implemented by every node legal inside a class/
// interface/trait/enum body.
type ClassMember interface {
	Stmt
	classMember()
}

// ClassKind distinguishes the four named-type-container forms.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
	KindEnum
)

// ClassDecl is a class/interface/trait/enum declaration.
type ClassDecl struct {
	PosVal      Position
	Name        *Name
	Kind        ClassKind
	Modifiers   Modifier // ModAbstract / ModFinal apply to Kind==KindClass
	Parent      *Name    // extends (single, nil if none); for interfaces
	                      // extending multiple, see Interfaces below
	Interfaces  []*Name  // implements (classes) or extends (interfaces)
	EnumBacking TypeExpression // non-nil only for backed enums
	Members     []ClassMember
}

func (s *ClassDecl) Pos() Position { return s.PosVal }
func (s *ClassDecl) stmtNode()     {}
