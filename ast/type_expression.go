package ast

// TypeExpression is the parsed form of a type hint as written in source:
// a bare name, a nullable wrapper, or a union/intersection list. It is
// distinct from types.Type, which is the resolved lattice value the
// typer and resolver compute from a TypeExpression.
type TypeExpression interface {
	Node
	typeExprNode()
}

// NamedType is a single identifier type hint, e.g. `int`, `Foo\Bar`, `self`.
type NamedType struct {
	PosVal Position
	Name   *Name
}

func (t *NamedType) Pos() Position  { return t.PosVal }
func (t *NamedType) typeExprNode()  {}

// NullableType wraps a type hint with a leading `?`.
type NullableType struct {
	PosVal Position
	Inner  TypeExpression
}

func (t *NullableType) Pos() Position { return t.PosVal }
func (t *NullableType) typeExprNode() {}

// UnionType is a `A|B|C` type hint.
type UnionType struct {
	PosVal  Position
	Members []TypeExpression
}

func (t *UnionType) Pos() Position { return t.PosVal }
func (t *UnionType) typeExprNode() {}

// IntersectionType is an `A&B` type hint; members are always NamedType.
type IntersectionType struct {
	PosVal  Position
	Members []TypeExpression
}

func (t *IntersectionType) Pos() Position { return t.PosVal }
func (t *IntersectionType) typeExprNode() {}
