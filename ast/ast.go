// Package ast defines the AST contract the checker consumes. The parser
// front end is an external collaborator: this package only fixes the
// node shapes the loader, resolver, typer and validator are written
// against, the way a reflection-facade consumer depends on a stable
// node vocabulary rather than a concrete parser.
package ast

// Position is a 1-based line/column in a single source file.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return p.File
}

// Node is implemented by every statement and expression node.
type Node interface {
	Pos() Position
}

// Stmt is a statement-position node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression-position node.
type Expr interface {
	Node
	exprNode()
}

// Name is a possibly-qualified identifier as written in source, e.g.
// Foo, \Foo\Bar, self, parent, static.
type Name struct {
	PosVal    Position
	Value     string
	FullyQual bool // leading backslash
}

func (n *Name) Pos() Position { return n.PosVal }

// File is the top-level unit produced by the parser for one source file.
type File struct {
	PosVal Position
	Path   string
	Stmts  []Stmt
}

func (f *File) Pos() Position { return f.PosVal }

// Program is the full set of files handed to the loader in one run.
type Program struct {
	Files []*File
}
