package loader

import (
	"path/filepath"
	"strings"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/diagnostics"
	"github.com/phlint-dev/phlint/internal/resolver"
	"github.com/phlint-dev/phlint/internal/symtab"
	"github.com/phlint-dev/phlint/reflect"
	"github.com/phlint-dev/phlint/types"
)

// DeclSite records the namespace and use-aliases in effect at the point
// a class or function was declared, so the Class resolver (which runs
// after every file has been loaded, potentially long after the loader's
// own Context for that file is gone) can resolve `parent`/interface/
// trait names the same way the original declaration site would have.
type DeclSite struct {
	Namespace string
	Aliases   map[string]string
	File      string
}

// Loader is the global loader of
type Loader struct {
	Registry  *reflect.Registry
	Errors    *diagnostics.Sink
	Files     FileProvider
	SelfCheck bool

	ClassSites map[reflect.ClassID]DeclSite
	FuncSites  map[string]DeclSite

	// Parsed holds every file's AST keyed by canonical path, so a driver
	// that only sees the Loader (not the FileProvider directly) can run
	// a later pass over the same statements (the Statement validator).
	Parsed map[string]*ast.File
}

// New builds a Loader. selfCheck suppresses redeclaration diagnostics,
// for when the checker is run against its own fixture corpus.
func New(registry *reflect.Registry, sink *diagnostics.Sink, files FileProvider, selfCheck bool) *Loader {
	return &Loader{
		Registry:   registry,
		Errors:     sink,
		Files:      files,
		SelfCheck:  selfCheck,
		ClassSites: map[reflect.ClassID]DeclSite{},
		FuncSites:  map[string]DeclSite{},
		Parsed:     map[string]*ast.File{},
	}
}

// LoadFile is the entry point: canonicalize, dedupe, parse, and walk one
// input file. dir is the directory an `include`
// is relative to; pass "" for a top-level command-line argument.
func (l *Loader) LoadFile(path, dir string) {
	canon, err := l.Files.Canonicalize(path, dir)
	if err != nil {
		l.Errors.Error(ast.Position{File: path}, "%s", err.Error())
		return
	}
	if l.Registry.IsFileLoaded(canon) {
		return
	}
	l.Registry.MarkFileLoaded(canon)

	file, err := l.Files.Parse(canon)
	if err != nil {
		line := 0
		if pe, ok := err.(*ParseError); ok {
			line = pe.Line
		}
		l.Errors.Error(ast.Position{File: canon, Line: line}, "%s", err.Error())
		return
	}

	l.Parsed[canon] = file

	ctx := symtab.NewContext(l.Registry, l.Errors, canon)
	l.walkStmts(file.Stmts, ctx)
}

// walkStmts implements step 3: walk the top-level AST (namespace blocks
// recurse), registering each declaration in source order.
func (l *Loader) walkStmts(stmts []ast.Stmt, ctx *symtab.Context) {
	for _, stmt := range stmts {
		l.walkStmt(stmt, ctx)
	}
}

func (l *Loader) walkStmt(stmt ast.Stmt, ctx *symtab.Context) {
	switch s := stmt.(type) {
	case *ast.Namespace:
		if s.Body == nil {
			// Semicolon form: applies to the rest of the file.
			ctx.CurrentNamespace = s.Name
			ctx.UseAliases = map[string]string{}
			return
		}
		child := ctx.EnterNamespace(s.Name)
		l.walkStmts(s.Body, child)

	case *ast.UseAlias:
		alias := s.Alias
		if alias == "" {
			segs := strings.Split(s.FQN, "\\")
			alias = segs[len(segs)-1]
		}
		ctx.AddUseAlias(alias, s.FQN)

	case *ast.ConstDecl:
		l.registerConstant(s, ctx)

	case *ast.ClassDecl:
		l.registerClass(s, ctx)

	case *ast.FunctionDecl:
		l.registerFunction(s, ctx)

	case *ast.Include:
		l.handleInclude(s, ctx)

	default:
		// Any other top-level statement (expression statements, loops
		// used as script bodies, etc.) carries no declarations and is
		// left for the validator's own pass; the loader only discovers
		// symbols.
	}
}

var reservedConstNames = map[string]bool{"null": true, "true": true, "false": true}

func (l *Loader) registerConstant(decl *ast.ConstDecl, ctx *symtab.Context) {
	if reservedConstNames[strings.ToLower(decl.Name)] {
		l.Errors.Error(decl.Pos(), "Cannot redeclare reserved constant `%s`", decl.Name)
		return
	}
	qualified := decl.Name
	if ctx.CurrentNamespace != "" {
		qualified = ctx.CurrentNamespace + "\\" + decl.Name
	}
	constType := types.Unknown
	if t, ok := resolver.LiteralType(decl.Default); ok {
		constType = t
	}
	cv := &reflect.ConstValue{Name: qualified, Type: constType}
	if !l.Registry.DeclareConstant(cv) {
		if !l.SelfCheck {
			l.Errors.Error(decl.Pos(), "Cannot redeclare constant `%s`", decl.Name)
		}
		return
	}
}

func (l *Loader) registerClass(decl *ast.ClassDecl, ctx *symtab.Context) {
	qualified := ctx.ResolveName(&ast.Name{Value: decl.Name.Value, PosVal: decl.Name.Pos()})
	info := &reflect.ClassInfo{
		QualifiedName: qualified,
		Kind:          decl.Kind,
		IsAbstract:    decl.Modifiers&ast.ModAbstract != 0,
		IsFinal:       decl.Modifiers&ast.ModFinal != 0,
		Node:          decl,
		Properties:    map[string]reflect.PropInfo{},
		Constants:     map[string]reflect.ConstInfo{},
		Methods:       map[string]reflect.FunctionSig{},
	}
	id, ok := l.Registry.DeclareClass(info)
	if !ok {
		if !l.SelfCheck {
			l.Errors.Error(decl.Pos(), "Cannot redeclare class `%s`", qualified)
		}
		return
	}
	l.ClassSites[id] = DeclSite{
		Namespace: ctx.CurrentNamespace,
		Aliases:   cloneAliases(ctx.UseAliases),
		File:      ctx.CurrentFile,
	}
}

func (l *Loader) registerFunction(decl *ast.FunctionDecl, ctx *symtab.Context) {
	qualified := ctx.ResolveName(decl.Name)
	sig := &reflect.FunctionSig{QualifiedName: qualified, Node: decl}
	if !l.Registry.DeclareFunction(sig) {
		if !l.SelfCheck {
			l.Errors.Error(decl.Pos(), "Cannot redeclare function `%s`", qualified)
		}
		return
	}
	l.FuncSites[strings.ToLower(qualified)] = DeclSite{
		Namespace: ctx.CurrentNamespace,
		Aliases:   cloneAliases(ctx.UseAliases),
		File:      ctx.CurrentFile,
	}
}

func (l *Loader) handleInclude(inc *ast.Include, ctx *symtab.Context) {
	path, ok := evalStaticIncludePath(inc.Target, ctx.CurrentFile)
	if !ok {
		l.Errors.Warning(inc.Pos(), "Cannot resolve dynamic include target statically; skipping")
		return
	}
	dir := filepath.Dir(ctx.CurrentFile)
	canon, err := l.Files.Canonicalize(path, dir)
	if err != nil || !l.Files.Exists(canon) {
		l.Errors.Error(inc.Pos(), "Included file `%s` does not exist", path)
		return
	}
	l.LoadFile(canon, dir)
}

func cloneAliases(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
