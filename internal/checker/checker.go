// Package checker wires the Loader, Class resolver, and Statement
// validator into the single run described by: load every
// input file, initialize every discovered class, then validate each
// file's statements from scratch.
package checker

import (
	"sort"

	"github.com/google/uuid"

	"github.com/phlint-dev/phlint/internal/diagnostics"
	"github.com/phlint-dev/phlint/internal/loader"
	"github.com/phlint-dev/phlint/internal/resolver"
	"github.com/phlint-dev/phlint/internal/symtab"
	"github.com/phlint-dev/phlint/internal/validator"
	"github.com/phlint-dev/phlint/reflect"
)

// Result is the summary a CLI surface reports.
type Result struct {
	RunID         string // correlates log lines across a --watch session
	CheckedFiles  []string
	ClassCount    int
	FunctionCount int
	HasError      bool
	Diagnostics   []diagnostics.Diagnostic
}

// Options configures one run.
type Options struct {
	SelfCheck bool
	Host      reflect.HostProvider
}

// Run loads every path in files, resolves every discovered class, then
// validates every loaded file's AST, returning the accumulated result.
func Run(files []string, fp loader.FileProvider, opts Options) Result {
	reg := reflect.NewRegistry(opts.Host)
	sink := diagnostics.NewSink()
	ld := loader.New(reg, sink, fp, opts.SelfCheck)

	for _, f := range files {
		ld.LoadFile(f, "")
	}

	resolver.SetSiteLookup(func(id reflect.ClassID) (resolver.DeclEnv, bool) {
		site, ok := ld.ClassSites[id]
		if !ok {
			return resolver.DeclEnv{}, false
		}
		return resolver.DeclEnv{File: site.File, Namespace: site.Namespace, Aliases: site.Aliases}, true
	})

	funcSites := make(map[string]resolver.DeclEnv, len(ld.FuncSites))
	for k, site := range ld.FuncSites {
		funcSites[k] = resolver.DeclEnv{File: site.File, Namespace: site.Namespace, Aliases: site.Aliases}
	}
	resolver.ResolveFreeFunctions(reg, sink, funcSites)

	resolving := map[reflect.ClassID]bool{}
	allClasses := reg.AllClasses()
	for _, c := range allClasses {
		if c.Host || c.Node == nil {
			continue
		}
		var declEnv resolver.DeclEnv
		if site, ok := ld.ClassSites[c.ID]; ok {
			declEnv = resolver.DeclEnv{File: site.File, Namespace: site.Namespace, Aliases: site.Aliases}
		}
		resolver.Resolve(reg, sink, c.ID, declEnv, resolving)
	}

	v := validator.New(reg, sink)
	paths := make([]string, 0, len(ld.Parsed))
	for path := range ld.Parsed {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		file := ld.Parsed[path]
		ctx := symtab.NewContext(reg, sink, path)
		ctx.SelfCheck = opts.SelfCheck
		v.WalkStmts(file.Stmts, ctx)
	}

	return Result{
		RunID:         uuid.NewString(),
		CheckedFiles:  paths,
		ClassCount:    len(allClasses),
		FunctionCount: len(reg.AllFunctions()),
		HasError:      sink.HasError(),
		Diagnostics:   sink.Items(),
	}
}
