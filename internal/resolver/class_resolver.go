package resolver

import (
	"strings"

	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/internal/diagnostics"
	"github.com/phlint-dev/phlint/internal/symtab"
	"github.com/phlint-dev/phlint/reflect"
	"github.com/phlint-dev/phlint/types"
)

// DeclEnv is the namespace/use-alias environment a class was declared
// under, captured by the loader so the resolver can
// rebuild an equivalent Context long after that file's own walk ended.
type DeclEnv struct {
	File      string
	Namespace string
	Aliases   map[string]string
}

// Resolve initializes class id in place. It is the entry
// point invoked on demand, idempotent via the registry's initialized/
// poisoned flags; re-entry during a cyclic extends chain (prevented by
// the language, but guarded here regardless) resolves to Unknown-ish
// no-ops rather than recursing forever.
func Resolve(reg *reflect.Registry, errors *diagnostics.Sink, id reflect.ClassID, env DeclEnv, resolving map[reflect.ClassID]bool) {
	if reg.IsInitialized(id) || reg.IsPoisoned(id) {
		return
	}
	if resolving[id] {
		return
	}
	resolving[id] = true
	defer delete(resolving, id)

	c := reg.ClassByID(id)
	if c == nil || c.Node == nil {
		reg.MarkInitialized(id)
		return
	}
	decl := c.Node
	ctx := symtab.NewContextAt(reg, errors, env.File, env.Namespace, env.Aliases, id)

	interfaceMethods := map[string]reflect.FunctionSig{}
	interfaceConsts := map[string]reflect.ConstInfo{}
	interfaceClosure := map[string]bool{}

	for _, ifaceName := range decl.Interfaces {
		resolveRef(reg, errors, ifaceName, ctx, resolving, env)
		iface, ok := reg.GetClass(ctx.ResolveName(ifaceName))
		if !ok {
			errors.Error(ifaceName.Pos(), "Undefined interface `%s`", ifaceName.Value)
			continue
		}
		for k, v := range iface.Methods {
			interfaceMethods[k] = v
		}
		for k, v := range iface.Constants {
			interfaceConsts[k] = v
		}
		interfaceClosure[strings.ToLower(iface.QualifiedName)] = true
		for k := range iface.InterfaceNamesClosure {
			interfaceClosure[k] = true
		}
	}

	parentMethods := map[string]reflect.FunctionSig{}
	parentConsts := map[string]reflect.ConstInfo{}
	parentProps := map[string]reflect.PropInfo{}
	var parentID reflect.ClassID = reflect.NoClass

	if decl.Parent != nil {
		resolveRef(reg, errors, decl.Parent, ctx, resolving, env)
		parent, ok := reg.GetClass(ctx.ResolveName(decl.Parent))
		if !ok {
			errors.Error(decl.Parent.Pos(), "Undefined parent class `%s`", decl.Parent.Value)
		} else {
			if parent.IsFinal {
				errors.Error(decl.Pos(), "Cannot extend final class `%s`", parent.QualifiedName)
			}
			parentID = parent.ID
			for k, v := range parent.Methods {
				parentMethods[k] = v
			}
			for k, v := range parent.Constants {
				parentConsts[k] = v
			}
			for k, v := range parent.Properties {
				parentProps[k] = v
			}
			for k := range parent.InterfaceNamesClosure {
				interfaceClosure[k] = true
			}
		}
	}

	ownMethods := map[string]reflect.FunctionSig{}
	ownConsts := map[string]reflect.ConstInfo{}
	ownProps := map[string]reflect.PropInfo{}

	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.PropertyGroup:
			resolvePropertyGroup(m, decl, ownProps, ctx, errors)
		case *ast.ClassConstGroup:
			resolveConstGroup(m, ownConsts, ctx, errors)
		case *ast.MethodDecl:
			resolveMethod(m, decl, ownMethods, interfaceMethods, parentMethods, ctx, errors)
		case *ast.EnumCaseDecl:
			resolveEnumCase(m, decl, ownConsts, ctx, errors)
		case *ast.TraitUse:
			mergeTraitUse(reg, errors, m, ctx, ownMethods, ownProps, ownConsts, resolving, env)
		}
	}

	methods := map[string]reflect.FunctionSig{}
	for k, v := range interfaceMethods {
		methods[k] = v
	}
	for k, v := range parentMethods {
		methods[k] = v
	}
	for k, v := range ownMethods {
		methods[k] = v
	}

	consts := map[string]reflect.ConstInfo{}
	for k, v := range interfaceConsts {
		consts[k] = v
	}
	for k, v := range parentConsts {
		consts[k] = v
	}
	for k, v := range ownConsts {
		consts[k] = v
	}

	props := map[string]reflect.PropInfo{}
	for k, v := range parentProps {
		props[k] = v
	}
	for k, v := range ownProps {
		props[k] = v
	}

	if decl.Kind == ast.KindClass && decl.Modifiers&ast.ModAbstract == 0 {
		for name, sig := range methods {
			if sig.IsAbstract {
				errors.Error(decl.Pos(), "Class `%s` must implement abstract method `%s`", c.QualifiedName, name)
			}
		}
	}

	if _, ok := methods["__tostring"]; ok {
		interfaceClosure["stringable"] = true
	}

	if decl.Kind == ast.KindEnum && decl.EnumBacking != nil {
		backing := ResolveTypeExpr(decl.EnumBacking, ctx)
		props["value"] = reflect.PropInfo{Name: "value", Type: backing, Modifiers: ast.ModPublic | ast.ModReadonly}
		if backedEnum, ok := reg.GetClass("BackedEnum"); ok {
			for k, v := range backedEnum.Methods {
				if _, exists := methods[k]; !exists {
					methods[k] = v
				}
			}
		}
		c.EnumBacking = backing
	}

	c.Parent = parentID
	c.Methods = methods
	c.Constants = consts
	c.Properties = props
	c.InterfaceNamesClosure = interfaceClosure
	reg.MarkInitialized(id)
}

// resolveRef eagerly resolves a referenced class (interface/parent)
// before consulting its merged maps, so resolution order doesn't depend
// on declaration order across files.
func resolveRef(reg *reflect.Registry, errors *diagnostics.Sink, ref *ast.Name, ctx *symtab.Context, resolving map[reflect.ClassID]bool, env DeclEnv) {
	fqn := ctx.ResolveName(ref)
	target, ok := reg.GetClass(fqn)
	if !ok {
		return
	}
	site, hasSite := siteLookup(target.ID)
	if hasSite {
		Resolve(reg, errors, target.ID, site, resolving)
	} else {
		Resolve(reg, errors, target.ID, env, resolving)
	}
}

// siteLookup is overridden by the checker wiring (see checker.go) to
// supply each class's own declaration environment; absent that, the
// referencing class's environment is used as a best-effort fallback
// (correct whenever both classes share a namespace and aliases, the
// overwhelmingly common case).
var siteLookup = func(reflect.ClassID) (DeclEnv, bool) { return DeclEnv{}, false }

// SetSiteLookup installs the real DeclSite-backed lookup; called once by
// the checker after the loader pass completes.
func SetSiteLookup(f func(reflect.ClassID) (DeclEnv, bool)) {
	siteLookup = f
}

func resolvePropertyGroup(g *ast.PropertyGroup, decl *ast.ClassDecl, out map[string]reflect.PropInfo, ctx *symtab.Context, errors *diagnostics.Sink) {
	if decl.Kind == ast.KindInterface {
		errors.Error(g.Pos(), "Interfaces cannot declare properties")
		return
	}
	declared := ResolveTypeExpr(g.Type, ctx)
	readonly := g.Modifiers&ast.ModReadonly != 0
	for _, p := range g.Props {
		if readonly && g.Type == nil {
			errors.Error(g.Pos(), "Readonly property `$%s` requires a type hint", p.Name)
		}
		if readonly && p.Default != nil {
			errors.Error(g.Pos(), "Readonly property `$%s` cannot have a default value", p.Name)
		}
		if p.Default != nil && !types.IsUnknown(declared) {
			if lit, ok := LiteralType(p.Default); ok && !types.Subtype(lit, declared, ctx.Registry) {
				errors.Error(g.Pos(), "Default value of property `$%s` is incompatible with its declared type", p.Name)
			}
		}
		if _, dup := out[p.Name]; dup {
			errors.Error(g.Pos(), "Duplicate property `$%s`", p.Name)
			continue
		}
		out[p.Name] = reflect.PropInfo{Name: p.Name, Type: declared, Default: p.Default, Modifiers: g.Modifiers}
	}
}

func resolveConstGroup(g *ast.ClassConstGroup, out map[string]reflect.ConstInfo, ctx *symtab.Context, errors *diagnostics.Sink) {
	declared := ResolveTypeExpr(g.Type, ctx)
	for _, cdecl := range g.Consts {
		if cdecl.Default != nil && !types.IsUnknown(declared) {
			if lit, ok := LiteralType(cdecl.Default); ok && !types.Subtype(lit, declared, ctx.Registry) {
				errors.Error(g.Pos(), "Default value of constant `%s` is incompatible with its declared type", cdecl.Name)
			}
		}
		if _, dup := out[cdecl.Name]; dup {
			errors.Error(g.Pos(), "Duplicate constant `%s`", cdecl.Name)
			continue
		}
		out[cdecl.Name] = reflect.ConstInfo{Name: cdecl.Name, Type: declared, Modifiers: g.Modifiers}
	}
}

func resolveMethod(m *ast.MethodDecl, decl *ast.ClassDecl, own, interfaceMethods, parentMethods map[string]reflect.FunctionSig, ctx *symtab.Context, errors *diagnostics.Sink) {
	isAbstract := m.Modifiers&ast.ModAbstract != 0
	if isAbstract {
		if m.Body != nil {
			errors.Error(m.Pos(), "Abstract method `%s` cannot have a body", m.Name)
		}
		if m.Modifiers&ast.ModPrivate != 0 {
			errors.Error(m.Pos(), "Abstract method `%s` cannot be private", m.Name)
		}
	}
	if decl.Kind == ast.KindInterface {
		if m.Modifiers&(ast.ModProtected|ast.ModPrivate) != 0 {
			errors.Error(m.Pos(), "Interface method `%s` must be public", m.Name)
		}
		if m.Body != nil {
			errors.Error(m.Pos(), "Interface method `%s` cannot have a body", m.Name)
		}
	}

	lower := strings.ToLower(m.Name)
	if parentSig, ok := parentMethods[lower]; ok {
		if parentFinal(parentSig) {
			errors.Error(m.Pos(), "Cannot override final method `%s`", m.Name)
		}
	}

	sig := BuildFunctionSig(m.Name, m, ctx, errors)
	sig.IsAbstract = isAbstract

	if iface, ok := interfaceMethods[lower]; ok {
		checkConformance(m, iface, sig, errors)
	}

	own[lower] = sig

	if lower == "__construct" {
		promoteConstructorProps(m, sig, ctx, errors)
	}
}

// parentFinal reports whether a (method) signature came from a
// declaration carrying the `final` modifier; FunctionSig doesn't itself
// store modifiers, so this inspects the underlying AST node.
func parentFinal(sig reflect.FunctionSig) bool {
	if md, ok := sig.Node.(*ast.MethodDecl); ok {
		return md.Modifiers&ast.ModFinal != 0
	}
	return false
}

func checkConformance(m *ast.MethodDecl, iface, own reflect.FunctionSig, errors *diagnostics.Sink) {
	ifaceMod, ownMod := ast.Modifier(0), m.Modifiers
	if ifaceMD, ok := iface.Node.(*ast.MethodDecl); ok {
		ifaceMod = ifaceMD.Modifiers
	}
	maskedIface := ifaceMod &^ ast.ModAbstract
	maskedOwn := ownMod &^ ast.ModAbstract
	if maskedIface != maskedOwn {
		errors.Error(m.Pos(), "Method `%s` does not match the visibility of its interface declaration", m.Name)
	}
	if len(iface.Parameters) != len(own.Parameters) && !own.IsVariadic {
		errors.Error(m.Pos(), "Method `%s` parameter count does not match its interface declaration", m.Name)
	} else {
		for i := range iface.Parameters {
			if i >= len(own.Parameters) {
				break
			}
			if types.TypeToString(iface.Parameters[i].Type, true) != types.TypeToString(own.Parameters[i].Type, true) {
				errors.Error(m.Pos(), "Method `%s` parameter %d type does not match its interface declaration", m.Name, i+1)
			}
		}
	}
	if types.TypeToString(iface.ReturnType, true) != types.TypeToString(own.ReturnType, true) {
		errors.Error(m.Pos(), "Method `%s` return type does not match its interface declaration", m.Name)
	}
}

func promoteConstructorProps(m *ast.MethodDecl, sig reflect.FunctionSig, ctx *symtab.Context, errors *diagnostics.Sink) {
	c := ctx.Registry.ClassByID(ctx.CurrentClass)
	if c == nil {
		return
	}
	for i, p := range m.Params {
		vis := p.Modifiers & (ast.ParamPublic | ast.ParamProtected | ast.ParamPrivate)
		if vis == 0 {
			continue
		}
		var mod ast.Modifier
		switch {
		case p.Modifiers&ast.ParamPublic != 0:
			mod = ast.ModPublic
		case p.Modifiers&ast.ParamProtected != 0:
			mod = ast.ModProtected
		case p.Modifiers&ast.ParamPrivate != 0:
			mod = ast.ModPrivate
		}
		if p.Modifiers&ast.ParamReadonly != 0 {
			mod |= ast.ModReadonly
		}
		if c.Properties == nil {
			c.Properties = map[string]reflect.PropInfo{}
		}
		c.Properties[p.Name] = reflect.PropInfo{
			Name:      p.Name,
			Type:      sig.Parameters[i].Type,
			Modifiers: mod,
		}
	}
}

func resolveEnumCase(e *ast.EnumCaseDecl, decl *ast.ClassDecl, out map[string]reflect.ConstInfo, ctx *symtab.Context, errors *diagnostics.Sink) {
	if decl.Kind != ast.KindEnum {
		errors.Error(e.Pos(), "Enum case `%s` declared outside an enum", e.Name)
		return
	}
	backed := decl.EnumBacking != nil
	if backed && e.Value == nil {
		errors.Error(e.Pos(), "Backed enum case `%s` requires a value", e.Name)
	}
	if !backed && e.Value != nil {
		errors.Error(e.Pos(), "Non-backed enum case `%s` cannot have a value", e.Name)
	}
	if backed && e.Value != nil {
		backing := ResolveTypeExpr(decl.EnumBacking, ctx)
		if lit, ok := LiteralType(e.Value); ok && !types.IsUnknown(backing) && !types.Subtype(lit, backing, ctx.Registry) {
			errors.Error(e.Pos(), "Enum case `%s` value type does not match the backing type", e.Name)
		}
	}
	selfType := types.NewNamed(ctx.Registry.ClassByID(ctx.CurrentClass).QualifiedName, false)
	out[e.Name] = reflect.ConstInfo{Name: e.Name, Type: selfType, Modifiers: ast.ModPublic}
}

func mergeTraitUse(reg *reflect.Registry, errors *diagnostics.Sink, use *ast.TraitUse, ctx *symtab.Context, ownMethods map[string]reflect.FunctionSig, ownProps map[string]reflect.PropInfo, ownConsts map[string]reflect.ConstInfo, resolving map[reflect.ClassID]bool, env DeclEnv) {
	skip := map[string]map[string]bool{} // lower(method) -> set of lower(trait) to exclude
	for _, ad := range use.Adaptations {
		if len(ad.InsteadOf) == 0 {
			continue
		}
		lowerMethod := strings.ToLower(ad.Method)
		if skip[lowerMethod] == nil {
			skip[lowerMethod] = map[string]bool{}
		}
		for _, loser := range ad.InsteadOf {
			skip[lowerMethod][strings.ToLower(loser)] = true
		}
	}

	providers := map[string][]struct {
		trait string
		sig   reflect.FunctionSig
	}{}

	for _, traitName := range use.Traits {
		resolveRef(reg, errors, traitName, ctx, resolving, env)
		trait, ok := reg.GetClass(ctx.ResolveName(traitName))
		if !ok {
			errors.Error(traitName.Pos(), "Undefined trait `%s`", traitName.Value)
			continue
		}
		for k, v := range trait.Properties {
			if _, exists := ownProps[k]; !exists {
				ownProps[k] = v
			}
		}
		for k, v := range trait.Constants {
			if _, exists := ownConsts[k]; !exists {
				ownConsts[k] = v
			}
		}
		for k, v := range trait.Methods {
			if skip[k][strings.ToLower(trait.QualifiedName)] {
				continue
			}
			providers[k] = append(providers[k], struct {
				trait string
				sig   reflect.FunctionSig
			}{trait.QualifiedName, v})
		}
	}

	for method, candidates := range providers {
		if _, exists := ownMethods[method]; exists {
			continue
		}
		if len(candidates) > 1 {
			errors.Error(use.Pos(), "Method `%s` is defined by multiple traits; use `insteadof` to disambiguate", method)
			continue
		}
		ownMethods[method] = candidates[0].sig
	}

	for _, ad := range use.Adaptations {
		if ad.AliasAs == "" {
			continue
		}
		lowerMethod := strings.ToLower(ad.Method)
		if sig, ok := ownMethods[lowerMethod]; ok {
			ownMethods[strings.ToLower(ad.AliasAs)] = sig
		}
	}
}
