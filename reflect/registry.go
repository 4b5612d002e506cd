package reflect

import (
	"github.com/phlint-dev/phlint/ast"
	"github.com/phlint-dev/phlint/types"
)

// Registry is the GlobalRegistry: every user-defined and host
// class/function/constant the checker knows about, keyed by lowercased
// qualified name. It implements types.ClassHierarchy so the type
// lattice can answer class-to-class subtype queries without importing
// this package.
type Registry struct {
	classes     map[string]*ClassInfo
	classByID   map[ClassID]*ClassInfo
	functions   map[string]*FunctionSig
	constants   map[string]*ConstValue
	loadedFiles map[string]bool
	nextID      ClassID
	host        HostProvider
}

// ConstValue is a resolved top-level constant.
type ConstValue struct {
	Name string
	Type types.Type
}

// NewRegistry builds an empty registry backed by the given host
// environment description (use NewStdlibHost for the PHP-like builtin
// surface phlint ships with, or nil for a bare host with no builtins).
func NewRegistry(host HostProvider) *Registry {
	r := &Registry{
		classes:     make(map[string]*ClassInfo),
		classByID:   make(map[ClassID]*ClassInfo),
		functions:   make(map[string]*FunctionSig),
		constants:   make(map[string]*ConstValue),
		loadedFiles: make(map[string]bool),
		nextID:      1,
		host:        host,
	}
	if host != nil {
		for _, c := range host.Classes() {
			r.registerHostClass(c)
		}
		r.wireHostParents()
		for _, f := range host.Functions() {
			fcopy := f
			fcopy.Host = true
			r.functions[lowerKey(f.QualifiedName)] = &fcopy
		}
		for _, c := range host.Constants() {
			ccopy := c
			r.constants[lowerKey(c.Name)] = &ccopy
		}
	}
	return r
}

// wireHostParents resolves each host ClassInfo.ParentName to a Parent
// ClassID and recomputes InterfaceNamesClosure, mirroring what the class
// resolver does for user-defined classes in a second pass once every
// sibling has a stable ClassID.
func (r *Registry) wireHostParents() {
	for _, c := range r.classes {
		if c.ParentName == "" {
			continue
		}
		parent, ok := r.GetClass(c.ParentName)
		if !ok {
			continue
		}
		c.Parent = parent.ID
		for k := range parent.InterfaceNamesClosure {
			c.InterfaceNamesClosure[k] = true
		}
	}
}

func (r *Registry) registerHostClass(c ClassInfo) {
	c.Host = true
	c.initialized = true
	id := r.nextID
	r.nextID++
	c.ID = id
	if c.InterfaceNamesClosure == nil {
		c.InterfaceNamesClosure = map[string]bool{}
	}
	cp := c
	r.classes[lowerKey(c.QualifiedName)] = &cp
	r.classByID[id] = &cp
}

// HostProvider is the reflection contract to the host environment: a
// read-only description of classes, functions, and constants available
// without user definition.
type HostProvider interface {
	Classes() []ClassInfo
	Functions() []FunctionSig
	Constants() []ConstValue
}

// IsFileLoaded reports whether path was already registered by the
// loader, so `include` can no-op on a repeat include.
func (r *Registry) IsFileLoaded(path string) bool { return r.loadedFiles[path] }

// MarkFileLoaded records path as loaded.
func (r *Registry) MarkFileLoaded(path string) { r.loadedFiles[path] = true }

// DeclareClass registers a not-yet-initialized ClassInfo. Returns false
// if name is already declared (caller emits the redeclaration error);
// the existing declaration wins and the new one is ignored.
func (r *Registry) DeclareClass(c *ClassInfo) (ClassID, bool) {
	key := lowerKey(c.QualifiedName)
	if _, exists := r.classes[key]; exists {
		return NoClass, false
	}
	id := r.nextID
	r.nextID++
	c.ID = id
	r.classes[key] = c
	r.classByID[id] = c
	return id, true
}

// MarkPoisoned flags a class (typically a duplicate) as not to be
// analyzed further.
func (r *Registry) MarkPoisoned(id ClassID) {
	if c, ok := r.classByID[id]; ok {
		c.poisoned = true
	}
}

// IsPoisoned reports whether id was poisoned.
func (r *Registry) IsPoisoned(id ClassID) bool {
	c, ok := r.classByID[id]
	return ok && c.poisoned
}

// IsInitialized reports whether the class resolver already ran for id.
func (r *Registry) IsInitialized(id ClassID) bool {
	c, ok := r.classByID[id]
	return ok && c.initialized
}

// MarkInitialized flags id as fully resolved.
func (r *Registry) MarkInitialized(id ClassID) {
	if c, ok := r.classByID[id]; ok {
		c.initialized = true
	}
}

// ClassByID returns the ClassInfo for id, or nil.
func (r *Registry) ClassByID(id ClassID) *ClassInfo { return r.classByID[id] }

// GetClass looks up a class/interface/trait/enum by qualified name.
func (r *Registry) GetClass(name string) (*ClassInfo, bool) {
	c, ok := r.classes[lowerKey(name)]
	return c, ok
}

// ClassExists, InterfaceExists, TraitExists narrow GetClass to a kind.
func (r *Registry) ClassExists(name string) bool {
	c, ok := r.GetClass(name)
	return ok && c.Kind == ast.KindClass
}

func (r *Registry) InterfaceExists(name string) bool {
	c, ok := r.GetClass(name)
	return ok && c.Kind == ast.KindInterface
}

func (r *Registry) TraitExists(name string) bool {
	c, ok := r.GetClass(name)
	return ok && c.Kind == ast.KindTrait
}

// DeclareFunction registers a function signature. Returns false if a
// function with that name already exists.
func (r *Registry) DeclareFunction(f *FunctionSig) bool {
	key := lowerKey(f.QualifiedName)
	if _, exists := r.functions[key]; exists {
		return false
	}
	r.functions[key] = f
	return true
}

// GetFunction looks up a free function by qualified or unqualified name.
func (r *Registry) GetFunction(name string) (*FunctionSig, bool) {
	f, ok := r.functions[lowerKey(name)]
	return f, ok
}

func (r *Registry) FunctionExists(name string) bool {
	_, ok := r.GetFunction(name)
	return ok
}

// AllFunctions returns every declared free function (host and
// user-defined), used by --statistics.
func (r *Registry) AllFunctions() []*FunctionSig {
	out := make([]*FunctionSig, 0, len(r.functions))
	for _, f := range r.functions {
		out = append(out, f)
	}
	return out
}

// DeclareConstant registers a top-level constant. Reserved names
// (null/true/false) and duplicates are rejected by the caller (loader),
// which inspects the bool return.
func (r *Registry) DeclareConstant(c *ConstValue) bool {
	key := lowerKey(c.Name)
	if _, exists := r.constants[key]; exists {
		return false
	}
	r.constants[key] = c
	return true
}

func (r *Registry) GetConstant(name string) (*ConstValue, bool) {
	c, ok := r.constants[lowerKey(name)]
	return c, ok
}

func (r *Registry) ConstantExists(name string) bool {
	_, ok := r.GetConstant(name)
	return ok
}

// --- types.ClassHierarchy -------------------------------------------------

func (r *Registry) IsClassLike(name string) bool {
	c, ok := r.GetClass(name)
	return ok && c != nil
}

func (r *Registry) IsAssignableClass(name, target string) bool {
	c, ok := r.GetClass(name)
	if !ok {
		return false
	}
	if lowerKey(name) == lowerKey(target) {
		return true
	}
	if c.InterfaceNamesClosure[lowerKey(target)] {
		return true
	}
	for anc := c; anc != nil && anc.Parent != NoClass; {
		parent := r.ClassByID(anc.Parent)
		if parent == nil {
			break
		}
		if lowerKey(parent.QualifiedName) == lowerKey(target) {
			return true
		}
		anc = parent
	}
	return false
}

func (r *Registry) ImplementsStringable(name string) bool {
	c, ok := r.GetClass(name)
	if !ok {
		return false
	}
	return c.InterfaceNamesClosure[lowerKey("Stringable")]
}

// ComputeInterfaceClosure returns the transitive closure of directly
// declared interfaces plus, recursively, each of their own closures,
// plus every interface of the class's ancestors.
func (r *Registry) ComputeInterfaceClosure(id ClassID) map[string]bool {
	closure := map[string]bool{}
	c := r.ClassByID(id)
	if c == nil {
		return closure
	}
	var walkInterfaces func(ClassID)
	walkInterfaces = func(ifaceID ClassID) {
		iface := r.ClassByID(ifaceID)
		if iface == nil {
			return
		}
		key := lowerKey(iface.QualifiedName)
		if closure[key] {
			return
		}
		closure[key] = true
		for _, parent := range iface.Interfaces {
			walkInterfaces(parent)
		}
	}
	for _, ifaceID := range c.Interfaces {
		walkInterfaces(ifaceID)
	}
	if c.Parent != NoClass {
		parent := r.ClassByID(c.Parent)
		if parent != nil {
			for k := range parent.InterfaceNamesClosure {
				closure[k] = true
			}
		}
	}
	return closure
}

// AllClasses returns every declared class/interface/trait/enum, in
// registration order by ID (used by --statistics and by the resolver's
// driver loop).
func (r *Registry) AllClasses() []*ClassInfo {
	out := make([]*ClassInfo, 0, len(r.classByID))
	for id := ClassID(1); id < r.nextID; id++ {
		if c, ok := r.classByID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
