package resolver

import (
	"github.com/phlint-dev/phlint/internal/diagnostics"
	"github.com/phlint-dev/phlint/internal/symtab"
	"github.com/phlint-dev/phlint/reflect"
)

// ResolveFreeFunctions fills in the full signature (parameter/return
// types, generator/return-required flags) of every free function the
// loader registered as a lazy stub, using each function's own
// declaration environment, invoked for free functions the same way the
// Class resolver invokes it per-method. sites is keyed by lower-cased
// qualified name, matching loader.Loader.FuncSites.
func ResolveFreeFunctions(reg *reflect.Registry, errors *diagnostics.Sink, sites map[string]DeclEnv) {
	for key, env := range sites {
		sig, ok := reg.GetFunction(key)
		if !ok || sig.Node == nil {
			continue
		}
		ctx := symtab.NewContextAt(reg, errors, env.File, env.Namespace, env.Aliases, reflect.NoClass)
		resolved := BuildFunctionSig(sig.QualifiedName, sig.Node, ctx, errors)
		*sig = resolved
	}
}
