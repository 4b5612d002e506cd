package symtab

import "github.com/phlint-dev/phlint/types"

// DefinedVariable is a local variable tracked within one scope
//. It is created on first write and merged (type-union) on
// subsequent writes, unless it was already widened to Unknown — Unknown
// absorbs any further write.
type DefinedVariable struct {
	Name          string
	PossibleTypes types.PossibleTypes
}

// SuperGlobals is preloaded as `array` in every new scope.
var SuperGlobals = []string{
	"_GET", "_ENV", "_POST", "_FILES", "_COOKIE", "_SERVER", "_GLOBALS",
	"_REQUEST", "_SESSION",
}
