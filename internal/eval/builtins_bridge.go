package eval

import (
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// BuiltinMethodLookup is populated by internal/builtins at program
// startup (the reverse dependency direction: builtins imports eval, not
// the other way around, so this is a registration hook rather than a
// direct call — the same pattern the DestructorCallback/ModuleLoader
// interfaces use elsewhere in this package to avoid import cycles).
var BuiltinMethodLookup func(e *Evaluator, recv values.Litr, name ident.ID, nameStr string, s *runtime.Scope) (values.Litr, bool)

// builtinMethodValue resolves a property access on a non-Inst/Obj/Ninst
// receiver (Str, Buf, Int, Uint, Float, Bool, List, Func) to its bound
// built-in method.
func (e *Evaluator) builtinMethodValue(recv values.Litr, name ident.ID, nameStr string, s *runtime.Scope) values.Litr {
	if BuiltinMethodLookup != nil {
		if v, ok := BuiltinMethodLookup(e, recv, name, nameStr, s); ok {
			return v
		}
	}
	diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "no built-in method %q on a %s", nameStr, recv.Kind))
	return values.MkUninit()
}
