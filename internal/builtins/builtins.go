// Package builtins implements per-primitive-kind method tables, the
// `log` intrinsic, and the `Json`/`Cfg`/`Planet` pseudo-classes (`evil`
// is handled by internal/eval itself). It
// registers itself into internal/eval via eval.BuiltinMethodLookup —
// the reverse dependency direction (builtins imports eval) keeps eval
// free of any knowledge of individual method bodies, treating built-in
// method semantics as an external-collaborator detail.
package builtins

import (
	"fmt"
	"os"

	"github.com/keylang/key/internal/eval"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// Method is one primitive method body: receiver plus call arguments in,
// one Litr out.
type Method func(recv values.Litr, args []values.Litr) values.Litr

var tables = map[values.Kind]map[string]Method{
	values.Str:   strMethods,
	values.Int:   intMethods,
	values.Uint:  intMethods,
	values.Float: floatMethods,
	values.Bool:  boolMethods,
	values.List:  listMethods,
	values.Buf:   bufMethods,
	values.Sym:   symMethods,
	values.Func:  funcMethods,
}

// Register installs the built-in method lookup hook and defines the
// global intrinsics (`log`, `evil` is handled inline by the evaluator)
// plus the `Json`/`Cfg`/`Planet` pseudo-classes in top.
func Register(top *runtime.Scope, interner *ident.Pool) {
	eval.BuiltinMethodLookup = lookup

	top.Define(interner.Intern("log"), values.MkFunc(&values.FuncVal{
		Kind: values.FuncNative,
		NativeFn: func(args []values.Litr) values.Litr {
			for _, a := range args {
				fmt.Fprintln(os.Stdout, a.String())
			}
			return values.MkUninit()
		},
	}), false)

	top.Define(interner.Intern("Json"), jsonPseudoClass(interner), false)
	top.Define(interner.Intern("Cfg"), cfgPseudoClass(interner), false)
	top.Define(interner.Intern("Planet"), planetPseudoClass(interner), false)
}

func lookup(e *eval.Evaluator, recv values.Litr, name ident.ID, nameStr string, s *runtime.Scope) (values.Litr, bool) {
	table, ok := tables[recv.Kind]
	if !ok {
		return values.Litr{}, false
	}
	m, ok := table[nameStr]
	if !ok {
		return values.Litr{}, false
	}
	r := recv
	return values.MkFunc(&values.FuncVal{
		Kind:     values.FuncNativeMethod,
		Receiver: &r,
		NativeMethod: func(recv values.Litr, args []values.Litr) values.Litr {
			return m(recv, args)
		},
	}), true
}
