package plugin

import (
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// FuncTable is the function table handed to a native module at
// `premain` time: the fixed, order-significant surface of interner
// access, variable manipulation, scope walking, local-function
// calling, native-class registration, planet creation, local-instance
// clone/drop, outlive counting, and wait-counter control. Go's plugin
// package loads Go symbols directly rather than C function pointers,
// so this is a struct of closures instead of a `const FuncTable*` —
// same fixed-order contract, adapted to the host ABI.
type FuncTable struct {
	Intern func(name string) ident.ID
	Name   func(id ident.ID) string

	DefineVar func(s *runtime.Scope, name ident.ID, v values.Litr)
	LookupVar func(s *runtime.Scope, name ident.ID) (values.Litr, bool)

	ParentScope func(s *runtime.Scope) *runtime.Scope
	NewScope    func(parent *runtime.Scope) *runtime.Scope

	CallLocal func(fn *values.FuncVal, args []values.Litr) values.Litr

	RegisterNativeClass func(m *runtime.Module, name ident.ID, nc *values.NativeClass)

	NewPlanet func() *runtime.Planet

	CloneLocal func(v values.Litr) values.Litr
	DropLocal  func(v values.Litr)

	OutliveInc func(s *runtime.Scope)
	OutliveDec func(s *runtime.Scope)

	WaitInc func()
	WaitDec func()
	Wait    func()
}

// NativeInterface is the writable struct handed to a native
// module's `main` entry point; the module populates Fns/Classes with
// whatever it wants to export, mirroring how a `.ks` module populates
// its Module via `export`.
type NativeInterface struct {
	Fns     map[string]*values.FuncVal
	Classes map[string]*values.NativeClass
}

// Premain is the symbol every native module must export: `func
// Premain(*FuncTable)`.
type Premain func(*FuncTable)

// MainEntry is the symbol every native module must export after
// Premain: `func Main(*NativeInterface)`.
type MainEntry func(*NativeInterface)
