// Package plugin implements Key's module loader: `.ks` script
// modules scanned, parsed, and evaluated in a fresh top scope, and
// native modules loaded through the standard library `plugin` package
// via the `premain`/`main` ABI. It implements eval.ModuleLoader so
// internal/eval stays free of any dependency on how a module path
// actually resolves to code.
package plugin

import (
	"fmt"
	"os"
	goplugin "plugin"
	"strings"

	"github.com/keylang/key/internal/builtins"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/eval"
	"github.com/keylang/key/internal/parse"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/scan"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// Loader resolves `mod`/`extern mod` paths for one running program.
// Ev is the program's own Evaluator so a `.ks` module's body runs
// through the same Context (interner, call stack, distribution tag).
type Loader struct {
	Ev          *eval.Evaluator
	SearchPaths []string
}

// New builds a Loader bound to ev.
func New(ev *eval.Evaluator, searchPaths []string) *Loader {
	return &Loader{Ev: ev, SearchPaths: searchPaths}
}

// Load implements eval.ModuleLoader.
func (l *Loader) Load(path string, native bool) (*runtime.Module, error) {
	resolved, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	if native {
		return l.loadNative(resolved)
	}
	return l.loadScript(resolved)
}

func (l *Loader) resolve(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	for _, dir := range l.SearchPaths {
		candidate := dir + string(os.PathSeparator) + path
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("module %q not found (searched %d path(s))", path, len(l.SearchPaths))
}

// loadScript implements the `.ks` half of module loading: scan, parse,
// evaluate in a fresh top scope, and promote that scope to
// static-outlive so the module's exported closures keep their
// environment for the rest of the program's life.
func (l *Loader) loadScript(path string) (*runtime.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := scan.New(string(data))
	p := parse.New(sc)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("module %q: %s", path, strings.Join(errs, "; "))
	}

	mod := runtime.NewModule(path, false)
	top := runtime.NewScope(nil)
	builtins.Register(top, l.Ev.Ctx.Interner)
	mod.Scope = top
	top.Exports = mod

	if _, derr := l.Ev.Run(prog, top); derr != nil {
		return nil, fmt.Errorf("module %q: %s", path, derr.Message)
	}
	l.Ev.Refs.PromoteStatic(top)
	return mod, nil
}

// loadNative implements the `.so`/`.dylib`/`.ksm`/`.dll` half. `.dll`
// is accepted syntactically but always fails: Go's plugin package only
// supports the host platform's native dynamic-library format (ELF on
// Linux, Mach-O on Darwin), never Windows PE, so a `.dll` can never
// actually open here regardless of host OS.
func (l *Loader) loadNative(path string) (*runtime.Module, error) {
	if strings.HasSuffix(strings.ToLower(path), ".dll") {
		return nil, diag.New(diag.Uncatchable, path, 0,
			"native module %q: .dll is not supported on this platform (the host plugin loader only opens ELF/Mach-O shared libraries)", path)
	}

	p, err := goplugin.Open(path)
	if err != nil {
		return nil, diag.New(diag.Uncatchable, path, 0, "failed to open native module %q: %v", path, err)
	}

	premainSym, err := p.Lookup("Premain")
	if err != nil {
		return nil, diag.New(diag.Uncatchable, path, 0, "native module %q has no Premain symbol: %v", path, err)
	}
	premain, ok := premainSym.(func(*FuncTable))
	if !ok {
		return nil, diag.New(diag.Uncatchable, path, 0, "native module %q: Premain has the wrong signature", path)
	}

	mainSym, err := p.Lookup("Main")
	if err != nil {
		return nil, diag.New(diag.Uncatchable, path, 0, "native module %q has no Main symbol: %v", path, err)
	}
	mainFn, ok := mainSym.(func(*NativeInterface))
	if !ok {
		return nil, diag.New(diag.Uncatchable, path, 0, "native module %q: Main has the wrong signature", path)
	}

	premain(l.buildFuncTable())

	iface := &NativeInterface{
		Fns:     make(map[string]*values.FuncVal),
		Classes: make(map[string]*values.NativeClass),
	}
	mainFn(iface)

	mod := runtime.NewModule(path, true)
	for name, fn := range iface.Fns {
		mod.Fns[l.Ev.Ctx.Interner.Intern(name)] = fn
	}
	for name, nc := range iface.Classes {
		mod.NativeClasses[l.Ev.Ctx.Interner.Intern(name)] = nc
	}
	return mod, nil
}

// buildFuncTable wires the fixed ABI surface to this program's actual
// Context/Evaluator, so a native module's Premain gets the real
// interner, scope primitives, and wait counter rather than a stub.
func (l *Loader) buildFuncTable() *FuncTable {
	ev := l.Ev
	return &FuncTable{
		Intern: ev.Ctx.Interner.Intern,
		Name:   ev.Ctx.Interner.Name,

		DefineVar: func(s *runtime.Scope, name ident.ID, v values.Litr) { s.Define(name, v, false) },
		LookupVar: func(s *runtime.Scope, name ident.ID) (values.Litr, bool) {
			owner, idx, ok := s.Lookup(name)
			if !ok {
				return values.Litr{}, false
			}
			return owner.Vars[idx].Value, true
		},

		ParentScope: func(s *runtime.Scope) *runtime.Scope { return s.Parent },
		NewScope:    runtime.NewScope,

		CallLocal: func(fn *values.FuncVal, args []values.Litr) values.Litr {
			return ev.InvokeFuncValExternal(fn, args)
		},

		RegisterNativeClass: func(m *runtime.Module, name ident.ID, nc *values.NativeClass) {
			m.NativeClasses[name] = nc
		},

		NewPlanet: runtime.NewPlanet,

		CloneLocal: ev.CloneLocal,
		DropLocal:  ev.DropLocal,

		OutliveInc: ev.Refs.Retain,
		OutliveDec: ev.Refs.Release,

		WaitInc: ev.Ctx.Wait.Inc,
		WaitDec: ev.Ctx.Wait.Dec,
		Wait:    ev.Ctx.Wait.Wait,
	}
}
