package eval

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
)

// evilMod loads the module at n.Path (cached by path for the life of
// the run, "a module loads at most once") and binds it to
// n.Alias in s.
func (e *Evaluator) evilMod(n *ast.ModStmt, s *runtime.Scope) {
	if e.Ctx.Loader == nil {
		diag.Panic(e.Ctx.fail(diag.Uncatchable, "no module loader configured"))
	}
	if e.Ctx.Modules == nil {
		e.Ctx.Modules = make(map[string]*runtime.Module)
	}
	mod, ok := e.Ctx.Modules[n.Path]
	if !ok {
		loaded, err := e.Ctx.Loader.Load(n.Path, n.Native)
		if err != nil {
			diag.Panic(e.Ctx.fail(diag.Uncatchable, "loading module %q: %v", n.Path, err))
		}
		mod = loaded
		e.Ctx.Modules[n.Path] = mod
		if mod.Scope != nil {
			e.Refs.PromoteStatic(mod.Scope)
		}
	}
	s.DefineModuleAlias(e.Ctx.Interner.Intern(n.Alias), mod)
}

// evilExport promotes a function or class definition into the current
// module's exports, and promotes the defining scope chain to
// static-outlive so the exported closure keeps its captured environment
// for the program's life.
func (e *Evaluator) evilExport(n *ast.ExportStmt, s *runtime.Scope) {
	mod := s.CurrentModule()
	if mod == nil {
		diag.Panic(e.Ctx.fail(diag.Uncatchable, "export used outside a module"))
	}
	nameID := e.Ctx.Interner.Intern(n.Name)

	switch n.Kind {
	case ast.ExportFn:
		fn := &values.FuncVal{Kind: values.FuncLocal, Name: n.Name, Params: convertParams(e, n.Fn.Params), Body: n.Fn.Body, Scope: s}
		mod.ExportFn(nameID, fn)
		e.Refs.PromoteStatic(s)
	case ast.ExportCls:
		cd := e.buildClass(n.Cls, s)
		mod.ExportClass(nameID, cd)
		s.DefineClass(nameID, cd)
		e.Refs.PromoteStatic(s)
	}
}

func (e *Evaluator) lookupModule(alias string, s *runtime.Scope) *runtime.Module {
	m, ok := s.FindModuleAlias(e.Ctx.Interner.Intern(alias))
	if !ok {
		diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "undefined module alias %q", alias))
	}
	return m
}

// calcModAcc implements `mod-.name` as a value. `mod-:Name` (ModClsAcc)
// only makes sense as a class reference — resolveClassExpr handles that
// production directly from NewInstExpr/ImplAccExpr/UsingStmt without
// routing through Calc, since a class is not itself a Litr value.
func (e *Evaluator) calcModAcc(n *ast.ModAccExpr, s *runtime.Scope) values.Litr {
	mod := e.lookupModule(n.Module, s)
	nameID := e.Ctx.Interner.Intern(n.Name)

	if n.Kind == ast.ModClsAcc {
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "a class reference cannot be used as a value"))
	}

	fn, ok := mod.FindFn(nameID)
	if !ok {
		diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "module %q has no function %q", n.Module, n.Name))
	}
	return values.MkFunc(fn)
}
