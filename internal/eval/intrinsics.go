package eval

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/parse"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/scan"
	"github.com/keylang/key/internal/values"
)

// evilIntrinsicName is the one call-site special case the evaluator
// itself handles: `evil(code)` scans and runs a string/buffer in the
// calling scope. Every other intrinsic (log, built-in
// method tables, Json/Cfg) is an ordinary Func value registered by
// internal/builtins into the scope or onto a receiver, needing no
// special casing here.
const evilIntrinsicName = "evil"

// tryEvilIntrinsic handles a bare `evil(...)` call unless the caller
// has shadowed the name with its own binding, in which case ordinary
// call dispatch takes over.
func (e *Evaluator) tryEvilIntrinsic(n *ast.CallExpr, s *runtime.Scope) (values.Litr, bool) {
	v, ok := n.Callee.(*ast.Variant)
	if !ok || v.Name != evilIntrinsicName {
		return values.Litr{}, false
	}
	if _, _, shadowed := s.Lookup(e.Ctx.Interner.Intern(evilIntrinsicName)); shadowed {
		return values.Litr{}, false
	}
	if len(n.Args) != 1 {
		diag.Panic(e.Ctx.fail(diag.ArityMismatch, "evil expects exactly one argument"))
	}

	arg := e.Calc(n.Args[0], s)
	var src string
	switch arg.Kind {
	case values.Str:
		src = arg.S
	case values.Buf:
		src = string(arg.Bf)
	default:
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "evil requires a Str or Buf argument"))
	}

	p := parse.New(scan.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		diag.Panic(e.Ctx.fail(diag.Uncatchable, "evil: %s", errs[0]))
	}

	ret := values.MkUninit()
	child := runtime.NewScope(s)
	child.Exports = s.Exports
	child.Kself = s.Kself
	child.ReturnTo = &ret
	e.EvilBlockStatements(prog.List, child)
	e.Refs.Release(child)
	return ret, true
}
