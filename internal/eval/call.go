package eval

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
)

// calcCall implements call dispatch across the six Func
// variants: Local, Extern, Native, Method, Static, NativeMethod.
func (e *Evaluator) calcCall(n *ast.CallExpr, s *runtime.Scope) values.Litr {
	if v, ok := e.tryEvilIntrinsic(n, s); ok {
		return v
	}

	callee := e.Calc(n.Callee, s)
	if callee.Kind != values.Func {
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "cannot call a value of kind %s", callee.Kind))
	}

	args := values.GetArgs()
	for _, a := range n.Args {
		args = append(args, e.Calc(a, s))
	}
	defer values.PutArgs(args)

	return e.invokeFuncVal(callee, args)
}

// InvokeFuncValExternal lets a module loader (internal/plugin) call a
// Key function value from outside the evaluator's own statement
// dispatch — the `CallLocal` entry of the native-module function table
// needs exactly this.
func (e *Evaluator) InvokeFuncValExternal(fn *values.FuncVal, args []values.Litr) values.Litr {
	return e.invokeFuncVal(values.MkFunc(fn), args)
}

func (e *Evaluator) invokeFuncVal(fnVal values.Litr, args []values.Litr) values.Litr {
	fn := fnVal.Fn
	switch fn.Kind {
	case values.FuncLocal:
		return e.invokeLocal(fn, nil, args)

	case values.FuncMethod:
		var recv values.Litr
		if fn.Receiver != nil {
			recv = *fn.Receiver
		} else if len(args) > 0 {
			recv, args = args[0], args[1:]
		}
		return e.invokeMethod(fn, recv, args)

	case values.FuncStatic:
		return e.invokeLocal(fn, nil, args)

	case values.FuncNative:
		if fn.NativeFn == nil {
			diag.Panic(e.Ctx.fail(diag.TypeMismatch, "native function has no implementation bound"))
		}
		return fn.NativeFn(args)

	case values.FuncNativeMethod:
		if fn.NativeMethod == nil {
			diag.Panic(e.Ctx.fail(diag.TypeMismatch, "native method has no implementation bound"))
		}
		var recv values.Litr
		if fn.Receiver != nil {
			recv = *fn.Receiver
		}
		return fn.NativeMethod(recv, args)

	case values.FuncExtern:
		if fn.Extern == nil || (fn.Arity >= 0 && len(args) != fn.Arity) {
			diag.Panic(e.Ctx.fail(diag.ArityMismatch, "extern function expects %d argument(s), got %d", fn.Arity, len(args)))
		}
		return fn.Extern(args)
	}

	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "unsupported func kind"))
	return values.MkUninit()
}

func (e *Evaluator) invokeMethod(fn *values.FuncVal, recv values.Litr, args []values.Litr) values.Litr {
	return e.invokeLocal(fn, &recv, args)
}

func (e *Evaluator) invokeLocal(fn *values.FuncVal, recv *values.Litr, args []values.Litr) values.Litr {
	parent, _ := fn.Scope.(*runtime.Scope)
	child := runtime.NewScope(parent)
	if cd, ok := fn.Owner.(*values.ClassDef); ok {
		child.DefineClass(cd.Name, cd)
	}
	child.Kself = recv

	e.bindParams(child, fn.Params, args)

	ret := values.MkUninit()
	child.ReturnTo = &ret

	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	e.Ctx.pushFrame(name, e.Ctx.File, e.Ctx.Line)
	defer e.Ctx.popFrame()

	body, _ := fn.Body.(*ast.Statements)
	if body != nil {
		e.EvilBlockStatements(body.List, child)
	}
	e.Refs.Release(child)
	return ret
}

// bindParams implements parameter binding: positional by
// name, defaults for missing trailing args, and a single variadic
// "custom" parameter collecting the remainder into a List.
func (e *Evaluator) bindParams(s *runtime.Scope, params []values.Param, args []values.Litr) {
	ai := 0
	for _, p := range params {
		if p.Custom {
			rest := make([]values.Litr, len(args)-ai)
			copy(rest, args[ai:])
			s.Define(p.Name, values.MkList(rest), false)
			ai = len(args)
			continue
		}
		var v values.Litr
		switch {
		case ai < len(args):
			v = args[ai]
			ai++
		case p.Default != nil:
			v = p.Default()
		default:
			v = values.MkUninit()
		}
		s.Define(p.Name, v, false)
	}
}
