package eval

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// Evaluator holds the state shared by evil/calc/calc_ref and the
// refcount manager driving scope reclamation.
type Evaluator struct {
	Ctx  *Context
	Refs runtime.RefCountManager
}

// New builds an Evaluator. The Evaluator itself is the
// runtime.DestructorCallback notified when a scope is reclaimed, so it
// can run pending @drop hooks on instances that scope was still
// holding.
func New(ctx *Context) *Evaluator {
	e := &Evaluator{}
	e.Ctx = ctx
	e.Refs = runtime.NewRefCountManager(e)
	return e
}

// ctrlKind is the control-flow signal a statement execution can
// produce; break/continue/return are structural, not errors, so they
// propagate as ordinary return values rather than panics — panics are
// reserved for the diag.Error kinds' own "panic mechanism".
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

type ctrl struct{ kind ctrlKind }

var sigNone = ctrl{kind: ctrlNone}

// Run evaluates a full program in a fresh top scope, returning the
// top-level `return` value (Uninit if none) and the runtime error if
// an uncaught one escaped.
func (e *Evaluator) Run(prog *ast.Statements, top *runtime.Scope) (result values.Litr, err *diag.Error) {
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diag.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	ret := values.MkUninit()
	top.ReturnTo = &ret
	e.EvilBlockStatements(prog.List, top)
	e.Refs.Release(top)
	return ret, nil
}

// EvilBlockStatements executes a statement list in scope s without
// creating an additional child scope (the caller already owns s) and
// returns the first non-None control signal encountered.
func (e *Evaluator) EvilBlockStatements(list []ast.Statement, s *runtime.Scope) ctrl {
	for _, st := range list {
		if c := e.Evil(st, s); c.kind != ctrlNone {
			return c
		}
	}
	return sigNone
}

// Evil executes one statement.
func (e *Evaluator) Evil(st ast.Statement, s *runtime.Scope) ctrl {
	e.Ctx.Line = st.Pos().Line
	if e.Ctx.Trace != nil {
		e.Ctx.Trace(e.Ctx.File, e.Ctx.Line)
	}

	switch n := st.(type) {
	case *ast.ExprStmt:
		if _, isVariant := n.X.(*ast.Variant); isVariant {
			return sigNone // bare variable expression is a no-op
		}
		e.Calc(n.X, s)
		return sigNone

	case *ast.LetStmt:
		e.evilLet(n, s)
		return sigNone

	case *ast.LockStmt:
		id := e.Ctx.Interner.Intern(n.Name)
		if !s.Lock(id) {
			diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "cannot lock undefined identifier %q", n.Name))
		}
		return sigNone

	case *ast.BlockStmt:
		child := runtime.NewScope(s)
		child.Exports = s.Exports
		child.Kself = s.Kself
		child.ReturnTo = s.ReturnTo
		c := e.EvilBlockStatements(n.List, child)
		e.Refs.Release(child)
		return c

	case *ast.IfStmt:
		if e.Calc(n.Cond, s).Truthy() {
			return e.Evil(n.Then, s)
		}
		if n.Else != nil {
			return e.Evil(n.Else, s)
		}
		return sigNone

	case *ast.ForLoopStmt:
		for {
			if c := e.Evil(n.Body, s); c.kind == ctrlBreak {
				break
			} else if c.kind == ctrlReturn {
				return c
			}
		}
		return sigNone

	case *ast.ForWhileStmt:
		for e.Calc(n.Cond, s).Truthy() {
			if c := e.Evil(n.Body, s); c.kind == ctrlBreak {
				break
			} else if c.kind == ctrlReturn {
				return c
			}
		}
		return sigNone

	case *ast.ForIterStmt:
		return e.evilForIter(n, s)

	case *ast.BreakStmt:
		return ctrl{kind: ctrlBreak}

	case *ast.ContinueStmt:
		return ctrl{kind: ctrlContinue}

	case *ast.ReturnStmt:
		if s.ReturnTo != nil {
			if n.Value != nil {
				*s.ReturnTo = e.Calc(n.Value, s)
			} else {
				*s.ReturnTo = values.MkUninit()
			}
		}
		return ctrl{kind: ctrlReturn}

	case *ast.ThrowStmt:
		v := e.Calc(n.Value, s)
		de := diag.Thrown(e.Ctx.File, e.Ctx.Line, v)
		de.Stack = e.Ctx.snapshotStack()
		diag.Panic(de)
		return sigNone

	case *ast.TryStmt:
		return e.evilTry(n, s)

	case *ast.MatchStmt:
		return e.evilMatch(n, s)

	case *ast.ClassStmt:
		s.DefineClass(e.Ctx.Interner.Intern(n.Name), e.buildClass(n, s))
		return sigNone

	case *ast.UsingStmt:
		cd := e.resolveClassExpr(n.Class, s)
		s.UseClass(e.Ctx.Interner.Intern(n.Alias), cd)
		return sigNone

	case *ast.ModStmt:
		e.evilMod(n, s)
		return sigNone

	case *ast.ExportStmt:
		e.evilExport(n, s)
		return sigNone
	}

	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "unsupported statement %T", st))
	return sigNone
}

func (e *Evaluator) evilTry(n *ast.TryStmt, s *runtime.Scope) (c ctrl) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok || !de.Catchable() {
				panic(r)
			}
			catchScope := runtime.NewScope(s)
			catchScope.Exports = s.Exports
			catchScope.Kself = s.Kself
			catchScope.ReturnTo = s.ReturnTo
			val := de.Value
			if de.Kind != diag.UserThrown {
				val = values.MkStr(de.Message)
			}
			catchScope.Define(e.Ctx.Interner.Intern(n.Catch.Name), val, false)
			c = e.EvilBlockStatements(n.Catch.Body.List, catchScope)
			e.Refs.Release(catchScope)
		}
	}()
	return e.Evil(n.Body, s)
}

func (e *Evaluator) evilMatch(n *ast.MatchStmt, s *runtime.Scope) ctrl {
	scrutinee := e.Calc(n.Scrutinee, s)
	for _, arm := range n.Arms {
		for _, cond := range arm.Conds {
			if e.matchCond(scrutinee, cond, s) {
				return e.Evil(arm.Body, s)
			}
		}
	}
	if n.Default != nil {
		return e.Evil(n.Default, s)
	}
	return sigNone
}

func (e *Evaluator) matchCond(scrutinee values.Litr, cond ast.MatchCond, s *runtime.Scope) bool {
	rhs := e.Calc(cond.X, s)
	switch cond.Cmp {
	case ast.MatchEQ:
		return values.Equal(scrutinee, rhs)
	case ast.MatchLT, ast.MatchLE, ast.MatchGT, ast.MatchGE:
		c, ok := values.Compare(scrutinee, rhs)
		if !ok {
			diag.Panic(e.Ctx.fail(diag.TypeMismatch, "values are not ordered for match comparison"))
		}
		switch cond.Cmp {
		case ast.MatchLT:
			return c < 0
		case ast.MatchLE:
			return c <= 0
		case ast.MatchGT:
			return c > 0
		case ast.MatchGE:
			return c >= 0
		}
	}
	return false
}

// evilLet binds the evaluated right-hand side to the left-hand target.
// `take` (LetStmt.Take) binds the value as-is, aliasing whatever
// instance the right-hand side produced; the default, copying form
// clones instance values first so the new binding owns an independent
// slot array, matching every other copying assignment in calcAssign.
// A right-hand side that is a class literal (`Box{...}`) builds a fresh
// instance nothing else holds, so it is bound without a clone.
func (e *Evaluator) evilLet(n *ast.LetStmt, s *runtime.Scope) {
	val := e.Calc(n.Value, s)
	_, fresh := n.Value.(*ast.NewInstExpr)
	bind := func(v values.Litr) values.Litr {
		if n.Take || fresh {
			return v
		}
		return e.runClone(v)
	}
	switch {
	case n.Target.Name != "":
		id := e.Ctx.Interner.Intern(n.Target.Name)
		s.Define(id, bind(val), n.Const)
	case n.Target.List != nil:
		elems := val.List
		for i, nm := range n.Target.List {
			var v values.Litr
			if i < len(elems) {
				v = elems[i]
			} else {
				v = values.MkUninit()
			}
			s.Define(e.Ctx.Interner.Intern(nm), bind(v), n.Const)
		}
	case n.Target.Obj != nil:
		for _, nm := range n.Target.Obj {
			id := e.Ctx.Interner.Intern(nm)
			v := values.MkUninit()
			for _, entry := range val.Obj {
				if entry.Key == id {
					v = entry.Val
					break
				}
			}
			s.Define(id, bind(v), n.Const)
		}
	}
}

func (e *Evaluator) evilForIter(n *ast.ForIterStmt, s *runtime.Scope) ctrl {
	iterVal := e.Calc(n.Iter, s)
	it := e.newIterator(iterVal)
	defer it.Release()

	hasID := n.Id != ""
	var idID ident.ID
	if hasID {
		idID = e.Ctx.Interner.Intern(n.Id)
	}

	for {
		v, ok := it.Next(e)
		if !ok {
			break
		}
		child := runtime.NewScope(s)
		child.Exports = s.Exports
		child.Kself = s.Kself
		child.ReturnTo = s.ReturnTo
		if hasID {
			child.Define(idID, v, false)
		}
		c := e.EvilBlockStatements(n.Body.List, child)
		e.Refs.Release(child)
		if c.kind == ctrlBreak {
			break
		}
		if c.kind == ctrlReturn {
			return c
		}
	}
	return sigNone
}
