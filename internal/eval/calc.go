package eval

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
)

// Calc evaluates an expression to a value.
func (e *Evaluator) Calc(x ast.Expression, s *runtime.Scope) values.Litr {
	e.Ctx.Line = x.Pos().Line

	switch n := x.(type) {
	case *ast.IntLit:
		return values.MkInt(n.Value)
	case *ast.UintLit:
		return values.MkUint(n.Value)
	case *ast.FloatLit:
		return values.MkFloat(n.Value)
	case *ast.BoolLit:
		return values.MkBool(n.Value)
	case *ast.StrLit:
		return values.MkStr(n.Value)
	case *ast.BufLit:
		return values.MkBuf(n.Value)
	case *ast.UninitLit:
		return values.MkUninit()

	case *ast.Variant:
		id := e.Ctx.Interner.Intern(n.Name)
		owner, idx, ok := s.Lookup(id)
		if !ok {
			diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "undefined identifier %q", n.Name))
		}
		return owner.Vars[idx].Value

	case *ast.KselfExpr:
		if s.Kself == nil {
			diag.Panic(e.Ctx.fail(diag.TypeMismatch, "self used outside a method"))
		}
		return *s.Kself

	case *ast.FuncLit:
		fn := &values.FuncVal{Kind: values.FuncLocal, Name: "<closure>", Params: convertParams(e, n.Params), Body: n.Body, Scope: s}
		e.Refs.Retain(s)
		return values.MkFunc(fn)

	case *ast.ListExpr:
		elems := make([]values.Litr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = e.Calc(el, s)
		}
		return values.MkList(elems)

	case *ast.ObjExpr:
		entries := make([]values.ObjEntry, len(n.Fields))
		for i, f := range n.Fields {
			entries[i] = values.ObjEntry{Key: e.Ctx.Interner.Intern(f.Name), Val: e.Calc(f.Value, s)}
		}
		return values.MkObj(entries)

	case *ast.NewInstExpr:
		return e.calcNewInst(n, s)

	case *ast.PropertyExpr:
		return e.calcProperty(n, s)

	case *ast.IndexExpr:
		return e.calcIndex(n, s)

	case *ast.ModAccExpr:
		return e.calcModAcc(n, s)

	case *ast.ImplAccExpr:
		return e.calcImplAcc(n, s)

	case *ast.CallExpr:
		return e.calcCall(n, s)

	case *ast.UnaryExpr:
		return e.calcUnary(n, s)

	case *ast.BinaryExpr:
		return e.calcBinary(n, s)
	}

	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "unsupported expression %T", x))
	return values.MkUninit()
}

func convertParams(e *Evaluator, params []ast.Param) []values.Param {
	out := make([]values.Param, len(params))
	for i, p := range params {
		vp := values.Param{Name: e.Ctx.Interner.Intern(p.Name), Custom: p.Custom}
		if p.Default != nil {
			def := p.Default
			vp.Default = func() values.Litr { return e.Calc(def, nil) }
		}
		out[i] = vp
	}
	return out
}

// Ref is an assignable location calc_ref resolves to: a scope binding,
// a list element, an object entry, or an instance slot.
type Ref struct {
	kind refKind

	scope *runtime.Scope
	idx   int // var index, list index, or slot index

	list []values.Litr // backing storage for List refs

	objEntries []values.ObjEntry

	instSlots []values.Litr
}

type refKind int

const (
	refVar refKind = iota
	refList
	refObjEntry
	refInstSlot
)

func (r *Ref) Get() values.Litr {
	switch r.kind {
	case refVar:
		return r.scope.Vars[r.idx].Value
	case refList:
		return r.list[r.idx]
	case refObjEntry:
		return r.objEntries[r.idx].Val
	case refInstSlot:
		return r.instSlots[r.idx]
	}
	return values.MkUninit()
}

func (r *Ref) Set(v values.Litr) {
	switch r.kind {
	case refVar:
		r.scope.Vars[r.idx].Value = v
	case refList:
		r.list[r.idx] = v
	case refObjEntry:
		r.objEntries[r.idx].Val = v
	case refInstSlot:
		r.instSlots[r.idx] = v
	}
}

func (r *Ref) Locked() bool {
	return r.kind == refVar && r.scope.Vars[r.idx].Locked
}

func (r *Ref) OwnerScope() *runtime.Scope {
	if r.kind == refVar {
		return r.scope
	}
	return nil
}

// CalcRef evaluates x to an assignable reference where possible:
// a Variant, a PropertyExpr on an Obj/Inst, or an IndexExpr on a List.
func (e *Evaluator) CalcRef(x ast.Expression, s *runtime.Scope) *Ref {
	switch n := x.(type) {
	case *ast.Variant:
		id := e.Ctx.Interner.Intern(n.Name)
		owner, idx, ok := s.Lookup(id)
		if !ok {
			diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "undefined identifier %q", n.Name))
		}
		return &Ref{kind: refVar, scope: owner, idx: idx}

	case *ast.IndexExpr:
		left := e.Calc(n.Left, s)
		idxVal := e.Calc(n.Index, s)
		if left.Kind != values.List {
			diag.Panic(e.Ctx.fail(diag.TypeMismatch, "index assignment target is not a List"))
		}
		i := indexOf(e, idxVal)
		if i < 0 || i >= len(left.List) {
			diag.Panic(e.Ctx.fail(diag.IndexOutOfRange, "index %d out of range (len %d)", i, len(left.List)))
		}
		return &Ref{kind: refList, list: left.List, idx: i}

	case *ast.PropertyExpr:
		left := e.Calc(n.Left, s)
		nameID := e.Ctx.Interner.Intern(n.Name)
		switch left.Kind {
		case values.Obj:
			for i, entry := range left.Obj {
				if entry.Key == nameID {
					return &Ref{kind: refObjEntry, objEntries: left.Obj, idx: i}
				}
			}
			diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "object has no entry %q", n.Name))
		case values.Inst:
			idx, ok := e.instSlotIndex(left.Inst, int32(nameID), s)
			if !ok {
				diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "unknown property %q", n.Name))
			}
			return &Ref{kind: refInstSlot, instSlots: left.Inst.Slots, idx: idx}
		}
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "property assignment target is not an Obj or Inst"))
	}

	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "expression is not assignable"))
	return nil
}

func indexOf(e *Evaluator, v values.Litr) int {
	switch v.Kind {
	case values.Int:
		return int(v.I)
	case values.Uint:
		return int(v.U)
	}
	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "index must be Int or Uint"))
	return -1
}
