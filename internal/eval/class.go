package eval

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// buildClass compiles a ClassStmt into a *values.ClassDef, bound to
// the module owning the current scope. Alongside each declaration
// slice it builds the matching name->index map once, so member lookup
// against a class with many props/methods doesn't scan linearly on
// every property access.
func (e *Evaluator) buildClass(n *ast.ClassStmt, s *runtime.Scope) *values.ClassDef {
	cd := &values.ClassDef{
		Name:      e.Ctx.Interner.Intern(n.Name),
		Module:    s.CurrentModule(),
		PropIdx:   ident.NewMap[int](e.Ctx.Interner),
		MethodIdx: ident.NewMap[int](e.Ctx.Interner),
		StaticIdx: ident.NewMap[int](e.Ctx.Interner),
	}
	for _, p := range n.Props {
		id := e.Ctx.Interner.Intern(p.Name)
		cd.PropIdx.Set(id, len(cd.Props))
		cd.Props = append(cd.Props, values.PropDef{Name: id, Public: p.Public})
	}
	for _, m := range n.Methods {
		fn := &values.FuncVal{
			Kind:   values.FuncMethod,
			Name:   n.Name + "." + m.Name,
			Params: convertParams(e, m.Fn.Params),
			Body:   m.Fn.Body,
			Scope:  s,
			Owner:  cd,
		}
		id := e.Ctx.Interner.Intern(m.Name)
		cd.MethodIdx.Set(id, len(cd.Methods))
		cd.Methods = append(cd.Methods, values.MethodDef{Name: id, Fn: fn, Public: m.Public})
	}
	for _, m := range n.Statics {
		fn := &values.FuncVal{
			Kind:   values.FuncStatic,
			Name:   n.Name + "::" + m.Name,
			Params: convertParams(e, m.Fn.Params),
			Body:   m.Fn.Body,
			Scope:  s,
			Owner:  cd,
		}
		id := e.Ctx.Interner.Intern(m.Name)
		cd.StaticIdx.Set(id, len(cd.Statics))
		cd.Statics = append(cd.Statics, values.MethodDef{Name: id, Fn: fn, Public: m.Public})
	}
	return cd
}

func (e *Evaluator) resolveClassExpr(x ast.Expression, s *runtime.Scope) *values.ClassDef {
	switch n := x.(type) {
	case *ast.Variant:
		cd, ok := s.FindClass(e.Ctx.Interner.Intern(n.Name))
		if !ok {
			diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "undefined class %q", n.Name))
		}
		return cd
	case *ast.ModAccExpr:
		if n.Kind != ast.ModClsAcc {
			diag.Panic(e.Ctx.fail(diag.TypeMismatch, "expected a module class accessor"))
		}
		mod := e.lookupModule(n.Module, s)
		cd, ok := mod.FindClassIn(e.Ctx.Interner.Intern(n.Name))
		if !ok {
			diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "module %q has no class %q", n.Module, n.Name))
		}
		return cd
	}
	v := e.Calc(x, s)
	_ = v
	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "expression does not reference a class"))
	return nil
}

func findMethod(cd *values.ClassDef, name int32) (*values.MethodDef, bool) {
	i, ok := cd.MethodIdx.Get(ident.ID(name))
	if !ok {
		return nil, false
	}
	return &cd.Methods[i], true
}

func findStatic(cd *values.ClassDef, name int32) (*values.MethodDef, bool) {
	i, ok := cd.StaticIdx.Get(ident.ID(name))
	if !ok {
		return nil, false
	}
	return &cd.Statics[i], true
}

func propIndex(cd *values.ClassDef, name int32) (int, bool) {
	return cd.PropIdx.Get(ident.ID(name))
}

// checkVisibility enforces member visibility: a non-public member is
// accessible only when the current scope's module equals the class's
// owning module.
func (e *Evaluator) checkVisibility(public bool, owner any, s *runtime.Scope) {
	if public {
		return
	}
	if s.CurrentModule() != owner {
		diag.Panic(e.Ctx.fail(diag.VisibilityViolation, "member is not public outside its defining module"))
	}
}

func (e *Evaluator) instSlotIndex(inst *values.InstVal, name int32, s *runtime.Scope) (int, bool) {
	idx, ok := propIndex(inst.Class, name)
	if !ok {
		return -1, false
	}
	e.checkVisibility(inst.Class.Props[idx].Public, inst.Class.Module, s)
	return idx, true
}

func (e *Evaluator) calcNewInst(n *ast.NewInstExpr, s *runtime.Scope) values.Litr {
	cd := e.resolveClassExpr(n.Class, s)
	slots := values.GetSlots(len(cd.Props))
	for i := range slots {
		slots[i] = values.MkUninit()
	}
	for _, f := range n.Fields {
		nameID := e.Ctx.Interner.Intern(f.Name)
		idx, ok := propIndex(cd, int32(nameID))
		if !ok {
			diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "unknown property %q on class", f.Name))
		}
		e.checkVisibility(cd.Props[idx].Public, cd.Module, s)
		slots[idx] = e.Calc(f.Value, s)
	}
	return values.MkInst(&values.InstVal{Class: cd, Slots: slots})
}

// calcProperty implements four-way property dispatch.
func (e *Evaluator) calcProperty(n *ast.PropertyExpr, s *runtime.Scope) values.Litr {
	left := e.Calc(n.Left, s)
	nameID := e.Ctx.Interner.Intern(n.Name)

	switch left.Kind {
	case values.Inst:
		if idx, ok := e.instSlotIndex(left.Inst, int32(nameID), s); ok {
			return left.Inst.Slots[idx]
		}
		if md, ok := findMethod(left.Inst.Class, int32(nameID)); ok {
			e.checkVisibility(md.Public, left.Inst.Class.Module, s)
			bound := *md.Fn
			recv := left
			bound.Receiver = &recv
			return values.MkFunc(&bound)
		}
		diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "unknown property or method %q", n.Name))

	case values.Obj:
		for _, entry := range left.Obj {
			if entry.Key == nameID {
				return entry.Val
			}
		}
		return values.MkUninit()

	case values.Ninst:
		if left.Ninst.Class != nil && left.Ninst.Class.Getter != nil {
			if v, ok := left.Ninst.Class.Getter(left.Ninst, nameID); ok {
				return v
			}
		}
		diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "unknown native property %q", n.Name))

	default:
		return e.builtinMethodValue(left, nameID, n.Name, s)
	}
	return values.MkUninit()
}

func (e *Evaluator) calcIndex(n *ast.IndexExpr, s *runtime.Scope) values.Litr {
	left := e.Calc(n.Left, s)
	idxVal := e.Calc(n.Index, s)
	switch left.Kind {
	case values.List:
		i := indexOf(e, idxVal)
		if i < 0 || i >= len(left.List) {
			diag.Panic(e.Ctx.fail(diag.IndexOutOfRange, "index %d out of range (len %d)", i, len(left.List)))
		}
		return left.List[i]
	case values.Str:
		i := indexOf(e, idxVal)
		r := []rune(left.S)
		if i < 0 || i >= len(r) {
			diag.Panic(e.Ctx.fail(diag.IndexOutOfRange, "index %d out of range (len %d)", i, len(r)))
		}
		return values.MkStr(string(r[i]))
	case values.Buf:
		i := indexOf(e, idxVal)
		if i < 0 || i >= len(left.Bf) {
			diag.Panic(e.Ctx.fail(diag.IndexOutOfRange, "index %d out of range (len %d)", i, len(left.Bf)))
		}
		return values.MkUint(uint64(left.Bf[i]))
	case values.Ninst:
		if left.Ninst.Class != nil && left.Ninst.Class.IndexGet != nil {
			return left.Ninst.Class.IndexGet(left.Ninst, idxVal)
		}
	}
	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "value of kind %s is not indexable", left.Kind))
	return values.MkUninit()
}

func (e *Evaluator) calcImplAcc(n *ast.ImplAccExpr, s *runtime.Scope) values.Litr {
	cd := e.resolveClassExpr(n.Left, s)
	nameID := e.Ctx.Interner.Intern(n.Name)
	if md, ok := findStatic(cd, int32(nameID)); ok {
		e.checkVisibility(md.Public, cd.Module, s)
		return values.MkFunc(md.Fn)
	}
	if md, ok := findMethod(cd, int32(nameID)); ok {
		e.checkVisibility(md.Public, cd.Module, s)
		return values.MkFunc(md.Fn)
	}
	diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "class has no static/method %q", n.Name))
	return values.MkUninit()
}
