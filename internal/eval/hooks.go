package eval

import (
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// OnScopeReclaimed satisfies runtime.DestructorCallback: once a scope's
// outlive count reaches zero, any Inst/Ninst value still held directly
// in its variable list runs its @drop hook.
func (e *Evaluator) OnScopeReclaimed(s *runtime.Scope) {
	for _, v := range s.Vars {
		e.runDrop(v.Value)
	}
}

func (e *Evaluator) runDrop(v values.Litr) {
	switch v.Kind {
	case values.Inst:
		if v.Inst == nil {
			return
		}
		dropID := e.Ctx.Interner.Intern("@drop")
		if md, ok := findMethod(v.Inst.Class, int32(dropID)); ok {
			e.invokeMethod(md.Fn, v, nil)
		}
	case values.Ninst:
		if v.Ninst != nil && v.Ninst.Class != nil && v.Ninst.Class.OnDrop != nil {
			v.Ninst.Class.OnDrop(v.Ninst)
		}
	}
}

// runClone invokes @clone if the class declares one, else falls back to
// a shallow slot copy.
func (e *Evaluator) runClone(v values.Litr) values.Litr {
	switch v.Kind {
	case values.Inst:
		if v.Inst == nil {
			return v
		}
		cloneID := e.Ctx.Interner.Intern("@clone")
		if md, ok := findMethod(v.Inst.Class, int32(cloneID)); ok {
			return e.invokeMethod(md.Fn, v, nil)
		}
		slots := values.GetSlots(len(v.Inst.Slots))
		copy(slots, v.Inst.Slots)
		return values.MkInst(&values.InstVal{Class: v.Inst.Class, Slots: slots})
	case values.Ninst:
		if v.Ninst != nil && v.Ninst.Class != nil && v.Ninst.Class.OnClone != nil {
			return v.Ninst.Class.OnClone(v.Ninst)
		}
		return v
	}
	return v
}

func identNextName(e *Evaluator) ident.ID { return e.Ctx.Interner.Intern("@next") }

// CloneLocal exposes runClone to a native module through the plugin
// ABI's FuncTable, so host code can clone a local-instance value with
// the same @clone semantics script code gets.
func (e *Evaluator) CloneLocal(v values.Litr) values.Litr { return e.runClone(v) }

// DropLocal exposes runDrop to a native module through the plugin
// ABI's FuncTable, running @drop on a local-instance value the host is
// done with.
func (e *Evaluator) DropLocal(v values.Litr) { e.runDrop(v) }
