package runtime

import "github.com/keylang/key/internal/values"

// DestructorCallback is invoked once a scope's ref count has dropped to
// zero and its block has already ended — the point rule 4
// calls "reclaim its storage". The evaluator implements this to run
// any pending instance @drop hooks still reachable only through that
// scope, mirroring the classic callback-based destructor hookup
// (kept as an interface to avoid an import cycle between runtime and
// eval).
type DestructorCallback interface {
	OnScopeReclaimed(s *Scope)
}

// RefCountManager implements the five scope-outlive rules.
// Kept as an interface plus default implementation, split from
// DestructorCallback, so tests can substitute a recording fake.
type RefCountManager interface {
	// Retain implements rule 1: creating a Func::Local increments
	// outlive.count on its defining scope and every parent scope.
	Retain(defining *Scope)

	// RecordCrossScope implements rule 2: assigning a Func::Local into
	// a variable attached to a different scope records the function on
	// that owner scope's to_drop list.
	RecordCrossScope(owner *Scope, fn *values.FuncVal)

	// PromoteStatic implements rule 3: exporting a function promotes
	// its defining scope chain to static-outlive.
	PromoteStatic(defining *Scope)

	// Release implements rule 4 (and drives rule 5 via the caller
	// recursing into nested values before calling RecordCrossScope):
	// marks s ended, processes its to_drop list, and reclaims any
	// scope whose count reaches zero once ended.
	Release(s *Scope)
}

type refCountManager struct {
	destructor DestructorCallback
}

// NewRefCountManager builds the default RefCountManager, notifying cb
// (if non-nil) whenever a scope is actually reclaimed.
func NewRefCountManager(cb DestructorCallback) RefCountManager {
	return &refCountManager{destructor: cb}
}

func (m *refCountManager) Retain(defining *Scope) {
	for cur := defining; cur != nil; cur = cur.Parent {
		cur.Outlive.Count++
	}
}

func (m *refCountManager) RecordCrossScope(owner *Scope, fn *values.FuncVal) {
	owner.Outlive.ToDrop = append(owner.Outlive.ToDrop, fn)
}

func (m *refCountManager) PromoteStatic(defining *Scope) {
	for cur := defining; cur != nil; cur = cur.Parent {
		cur.Outlive.Static = true
	}
}

func (m *refCountManager) Release(s *Scope) {
	s.Ended = true

	for _, fn := range s.Outlive.ToDrop {
		defScope, _ := fn.Scope.(*Scope)
		for cur := defScope; cur != nil; cur = cur.Parent {
			if cur.Outlive.Static {
				continue
			}
			cur.Outlive.Count--
			if cur.Outlive.Count <= 0 && cur.Ended {
				m.reclaim(cur)
			}
		}
	}
	s.Outlive.ToDrop = nil

	if s.Outlive.Count <= 0 && !s.Outlive.Static {
		m.reclaim(s)
	}
}

func (m *refCountManager) reclaim(s *Scope) {
	if m.destructor != nil {
		m.destructor.OnScopeReclaimed(s)
	}
	// Drop references so the payloads (and any instances only reachable
	// through them) become collectible by Go's own GC. Key's outlive
	// algorithm only decides *when* a scope may go; actual memory
	// reclamation is still the host GC's job.
	s.Vars = nil
	s.ClassDefs = nil
	s.ClassUses = nil
}

// RecordValueOutlives walks v recursively and, for every Func::Local/Method/
// Static found, records a cross-scope to_drop entry on owner if its
// defining scope differs from owner.
func RecordValueOutlives(m RefCountManager, owner *Scope, v values.Litr) {
	switch v.Kind {
	case values.Func:
		if v.Fn == nil {
			return
		}
		switch v.Fn.Kind {
		case values.FuncLocal, values.FuncMethod, values.FuncStatic:
			if defScope, ok := v.Fn.Scope.(*Scope); ok && defScope != owner {
				m.RecordCrossScope(owner, v.Fn)
			}
		}
	case values.List:
		for _, e := range v.List {
			RecordValueOutlives(m, owner, e)
		}
	case values.Obj:
		for _, e := range v.Obj {
			RecordValueOutlives(m, owner, e.Val)
		}
	case values.Inst:
		if v.Inst != nil {
			for _, e := range v.Inst.Slots {
				RecordValueOutlives(m, owner, e)
			}
		}
	}
}
