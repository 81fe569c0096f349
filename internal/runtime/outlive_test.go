package runtime

import (
	"testing"

	"github.com/keylang/key/internal/values"
)

type recordingDestructor struct {
	reclaimed []*Scope
}

func (d *recordingDestructor) OnScopeReclaimed(s *Scope) {
	d.reclaimed = append(d.reclaimed, s)
}

func TestRetainIncrementsCountUpTheParentChain(t *testing.T) {
	root := NewScope(nil)
	child := NewScope(root)
	grandchild := NewScope(child)

	m := NewRefCountManager(nil)
	m.Retain(grandchild)

	if root.Outlive.Count != 1 || child.Outlive.Count != 1 || grandchild.Outlive.Count != 1 {
		t.Fatalf("expected count 1 at every ancestor, got root=%d child=%d grandchild=%d",
			root.Outlive.Count, child.Outlive.Count, grandchild.Outlive.Count)
	}
}

func TestReleaseWithZeroCountReclaimsImmediately(t *testing.T) {
	d := &recordingDestructor{}
	m := NewRefCountManager(d)

	s := NewScope(nil)
	s.Define(1, values.MkInt(1), false)
	m.Release(s)

	if !s.Ended {
		t.Fatalf("expected scope marked Ended")
	}
	if len(d.reclaimed) != 1 || d.reclaimed[0] != s {
		t.Fatalf("expected the scope to be reclaimed exactly once, got %v", d.reclaimed)
	}
	if s.Vars != nil {
		t.Fatalf("expected reclaimed scope's Vars cleared")
	}
}

func TestReleaseWithPositiveCountDefersReclaim(t *testing.T) {
	d := &recordingDestructor{}
	m := NewRefCountManager(d)

	s := NewScope(nil)
	m.Retain(s) // count = 1, simulating a captured closure
	m.Release(s)

	if !s.Ended {
		t.Fatalf("expected scope marked Ended even while retained")
	}
	if len(d.reclaimed) != 0 {
		t.Fatalf("expected no reclaim while Outlive.Count > 0, got %v", d.reclaimed)
	}
}

func TestStaticScopeNeverReclaimed(t *testing.T) {
	d := &recordingDestructor{}
	m := NewRefCountManager(d)

	s := NewScope(nil)
	m.PromoteStatic(s)
	m.Release(s)

	if len(d.reclaimed) != 0 {
		t.Fatalf("expected a static-promoted scope to never reclaim, got %v", d.reclaimed)
	}
}

func TestPromoteStaticAppliesToAncestors(t *testing.T) {
	root := NewScope(nil)
	child := NewScope(root)

	m := NewRefCountManager(nil)
	m.PromoteStatic(child)

	if !root.Outlive.Static || !child.Outlive.Static {
		t.Fatalf("expected PromoteStatic to mark the whole ancestor chain static")
	}
}

func TestCrossScopeRecordDropsOwnerCountOnRelease(t *testing.T) {
	d := &recordingDestructor{}
	m := NewRefCountManager(d)

	defScope := NewScope(nil)
	m.Retain(defScope) // count = 1, as if a closure was created there

	fn := &values.FuncVal{Kind: values.FuncLocal, Scope: defScope}

	owner := NewScope(nil)
	m.RecordCrossScope(owner, fn)

	// Ending defScope first leaves it retained (count still 1) until the
	// owner scope that's holding the cross-scope reference itself ends.
	m.Release(defScope)
	if len(d.reclaimed) != 0 {
		t.Fatalf("expected defScope not yet reclaimed while still retained, got %v", d.reclaimed)
	}

	m.Release(owner)
	// owner itself also reclaims here (its own count was already 0), so
	// defScope's reclaim from the cross-scope decrement is the first entry.
	if len(d.reclaimed) != 2 || d.reclaimed[0] != defScope {
		t.Fatalf("expected defScope reclaimed once owner released its cross-scope entry, got %v", d.reclaimed)
	}
}

func TestRecordValueOutlivesWalksNestedContainers(t *testing.T) {
	defScope := NewScope(nil)
	owner := NewScope(nil)

	fn := &values.FuncVal{Kind: values.FuncLocal, Scope: defScope}
	nested := values.MkList([]values.Litr{
		values.MkObj([]values.ObjEntry{{Key: 1, Val: values.MkFunc(fn)}}),
	})

	calls := 0
	rec := recordingRefCountManager{onRecordCrossScope: func(o *Scope, f *values.FuncVal) {
		calls++
		if o != owner || f != fn {
			t.Fatalf("unexpected RecordCrossScope args: owner=%v fn=%v", o, f)
		}
	}}

	RecordValueOutlives(&rec, owner, nested)
	if calls != 1 {
		t.Fatalf("expected exactly 1 RecordCrossScope call, got %d", calls)
	}
}

func TestRecordValueOutlivesSkipsSameScopeClosures(t *testing.T) {
	owner := NewScope(nil)
	fn := &values.FuncVal{Kind: values.FuncLocal, Scope: owner}
	v := values.MkFunc(fn)

	calls := 0
	rec := recordingRefCountManager{onRecordCrossScope: func(*Scope, *values.FuncVal) { calls++ }}
	RecordValueOutlives(&rec, owner, v)

	if calls != 0 {
		t.Fatalf("expected no cross-scope recording when fn's defining scope == owner, got %d calls", calls)
	}
}

// recordingRefCountManager is a minimal RefCountManager fake exercising
// only the hook RecordValueOutlives calls, so tests can assert on exactly
// which (owner, fn) pairs it recurses into.
type recordingRefCountManager struct {
	onRecordCrossScope func(owner *Scope, fn *values.FuncVal)
}

func (r *recordingRefCountManager) Retain(*Scope)                                 {}
func (r *recordingRefCountManager) RecordCrossScope(o *Scope, fn *values.FuncVal)  { r.onRecordCrossScope(o, fn) }
func (r *recordingRefCountManager) PromoteStatic(*Scope)                          {}
func (r *recordingRefCountManager) Release(*Scope)                                {}
