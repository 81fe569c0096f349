package eval

import (
	"testing"

	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/parse"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/scan"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// run parses and evaluates src in a fresh Evaluator/top scope, the
// same minimal harness pkg/key.Engine builds on top of.
func run(t *testing.T, src string) (values.Litr, *diag.Error) {
	t.Helper()
	sc := scan.New(src)
	p := parse.New(sc)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}
	ctx := NewContext(ident.NewPool(), "key-test")
	ev := New(ctx)
	top := runtime.NewScope(nil)
	return ev.Run(prog, top)
}

// TestEvilLetClonesInstanceByDefault confirms a plain `let` copy of an
// instance value clones its slot array instead of aliasing it.
func TestEvilLetClonesInstanceByDefault(t *testing.T) {
	result, err := run(t, `
		class Box { n }
		let b = Box{n: 1};
		let b2 = b;
		b2.n = 99;
		return b.n;
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if result.I != 1 {
		t.Fatalf("expected original instance untouched by copy mutation, got b.n = %d", result.I)
	}
}

// TestEvilLetTakeAliasesInstance confirms `take` (the `<` form) binds
// the instance as-is, without cloning.
func TestEvilLetTakeAliasesInstance(t *testing.T) {
	result, err := run(t, `
		class Box { n }
		let b = Box{n: 1};
		let <b2 = b;
		b2.n = 99;
		return b.n;
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if result.I != 99 {
		t.Fatalf("expected take to alias the same instance, got b.n = %d", result.I)
	}
}

// TestEvilLetInvokesCloneHook confirms a class-declared @clone method
// runs on a copying let-binding instead of the default shallow slot
// copy.
func TestEvilLetInvokesCloneHook(t *testing.T) {
	result, err := run(t, `
		class Box {
			n
			> @clone() -> () { return Box{n: self.n + 1}; }
		}
		let b = Box{n: 1};
		let b2 = b;
		return b2.n;
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if result.I != 2 {
		t.Fatalf("expected @clone hook to run on copy, got b2.n = %d", result.I)
	}
}

// TestEvilLetDestructuringClonesElements confirms list/obj destructuring
// binds clone the same way a plain-name binding does.
func TestEvilLetDestructuringClonesElements(t *testing.T) {
	result, err := run(t, `
		class Box { n }
		let b = Box{n: 1};
		let [b2] = [b];
		b2.n = 42;
		return b.n;
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if result.I != 1 {
		t.Fatalf("expected destructured binding to clone, got b.n = %d", result.I)
	}
}

// TestInvokeLocalPushesStackFrame confirms an uncaught error raised
// inside nested function calls carries one stack frame per call,
// deepest-first.
func TestInvokeLocalPushesStackFrame(t *testing.T) {
	_, err := run(t, `
		let inner = (x) -> () { return 1 / x; };
		let outer = (x) -> () { return inner(x); };
		return outer(0);
	`)
	if err == nil {
		t.Fatalf("expected a divide-by-zero error")
	}
	if len(err.Stack) != 2 {
		t.Fatalf("expected 2 stack frames, got %d (%+v)", len(err.Stack), err.Stack)
	}
	if err.Stack[0].Function != "<closure>" || err.Stack[1].Function != "<closure>" {
		t.Fatalf("expected anonymous closures named <closure>, got %+v", err.Stack)
	}
}

// TestInvokeLocalStackFrameEmptyAfterReturn confirms the call stack is
// unwound (not left dangling) once every call has returned normally.
func TestInvokeLocalStackFrameEmptyAfterReturn(t *testing.T) {
	sc := scan.New(`
		let f = (x) -> () { return x + 1; };
		return f(1);
	`)
	p := parse.New(sc)
	prog := p.ParseProgram()
	ctx := NewContext(ident.NewPool(), "key-test")
	ev := New(ctx)
	top := runtime.NewScope(nil)
	if _, err := ev.Run(prog, top); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(ctx.Stack) != 0 {
		t.Fatalf("expected call stack to be empty after return, got %+v", ctx.Stack)
	}
}

// TestClassMethodStackFrameUsesClassDotMethodName confirms a method
// call's frame is labeled "<Class>.<method>", matching buildClass's
// naming.
func TestClassMethodStackFrameUsesClassDotMethodName(t *testing.T) {
	_, err := run(t, `
		class Box {
			n
			> boom() -> () { return 1 / 0; }
		}
		let b = Box{n: 1};
		return b.boom();
	`)
	if err == nil {
		t.Fatalf("expected a divide-by-zero error")
	}
	if len(err.Stack) != 1 || err.Stack[0].Function != "Box.boom" {
		t.Fatalf("expected a single frame named Box.boom, got %+v", err.Stack)
	}
}

// TestRunDropInvokesDropHook confirms OnScopeReclaimed runs a class's
// @drop hook on an instance a reclaimed scope still held directly.
func TestRunDropInvokesDropHook(t *testing.T) {
	result, err := run(t, `
		let seen = 0;
		class Tracker {
			tag
			> @drop() -> () { seen = seen + self.tag; }
		}
		let outer = 0;
		for (outer < 1) {
			let t = Tracker{tag: 7};
			outer += 1;
		}
		return seen;
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if result.Kind != values.Int || result.I != 7 {
		t.Fatalf("expected @drop to run once and add 7, got %+v", result)
	}
}

// TestCheckVisibilityPanicsOutsideOwningModule confirms a private
// member is only reachable from a scope inside the class's owning
// module, built directly against runtime.Module/Scope without going
// through the `mod`/`export` statement machinery.
func TestCheckVisibilityPanicsOutsideOwningModule(t *testing.T) {
	ev := New(NewContext(ident.NewPool(), "key-test"))
	owner := &runtime.Module{Path: "owner"}

	outside := runtime.NewScope(nil)

	defer func() {
		r := recover()
		de, ok := r.(*diag.Error)
		if !ok {
			t.Fatalf("expected a *diag.Error panic, got %v", r)
		}
		if de.Kind != diag.VisibilityViolation {
			t.Fatalf("expected VisibilityViolation, got %v", de.Kind)
		}
	}()
	ev.checkVisibility(false, owner, outside)
	t.Fatalf("expected checkVisibility to panic for a private member accessed outside its module")
}

// TestCheckVisibilityAllowsPublicFromAnywhere confirms a public member
// never panics, even outside the owning module.
func TestCheckVisibilityAllowsPublicFromAnywhere(t *testing.T) {
	ev := New(NewContext(ident.NewPool(), "key-test"))
	owner := &runtime.Module{Path: "owner"}
	outside := runtime.NewScope(nil)
	ev.checkVisibility(true, owner, outside)
}

// TestBuildClassPopulatesIndexMaps confirms buildClass wires
// PropIdx/MethodIdx/StaticIdx (backed by pkg/ident.Map) to the same
// positions as the parallel Props/Methods/Statics slices, and that
// findMethod/findStatic/propIndex resolve through them.
func TestBuildClassPopulatesIndexMaps(t *testing.T) {
	sc := scan.New(`
		class Box {
			a
			b
			> get() -> () { return self.a; }
		}
	`)
	p := parse.New(sc)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}
	cs, ok := prog.List[0].(*ast.ClassStmt)
	if !ok {
		t.Fatalf("expected *ast.ClassStmt, got %T", prog.List[0])
	}

	ev := New(NewContext(ident.NewPool(), "key-test"))
	top := runtime.NewScope(nil)
	cd := ev.buildClass(cs, top)

	bID := int32(ev.Ctx.Interner.Intern("b"))
	idx, ok := propIndex(cd, bID)
	if !ok || idx != 1 {
		t.Fatalf("expected prop %q at index 1, got idx=%d ok=%v", "b", idx, ok)
	}

	getID := int32(ev.Ctx.Interner.Intern("get"))
	md, ok := findMethod(cd, getID)
	if !ok || md.Fn != cd.Methods[0].Fn {
		t.Fatalf("expected findMethod to resolve %q via MethodIdx", "get")
	}

	if _, ok := findMethod(cd, int32(ev.Ctx.Interner.Intern("nope"))); ok {
		t.Fatalf("expected findMethod to report false for an undeclared name")
	}
}

// TestNewIteratorStrWalksRunes confirms Str iteration yields Unicode
// scalar values, not bytes.
func TestNewIteratorStrWalksRunes(t *testing.T) {
	ev := New(NewContext(ident.NewPool(), "key-test"))
	it := ev.newIterator(values.MkStr("ab"))
	defer it.Release()

	first, ok := it.Next(ev)
	if !ok || first.S != "a" {
		t.Fatalf("expected first rune %q, got %q ok=%v", "a", first.S, ok)
	}
	second, ok := it.Next(ev)
	if !ok || second.S != "b" {
		t.Fatalf("expected second rune %q, got %q ok=%v", "b", second.S, ok)
	}
	if _, ok := it.Next(ev); ok {
		t.Fatalf("expected iteration to end after 2 runes")
	}
}

// TestNewIteratorBufWalksBytesAsUint confirms Buf iteration yields
// each byte as a Uint.
func TestNewIteratorBufWalksBytesAsUint(t *testing.T) {
	ev := New(NewContext(ident.NewPool(), "key-test"))
	it := ev.newIterator(values.MkBuf([]byte{10, 20}))
	defer it.Release()

	first, ok := it.Next(ev)
	if !ok || first.Kind != values.Uint || first.U != 10 {
		t.Fatalf("expected first byte 10 as Uint, got %+v ok=%v", first, ok)
	}
	second, ok := it.Next(ev)
	if !ok || second.U != 20 {
		t.Fatalf("expected second byte 20, got %+v ok=%v", second, ok)
	}
	if _, ok := it.Next(ev); ok {
		t.Fatalf("expected iteration to end after 2 bytes")
	}
}

// TestNewIteratorNinstDrivesNextEntry confirms a native instance's
// iterator protocol defers to its NativeClass.Next entry, and that
// Sym::IterEnd stops iteration the same way a script @next hook does.
func TestNewIteratorNinstDrivesNextEntry(t *testing.T) {
	calls := 0
	nc := &values.NativeClass{
		Next: func(self *values.NinstVal) values.Litr {
			calls++
			if calls > 2 {
				return values.MkSym(values.IterEnd)
			}
			return values.MkInt(int64(calls))
		},
	}
	ev := New(NewContext(ident.NewPool(), "key-test"))
	it := ev.newIterator(values.MkNinst(&values.NinstVal{Class: nc}))
	defer it.Release()

	v1, ok := it.Next(ev)
	if !ok || v1.I != 1 {
		t.Fatalf("expected first value 1, got %+v ok=%v", v1, ok)
	}
	v2, ok := it.Next(ev)
	if !ok || v2.I != 2 {
		t.Fatalf("expected second value 2, got %+v ok=%v", v2, ok)
	}
	if _, ok := it.Next(ev); ok {
		t.Fatalf("expected IterEnd to stop iteration")
	}
}

// TestRunCloneInvokesOnCloneHook confirms a NativeClass.OnClone hook
// (used by Planet to reject copies outright) is honored by runClone.
func TestRunCloneInvokesOnCloneHook(t *testing.T) {
	calls := 0
	nc := &values.NativeClass{
		OnClone: func(self *values.NinstVal) values.Litr {
			calls++
			return values.MkInt(7)
		},
	}
	ev := New(NewContext(ident.NewPool(), "key-test"))
	v := ev.runClone(values.MkNinst(&values.NinstVal{Class: nc}))
	if calls != 1 {
		t.Fatalf("expected OnClone to be invoked once, got %d calls", calls)
	}
	if v.Kind != values.Int || v.I != 7 {
		t.Fatalf("expected runClone to return OnClone's result, got %+v", v)
	}
}
