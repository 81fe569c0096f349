package eval

import (
	"testing"

	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/parse"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/scan"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// TestCalcPropertyDispatchesNinstGetterThroughFullCall confirms a
// native instance's Getter-bound method round-trips through the same
// calcProperty -> calcCall -> invokeFuncVal path a script method call
// takes, not just the iterator protocol's direct Next().
func TestCalcPropertyDispatchesNinstGetterThroughFullCall(t *testing.T) {
	ev := New(NewContext(ident.NewPool(), "key-test"))
	nameID := ev.Ctx.Interner.Intern("double")

	var boundSelf *values.NinstVal
	nc := &values.NativeClass{
		Getter: func(self *values.NinstVal, name ident.ID) (values.Litr, bool) {
			if name != nameID {
				return values.Litr{}, false
			}
			return values.MkFunc(&values.FuncVal{
				Kind: values.FuncNativeMethod,
				NativeMethod: func(recv values.Litr, args []values.Litr) values.Litr {
					boundSelf = self
					return values.MkInt(int64(self.W0) * 2)
				},
			}), true
		},
	}
	ninst := &values.NinstVal{Class: nc, W0: 21}

	top := runtime.NewScope(nil)
	top.Define(ev.Ctx.Interner.Intern("n"), values.MkNinst(ninst), false)

	sc := scan.New(`return n.double();`)
	p := parse.New(sc)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}
	result, err := ev.Run(prog, top)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if result.Kind != values.Int || result.I != 42 {
		t.Fatalf("expected 42 from native method call, got %+v", result)
	}
	if boundSelf != ninst {
		t.Fatalf("expected the native method to receive the same NinstVal as self")
	}
}

// TestFindMethodResolvesMethodOnlyName confirms buildClass indexes a
// declared method so findMethod resolves it, findStatic reports no
// static of that name, and the method's frame name is `Class.method`.
func TestFindMethodResolvesMethodOnlyName(t *testing.T) {
	sc := scan.New(`
		class Box {
			a
			> tag() -> () { return 1; }
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

	tagID := int32(ev.Ctx.Interner.Intern("tag"))
	md, ok := findMethod(cd, tagID)
	if !ok {
		t.Fatalf("expected findMethod to resolve %q", "tag")
	}
	if _, ok := findStatic(cd, tagID); ok {
		t.Fatalf("expected findStatic to report false for a method-only name")
	}
	if md.Fn.Name != "Box.tag" {
		t.Fatalf("expected method frame name %q, got %q", "Box.tag", md.Fn.Name)
	}
}

// TestCalcIndexDispatchesNinstIndexGet confirms a native instance's
// IndexGet entry is reachable through calcIndex the same way List/Str/Buf
// indexing is.
func TestCalcIndexDispatchesNinstIndexGet(t *testing.T) {
	ev := New(NewContext(ident.NewPool(), "key-test"))
	nc := &values.NativeClass{
		IndexGet: func(self *values.NinstVal, idx values.Litr) values.Litr {
			return values.MkInt(idx.I * 10)
		},
	}
	top := runtime.NewScope(nil)
	top.Define(ev.Ctx.Interner.Intern("n"), values.MkNinst(&values.NinstVal{Class: nc}), false)

	sc := scan.New(`return n[4];`)
	p := parse.New(sc)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}
	result, err := ev.Run(prog, top)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if result.Kind != values.Int || result.I != 40 {
		t.Fatalf("expected 40 from native index dispatch, got %+v", result)
	}
}
