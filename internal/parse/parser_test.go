package parse

import (
	"testing"

	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/scan"
	"github.com/keylang/key/internal/token"
)

func parseSrc(t *testing.T, src string) *ast.Statements {
	t.Helper()
	p := New(scan.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseLetStatement(t *testing.T) {
	prog := parseSrc(t, "let x = 1 + 2;")
	if len(prog.List) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.List))
	}
	let, ok := prog.List[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", prog.List[0])
	}
	if let.Target.Name != "x" || let.Const {
		t.Fatalf("unexpected target %+v / const %v", let.Target, let.Const)
	}
	bin, ok := let.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr value, got %T", let.Value)
	}
	if bin.Op != token.PLUS {
		t.Fatalf("expected PLUS op, got %s", bin.Op)
	}
}

func TestParseConstAndDestructuring(t *testing.T) {
	prog := parseSrc(t, "const [a, b] = xs;")
	let := prog.List[0].(*ast.LetStmt)
	if !let.Const {
		t.Fatalf("expected Const true")
	}
	if len(let.Target.List) != 2 || let.Target.List[0] != "a" || let.Target.List[1] != "b" {
		t.Fatalf("unexpected destructure target %+v", let.Target)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parseSrc(t, "if (x > 1) { return 1; } else { return 0; }")
	ifs := prog.List[0].(*ast.IfStmt)
	if len(ifs.Then.List) != 1 {
		t.Fatalf("expected 1 statement in then-block")
	}
	elseBlk, ok := ifs.Else.(*ast.BlockStmt)
	if !ok {
		t.Fatalf("expected *ast.BlockStmt else, got %T", ifs.Else)
	}
	if len(elseBlk.List) != 1 {
		t.Fatalf("expected 1 statement in else-block")
	}
}

func TestParseElseIfChain(t *testing.T) {
	prog := parseSrc(t, "if (x == 1) { } else if (x == 2) { } else { }")
	ifs := prog.List[0].(*ast.IfStmt)
	elseIf, ok := ifs.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected else-if to parse as nested *ast.IfStmt, got %T", ifs.Else)
	}
	if _, ok := elseIf.Else.(*ast.BlockStmt); !ok {
		t.Fatalf("expected trailing else block, got %T", elseIf.Else)
	}
}

func TestParseForForms(t *testing.T) {
	prog := parseSrc(t, "for! { break; }")
	if _, ok := prog.List[0].(*ast.ForLoopStmt); !ok {
		t.Fatalf("expected *ast.ForLoopStmt, got %T", prog.List[0])
	}

	prog = parseSrc(t, "for (i < 5) { i += 1; }")
	if _, ok := prog.List[0].(*ast.ForWhileStmt); !ok {
		t.Fatalf("expected *ast.ForWhileStmt, got %T", prog.List[0])
	}

	prog = parseSrc(t, "for item:xs { log(item); }")
	iter, ok := prog.List[0].(*ast.ForIterStmt)
	if !ok {
		t.Fatalf("expected *ast.ForIterStmt, got %T", prog.List[0])
	}
	if iter.Id != "item" {
		t.Fatalf("expected Id %q, got %q", "item", iter.Id)
	}
}

func TestParseTryCatchDefaultName(t *testing.T) {
	prog := parseSrc(t, "try { throw 1; } catch { log(1); }")
	tr := prog.List[0].(*ast.TryStmt)
	if tr.Catch.Name != ".err" {
		t.Fatalf("expected default catch name %q, got %q", ".err", tr.Catch.Name)
	}
}

func TestParseTryCatchNamedBinding(t *testing.T) {
	prog := parseSrc(t, "try { throw 1; } catch e { log(e); }")
	tr := prog.List[0].(*ast.TryStmt)
	if tr.Catch.Name != "e" {
		t.Fatalf("expected catch name %q, got %q", "e", tr.Catch.Name)
	}
}

func TestParseClassWithPublicPropAndMethod(t *testing.T) {
	prog := parseSrc(t, "class Counter { n, > inc() -> () { return self.n; } }")
	cls := prog.List[0].(*ast.ClassStmt)
	if cls.Name != "Counter" {
		t.Fatalf("expected class name Counter, got %q", cls.Name)
	}
	if len(cls.Props) != 1 || cls.Props[0].Name != "n" || cls.Props[0].Public {
		t.Fatalf("unexpected props %+v", cls.Props)
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "inc" || !cls.Methods[0].Public {
		t.Fatalf("unexpected methods %+v", cls.Methods)
	}
}

func TestParseFuncLiteralAndCall(t *testing.T) {
	prog := parseSrc(t, "let add = (a, b) -> () { return a + b; }; return add(1, 2);")
	let := prog.List[0].(*ast.LetStmt)
	fn, ok := let.Value.(*ast.FuncLit)
	if !ok {
		t.Fatalf("expected *ast.FuncLit, got %T", let.Value)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected params %+v", fn.Params)
	}

	ret := prog.List[1].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", ret.Value)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 call args, got %d", len(call.Args))
	}
}

func TestParseInstanceConstruction(t *testing.T) {
	prog := parseSrc(t, "let c = Counter{n: 0};")
	let := prog.List[0].(*ast.LetStmt)
	inst, ok := let.Value.(*ast.NewInstExpr)
	if !ok {
		t.Fatalf("expected *ast.NewInstExpr, got %T", let.Value)
	}
	if len(inst.Fields) != 1 || inst.Fields[0].Name != "n" {
		t.Fatalf("unexpected fields %+v", inst.Fields)
	}
}

func TestParseModAndExport(t *testing.T) {
	prog := parseSrc(t, "mod util = `./util.ks`; extern mod native = `./native.dll`; export add(a, b) -> () { return a + b; }")
	mod := prog.List[0].(*ast.ModStmt)
	if mod.Alias != "util" || mod.Native {
		t.Fatalf("unexpected mod stmt %+v", mod)
	}
	ext := prog.List[1].(*ast.ModStmt)
	if !ext.Native {
		t.Fatalf("expected extern mod to set Native")
	}
	exp := prog.List[2].(*ast.ExportStmt)
	if exp.Kind != ast.ExportFn || exp.Name != "add" {
		t.Fatalf("unexpected export stmt %+v", exp)
	}
}

func TestParseModuleAndImplAccess(t *testing.T) {
	prog := parseSrc(t, "return util-.helper();")
	ret := prog.List[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.CallExpr)
	acc, ok := call.Callee.(*ast.ModAccExpr)
	if !ok {
		t.Fatalf("expected *ast.ModAccExpr callee, got %T", call.Callee)
	}
	if acc.Module != "util" || acc.Name != "helper" {
		t.Fatalf("unexpected mod access %+v", acc)
	}
}

func TestParseErrorOnMalformedLet(t *testing.T) {
	p := New(scan.New("let = ;"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors for malformed let statement")
	}
}
