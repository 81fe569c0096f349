package eval

import (
	"unicode/utf8"

	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/values"
)

// iterator is the uniform protocol Key defines over Str, Buf, List,
// Uint, Int, Inst, and Ninst.
type iterator interface {
	Next(e *Evaluator) (values.Litr, bool)
	Release()
}

func (e *Evaluator) newIterator(v values.Litr) iterator {
	switch v.Kind {
	case values.Str:
		return &strIter{s: v.S}
	case values.Buf:
		return &bufIter{b: v.Bf}
	case values.List:
		return &listIter{list: v.List}
	case values.Uint:
		return &rangeIter{n: int64(v.U)}
	case values.Int:
		return &rangeIter{n: v.I}
	case values.Inst:
		return &instIter{self: v}
	case values.Ninst:
		return &ninstIter{self: v}
	}
	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "value of kind %s is not iterable", v.Kind))
	return nil
}

// strIter walks Unicode scalar values, not bytes.
type strIter struct {
	s string
	i int
}

func (it *strIter) Next(e *Evaluator) (values.Litr, bool) {
	if it.i >= len(it.s) {
		return values.MkUninit(), false
	}
	r, size := utf8.DecodeRuneInString(it.s[it.i:])
	it.i += size
	return values.MkStr(string(r)), true
}
func (it *strIter) Release() {}

type bufIter struct {
	b []byte
	i int
}

func (it *bufIter) Next(e *Evaluator) (values.Litr, bool) {
	if it.i >= len(it.b) {
		return values.MkUninit(), false
	}
	v := values.MkUint(uint64(it.b[it.i]))
	it.i++
	return v, true
}
func (it *bufIter) Release() {}

type listIter struct {
	list []values.Litr
	i    int
}

func (it *listIter) Next(e *Evaluator) (values.Litr, bool) {
	if it.i >= len(it.list) {
		return values.MkUninit(), false
	}
	v := it.list[it.i]
	it.i++
	return v, true
}
func (it *listIter) Release() {}

// rangeIter treats a bare Int/Uint n as the half-open range 0..n.
type rangeIter struct {
	n int64
	i int64
}

func (it *rangeIter) Next(e *Evaluator) (values.Litr, bool) {
	if it.i >= it.n {
		return values.MkUninit(), false
	}
	v := values.MkInt(it.i)
	it.i++
	return v, true
}
func (it *rangeIter) Release() {}

// instIter drives a script instance's @next hook until it yields
// Sym::IterEnd.
type instIter struct {
	self values.Litr
}

func (it *instIter) Next(e *Evaluator) (values.Litr, bool) {
	nextID := identNextName(e)
	md, ok := findMethod(it.self.Inst.Class, int32(nextID))
	if !ok {
		diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "instance has no @next hook to iterate"))
	}
	v := e.invokeMethod(md.Fn, it.self, nil)
	if v.Kind == values.Sym && v.Sym == values.IterEnd {
		return values.MkUninit(), false
	}
	return v, true
}
func (it *instIter) Release() {}

// ninstIter drives a native instance's Next function-table entry the
// same way.
type ninstIter struct {
	self values.Litr
}

func (it *ninstIter) Next(e *Evaluator) (values.Litr, bool) {
	n := it.self.Ninst
	if n.Class == nil || n.Class.Next == nil {
		diag.Panic(e.Ctx.fail(diag.UndefinedIdentifier, "native instance has no Next entry to iterate"))
	}
	v := n.Class.Next(n)
	if v.Kind == values.Sym && v.Sym == values.IterEnd {
		return values.MkUninit(), false
	}
	return v, true
}
func (it *ninstIter) Release() {}
