// Package values implements Litr, Key's tagged-variant runtime value.
package values

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/keylang/key/pkg/ident"
)

// Kind discriminates a Litr's payload.
type Kind int

const (
	Uninit Kind = iota
	Int
	Uint
	Float
	Bool
	Str
	Buf
	List
	Obj
	Func
	Inst
	Ninst
	Sym
)

func (k Kind) String() string {
	switch k {
	case Uninit:
		return "Uninit"
	case Int:
		return "Int"
	case Uint:
		return "Uint"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case Str:
		return "Str"
	case Buf:
		return "Buf"
	case List:
		return "List"
	case Obj:
		return "Obj"
	case Func:
		return "Func"
	case Inst:
		return "Inst"
	case Ninst:
		return "Ninst"
	case Sym:
		return "Sym"
	}
	return "?"
}

// Symbol is a predefined atom, the payload of a Sym-kind Litr.
type Symbol int

const (
	IterEnd Symbol = iota
)

func (s Symbol) String() string {
	switch s {
	case IterEnd:
		return "IterEnd"
	}
	return "?sym"
}

// ObjEntry is one insertion-ordered (identifier, value) pair of an Obj.
type ObjEntry struct {
	Key ident.ID
	Val Litr
}

// Litr is Key's runtime value: a tagged variant. Only the field(s)
// matching Kind are meaningful; the rest are zero. A single
// struct with a kind tag, rather than a Go interface, keeps
// equality/ordering/copy as simple value operations instead of type
// switches over interface values.
type Litr struct {
	Kind Kind

	I int64
	U uint64
	F float64
	B bool
	S string
	Bf []byte

	List []Litr
	Obj  []ObjEntry

	Fn *FuncVal

	Inst  *InstVal
	Ninst *NinstVal

	Sym Symbol
}

// FuncKind discriminates the callable variants of a Func Litr.
type FuncKind int

const (
	FuncLocal FuncKind = iota
	FuncExtern
	FuncNative
	FuncMethod
	FuncStatic
	FuncNativeMethod
)

// Param is a declared function parameter: name, optional default,
// and whether it is the single variadic "custom" argument.
type Param struct {
	Name    ident.ID
	Default func() Litr // nil if no default; evaluated lazily per call
	Custom  bool
}

// FuncVal is the shared payload for every Func variant. Which fields
// are meaningful depends on FuncKind.
type FuncVal struct {
	Kind FuncKind

	// Name labels a call-stack frame for this function. Empty for an
	// anonymous closure.
	Name string

	// Local / Method / Static
	Params []Param
	Body   any // *ast.Statements, typed any to avoid an import cycle
	Scope  any // *runtime.Scope, typed any to avoid an import cycle

	// Method/Static owning class or module context.
	Owner any

	// Bound receiver, set when a method value is constructed via
	// property access.
	Receiver *Litr

	// Native / NativeMethod
	NativeFn     func(args []Litr) Litr
	NativeMethod func(recv Litr, args []Litr) Litr

	// Extern: the argument count Extern takes, set from the wrapped Go
	// function's parameter count; a negative value skips the count check.
	Arity int
	Extern func(args []Litr) Litr
}

// ClassDef describes a script-defined class.
type ClassDef struct {
	Name    ident.ID
	Props   []PropDef
	Methods []MethodDef
	Statics []MethodDef
	Module  any // *runtime.Module — owning module, for visibility checks

	// PropIdx/MethodIdx/StaticIdx map a member's name to its slice
	// index above, so member lookup on a class with many members
	// doesn't degrade to a linear scan. Props/Methods/Statics stay the
	// source of truth for declaration order (a property's index here
	// is also its InstVal.Slots position); these maps are a pure
	// lookup accelerant built once in buildClass.
	PropIdx   *ident.Map[int]
	MethodIdx *ident.Map[int]
	StaticIdx *ident.Map[int]
}

type PropDef struct {
	Name   ident.ID
	Public bool
}

type MethodDef struct {
	Name   ident.ID
	Fn     *FuncVal
	Public bool
}

// InstVal is an instance of a script-defined class.
type InstVal struct {
	Class *ClassDef
	Slots []Litr
}

// NativeClass describes a host-supplied class via its function table.
type NativeClass struct {
	Name     ident.ID
	OnClone  func(self *NinstVal) Litr
	OnDrop   func(self *NinstVal)
	Getter   func(self *NinstVal, name ident.ID) (Litr, bool)
	Setter   func(self *NinstVal, name ident.ID, v Litr) bool
	IndexGet func(self *NinstVal, idx Litr) Litr
	IndexSet func(self *NinstVal, idx Litr, v Litr)
	Next     func(self *NinstVal) Litr
	ToStr    func(self *NinstVal) string
}

// NinstVal is an instance of a native class: two opaque machine-word
// payloads plus an owning reference to its descriptor.
type NinstVal struct {
	Class   *NativeClass
	W0, W1  uint64
	Payload any // escape hatch for descriptors that need more than two words
}

// Constructors mirror the classic pool-backed value constructors
// (DESIGN.md "Value model").

func MkUninit() Litr        { return Litr{Kind: Uninit} }
func MkInt(v int64) Litr    { return Litr{Kind: Int, I: v} }
func MkUint(v uint64) Litr  { return Litr{Kind: Uint, U: v} }
func MkFloat(v float64) Litr { return Litr{Kind: Float, F: v} }
func MkBool(v bool) Litr    { return Litr{Kind: Bool, B: v} }
func MkStr(v string) Litr   { return Litr{Kind: Str, S: v} }
func MkBuf(v []byte) Litr   { return Litr{Kind: Buf, Bf: v} }
func MkList(v []Litr) Litr  { return Litr{Kind: List, List: v} }
func MkObj(v []ObjEntry) Litr { return Litr{Kind: Obj, Obj: v} }
func MkFunc(f *FuncVal) Litr { return Litr{Kind: Func, Fn: f} }
func MkInst(i *InstVal) Litr { return Litr{Kind: Inst, Inst: i} }
func MkNinst(n *NinstVal) Litr { return Litr{Kind: Ninst, Ninst: n} }
func MkSym(s Symbol) Litr   { return Litr{Kind: Sym, Sym: s} }

// Truthy implements "condition is truthy iff not
// Bool(false) and not Uninit".
func (l Litr) Truthy() bool {
	if l.Kind == Uninit {
		return false
	}
	if l.Kind == Bool {
		return l.B
	}
	return true
}

// AsF64 coerces a numeric Litr to float64 for mixed-numeric comparison
//; ok is false for non-numeric kinds.
func (l Litr) AsF64() (float64, bool) {
	switch l.Kind {
	case Int:
		return float64(l.I), true
	case Uint:
		return float64(l.U), true
	case Float:
		return l.F, true
	}
	return 0, false
}

// Equal implements equality: numeric kinds compare by value
// across mixes, Str/Buf/List/Obj structurally, Func per the variant
// rules, Inst slot-by-slot for the same class, everything else by
// identity/kind mismatch => false.
func Equal(a, b Litr) bool {
	if af, aok := a.AsF64(); aok {
		if bf, bok := b.AsF64(); bok {
			return af == bf
		}
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Uninit:
		return true
	case Bool:
		return a.B == b.B
	case Str:
		return a.S == b.S
	case Buf:
		return string(a.Bf) == string(b.Bf)
	case List:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case Obj:
		if len(a.Obj) != len(b.Obj) {
			return false
		}
		for i := range a.Obj {
			if a.Obj[i].Key != b.Obj[i].Key || !Equal(a.Obj[i].Val, b.Obj[i].Val) {
				return false
			}
		}
		return true
	case Func:
		return equalFunc(a.Fn, b.Fn)
	case Inst:
		if a.Inst.Class != b.Inst.Class {
			return false
		}
		for i := range a.Inst.Slots {
			if !Equal(a.Inst.Slots[i], b.Inst.Slots[i]) {
				return false
			}
		}
		return true
	case Ninst:
		return a.Ninst == b.Ninst
	case Sym:
		return a.Sym == b.Sym
	}
	return false
}

func equalFunc(a, b *FuncVal) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch a.Kind {
	case FuncLocal, FuncMethod, FuncStatic:
		return a.Kind == b.Kind && sameAny(a.Body, b.Body) && sameAny(a.Scope, b.Scope)
	case FuncNative, FuncNativeMethod:
		return false // distinct Go func values never compare equal
	case FuncExtern:
		return false
	}
	return false
}

func sameAny(a, b any) bool { return a == b }

// Compare implements ordering; ok is false when the kinds
// are not comparable (Obj, Func, cross-class Inst).
func Compare(a, b Litr) (cmp int, ok bool) {
	if af, aok := a.AsF64(); aok {
		if bf, bok := b.AsF64(); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case Str:
		return strings.Compare(a.S, b.S), true
	case Buf:
		return strings.Compare(string(a.Bf), string(b.Bf)), true
	case List:
		if len(a.List) != len(b.List) {
			if len(a.List) < len(b.List) {
				return -1, true
			}
			return 1, true
		}
		for i := range a.List {
			if c, ok := Compare(a.List[i], b.List[i]); ok && c != 0 {
				return c, true
			} else if !ok {
				return 0, false
			}
		}
		return 0, true
	case Inst:
		if a.Inst.Class != b.Inst.Class {
			return 0, false
		}
		for i := range a.Inst.Slots {
			if c, ok := Compare(a.Inst.Slots[i], b.Inst.Slots[i]); ok && c != 0 {
				return c, true
			} else if !ok {
				return 0, false
			}
		}
		return 0, true
	}
	return 0, false
}

// String renders a Litr the way `log`/`Str::str`-style intrinsics do.
func (l Litr) String() string {
	switch l.Kind {
	case Uninit:
		return "uninit"
	case Int:
		return strconv.FormatInt(l.I, 10)
	case Uint:
		return strconv.FormatUint(l.U, 10) + "u"
	case Float:
		return formatFloat(l.F)
	case Bool:
		if l.B {
			return "true"
		}
		return "false"
	case Str:
		return l.S
	case Buf:
		var sb strings.Builder
		sb.WriteByte('\'')
		for _, b := range l.Bf {
			fmt.Fprintf(&sb, "%02x", b)
		}
		sb.WriteByte('\'')
		return sb.String()
	case List:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range l.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case Obj:
		return "{object}"
	case Func:
		return "<func>"
	case Inst:
		return "<instance>"
	case Ninst:
		if l.Ninst != nil && l.Ninst.Class != nil && l.Ninst.Class.ToStr != nil {
			return l.Ninst.Class.ToStr(l.Ninst)
		}
		return "<native-instance>"
	case Sym:
		return l.Sym.String()
	}
	return "?"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
