package eval

import (
	"reflect"

	"github.com/keylang/key/internal/values"
)

// WrapExternFunc adapts an arbitrary Go function (no parameter-count
// ceiling is enforced) into a values.FuncVal of kind Extern. Each parameter must be one of the
// Go types a Litr can carry (int64, uint64, float64, bool, string,
// []byte) or values.Litr itself; the return value, if any, is converted
// back the same way. This is how a native module's `premain`/`main`
// registers host functions for Key scripts to call, via reflection
// rather than hand-written per-arity assembly: the module boundary
// here is Go's own `plugin` package, not a raw C ABI, so reflect.Call
// already gives every arity for free.
func WrapExternFunc(fn any) *values.FuncVal {
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	arity := rt.NumIn()

	return &values.FuncVal{
		Kind:  values.FuncExtern,
		Arity: arity,
		Extern: func(args []values.Litr) values.Litr {
			in := make([]reflect.Value, arity)
			for i := 0; i < arity; i++ {
				in[i] = litrToReflect(args[i], rt.In(i))
			}
			out := rv.Call(in)
			if len(out) == 0 {
				return values.MkUninit()
			}
			return reflectToLitr(out[0])
		},
	}
}

func litrToReflect(l values.Litr, want reflect.Type) reflect.Value {
	if want == reflect.TypeOf(values.Litr{}) {
		return reflect.ValueOf(l)
	}
	switch want.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(l.I).Convert(want)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(l.U).Convert(want)
	case reflect.Float32, reflect.Float64:
		f, _ := l.AsF64()
		return reflect.ValueOf(f).Convert(want)
	case reflect.Bool:
		return reflect.ValueOf(l.Truthy())
	case reflect.String:
		return reflect.ValueOf(l.String())
	case reflect.Slice:
		if want.Elem().Kind() == reflect.Uint8 {
			return reflect.ValueOf(l.Bf)
		}
	}
	return reflect.Zero(want)
}

func reflectToLitr(v reflect.Value) values.Litr {
	if v.Type() == reflect.TypeOf(values.Litr{}) {
		return v.Interface().(values.Litr)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return values.MkInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return values.MkUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return values.MkFloat(v.Float())
	case reflect.Bool:
		return values.MkBool(v.Bool())
	case reflect.String:
		return values.MkStr(v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return values.MkBuf(v.Bytes())
		}
	}
	return values.MkUninit()
}
