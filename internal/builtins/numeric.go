package builtins

import (
	"math"

	"github.com/keylang/key/internal/values"
)

// intMethods backs both Int and Uint receivers, grounded on the classic integer_helpers.go /
// float_helpers.go split.
var intMethods = map[string]Method{
	"abs": func(recv values.Litr, args []values.Litr) values.Litr {
		if recv.Kind == values.Uint {
			return recv
		}
		if recv.I < 0 {
			return values.MkInt(-recv.I)
		}
		return recv
	},
	"pow": func(recv values.Litr, args []values.Litr) values.Litr {
		base, _ := recv.AsF64()
		exp, _ := argAt(args, 0).AsF64()
		return values.MkFloat(math.Pow(base, exp))
	},
	"str": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(recv.String())
	},
	"float": func(recv values.Litr, args []values.Litr) values.Litr {
		f, _ := recv.AsF64()
		return values.MkFloat(f)
	},
}

var floatMethods = map[string]Method{
	"floor": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkFloat(math.Floor(recv.F))
	},
	"ceil": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkFloat(math.Ceil(recv.F))
	},
	"round": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkFloat(math.Round(recv.F))
	},
	"abs": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkFloat(math.Abs(recv.F))
	},
	"pow": func(recv values.Litr, args []values.Litr) values.Litr {
		exp, _ := argAt(args, 0).AsF64()
		return values.MkFloat(math.Pow(recv.F, exp))
	},
	"int": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkInt(int64(recv.F))
	},
	"str": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(recv.String())
	},
}

var boolMethods = map[string]Method{
	"str": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(recv.String())
	},
}
