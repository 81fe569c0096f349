package builtins

import "github.com/keylang/key/internal/values"

var bufMethods = map[string]Method{
	"len": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkInt(int64(len(recv.Bf)))
	},
	"str": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(string(recv.Bf))
	},
	"slice": func(recv values.Litr, args []values.Litr) values.Litr {
		start := argInt(args, 0, 0)
		end := argInt(args, 1, len(recv.Bf))
		if start < 0 {
			start = 0
		}
		if end > len(recv.Bf) {
			end = len(recv.Bf)
		}
		if start > end {
			start = end
		}
		out := make([]byte, end-start)
		copy(out, recv.Bf[start:end])
		return values.MkBuf(out)
	},
}

var symMethods = map[string]Method{
	"str": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(recv.Sym.String())
	},
}

var funcMethods = map[string]Method{
	"str": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr("<func>")
	},
}
