package builtins

import (
	"sort"

	"github.com/keylang/key/internal/values"
)

// listMethods implements the fixed `list.push`/`list.sort`-style
// method set for List receivers, in the same dispatch shape as
// strMethods and intMethods.
var listMethods = map[string]Method{
	"push": func(recv values.Litr, args []values.Litr) values.Litr {
		recv.List = append(recv.List, args...)
		return recv
	},
	"pop": func(recv values.Litr, args []values.Litr) values.Litr {
		if len(recv.List) == 0 {
			return values.MkUninit()
		}
		return recv.List[len(recv.List)-1]
	},
	"len": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkInt(int64(len(recv.List)))
	},
	"sort": func(recv values.Litr, args []values.Litr) values.Litr {
		out := make([]values.Litr, len(recv.List))
		copy(out, recv.List)
		sort.SliceStable(out, func(i, j int) bool {
			c, ok := values.Compare(out[i], out[j])
			return ok && c < 0
		})
		return values.MkList(out)
	},
	"reverse": func(recv values.Litr, args []values.Litr) values.Litr {
		out := make([]values.Litr, len(recv.List))
		for i, v := range recv.List {
			out[len(out)-1-i] = v
		}
		return values.MkList(out)
	},
	"contains": func(recv values.Litr, args []values.Litr) values.Litr {
		target := argAt(args, 0)
		for _, v := range recv.List {
			if values.Equal(v, target) {
				return values.MkBool(true)
			}
		}
		return values.MkBool(false)
	},
	"join": func(recv values.Litr, args []values.Litr) values.Litr {
		sep := argAt(args, 0).S
		var out string
		for i, v := range recv.List {
			if i > 0 {
				out += sep
			}
			out += v.String()
		}
		return values.MkStr(out)
	},
}
