package builtins

import (
	"strings"

	"github.com/keylang/key/internal/values"
)

// strMethods implements `str.slice`-style fixed method
// set for Str receivers, grounded on the classic string_helpers.go
// (ToUpper/ToLower/Length) generalized to Key's Litr-based signature.
var strMethods = map[string]Method{
	"upper": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(strings.ToUpper(recv.S))
	},
	"lower": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(strings.ToLower(recv.S))
	},
	"len": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkInt(int64(len([]rune(recv.S))))
	},
	"trim": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(strings.TrimSpace(recv.S))
	},
	"split": func(recv values.Litr, args []values.Litr) values.Litr {
		sep := argAt(args, 0).S
		parts := strings.Split(recv.S, sep)
		out := make([]values.Litr, len(parts))
		for i, p := range parts {
			out[i] = values.MkStr(p)
		}
		return values.MkList(out)
	},
	"contains": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkBool(strings.Contains(recv.S, argAt(args, 0).S))
	},
	"slice": func(recv values.Litr, args []values.Litr) values.Litr {
		r := []rune(recv.S)
		start := argInt(args, 0, 0)
		end := argInt(args, 1, len(r))
		if start < 0 {
			start = 0
		}
		if end > len(r) {
			end = len(r)
		}
		if start > end {
			start = end
		}
		return values.MkStr(string(r[start:end]))
	},
	"replace": func(recv values.Litr, args []values.Litr) values.Litr {
		return values.MkStr(strings.ReplaceAll(recv.S, argAt(args, 0).S, argAt(args, 1).S))
	},
	"str": func(recv values.Litr, args []values.Litr) values.Litr {
		return recv
	},
}
