package builtins

import "github.com/keylang/key/internal/values"

func argAt(args []values.Litr, i int) values.Litr {
	if i < len(args) {
		return args[i]
	}
	return values.MkUninit()
}

func argInt(args []values.Litr, i int, def int) int {
	a := argAt(args, i)
	switch a.Kind {
	case values.Int:
		return int(a.I)
	case values.Uint:
		return int(a.U)
	}
	return def
}
