package builtins

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// jsonPseudoClass binds Json.parse/Json.stringify, keying every
// produced Obj entry through the program's own interner — gjson/sjson
// only ever see plain Go strings/JSON text, but the Obj entries handed
// back to script code must use the same ident.ID space as every other
// Obj the evaluator builds, or property lookups against them would
// never match.
func jsonPseudoClass(pool *ident.Pool) values.Litr {
	entries := []values.ObjEntry{
		{Key: pool.Intern("parse"), Val: values.MkFunc(&values.FuncVal{
			Kind: values.FuncNative,
			NativeFn: func(args []values.Litr) values.Litr {
				src := argAt(args, 0).S
				if !gjson.Valid(src) {
					diag.Panic(diag.New(diag.TypeMismatch, "", 0, "Json.parse: invalid JSON"))
				}
				return gjsonToLitr(gjson.Parse(src), pool)
			},
		})},
		{Key: pool.Intern("stringify"), Val: values.MkFunc(&values.FuncVal{
			Kind: values.FuncNative,
			NativeFn: func(args []values.Litr) values.Litr {
				out, err := litrToJSON(argAt(args, 0), pool)
				if err != nil {
					diag.Panic(diag.New(diag.TypeMismatch, "", 0, "Json.stringify: %v", err))
				}
				return values.MkStr(out)
			},
		})},
	}
	return values.MkObj(entries)
}

// gjsonToLitr converts a parsed gjson.Result into Key's Litr tree:
// object -> Obj, array -> List, number -> Float, string -> Str,
// true/false -> Bool, null -> Uninit.
func gjsonToLitr(r gjson.Result, pool *ident.Pool) values.Litr {
	switch {
	case r.IsObject():
		var entries []values.ObjEntry
		r.ForEach(func(key, val gjson.Result) bool {
			entries = append(entries, values.ObjEntry{Key: pool.Intern(key.String()), Val: gjsonToLitr(val, pool)})
			return true
		})
		return values.MkObj(entries)
	case r.IsArray():
		var list []values.Litr
		r.ForEach(func(_, val gjson.Result) bool {
			list = append(list, gjsonToLitr(val, pool))
			return true
		})
		return values.MkList(list)
	case r.Type == gjson.String:
		return values.MkStr(r.String())
	case r.Type == gjson.Number:
		return values.MkFloat(r.Float())
	case r.Type == gjson.True, r.Type == gjson.False:
		return values.MkBool(r.Bool())
	}
	return values.MkUninit()
}

// litrToJSON serializes a Litr back to JSON text by successive
// sjson.SetRaw calls, building up the document path by path rather than
// a single marshal — sjson has no whole-value encoder, only patching.
func litrToJSON(v values.Litr, pool *ident.Pool) (string, error) {
	switch v.Kind {
	case values.Uninit:
		return "null", nil
	case values.Bool:
		return strconv.FormatBool(v.B), nil
	case values.Int:
		return strconv.FormatInt(v.I, 10), nil
	case values.Uint:
		return strconv.FormatUint(v.U, 10), nil
	case values.Float:
		return strconv.FormatFloat(v.F, 'g', -1, 64), nil
	case values.Str:
		return strconv.Quote(v.S), nil
	case values.List:
		doc := "[]"
		for i, el := range v.List {
			raw, err := litrToJSON(el, pool)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), raw)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case values.Obj:
		doc := "{}"
		for _, e := range v.Obj {
			raw, err := litrToJSON(e.Val, pool)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, pool.Name(e.Key), raw)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	}
	return "null", nil
}
