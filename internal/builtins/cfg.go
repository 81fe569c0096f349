package builtins

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// cfgPseudoClass binds Cfg.load(path), reading a YAML document into a
// Key Obj. Keyed through the program's interner for the same reason
// jsonPseudoClass is.
func cfgPseudoClass(pool *ident.Pool) values.Litr {
	entries := []values.ObjEntry{
		{Key: pool.Intern("load"), Val: values.MkFunc(&values.FuncVal{
			Kind: values.FuncNative,
			NativeFn: func(args []values.Litr) values.Litr {
				path := argAt(args, 0).S
				data, err := os.ReadFile(path)
				if err != nil {
					diag.Panic(diag.New(diag.Uncatchable, path, 0, "Cfg.load: %v", err))
				}
				var doc any
				if err := yaml.Unmarshal(data, &doc); err != nil {
					diag.Panic(diag.New(diag.TypeMismatch, path, 0, "Cfg.load: %v", err))
				}
				return yamlToLitr(doc, pool)
			},
		})},
	}
	return values.MkObj(entries)
}

func yamlToLitr(v any, pool *ident.Pool) values.Litr {
	switch t := v.(type) {
	case nil:
		return values.MkUninit()
	case bool:
		return values.MkBool(t)
	case int:
		return values.MkInt(int64(t))
	case int64:
		return values.MkInt(t)
	case uint64:
		return values.MkUint(t)
	case float64:
		return values.MkFloat(t)
	case string:
		return values.MkStr(t)
	case []any:
		list := make([]values.Litr, len(t))
		for i, e := range t {
			list[i] = yamlToLitr(e, pool)
		}
		return values.MkList(list)
	case map[string]any:
		entries := make([]values.ObjEntry, 0, len(t))
		for k, e := range t {
			entries = append(entries, values.ObjEntry{Key: pool.Intern(k), Val: yamlToLitr(e, pool)})
		}
		return values.MkObj(entries)
	}
	return values.MkUninit()
}
