package builtins

import (
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// planetPseudoClass binds Planet.new/Planet.all, wrapping
// *runtime.Planet as a Ninst the same way jsonPseudoClass wraps
// gjson/sjson: the Go-side type stays opaque to script code, reached
// only through the native class's Getter/OnClone hooks.
func planetPseudoClass(pool *ident.Pool) values.Litr {
	fallID := pool.Intern("fall")
	okID := pool.Intern("ok")
	nc := &values.NativeClass{
		Name: pool.Intern("Planet"),
		OnClone: func(self *values.NinstVal) values.Litr {
			diag.Panic(diag.New(diag.TypeMismatch, "", 0, "Planet values cannot be copied, only taken"))
			return values.Litr{}
		},
		Getter: func(self *values.NinstVal, name ident.ID) (values.Litr, bool) {
			switch name {
			case fallID:
				return planetMethod(self, func(p *runtime.Planet, args []values.Litr) values.Litr {
					return p.Fall()
				}), true
			case okID:
				return planetMethod(self, func(p *runtime.Planet, args []values.Litr) values.Litr {
					p.SetOk(argAt(args, 0))
					return values.MkUninit()
				}), true
			}
			return values.Litr{}, false
		},
		ToStr: func(self *values.NinstVal) string {
			return "Planet"
		},
	}

	entries := []values.ObjEntry{
		{Key: pool.Intern("new"), Val: values.MkFunc(&values.FuncVal{
			Kind: values.FuncNative,
			Name: "Planet.new",
			NativeFn: func(args []values.Litr) values.Litr {
				return values.MkNinst(&values.NinstVal{Class: nc, Payload: runtime.NewPlanet()})
			},
		})},
		{Key: pool.Intern("all"), Val: values.MkFunc(&values.FuncVal{
			Kind: values.FuncNative,
			Name: "Planet.all",
			NativeFn: func(args []values.Litr) values.Litr {
				list := argAt(args, 0).List
				planets := make([]*runtime.Planet, 0, len(list))
				for _, v := range list {
					if v.Kind != values.Ninst || v.Ninst == nil || v.Ninst.Class != nc {
						diag.Panic(diag.New(diag.TypeMismatch, "", 0, "Planet.all: every element must be a Planet"))
					}
					planets = append(planets, v.Ninst.Payload.(*runtime.Planet))
				}
				return values.MkList(runtime.PlanetAll(planets))
			},
		})},
	}
	return values.MkObj(entries)
}

// planetMethod binds a native method against the *runtime.Planet
// stored in self's Payload, returned as a FuncNativeMethod value the
// same way builtins.lookup binds a primitive-kind method.
func planetMethod(self *values.NinstVal, fn func(p *runtime.Planet, args []values.Litr) values.Litr) values.Litr {
	p := self.Payload.(*runtime.Planet)
	return values.MkFunc(&values.FuncVal{
		Kind: values.FuncNativeMethod,
		NativeMethod: func(recv values.Litr, args []values.Litr) values.Litr {
			return fn(p, args)
		},
	})
}
