package runtime

import (
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

// Module is either a local module (exported functions/classes from a
// `.ks` file) or a native module (functions and native-class
// descriptors loaded from a shared library). Modules live for the
// whole program.
type Module struct {
	Path   string
	Native bool

	Fns     map[ident.ID]*values.FuncVal
	Classes map[ident.ID]*values.ClassDef

	NativeClasses map[ident.ID]*values.NativeClass

	// Scope is the defining top-level scope for a script module; it is
	// promoted to static-outlive on load so exported
	// closures keep their captured environment for the program's life.
	Scope *Scope
}

// NewModule creates an empty module for path.
func NewModule(path string, native bool) *Module {
	return &Module{
		Path:          path,
		Native:        native,
		Fns:           make(map[ident.ID]*values.FuncVal),
		Classes:       make(map[ident.ID]*values.ClassDef),
		NativeClasses: make(map[ident.ID]*values.NativeClass),
	}
}

func (m *Module) ExportFn(name ident.ID, fn *values.FuncVal) { m.Fns[name] = fn }

func (m *Module) ExportClass(name ident.ID, cd *values.ClassDef) { m.Classes[name] = cd }

// FindClassIn implements `find_class_in(mod, name)`.
func (m *Module) FindClassIn(name ident.ID) (*values.ClassDef, bool) {
	cd, ok := m.Classes[name]
	return cd, ok
}

func (m *Module) FindFn(name ident.ID) (*values.FuncVal, bool) {
	fn, ok := m.Fns[name]
	return fn, ok
}
