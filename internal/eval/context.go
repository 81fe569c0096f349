// Package eval implements Key's evaluator: the mutually recursive
// `evil` (execute statement) / `calc` (evaluate expression) / `calc_ref`
// (evaluate to an assignable reference) operations, plus class/instance
// dispatch, call machinery, and the iterator protocol.
package eval

import (
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/pkg/ident"
)

// Context bundles the evaluator's process-wide state — interner pool,
// call stack, current file/line, wait-counter, and global options —
// into one struct threaded explicitly through every Evaluator method,
// rather than scattered as package-level singletons.
type Context struct {
	Interner *ident.Pool

	Stack []diag.Frame
	File  string
	Line  int

	Wait *runtime.WaitCounter

	Distribution string // printed in the panic footer and bare-CLI banner
	TraceAST     bool   // --ast CLI flag

	// Trace, if set, is invoked with each statement's file:line just
	// before it executes — the `key run --trace` flag's hook, grounded
	// on the classic --trace execution logging in run.go.
	Trace func(file string, line int)

	Loader  ModuleLoader
	Modules map[string]*runtime.Module
}

// ModuleLoader resolves a `mod`/`extern mod` path to a loaded Module.
// Kept as an interface (rather than a direct import) so internal/plugin
// can depend on internal/eval without a cycle back the other way.
type ModuleLoader interface {
	Load(path string, native bool) (*runtime.Module, error)
}

// NewContext builds a Context ready for a fresh program run.
func NewContext(interner *ident.Pool, distribution string) *Context {
	return &Context{
		Interner:     interner,
		Wait:         runtime.NewWaitCounter(),
		Distribution: distribution,
	}
}

func (c *Context) pushFrame(function, file string, line int) {
	c.Stack = append(c.Stack, diag.Frame{Function: function, File: file, Line: line})
}

func (c *Context) popFrame() {
	if len(c.Stack) > 0 {
		c.Stack = c.Stack[:len(c.Stack)-1]
	}
}

// snapshotStack returns the current call stack, deepest-first, for
// attaching to a diag.Error at the point it's raised.
func (c *Context) snapshotStack() []diag.Frame {
	out := make([]diag.Frame, len(c.Stack))
	for i, f := range c.Stack {
		out[len(c.Stack)-1-i] = f
	}
	return out
}

func (c *Context) fail(kind diag.Kind, format string, args ...any) *diag.Error {
	e := diag.New(kind, c.File, c.Line, format, args...)
	e.Stack = c.snapshotStack()
	return e
}
