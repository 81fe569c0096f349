// Package key is the embeddable entry point to the Key language:
// compile a program once, run it, and get back its result or a
// formatted panic block. Uses a functional-options Engine shape
// (`key.New(opts...)`, `engine.Compile(src)`, `program.AST()`); see
// DESIGN.md for where this shape is grounded.
package key

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/builtins"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/eval"
	"github.com/keylang/key/internal/parse"
	"github.com/keylang/key/internal/plugin"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/scan"
	"github.com/keylang/key/internal/values"
	"github.com/keylang/key/pkg/ident"
)

const defaultDistribution = "key-oss"

// Engine owns one interner, one evaluator Context, and the top scope
// every Compile'd Program runs against.
type Engine struct {
	interner *ident.Pool
	ctx      *eval.Context
	ev       *eval.Evaluator
	top      *runtime.Scope
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	distribution string
	pluginPaths  []string
}

// WithDistribution sets the tag stamped into panic output and the bare
// CLI banner. Defaults to "key-oss".
func WithDistribution(tag string) Option {
	return func(c *engineConfig) { c.distribution = tag }
}

// WithPluginSearchPaths sets the directories `mod`/`extern mod`
// statements search after a bare relative path fails to resolve.
func WithPluginSearchPaths(paths []string) Option {
	return func(c *engineConfig) { c.pluginPaths = paths }
}

// New builds an Engine: a fresh interner, Context, top scope with
// built-ins registered, and a module loader wired in.
func New(opts ...Option) *Engine {
	cfg := &engineConfig{distribution: defaultDistribution}
	for _, opt := range opts {
		opt(cfg)
	}

	interner := ident.NewPool()
	ctx := eval.NewContext(interner, cfg.distribution)
	ctx.Modules = make(map[string]*runtime.Module)
	ev := eval.New(ctx)
	ctx.Loader = plugin.New(ev, cfg.pluginPaths)

	top := runtime.NewScope(nil)
	builtins.Register(top, interner)

	return &Engine{interner: interner, ctx: ctx, ev: ev, top: top}
}

// CompiledProgram is a parsed, not-yet-run Key source file. Mirrors
// the classic Program type: Compile separates parsing from
// execution so a host can inspect the AST (`--ast`, `key fmt`) before
// deciding whether to run it.
type CompiledProgram struct {
	tree *ast.Statements
}

// AST returns the parsed statement tree for inspection or printing.
func (p *CompiledProgram) AST() *ast.Statements { return p.tree }

// Compile scans and parses source, returning a CompiledProgram ready
// for Exec, or a parse error. It does not evaluate anything, keeping parsing
// and execution as separate steps.
func (e *Engine) Compile(source string) (*CompiledProgram, error) {
	sc := scan.New(source)
	p := parse.New(sc)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &parseError{errs}
	}
	return &CompiledProgram{tree: prog}, nil
}

// Run compiles and evaluates source in one step, returning its
// top-level `return` value and any uncaught runtime error as a
// formatted panic block.
func (e *Engine) Run(source string) (values.Litr, error) {
	prog, err := e.Compile(source)
	if err != nil {
		return values.MkUninit(), err
	}
	return e.Exec(prog)
}

// RunFile reads, compiles, and evaluates a .ks file.
func (e *Engine) RunFile(path string) (values.Litr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return values.MkUninit(), err
	}
	e.ctx.File = path
	return e.Run(string(data))
}

// Exec evaluates an already-compiled Program against this Engine's
// top scope.
func (e *Engine) Exec(p *CompiledProgram) (values.Litr, error) {
	result, derr := e.ev.Run(p.tree, e.top)
	if derr != nil {
		return values.MkUninit(), &runError{err: derr, distribution: e.distribution()}
	}
	return result, nil
}

// EnableTrace wires a per-statement file:line logger into the
// evaluator, backing `key run --trace`.
func (e *Engine) EnableTrace(w io.Writer) {
	e.ctx.Trace = func(file string, line int) {
		fmt.Fprintf(w, "[trace] %s:%d\n", file, line)
	}
}

// ExitCode maps a top-level `return` value to a process exit code: the
// integer return value truncated to 8 bits, or 0 on Uninit.
func ExitCode(v values.Litr) int {
	switch v.Kind {
	case values.Int:
		return int(byte(v.I))
	case values.Uint:
		return int(byte(v.U))
	default:
		return 0
	}
}

// RegisterFunction binds a host Go function as a global Key can call
// by name, converting arguments/return value via reflection.
func (e *Engine) RegisterFunction(name string, fn any) {
	e.top.Define(e.interner.Intern(name), values.MkFunc(eval.WrapExternFunc(fn)), false)
}

// Interner exposes the engine's identifier pool, e.g. so a host
// program can intern its own global names before Run.
func (e *Engine) Interner() *ident.Pool { return e.interner }

// TopScope exposes the engine's top-level scope so a host can define
// extra globals (via internal/eval's extern trampoline) before Run.
func (e *Engine) TopScope() *runtime.Scope { return e.top }

func (e *Engine) distribution() string { return e.ctx.Distribution }

type parseError struct{ errs []string }

func (p *parseError) Error() string {
	msg := "parse error"
	if len(p.errs) > 0 {
		msg = p.errs[0]
	}
	return msg
}

// Errors returns every parse error collected, not just the first.
func (p *parseError) Errors() []string { return p.errs }

// runError wraps an uncaught *diag.Error with the standard
// panic-block rendering, so a host printing err.Error() gets the
// exact format directly.
type runError struct {
	err          *diag.Error
	distribution string
}

func (r *runError) Error() string {
	return diag.FormatBlock(r.err, r.distribution, time.Now())
}

// Unwrap exposes the underlying *diag.Error for callers that want to
// inspect Kind/Stack/Value directly instead of the formatted string.
func (r *runError) Unwrap() *diag.Error { return r.err }
