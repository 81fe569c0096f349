// Package diag implements Key's error kinds and panic-block formatting.
package diag

import (
	"fmt"
	"strings"
	"time"

	"github.com/keylang/key/internal/values"
)

// Kind is one of the eight closed error kinds a Key program can raise.
type Kind int

const (
	TypeMismatch Kind = iota
	ArityMismatch
	UndefinedIdentifier
	VisibilityViolation
	IndexOutOfRange
	DivideByZero
	Uncatchable
	UserThrown
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case ArityMismatch:
		return "arity mismatch"
	case UndefinedIdentifier:
		return "undefined identifier"
	case VisibilityViolation:
		return "visibility violation"
	case IndexOutOfRange:
		return "index out of range"
	case DivideByZero:
		return "divide by zero"
	case Uncatchable:
		return "uncatchable"
	case UserThrown:
		return "user-thrown"
	}
	return "unknown error"
}

// Frame is one stack entry: `<function> at <file>:<line>`.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Error is Key's single error type: all semantic errors abort via the
// panic mechanism, and try/catch (except for Uncatchable) recovers one
// of these from a Go panic.
type Error struct {
	Kind    Kind
	Message string
	File    string
	Line    int
	Stack   []Frame // deepest-first

	// Value carries the thrown payload for UserThrown errors so
	// `catch e { ... }` can bind it.
	Value values.Litr
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, file string, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), File: file, Line: line}
}

func Thrown(file string, line int, v values.Litr) *Error {
	return &Error{Kind: UserThrown, Message: v.String(), File: file, Line: line, Value: v}
}

// Catchable reports whether try/catch may intercept e — every kind
// except Uncatchable.
func (e *Error) Catchable() bool { return e.Kind != Uncatchable }

// Panic raises e as a Go panic, carrying the *Error itself so a
// recover() site can type-assert it apart from unrelated panics.
func Panic(e *Error) { panic(e) }

// FormatBlock renders the standard panic-output block for an
// unhandled error, byte-for-byte including the Chinese line-number
// marker, which is intentional and not a translation choice.
//
//	> <message>
//	  <file>:第<line>行<stack>
//
//	> Key Script CopyLeft by <distribution>
//	  <date>
func FormatBlock(e *Error, distribution string, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "> %s\n", e.Message)
	fmt.Fprintf(&sb, "  %s:第%d行", e.File, e.Line)
	for _, f := range e.Stack {
		fmt.Fprintf(&sb, "\n  %s at %s:%d", f.Function, f.File, f.Line)
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "> Key Script CopyLeft by %s\n", distribution)
	fmt.Fprintf(&sb, "  %s", now.Format("2006-01-02"))
	return sb.String()
}
