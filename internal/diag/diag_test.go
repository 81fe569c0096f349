package diag

import (
	"strings"
	"testing"
	"time"

	"github.com/keylang/key/internal/values"
)

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{TypeMismatch, "type mismatch"},
		{ArityMismatch, "arity mismatch"},
		{UndefinedIdentifier, "undefined identifier"},
		{VisibilityViolation, "visibility violation"},
		{IndexOutOfRange, "index out of range"},
		{DivideByZero, "divide by zero"},
		{Uncatchable, "uncatchable"},
		{UserThrown, "user-thrown"},
	}
	for _, tc := range cases {
		if got := tc.k.String(); got != tc.want {
			t.Fatalf("Kind(%d).String() = %q, want %q", tc.k, got, tc.want)
		}
	}
}

func TestCatchable(t *testing.T) {
	if New(Uncatchable, "f.ks", 1, "boom").Catchable() {
		t.Fatalf("expected Uncatchable errors to report Catchable() == false")
	}
	if !New(DivideByZero, "f.ks", 1, "boom").Catchable() {
		t.Fatalf("expected DivideByZero errors to report Catchable() == true")
	}
}

func TestNewFormatsMessage(t *testing.T) {
	e := New(ArityMismatch, "f.ks", 3, "expected %d args, got %d", 2, 1)
	if e.Message != "expected 2 args, got 1" {
		t.Fatalf("unexpected message %q", e.Message)
	}
	if e.Error() != e.Message {
		t.Fatalf("expected Error() to return Message verbatim")
	}
}

func TestThrownCarriesValue(t *testing.T) {
	v := values.MkInt(99)
	e := Thrown("f.ks", 5, v)
	if e.Kind != UserThrown {
		t.Fatalf("expected UserThrown kind")
	}
	if e.Value.I != 99 {
		t.Fatalf("expected thrown value preserved, got %+v", e.Value)
	}
	if e.Message != "99" {
		t.Fatalf("expected message to be the thrown value's rendering, got %q", e.Message)
	}
}

func TestFormatBlockIncludesStackAndDistribution(t *testing.T) {
	e := &Error{
		Kind:    DivideByZero,
		Message: "division by zero",
		File:    "main.ks",
		Line:    10,
		Stack: []Frame{
			{Function: "inner", File: "main.ks", Line: 8},
			{Function: "outer", File: "main.ks", Line: 2},
		},
	}
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	out := FormatBlock(e, "acme-corp", now)

	for _, want := range []string{
		"> division by zero",
		"main.ks:第10行",
		"inner at main.ks:8",
		"outer at main.ks:2",
		"> Key Script CopyLeft by acme-corp",
		"2026-01-02",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("FormatBlock output missing %q, got:\n%s", want, out)
		}
	}
}

func TestFormatBlockWithoutStack(t *testing.T) {
	e := New(Uncatchable, "main.ks", 1, "fatal")
	out := FormatBlock(e, "acme-corp", time.Now())
	if !strings.Contains(out, "main.ks:第1行") {
		t.Fatalf("expected location line without trailing stack frames, got:\n%s", out)
	}
}
