package scan

import (
	"testing"

	"github.com/keylang/key/internal/token"
)

// TestNextToken walks a short script through NextToken and checks the
// exact token sequence, mirroring the classic lexer_test.go table shape.
func TestNextToken(t *testing.T) {
	input := "let x = 5;\nx += 10;\n"

	tests := []struct {
		literal string
		kind    token.Kind
	}{
		{"let", token.LET},
		{"x", token.IDENT},
		{"=", token.ASSIGN},
		{"5", token.INT},
		{";", token.SEMI},
		{"x", token.IDENT},
		{"+=", token.PLUS_EQ},
		{"10", token.INT},
		{";", token.SEMI},
		{"", token.EOF},
	}

	s := New(input)
	for i, tt := range tests {
		tok := s.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s (literal=%q)",
				i, tt.kind, tok.Kind, tok.Literal)
		}
		if tok.Kind != token.EOF && tok.Literal != tt.literal {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.literal, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := "let const lock if else for break continue return throw try catch match class using mod extern true false self"
	tests := []token.Kind{
		token.LET, token.CONST, token.LOCK, token.IF, token.ELSE, token.FOR,
		token.BREAK, token.CONTINUE, token.RETURN, token.THROW, token.TRY,
		token.CATCH, token.MATCH, token.CLASS, token.USING, token.MOD,
		token.EXTERN, token.TRUE, token.FALSE, token.KSELF,
	}

	s := New(input)
	for i, want := range tests {
		tok := s.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s (literal=%q)", i, want, tok.Kind, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := "+ - * / % ** & | ^ << >> = += -= *= /= %= &= |= ^= <<= >>= == != < > <= >= && || ! -> -. -: ::"
	tests := []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.POW,
		token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR,
		token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PERCENT_EQ, token.AMP_EQ, token.PIPE_EQ, token.CARET_EQ, token.SHL_EQ, token.SHR_EQ,
		token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE,
		token.ANDAND, token.OROR, token.BANG,
		token.ARROW, token.MODACC, token.MODCLS, token.IMPLACC,
	}

	s := New(input)
	for i, want := range tests {
		tok := s.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s (literal=%q)", i, want, tok.Kind, tok.Literal)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	s := New("42 3.14 7u")

	tok := s.NextToken()
	if tok.Kind != token.INT || tok.Literal != "42" {
		t.Fatalf("expected INT 42, got %s %q", tok.Kind, tok.Literal)
	}
	tok = s.NextToken()
	if tok.Kind != token.FLOAT || tok.Literal != "3.14" {
		t.Fatalf("expected FLOAT 3.14, got %s %q", tok.Kind, tok.Literal)
	}
	tok = s.NextToken()
	if tok.Kind != token.UINT || tok.Literal != "7u" {
		t.Fatalf("expected UINT 7u, got %s %q", tok.Kind, tok.Literal)
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	s := New("`hi\\nthere`")
	tok := s.NextToken()
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING, got %s", tok.Kind)
	}
	if tok.Literal != "hi\nthere" {
		t.Fatalf("expected %q, got %q", "hi\nthere", tok.Literal)
	}
}

func TestBufLiteralHexNibbles(t *testing.T) {
	s := New("'{68 65 6c 6c 6f}'")
	tok := s.NextToken()
	if tok.Kind != token.BUF {
		t.Fatalf("expected BUF, got %s", tok.Kind)
	}
	if tok.Literal != "hello" {
		t.Fatalf("expected %q, got %q", "hello", tok.Literal)
	}
}

func TestIllegalCharacterRecordsError(t *testing.T) {
	s := New("let x = 1 $ 2;")
	for {
		tok := s.NextToken()
		if tok.Kind == token.EOF {
			break
		}
	}
	if len(s.Errors()) == 0 {
		t.Fatalf("expected an illegal-character error to be recorded")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	s := New("let x = 1; // trailing comment\n/* block\ncomment */let y = 2;")
	var kinds []token.Kind
	for {
		tok := s.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}
