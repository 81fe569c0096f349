// Package parse implements Key's recursive-descent parser. Like
// internal/scan, this is an external collaborator: its only contract
// with the runtime core is that it produces the internal/ast
// Statements tree.
package parse

import (
	"fmt"

	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/scan"
	"github.com/keylang/key/internal/token"
)

// Parser consumes a token stream from a Scanner and builds an AST. All
// scanned tokens are cached in buf so the function-literal-vs-parenthesized-
// expression disambiguation (parseFuncLitOrParen) can mark a position and
// backtrack to it freely, not just across the immediate two-token window.
type Parser struct {
	sc  *scan.Scanner
	buf []token.Token
	idx int // index of cur within buf

	errs []string

	// blockContext suppresses NewInstExpr parsing (`Name{...}`) while
	// parsing an expression immediately followed by a statement block,
	// e.g. the iterator in `for id:iter { ... }` or the scrutinee in
	// `match x { ... }`, where `{` always opens the block/arms instead.
	blockContext bool
}

// New creates a Parser reading from sc.
func New(sc *scan.Scanner) *Parser {
	p := &Parser{sc: sc}
	p.fill(2)
	return p
}

// fill ensures buf holds at least n tokens.
func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		p.buf = append(p.buf, p.sc.NextToken())
	}
}

func (p *Parser) tokAt(i int) token.Token {
	p.fill(i + 1)
	return p.buf[i]
}

// cur and peek mirror the classic two-token-lookahead API on top of buf.
func (p *Parser) curTok() token.Token  { return p.tokAt(p.idx) }
func (p *Parser) peekTok() token.Token { return p.tokAt(p.idx + 1) }

// Errors returns accumulated parse error messages.
func (p *Parser) Errors() []string { return append(append([]string{}, p.sc.Errors()...), p.errs...) }

func (p *Parser) next() { p.idx++ }

// mark returns a position that reset can later backtrack to.
func (p *Parser) mark() int { return p.idx }

func (p *Parser) reset(m int) { p.idx = m }

func (p *Parser) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...) + fmt.Sprintf(" at %d:%d", p.curTok().Pos.Line, p.curTok().Pos.Column)
	p.errs = append(p.errs, msg)
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.curTok().Kind != k {
		p.errorf("expected %s, got %s", k, p.curTok().Kind)
	}
	t := p.curTok()
	p.next()
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.curTok().Kind == k }

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

// ParseProgram parses an entire source file into a top-level Statements
// tree.
func (p *Parser) ParseProgram() *ast.Statements {
	start := p.curTok().Pos
	out := &ast.Statements{At: start}
	for !p.at(token.EOF) {
		if s := p.parseStatement(); s != nil {
			out.List = append(out.List, s)
		} else {
			p.next()
		}
	}
	return out
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBRACE).Pos
	blk := &ast.BlockStmt{Base: ast.Base{At: start}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if s := p.parseStatement(); s != nil {
			blk.List = append(blk.List, s)
		} else {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return blk
}

func b(pos token.Position) ast.Base { return ast.Base{At: pos} }
