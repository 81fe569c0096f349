package parse

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curTok().Kind {
	case token.LET, token.CONST:
		return p.parseLet()
	case token.LOCK:
		return p.parseLock()
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		pos := p.curTok().Pos
		p.next()
		p.accept(token.SEMI)
		return &ast.BreakStmt{Base: b(pos)}
	case token.CONTINUE:
		pos := p.curTok().Pos
		p.next()
		p.accept(token.SEMI)
		return &ast.ContinueStmt{Base: b(pos)}
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.MATCH:
		return p.parseMatch()
	case token.CLASS:
		return p.parseClass()
	case token.USING:
		return p.parseUsing()
	case token.MOD, token.EXTERN:
		return p.parseMod()
	case token.IDENT:
		if p.curTok().Literal == "export" {
			return p.parseExport()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseExprStmt() ast.Statement {
	pos := p.curTok().Pos
	x := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.ExprStmt{Base: b(pos), X: x}
}

func (p *Parser) parseLet() ast.Statement {
	pos := p.curTok().Pos
	isConst := p.curTok().Kind == token.CONST
	p.next()

	take := p.accept(token.LT)

	target := p.parseBindTarget()
	p.expect(token.ASSIGN)
	val := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.LetStmt{Base: b(pos), Target: target, Value: val, Const: isConst, Take: take}
}

func (p *Parser) parseBindTarget() ast.BindTarget {
	switch p.curTok().Kind {
	case token.LBRACKET:
		p.next()
		var names []string
		for !p.at(token.RBRACKET) && !p.at(token.EOF) {
			names = append(names, p.expect(token.IDENT).Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACKET)
		return ast.BindTarget{List: names}
	case token.LBRACE:
		p.next()
		var names []string
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			names = append(names, p.expect(token.IDENT).Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
		return ast.BindTarget{Obj: names}
	default:
		return ast.BindTarget{Name: p.expect(token.IDENT).Literal}
	}
}

func (p *Parser) parseLock() ast.Statement {
	pos := p.curTok().Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	p.accept(token.SEMI)
	return &ast.LockStmt{Base: b(pos), Name: name}
}

func (p *Parser) parseIf() ast.Statement {
	pos := p.curTok().Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	then := p.parseBlock()
	st := &ast.IfStmt{Base: b(pos), Cond: cond, Then: then}
	if p.at(token.ELSE) {
		p.next()
		if p.at(token.IF) {
			st.Else = p.parseIf()
		} else {
			st.Else = p.parseBlock()
		}
	}
	return st
}

// parseFor handles the three for-loop forms: `for!`, `for(cond)`, and
// `for [id:]iter`.
func (p *Parser) parseFor() ast.Statement {
	pos := p.curTok().Pos
	p.next()

	if p.at(token.BANG) {
		p.next()
		return &ast.ForLoopStmt{Base: b(pos), Body: p.parseBlock()}
	}
	if p.at(token.LPAREN) {
		p.next()
		cond := p.parseExpr(LOWEST)
		p.expect(token.RPAREN)
		return &ast.ForWhileStmt{Base: b(pos), Cond: cond, Body: p.parseBlock()}
	}

	// for id:iter  OR  for iter
	id := ""
	if p.at(token.IDENT) && p.peekTok().Kind == token.COLON {
		id = p.curTok().Literal
		p.next()
		p.next()
	}
	p.blockContext = true
	iter := p.parseExpr(LOWEST)
	p.blockContext = false
	return &ast.ForIterStmt{Base: b(pos), Id: id, Iter: iter, Body: p.parseBlock()}
}

func (p *Parser) parseReturn() ast.Statement {
	pos := p.curTok().Pos
	p.next()
	if p.accept(token.SEMI) {
		return &ast.ReturnStmt{Base: b(pos)}
	}
	val := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.ReturnStmt{Base: b(pos), Value: val}
}

func (p *Parser) parseThrow() ast.Statement {
	pos := p.curTok().Pos
	p.next()
	val := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.ThrowStmt{Base: b(pos), Value: val}
}

func (p *Parser) parseTry() ast.Statement {
	pos := p.curTok().Pos
	p.next()
	body := p.parseBlock()
	name := ".err"
	p.expect(token.CATCH)
	if p.at(token.IDENT) {
		name = p.curTok().Literal
		p.next()
	}
	catchBody := p.parseBlock()
	return &ast.TryStmt{Base: b(pos), Body: body, Catch: ast.CatchClause{Name: name, Body: catchBody}}
}

func (p *Parser) parseMatch() ast.Statement {
	pos := p.curTok().Pos
	p.next()
	p.blockContext = true
	scrutinee := p.parseExpr(LOWEST)
	p.blockContext = false
	p.expect(token.LBRACE)

	st := &ast.MatchStmt{Base: b(pos), Scrutinee: scrutinee}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.MINUS) && p.peekTok().Kind == token.LBRACE {
			p.next()
			st.Default = p.parseBlock()
		} else {
			var conds []ast.MatchCond
			for {
				cmp, x := p.parseMatchCond()
				conds = append(conds, ast.MatchCond{Cmp: cmp, X: x})
				if !p.accept(token.COMMA) || p.at(token.LBRACE) {
					break
				}
			}
			body := p.parseBlock()
			st.Arms = append(st.Arms, ast.MatchArm{Conds: conds, Body: body})
		}
		p.accept(token.COMMA)
	}
	p.expect(token.RBRACE)
	return st
}

func (p *Parser) parseMatchCond() (ast.MatchComparator, ast.Expression) {
	cmp := ast.MatchEQ
	switch p.curTok().Kind {
	case token.LT:
		cmp = ast.MatchLT
		p.next()
	case token.LE:
		cmp = ast.MatchLE
		p.next()
	case token.GT:
		cmp = ast.MatchGT
		p.next()
	case token.GE:
		cmp = ast.MatchGE
		p.next()
	}
	return cmp, p.parseExpr(COMPARE + 1)
}

func (p *Parser) parseClass() *ast.ClassStmt {
	pos := p.curTok().Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LBRACE)

	st := &ast.ClassStmt{Base: b(pos), Name: name}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		public := p.accept(token.GT)
		if p.peekTok().Kind == token.LPAREN {
			methodName := p.curTok().Literal
			p.next()
			fn := p.parseFuncTail(p.curTok().Pos)
			st.Methods = append(st.Methods, ast.MethodDecl{Name: methodName, Fn: fn, Public: public})
		} else {
			propName := p.expect(token.IDENT).Literal
			st.Props = append(st.Props, ast.PropDecl{Name: propName, Public: public})
		}
		p.accept(token.COMMA)
	}
	p.expect(token.RBRACE)
	return st
}

func (p *Parser) parseUsing() ast.Statement {
	pos := p.curTok().Pos
	p.next()
	alias := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	cls := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.UsingStmt{Base: b(pos), Alias: alias, Class: cls}
}

func (p *Parser) parseMod() ast.Statement {
	pos := p.curTok().Pos
	native := p.curTok().Kind == token.EXTERN
	p.next()
	if native {
		p.expect(token.MOD)
	}
	alias := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	path := p.expect(token.STRING).Literal
	p.accept(token.SEMI)
	return &ast.ModStmt{Base: b(pos), Alias: alias, Path: path, Native: native}
}

func (p *Parser) parseExport() ast.Statement {
	pos := p.curTok().Pos
	p.next() // consume `export` (a contextual keyword, not in token.Kind)
	if p.at(token.CLASS) {
		cls := p.parseClass()
		return &ast.ExportStmt{Base: b(pos), Kind: ast.ExportCls, Name: cls.Name, Cls: cls}
	}
	name := p.expect(token.IDENT).Literal
	fn := p.parseFuncTail(p.curTok().Pos)
	return &ast.ExportStmt{Base: b(pos), Kind: ast.ExportFn, Name: name, Fn: fn}
}
