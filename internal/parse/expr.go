package parse

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/token"
)

// Precedence levels, lowest to highest. Assignment and compound
// assignment are right-associative and bind loosest among operators;
// `,` and statement terminators sit below LOWEST implicitly.
const (
	LOWEST  = iota
	ASSIGN_ // = += -= etc, right-assoc
	LOGOR
	LOGAND
	BITOR
	BITXOR
	BITAND
	EQUALITY
	COMPARE
	SHIFT
	SUM
	PRODUCT
	POWER
	UNARY
	POSTFIX
)

var precedences = map[token.Kind]int{
	token.ASSIGN: ASSIGN_, token.PLUS_EQ: ASSIGN_, token.MINUS_EQ: ASSIGN_,
	token.STAR_EQ: ASSIGN_, token.SLASH_EQ: ASSIGN_, token.PERCENT_EQ: ASSIGN_,
	token.AMP_EQ: ASSIGN_, token.PIPE_EQ: ASSIGN_, token.CARET_EQ: ASSIGN_,
	token.SHL_EQ: ASSIGN_, token.SHR_EQ: ASSIGN_,

	token.OROR:  LOGOR,
	token.ANDAND: LOGAND,

	token.PIPE:  BITOR,
	token.CARET: BITXOR,
	token.AMP:   BITAND,

	token.EQ: EQUALITY, token.NEQ: EQUALITY,

	token.LT: COMPARE, token.LE: COMPARE, token.GT: COMPARE, token.GE: COMPARE,

	token.SHL: SHIFT, token.SHR: SHIFT,

	token.PLUS: SUM, token.MINUS: SUM,

	token.STAR: PRODUCT, token.SLASH: PRODUCT, token.PERCENT: PRODUCT,

	token.POW: POWER,
}

func isAssignOp(k token.Kind) bool {
	switch k {
	case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PERCENT_EQ, token.AMP_EQ, token.PIPE_EQ, token.CARET_EQ, token.SHL_EQ, token.SHR_EQ:
		return true
	}
	return false
}

// parseExpr implements precedence-climbing (Pratt) expression parsing.
func (p *Parser) parseExpr(minPrec int) ast.Expression {
	left := p.parseUnary()

	for {
		op := p.curTok().Kind
		prec, ok := precedences[op]
		if !ok || prec < minPrec {
			break
		}
		pos := p.curTok().Pos
		p.next()

		if isAssignOp(op) {
			// right-associative
			right := p.parseExpr(prec)
			left = &ast.BinaryExpr{Base: b(pos), Op: op, Left: left, Right: right}
			continue
		}

		nextMin := prec + 1
		if op == token.POW {
			nextMin = prec // right-assoc exponent
		}
		right := p.parseExpr(nextMin)
		left = &ast.BinaryExpr{Base: b(pos), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.curTok().Kind == token.MINUS || p.curTok().Kind == token.BANG {
		pos := p.curTok().Pos
		op := p.curTok().Kind
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Base: b(pos), Op: op, Operand: operand}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(left ast.Expression) ast.Expression {
	for {
		switch p.curTok().Kind {
		case token.DOT:
			pos := p.curTok().Pos
			p.next()
			name := p.expect(token.IDENT).Literal
			left = &ast.PropertyExpr{Base: b(pos), Left: left, Name: name}
		case token.LBRACKET:
			pos := p.curTok().Pos
			p.next()
			saved := p.blockContext
			p.blockContext = false
			idx := p.parseExpr(LOWEST)
			p.blockContext = saved
			p.expect(token.RBRACKET)
			left = &ast.IndexExpr{Base: b(pos), Left: left, Index: idx}
		case token.LPAREN:
			pos := p.curTok().Pos
			p.next()
			saved := p.blockContext
			p.blockContext = false
			var args []ast.Expression
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				args = append(args, p.parseExpr(ASSIGN_+1))
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.blockContext = saved
			p.expect(token.RPAREN)
			left = &ast.CallExpr{Base: b(pos), Callee: left, Args: args}
		case token.IMPLACC:
			pos := p.curTok().Pos
			p.next()
			name := p.expect(token.IDENT).Literal
			left = &ast.ImplAccExpr{Base: b(pos), Left: left, Name: name}
		default:
			return left
		}
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	pos := p.curTok().Pos
	switch p.curTok().Kind {
	case token.INT:
		v := p.curTok().Literal
		p.next()
		return &ast.IntLit{Base: b(pos), Value: parseInt(v)}
	case token.UINT:
		v := p.curTok().Literal
		p.next()
		return &ast.UintLit{Base: b(pos), Value: parseUint(v)}
	case token.FLOAT:
		v := p.curTok().Literal
		p.next()
		return &ast.FloatLit{Base: b(pos), Value: parseFloat(v)}
	case token.TRUE:
		p.next()
		return &ast.BoolLit{Base: b(pos), Value: true}
	case token.FALSE:
		p.next()
		return &ast.BoolLit{Base: b(pos), Value: false}
	case token.STRING:
		v := p.curTok().Literal
		p.next()
		return &ast.StrLit{Base: b(pos), Value: v}
	case token.BUF:
		v := p.curTok().Literal
		p.next()
		return &ast.BufLit{Base: b(pos), Value: []byte(v)}
	case token.KSELF:
		p.next()
		return &ast.KselfExpr{Base: b(pos)}
	case token.LPAREN:
		// Either a parenthesized expression or a function literal
		// `(params)->(){...}` — disambiguate by scanning ahead isn't
		// available without backtracking, so function literals are
		// introduced by parseFuncLitOrParen.
		return p.parseFuncLitOrParen()
	case token.LBRACKET:
		return p.parseListExpr()
	case token.LBRACE:
		return p.parseObjExpr()
	case token.IDENT:
		name := p.curTok().Literal
		p.next()
		if p.curTok().Kind == token.MODACC || p.curTok().Kind == token.MODCLS {
			kind := ast.ModFuncAcc
			if p.curTok().Kind == token.MODCLS {
				kind = ast.ModClsAcc
			}
			p.next()
			member := p.expect(token.IDENT).Literal
			return &ast.ModAccExpr{Base: b(pos), Kind: kind, Module: name, Name: member}
		}
		if p.at(token.LBRACE) && !p.blockContext {
			return p.parseNewInst(pos, &ast.Variant{Base: b(pos), Name: name})
		}
		return &ast.Variant{Base: b(pos), Name: name}
	default:
		p.errorf("unexpected token %s", p.curTok().Kind)
		p.next()
		return &ast.UninitLit{Base: b(pos)}
	}
}

func (p *Parser) parseListExpr() ast.Expression {
	pos := p.curTok().Pos
	p.next()
	saved := p.blockContext
	p.blockContext = false
	lst := &ast.ListExpr{Base: b(pos)}
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		lst.Elems = append(lst.Elems, p.parseExpr(ASSIGN_+1))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.blockContext = saved
	p.expect(token.RBRACKET)
	return lst
}

func (p *Parser) parseObjExpr() ast.Expression {
	pos := p.curTok().Pos
	p.next()
	saved := p.blockContext
	p.blockContext = false
	obj := &ast.ObjExpr{Base: b(pos)}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		name := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		val := p.parseExpr(ASSIGN_ + 1)
		obj.Fields = append(obj.Fields, ast.ObjField{Name: name, Value: val})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.blockContext = saved
	p.expect(token.RBRACE)
	return obj
}

func (p *Parser) parseNewInst(pos token.Position, class ast.Expression) ast.Expression {
	p.expect(token.LBRACE)
	saved := p.blockContext
	p.blockContext = false
	inst := &ast.NewInstExpr{Base: b(pos), Class: class}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		name := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		val := p.parseExpr(ASSIGN_ + 1)
		inst.Fields = append(inst.Fields, ast.ObjField{Name: name, Value: val})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.blockContext = saved
	p.expect(token.RBRACE)
	return inst
}

// parseFuncLitOrParen parses a `(` that begins either a parameter list
// for a function literal (`(a, b)->(){}`) or a parenthesized
// sub-expression. Key's grammar makes this unambiguous: a parameter
// list is always followed by `->`.
func (p *Parser) parseFuncLitOrParen() ast.Expression {
	pos := p.curTok().Pos
	mark := p.mark()
	p.next() // consume '('

	// Try parameter-list parse.
	params, ok := p.tryParseParams()
	if ok && p.at(token.ARROW) {
		p.next()
		return p.parseFuncTailFrom(pos, params)
	}

	// Not a function literal: backtrack and parse as a parenthesized expr.
	p.reset(mark)
	p.next()
	saved := p.blockContext
	p.blockContext = false
	x := p.parseExpr(LOWEST)
	p.blockContext = saved
	p.expect(token.RPAREN)
	return x
}

func (p *Parser) tryParseParams() ([]ast.Param, bool) {
	var params []ast.Param
	for !p.at(token.RPAREN) {
		if !p.at(token.IDENT) {
			return nil, false
		}
		name := p.curTok().Literal
		p.next()
		param := ast.Param{Name: name}
		if p.accept(token.ASSIGN) {
			param.Default = p.parseExpr(ASSIGN_ + 1)
		}
		params = append(params, param)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.at(token.RPAREN) {
		return nil, false
	}
	p.next()
	return params, true
}

// parseFuncTail parses `(params)->(){ body }` starting at the opening
// paren of the parameter list, used by class method declarations and
// `export name(...)`.
func (p *Parser) parseFuncTail(pos token.Position) *ast.FuncLit {
	p.expect(token.LPAREN)
	params, ok := p.tryParseParams()
	if !ok {
		p.errorf("malformed parameter list")
	}
	p.expect(token.ARROW)
	return p.parseFuncTailFrom(pos, params)
}

func (p *Parser) parseFuncTailFrom(pos token.Position, params []ast.Param) *ast.FuncLit {
	p.expect(token.LPAREN)
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.FuncLit{Base: b(pos), Params: params, Body: &ast.Statements{List: body.List, At: body.At}}
}
