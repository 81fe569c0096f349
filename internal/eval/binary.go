package eval

import (
	"github.com/keylang/key/internal/ast"
	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/runtime"
	"github.com/keylang/key/internal/token"
	"github.com/keylang/key/internal/values"
)

func (e *Evaluator) calcUnary(n *ast.UnaryExpr, s *runtime.Scope) values.Litr {
	v := e.Calc(n.Operand, s)
	switch n.Op {
	case token.MINUS:
		switch v.Kind {
		case values.Int:
			return values.MkInt(-v.I)
		case values.Float:
			return values.MkFloat(-v.F)
		case values.Uint:
			return values.MkInt(-int64(v.U))
		}
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "unary - requires a numeric operand"))
	case token.BANG:
		return values.MkBool(!v.Truthy())
	}
	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "unsupported unary operator %s", n.Op))
	return values.MkUninit()
}

// calcBinary groups binary operators: assignment and
// compound-assignment resolve a Ref on the left and mutate through it;
// everything else evaluates both sides by value.
func (e *Evaluator) calcBinary(n *ast.BinaryExpr, s *runtime.Scope) values.Litr {
	if isAssignOp(n.Op) {
		return e.calcAssign(n, s)
	}

	switch n.Op {
	case token.ANDAND:
		l := e.Calc(n.Left, s)
		if !l.Truthy() {
			return values.MkBool(false)
		}
		return values.MkBool(e.Calc(n.Right, s).Truthy())
	case token.OROR:
		l := e.Calc(n.Left, s)
		if l.Truthy() {
			return values.MkBool(true)
		}
		return values.MkBool(e.Calc(n.Right, s).Truthy())
	}

	l := e.Calc(n.Left, s)
	r := e.Calc(n.Right, s)

	switch n.Op {
	case token.EQ:
		return values.MkBool(values.Equal(l, r))
	case token.NEQ:
		return values.MkBool(!values.Equal(l, r))
	case token.LT, token.LE, token.GT, token.GE:
		c, ok := values.Compare(l, r)
		if !ok {
			diag.Panic(e.Ctx.fail(diag.TypeMismatch, "values are not ordered for comparison"))
		}
		switch n.Op {
		case token.LT:
			return values.MkBool(c < 0)
		case token.LE:
			return values.MkBool(c <= 0)
		case token.GT:
			return values.MkBool(c > 0)
		default:
			return values.MkBool(c >= 0)
		}
	case token.PLUS:
		return e.arith(l, r, token.PLUS)
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.POW:
		return e.arith(l, r, n.Op)
	case token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR:
		return e.bitwise(l, r, n.Op)
	}

	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "unsupported binary operator %s", n.Op))
	return values.MkUninit()
}

// arith implements the numeric-promotion rule: Int op Int stays Int
// (except `/` and `**`, which always promote to Float, and Uint which
// is preserved when both sides are Uint); any Float operand promotes
// the whole expression to Float.
func (e *Evaluator) arith(l, r values.Litr, op token.Kind) values.Litr {
	if op == token.PLUS && l.Kind == values.Str {
		return values.MkStr(l.S + r.String())
	}
	if op == token.PLUS && l.Kind == values.List && r.Kind == values.List {
		out := make([]values.Litr, 0, len(l.List)+len(r.List))
		out = append(out, l.List...)
		out = append(out, r.List...)
		return values.MkList(out)
	}

	if l.Kind == values.Uint && r.Kind == values.Uint && op != token.SLASH && op != token.POW {
		a, b := l.U, r.U
		switch op {
		case token.PLUS:
			return values.MkUint(a + b)
		case token.MINUS:
			return values.MkUint(a - b)
		case token.STAR:
			return values.MkUint(a * b)
		case token.PERCENT:
			if b == 0 {
				diag.Panic(e.Ctx.fail(diag.DivideByZero, "modulo by zero"))
			}
			return values.MkUint(a % b)
		}
	}

	if l.Kind == values.Int && r.Kind == values.Int && op != token.SLASH && op != token.POW {
		a, b := l.I, r.I
		switch op {
		case token.PLUS:
			return values.MkInt(a + b)
		case token.MINUS:
			return values.MkInt(a - b)
		case token.STAR:
			return values.MkInt(a * b)
		case token.PERCENT:
			if b == 0 {
				diag.Panic(e.Ctx.fail(diag.DivideByZero, "modulo by zero"))
			}
			return values.MkInt(a % b)
		}
	}

	af, aok := l.AsF64()
	bf, bok := r.AsF64()
	if !aok || !bok {
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "arithmetic requires numeric operands"))
	}
	switch op {
	case token.PLUS:
		return values.MkFloat(af + bf)
	case token.MINUS:
		return values.MkFloat(af - bf)
	case token.STAR:
		return values.MkFloat(af * bf)
	case token.SLASH:
		if bf == 0 {
			diag.Panic(e.Ctx.fail(diag.DivideByZero, "division by zero"))
		}
		return values.MkFloat(af / bf)
	case token.POW:
		return values.MkFloat(ipow(af, bf))
	}
	diag.Panic(e.Ctx.fail(diag.TypeMismatch, "unsupported arithmetic operator %s", op))
	return values.MkUninit()
}

func ipow(base, exp float64) float64 {
	result := 1.0
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	if exp != float64(int(exp)) {
		return result // non-integer exponents: left unspecified beyond positive integer powers
	}
	return result
}

func (e *Evaluator) bitwise(l, r values.Litr, op token.Kind) values.Litr {
	toU := func(v values.Litr) (uint64, bool) {
		switch v.Kind {
		case values.Uint:
			return v.U, true
		case values.Int:
			return uint64(v.I), true
		}
		return 0, false
	}
	a, aok := toU(l)
	b, bok := toU(r)
	if !aok || !bok {
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "bitwise operators require Int or Uint operands"))
	}
	var res uint64
	switch op {
	case token.AMP:
		res = a & b
	case token.PIPE:
		res = a | b
	case token.CARET:
		res = a ^ b
	case token.SHL:
		res = a << b
	case token.SHR:
		res = a >> b
	}
	if l.Kind == values.Uint {
		return values.MkUint(res)
	}
	return values.MkInt(int64(res))
}

func isAssignOp(k token.Kind) bool {
	switch k {
	case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PERCENT_EQ, token.AMP_EQ, token.PIPE_EQ, token.CARET_EQ, token.SHL_EQ, token.SHR_EQ:
		return true
	}
	return false
}

func (e *Evaluator) calcAssign(n *ast.BinaryExpr, s *runtime.Scope) values.Litr {
	ref := e.CalcRef(n.Left, s)
	if ref.Locked() {
		diag.Panic(e.Ctx.fail(diag.TypeMismatch, "cannot assign to a locked binding"))
	}

	var v values.Litr
	if n.Op == token.ASSIGN {
		v = e.Calc(n.Right, s)
	} else {
		cur := ref.Get()
		rhs := e.Calc(n.Right, s)
		if isBitwiseCompound(n.Op) {
			v = e.bitwise(cur, rhs, compoundBase(n.Op))
		} else {
			v = e.arith(cur, rhs, compoundBase(n.Op))
		}
	}

	v = e.runClone(v)

	if owner := ref.OwnerScope(); owner != nil {
		runtime.RecordValueOutlives(e.Refs, owner, v)
	}
	ref.Set(v)
	return v
}

func isBitwiseCompound(k token.Kind) bool {
	switch k {
	case token.AMP_EQ, token.PIPE_EQ, token.CARET_EQ, token.SHL_EQ, token.SHR_EQ:
		return true
	}
	return false
}

func compoundBase(k token.Kind) token.Kind {
	switch k {
	case token.PLUS_EQ:
		return token.PLUS
	case token.MINUS_EQ:
		return token.MINUS
	case token.STAR_EQ:
		return token.STAR
	case token.SLASH_EQ:
		return token.SLASH
	case token.PERCENT_EQ:
		return token.PERCENT
	case token.AMP_EQ:
		return token.AMP
	case token.PIPE_EQ:
		return token.PIPE
	case token.CARET_EQ:
		return token.CARET
	case token.SHL_EQ:
		return token.SHL
	case token.SHR_EQ:
		return token.SHR
	}
	return token.ILLEGAL
}
