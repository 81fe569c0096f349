// Package printer pretty-prints a parsed Statements tree back to Key
// source, backing the `key fmt` subcommand. This is a fresh
// implementation, written directly against the AST shapes in
// internal/ast rather than adapted from an existing printer
// (see DESIGN.md) — so this is a small hand-rolled AST walk in the
// same recursive-descent style as internal/eval and internal/parse.
package printer

import (
	"fmt"
	"strings"

	"github.com/keylang/key/internal/ast"
)

const indentUnit = "  "

// Program formats a whole parsed program.
func Program(prog *ast.Statements) string {
	var sb strings.Builder
	for _, st := range prog.List {
		writeStmt(&sb, st, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(indentUnit, depth))
}

func writeBlock(sb *strings.Builder, b *ast.BlockStmt, depth int) {
	sb.WriteString("{\n")
	for _, st := range b.List {
		writeStmt(sb, st, depth+1)
	}
	indent(sb, depth)
	sb.WriteString("}")
}

func writeStmt(sb *strings.Builder, st ast.Statement, depth int) {
	indent(sb, depth)
	switch n := st.(type) {
	case *ast.ExprStmt:
		fmt.Fprintf(sb, "%s;\n", Expr(n.X))

	case *ast.LetStmt:
		kw := "let"
		if n.Const {
			kw = "const"
		}
		fmt.Fprintf(sb, "%s ", kw)
		if n.Take {
			sb.WriteString("<")
		}
		fmt.Fprintf(sb, "%s = %s;\n", bindTarget(n.Target), Expr(n.Value))

	case *ast.LockStmt:
		fmt.Fprintf(sb, "lock %s;\n", n.Name)

	case *ast.BlockStmt:
		writeBlock(sb, n, depth)
		sb.WriteString("\n")

	case *ast.IfStmt:
		fmt.Fprintf(sb, "if (%s) ", Expr(n.Cond))
		writeBlock(sb, n.Then, depth)
		if n.Else != nil {
			sb.WriteString(" else ")
			switch e := n.Else.(type) {
			case *ast.BlockStmt:
				writeBlock(sb, e, depth)
			case *ast.IfStmt:
				sb.WriteString(strings.TrimLeft(stmtOneLine(e, depth), " "))
			}
		}
		sb.WriteString("\n")

	case *ast.ForLoopStmt:
		sb.WriteString("for! ")
		writeBlock(sb, n.Body, depth)
		sb.WriteString("\n")

	case *ast.ForWhileStmt:
		fmt.Fprintf(sb, "for (%s) ", Expr(n.Cond))
		writeBlock(sb, n.Body, depth)
		sb.WriteString("\n")

	case *ast.ForIterStmt:
		if n.Id != "" {
			fmt.Fprintf(sb, "for %s:%s ", n.Id, Expr(n.Iter))
		} else {
			fmt.Fprintf(sb, "for %s ", Expr(n.Iter))
		}
		writeBlock(sb, n.Body, depth)
		sb.WriteString("\n")

	case *ast.BreakStmt:
		sb.WriteString("break;\n")

	case *ast.ContinueStmt:
		sb.WriteString("continue;\n")

	case *ast.ReturnStmt:
		if n.Value != nil {
			fmt.Fprintf(sb, "return %s;\n", Expr(n.Value))
		} else {
			sb.WriteString("return;\n")
		}

	case *ast.ThrowStmt:
		fmt.Fprintf(sb, "throw %s;\n", Expr(n.Value))

	case *ast.TryStmt:
		sb.WriteString("try ")
		writeBlock(sb, n.Body, depth)
		if name := n.Catch.Name; name == "" || name == ".err" {
			sb.WriteString(" catch ")
		} else {
			fmt.Fprintf(sb, " catch %s ", name)
		}
		writeBlock(sb, n.Catch.Body, depth)
		sb.WriteString("\n")

	case *ast.MatchStmt:
		fmt.Fprintf(sb, "match %s {\n", Expr(n.Scrutinee))
		for _, arm := range n.Arms {
			indent(sb, depth+1)
			writeMatchConds(sb, arm.Conds)
			sb.WriteString(" ")
			writeBlock(sb, arm.Body, depth+1)
			sb.WriteString("\n")
		}
		if n.Default != nil {
			indent(sb, depth+1)
			sb.WriteString("-")
			writeBlock(sb, n.Default, depth+1)
			sb.WriteString("\n")
		}
		indent(sb, depth)
		sb.WriteString("}\n")

	case *ast.ClassStmt:
		fmt.Fprintf(sb, "class %s {\n", n.Name)
		for _, p := range n.Props {
			indent(sb, depth+1)
			writeVis(sb, p.Public)
			fmt.Fprintf(sb, "%s,\n", p.Name)
		}
		for _, m := range n.Methods {
			indent(sb, depth+1)
			writeVis(sb, m.Public)
			fmt.Fprintf(sb, "%s%s\n", m.Name, funcTail(m.Fn, depth+1))
		}
		for _, m := range n.Statics {
			indent(sb, depth+1)
			writeVis(sb, m.Public)
			fmt.Fprintf(sb, "static %s%s\n", m.Name, funcTail(m.Fn, depth+1))
		}
		indent(sb, depth)
		sb.WriteString("}\n")

	case *ast.UsingStmt:
		fmt.Fprintf(sb, "using %s = %s;\n", n.Alias, Expr(n.Class))

	case *ast.ModStmt:
		kw := "mod"
		if n.Native {
			kw = "extern mod"
		}
		fmt.Fprintf(sb, "%s %s = `%s`;\n", kw, n.Alias, n.Path)

	case *ast.ExportStmt:
		switch n.Kind {
		case ast.ExportFn:
			fmt.Fprintf(sb, "export %s%s\n", n.Name, funcTail(n.Fn, depth))
		case ast.ExportCls:
			sb.WriteString("export ")
			writeStmt(sb, n.Cls, 0)
		}

	default:
		fmt.Fprintf(sb, "/* unknown statement %T */\n", st)
	}
}

func stmtOneLine(st ast.Statement, depth int) string {
	var sb strings.Builder
	writeStmt(&sb, st, depth)
	return sb.String()
}

func writeVis(sb *strings.Builder, public bool) {
	if public {
		sb.WriteString("> ")
	}
}

func writeMatchConds(sb *strings.Builder, conds []ast.MatchCond) {
	for i, c := range conds {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(matchCmp(c.Cmp))
		sb.WriteString(Expr(c.X))
	}
}

func matchCmp(c ast.MatchComparator) string {
	switch c {
	case ast.MatchEQ:
		return ""
	case ast.MatchLT:
		return "<"
	case ast.MatchLE:
		return "<="
	case ast.MatchGT:
		return ">"
	case ast.MatchGE:
		return ">="
	}
	return ""
}

func bindTarget(t ast.BindTarget) string {
	switch {
	case t.List != nil:
		return "[" + strings.Join(t.List, ", ") + "]"
	case t.Obj != nil:
		return "{" + strings.Join(t.Obj, ", ") + "}"
	default:
		return t.Name
	}
}

func funcTail(fn *ast.FuncLit, depth int) string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Custom {
			sb.WriteString("...")
		}
		sb.WriteString(p.Name)
		if p.Default != nil {
			fmt.Fprintf(&sb, " = %s", Expr(p.Default))
		}
	}
	sb.WriteString(") -> () ")
	blk := &ast.BlockStmt{List: fn.Body.List}
	writeBlock(&sb, blk, depth)
	return sb.String()
}

// Expr formats a single expression inline (no trailing newline).
func Expr(x ast.Expression) string {
	switch n := x.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *ast.UintLit:
		return fmt.Sprintf("%du", n.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("%g", n.Value)
	case *ast.BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.StrLit:
		return "`" + n.Value + "`"
	case *ast.BufLit:
		return "'" + string(n.Value) + "'"
	case *ast.UninitLit:
		return "uninit"
	case *ast.Variant:
		return n.Name
	case *ast.KselfExpr:
		return "self"
	case *ast.FuncLit:
		return funcTail(n, 0)
	case *ast.ListExpr:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = Expr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.ObjExpr:
		return "{" + objFields(n.Fields) + "}"
	case *ast.NewInstExpr:
		return Expr(n.Class) + "{" + objFields(n.Fields) + "}"
	case *ast.PropertyExpr:
		return Expr(n.Left) + "." + n.Name
	case *ast.IndexExpr:
		return Expr(n.Left) + "[" + Expr(n.Index) + "]"
	case *ast.ModAccExpr:
		if n.Kind == ast.ModClsAcc {
			return n.Module + "-:" + n.Name
		}
		return n.Module + "-." + n.Name
	case *ast.ImplAccExpr:
		return Expr(n.Left) + "::" + n.Name
	case *ast.CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = Expr(a)
		}
		return Expr(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.UnaryExpr:
		return n.Op.String() + Expr(n.Operand)
	case *ast.BinaryExpr:
		return Expr(n.Left) + " " + n.Op.String() + " " + Expr(n.Right)
	}
	return fmt.Sprintf("/* unknown expr %T */", x)
}

func objFields(fields []ast.ObjField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, Expr(f.Value))
	}
	return strings.Join(parts, ", ")
}
