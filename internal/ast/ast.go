// Package ast defines the AST node types produced by internal/parse and
// consumed by internal/eval. The `Statements` tree is the evaluator's
// only input — it has no dependency on the scanner or parser.
package ast

import "github.com/keylang/key/internal/token"

// Node is the Base interface for every AST node.
type Node interface {
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	stmtNode()
}

// Statements is the root of a parsed program or function body — one
// unified shape for both, rather than separate program/body types.
type Statements struct {
	List []Statement
	At   token.Position
}

func (s *Statements) Pos() token.Position { return s.At }

type Base struct{ At token.Position }

func (b Base) Pos() token.Position { return b.At }
