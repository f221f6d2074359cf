// Package ast defines the Nori abstract syntax tree. Declarations,
// statements, and expressions are each a closed set of node kinds; the
// semantic analyzer annotates expression nodes in place (ResolvedType,
// ResolvedExtern, ...) rather than building a parallel typed tree,
// following the teacher's annotate-in-place convention.
package ast

import "github.com/norilang/nori/internal/lexer"

// Node is implemented by every AST node.
type Node interface {
	Span() lexer.Span
}

// Module is the root of a parsed translation unit.
type Module struct {
	Declarations []Decl
}

func (m *Module) Span() lexer.Span {
	if len(m.Declarations) == 0 {
		return lexer.Span{}
	}
	s := m.Declarations[0].Span()
	for _, d := range m.Declarations[1:] {
		s = s.Merge(d.Span())
	}
	return s
}

// Decl is implemented by top-level declarations.
type Decl interface {
	Node
	declNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes. The semantic analyzer writes
// ResolvedType and, where applicable, ResolvedExtern onto the node it
// visits; the lowerer reads exactly what the analyzer wrote.
type Expr interface {
	Node
	exprNode()
	Resolved() *ExprInfo
}

// ExprInfo carries semantic-analysis results attached to an expression
// node. It is embedded by every concrete expression type.
type ExprInfo struct {
	Type   string // catalog-qualified resolved type, "" until analyzed
	Extern any    // *catalog.ExternSignature for callable/operator nodes
	// Conv, when non-empty, names an implicit-conversion extern that must
	// be applied to this expression's value before use (operand widening).
	Conv string
	// EnumValue/EnumType are set when this expression denotes an enum
	// member accessed through a static/enum type name.
	EnumValue    int
	EnumType     string
	IsEnumMember bool
}

func (e *ExprInfo) Resolved() *ExprInfo { return e }
