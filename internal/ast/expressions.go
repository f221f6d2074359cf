package ast

import "github.com/norilang/nori/internal/lexer"

// IntLit is an integer literal.
type IntLit struct {
	ExprInfo
	Value int64
	span  lexer.Span
}

func (e *IntLit) Span() lexer.Span { return e.span }
func (*IntLit) exprNode()          {}

func NewIntLit(v int64, span lexer.Span) *IntLit { return &IntLit{Value: v, span: span} }

// FloatLit is a floating-point literal.
type FloatLit struct {
	ExprInfo
	Value float64
	span  lexer.Span
}

func (e *FloatLit) Span() lexer.Span { return e.span }
func (*FloatLit) exprNode()          {}

func NewFloatLit(v float64, span lexer.Span) *FloatLit { return &FloatLit{Value: v, span: span} }

// BoolLit is `true` or `false`.
type BoolLit struct {
	ExprInfo
	Value bool
	span  lexer.Span
}

func (e *BoolLit) Span() lexer.Span { return e.span }
func (*BoolLit) exprNode()          {}

func NewBoolLit(v bool, span lexer.Span) *BoolLit { return &BoolLit{Value: v, span: span} }

// NullLit is `null`.
type NullLit struct {
	ExprInfo
	span lexer.Span
}

func (e *NullLit) Span() lexer.Span { return e.span }
func (*NullLit) exprNode()          {}

func NewNullLit(span lexer.Span) *NullLit { return &NullLit{span: span} }

// StringLit is a plain (non-interpolated) string literal.
type StringLit struct {
	ExprInfo
	Value string
	span  lexer.Span
}

func (e *StringLit) Span() lexer.Span { return e.span }
func (*StringLit) exprNode()          {}

func NewStringLit(v string, span lexer.Span) *StringLit { return &StringLit{Value: v, span: span} }

// InterpStringPart is one segment of an interpolated string: either a
// literal chunk (Expr == nil) or a `{expr}` hole (Text == "").
type InterpStringPart struct {
	Text string
	Expr Expr
}

// InterpString is a string literal containing one or more `{expr}` holes.
type InterpString struct {
	ExprInfo
	Parts []InterpStringPart
	span  lexer.Span
}

func (e *InterpString) Span() lexer.Span { return e.span }
func (*InterpString) exprNode()          {}

func NewInterpString(parts []InterpStringPart, span lexer.Span) *InterpString {
	return &InterpString{Parts: parts, span: span}
}

// NameExpr is a bare identifier reference.
type NameExpr struct {
	ExprInfo
	Name string
	span lexer.Span
}

func (e *NameExpr) Span() lexer.Span { return e.span }
func (*NameExpr) exprNode()          {}

func NewNameExpr(name string, span lexer.Span) *NameExpr { return &NameExpr{Name: name, span: span} }

// BinaryOp is one of the infix operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLess
	OpGreater
	OpLessEq
	OpGreaterEq
	OpAnd
	OpOr
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	ExprInfo
	Left  Expr
	Op    BinaryOp
	Right Expr
	span  lexer.Span
}

func (e *BinaryExpr) Span() lexer.Span { return e.span }
func (*BinaryExpr) exprNode()          {}

func NewBinaryExpr(left Expr, op BinaryOp, right Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right, span: span}
}

// UnaryOp is one of the prefix operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	ExprInfo
	Op      UnaryOp
	Operand Expr
	span    lexer.Span
}

func (e *UnaryExpr) Span() lexer.Span { return e.span }
func (*UnaryExpr) exprNode()          {}

func NewUnaryExpr(op UnaryOp, operand Expr, span lexer.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}

// MemberExpr is `receiver.Name`, resolved by the analyzer to either a
// property read or a static/enum member access.
type MemberExpr struct {
	ExprInfo
	Receiver Expr
	Name     string
	span     lexer.Span
}

func (e *MemberExpr) Span() lexer.Span { return e.span }
func (*MemberExpr) exprNode()          {}

func NewMemberExpr(receiver Expr, name string, span lexer.Span) *MemberExpr {
	return &MemberExpr{Receiver: receiver, Name: name, span: span}
}

// CallExpr is `callee(args...)`, where callee is either a NameExpr (a
// free function or a bare extern short-name) or a MemberExpr (a method
// call on a receiver, or a static-method call on a type name).
type CallExpr struct {
	ExprInfo
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

func (e *CallExpr) Span() lexer.Span { return e.span }
func (*CallExpr) exprNode()          {}

func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

// IndexExpr is `collection[index]`.
type IndexExpr struct {
	ExprInfo
	Collection Expr
	Index      Expr
	span       lexer.Span
}

func (e *IndexExpr) Span() lexer.Span { return e.span }
func (*IndexExpr) exprNode()          {}

func NewIndexExpr(collection, index Expr, span lexer.Span) *IndexExpr {
	return &IndexExpr{Collection: collection, Index: index, span: span}
}

// ArrayLit is `[elem, elem, ...]`.
type ArrayLit struct {
	ExprInfo
	Elements []Expr
	span     lexer.Span
}

func (e *ArrayLit) Span() lexer.Span { return e.span }
func (*ArrayLit) exprNode()          {}

func NewArrayLit(elements []Expr, span lexer.Span) *ArrayLit {
	return &ArrayLit{Elements: elements, span: span}
}

// CastExpr is `value as Type`.
type CastExpr struct {
	ExprInfo
	Value Expr
	Type  *TypeExpr
	span  lexer.Span
}

func (e *CastExpr) Span() lexer.Span { return e.span }
func (*CastExpr) exprNode()          {}

func NewCastExpr(value Expr, typ *TypeExpr, span lexer.Span) *CastExpr {
	return &CastExpr{Value: value, Type: typ, span: span}
}
