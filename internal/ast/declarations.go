package ast

import "github.com/norilang/nori/internal/lexer"

// SyncMode is the per-cell replication policy of a top-level variable.
type SyncMode int

const (
	NotSynced SyncMode = iota
	SyncNone
	SyncLinear
	SyncSmooth
)

func (m SyncMode) String() string {
	switch m {
	case SyncNone:
		return "none"
	case SyncLinear:
		return "linear"
	case SyncSmooth:
		return "smooth"
	default:
		return ""
	}
}

// TypeExpr is a surface type reference, e.g. `int` or `Vector3[]`.
type TypeExpr struct {
	Name    string
	IsArray bool
	span    lexer.Span
}

func (t *TypeExpr) Span() lexer.Span { return t.span }

// NewTypeExpr constructs a TypeExpr.
func NewTypeExpr(name string, isArray bool, span lexer.Span) *TypeExpr {
	return &TypeExpr{Name: name, IsArray: isArray, span: span}
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type *TypeExpr
	span lexer.Span
}

func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a Param.
func NewParam(name string, typ *TypeExpr, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}

// VarDecl is a top-level (or local) variable declaration.
type VarDecl struct {
	Name        string
	Type        *TypeExpr // may be nil if inferred from Init
	IsArray     bool
	Public      bool
	Sync        SyncMode
	Init        Expr // may be nil
	declSpan    lexer.Span
}

func (d *VarDecl) Span() lexer.Span { return d.declSpan }
func (*VarDecl) declNode()          {}
func (*VarDecl) stmtNode()          {} // local-var is also a statement kind

// NewVarDecl constructs a VarDecl.
func NewVarDecl(name string, typ *TypeExpr, public bool, sync SyncMode, init Expr, span lexer.Span) *VarDecl {
	return &VarDecl{Name: name, Type: typ, Public: public, Sync: sync, Init: init, declSpan: span}
}

// FuncDecl is a top-level function (or procedure, if ReturnType is nil).
type FuncDecl struct {
	Name       string
	Params     []*Param
	ReturnType *TypeExpr
	Body       []Stmt
	declSpan   lexer.Span
}

func (d *FuncDecl) Span() lexer.Span { return d.declSpan }
func (*FuncDecl) declNode()          {}

func NewFuncDecl(name string, params []*Param, ret *TypeExpr, body []Stmt, span lexer.Span) *FuncDecl {
	return &FuncDecl{Name: name, Params: params, ReturnType: ret, Body: body, declSpan: span}
}

// EventDecl is an `on <Event> { ... }` handler.
type EventDecl struct {
	EventName string
	Params    []*Param
	Body      []Stmt
	declSpan  lexer.Span
}

func (d *EventDecl) Span() lexer.Span { return d.declSpan }
func (*EventDecl) declNode()          {}

func NewEventDecl(name string, params []*Param, body []Stmt, span lexer.Span) *EventDecl {
	return &EventDecl{EventName: name, Params: params, Body: body, declSpan: span}
}

// CustomEventDecl is a user-defined `event Name { ... }`.
type CustomEventDecl struct {
	Name     string
	Body     []Stmt
	declSpan lexer.Span
}

func (d *CustomEventDecl) Span() lexer.Span { return d.declSpan }
func (*CustomEventDecl) declNode()          {}

func NewCustomEventDecl(name string, body []Stmt, span lexer.Span) *CustomEventDecl {
	return &CustomEventDecl{Name: name, Body: body, declSpan: span}
}
