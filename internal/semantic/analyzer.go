// Package semantic implements Nori's two-pass semantic analyzer: pass one
// registers every top-level declaration so forward references resolve
// regardless of source order, pass two walks each function/event/custom
// event body bottom-up, annotating every expression node in place with
// its resolved catalog-qualified type and (where applicable) the extern
// signature backing it. A final call-graph pass rejects recursion, since
// Udon Assembly has no call stack.
package semantic

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/symbols"
	"github.com/norilang/nori/internal/types"
)

// funcSig is the registered shape of a user-declared function, used for
// call-site argument checking and the call graph.
type funcSig struct {
	decl       *ast.FuncDecl
	paramTypes []string
	returnType string // SystemVoid for a procedure
}

// builtinSig is a fixed-shape builtin function, resolved independently
// of the extern catalog (spec.md §4.5's six always-available functions).
type builtinSig struct {
	paramTypes []string
	returnType string
}

// Analyzer carries all state threaded through both passes.
type Analyzer struct {
	catalog catalog.Catalog
	mapper  *types.Mapper
	diags   *diag.Bag

	global *symbols.Scope

	funcs        map[string]*funcSig
	customEvents map[string]bool
	builtins     map[string]*builtinSig

	// callGraph maps a user function name to the set of user function
	// names it calls directly, for cycle detection after pass two.
	callGraph map[string]map[string]bool

	currentFunc string // "" while analyzing an event or custom-event body
	loopDepth   int

	// nodeTypes and nodeScopes are published for editor/LSP use: every
	// analyzed expression's resolved type, and the scope active at every
	// statement-bearing node.
	nodeTypes  map[ast.Expr]string
	nodeScopes map[ast.Node]*symbols.Scope
}

// Fixed catalog-qualified types for the three always-bound "this" cells.
const (
	typeGameObject  = "UnityEngineGameObject"
	typeTransform   = "UnityEngineTransform"
	typePlayerAPI   = "VRCSDKBaseVRCPlayerApi"
	typeVoid        = "SystemVoid"
	typeBool        = "SystemBoolean"
	typeInt         = "SystemInt32"
	typeFloat       = "SystemSingle"
	typeString      = "SystemString"
)

// New constructs an Analyzer backed by the given extern catalog. A nil
// catalog falls back to the hardcoded Builtin catalog, so the analyzer
// always has an extern surface to resolve operators and conversions
// against even when a caller (e.g. an editor integration) supplies none.
func New(cat catalog.Catalog, diags *diag.Bag) *Analyzer {
	if cat == nil {
		cat = catalog.NewBuiltin()
	}
	return &Analyzer{
		catalog:      cat,
		mapper:       types.NewMapper(cat),
		diags:        diags,
		global:       symbols.NewScope(),
		funcs:        make(map[string]*funcSig),
		customEvents: make(map[string]bool),
		builtins:     builtinFuncs(),
		callGraph:    make(map[string]map[string]bool),
		nodeTypes:    make(map[ast.Expr]string),
		nodeScopes:   make(map[ast.Node]*symbols.Scope),
	}
}

// builtinFuncs is the fixed table of always-available functions: three
// logging functions, RequestSerialization, IsValid, and
// SendCustomEventDelayedSeconds.
func builtinFuncs() map[string]*builtinSig {
	return map[string]*builtinSig{
		"log":                           {paramTypes: []string{types.UniversalTop}, returnType: typeVoid},
		"warn":                          {paramTypes: []string{types.UniversalTop}, returnType: typeVoid},
		"error":                         {paramTypes: []string{types.UniversalTop}, returnType: typeVoid},
		"RequestSerialization":          {paramTypes: nil, returnType: typeVoid},
		"IsValid":                       {paramTypes: []string{types.UniversalTop}, returnType: typeBool},
		"SendCustomEventDelayedSeconds": {paramTypes: []string{typeString, typeFloat}, returnType: typeVoid},
	}
}

// NodeType returns the catalog-qualified type resolved for expr, or ""
// if expr was never analyzed (e.g. the program had a parse error and
// analysis was skipped).
func (a *Analyzer) NodeType(expr ast.Expr) string { return a.nodeTypes[expr] }

// NodeScope returns the scope active at node, for editor integrations.
func (a *Analyzer) NodeScope(node ast.Node) *symbols.Scope { return a.nodeScopes[node] }

// TypeMap returns the full expression->type map built during analysis,
// for the LSP analysis entry point's type_map field.
func (a *Analyzer) TypeMap() map[ast.Expr]string { return a.nodeTypes }

// ScopeMap returns the full node->scope map built during analysis, for
// the LSP analysis entry point's scope_map field.
func (a *Analyzer) ScopeMap() map[ast.Node]*symbols.Scope { return a.nodeScopes }

// Analyze runs both passes over mod and returns the global scope, which
// callers may use to inspect top-level declarations after the fact.
func (a *Analyzer) Analyze(mod *ast.Module) *symbols.Scope {
	a.seedGlobals()
	a.registerDeclarations(mod)
	a.analyzeBodies(mod)
	a.checkRecursion()
	return a.global
}

// resolveTypeExpr maps a surface TypeExpr to a catalog-qualified type
// string, reporting E0040 and returning the universal top type as a
// recovery value if the name is unknown.
func (a *Analyzer) resolveTypeExpr(t *ast.TypeExpr) string {
	if t == nil {
		return ""
	}
	q, ok := a.mapper.ToCatalog(t.Name, t.IsArray)
	if !ok {
		a.diags.Errorf(diag.ErrTypeError, t.Span(), "unknown type '%s'", t.Name)
		return types.UniversalTop
	}
	return q
}

func (a *Analyzer) setType(e ast.Expr, t string) {
	e.Resolved().Type = t
	a.nodeTypes[e] = t
}
