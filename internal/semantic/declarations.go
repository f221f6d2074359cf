package semantic

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/symbols"
)

// registerDeclarations is pass one: every top-level variable, function,
// and custom event is bound in the global scope (or the funcs/
// customEvents tables) before any body is analyzed, so a function may
// reference a variable or call another function declared later in the
// source file.
func (a *Analyzer) registerDeclarations(mod *ast.Module) {
	for _, decl := range mod.Declarations {
		switch d := decl.(type) {
		case *ast.VarDecl:
			a.registerVarDecl(d)
		case *ast.FuncDecl:
			a.registerFuncDecl(d)
		case *ast.CustomEventDecl:
			a.registerCustomEvent(d)
		case *ast.EventDecl:
			// Event handlers have no callable name; nothing to register.
		}
	}
}

func (a *Analyzer) registerVarDecl(d *ast.VarDecl) {
	declaredType := a.resolveTypeExpr(d.Type)
	sym := &symbols.Symbol{
		Name:    d.Name,
		Type:    declaredType,
		Kind:    symbols.KindVariable,
		Span:    d.Span(),
		Public:  d.Public,
		Sync:    convertSyncMode(d.Sync),
		IsArray: d.Type != nil && d.Type.IsArray,
	}
	if !a.global.Define(sym) {
		a.diags.Errorf(diag.ErrUndefinedVariable, d.Span(), "'%s' is already declared at module scope", d.Name)
	}
}

func (a *Analyzer) registerFuncDecl(d *ast.FuncDecl) {
	if a.isCallableNameTaken(d.Name) {
		a.diags.Errorf(diag.ErrCustomEvent, d.Span(), "'%s' is already declared", d.Name)
		return
	}
	sig := &funcSig{decl: d, returnType: typeVoid}
	for _, p := range d.Params {
		sig.paramTypes = append(sig.paramTypes, a.resolveTypeExpr(p.Type))
	}
	if d.ReturnType != nil {
		sig.returnType = a.resolveTypeExpr(d.ReturnType)
	}
	a.funcs[d.Name] = sig
	a.callGraph[d.Name] = make(map[string]bool)
	a.global.Define(&symbols.Symbol{Name: d.Name, Kind: symbols.KindFunction, Span: d.Span()})
}

func (a *Analyzer) registerCustomEvent(d *ast.CustomEventDecl) {
	if a.isCallableNameTaken(d.Name) {
		a.diags.Errorf(diag.ErrCustomEvent, d.Span(), "'%s' is already declared", d.Name)
		return
	}
	a.customEvents[d.Name] = true
	a.global.Define(&symbols.Symbol{Name: d.Name, Kind: symbols.KindCustomEvent, Span: d.Span()})
}

func (a *Analyzer) isCallableNameTaken(name string) bool {
	_, isFunc := a.funcs[name]
	return isFunc || a.customEvents[name]
}

func convertSyncMode(s ast.SyncMode) symbols.SyncMode {
	switch s {
	case ast.SyncNone:
		return symbols.SyncNone
	case ast.SyncLinear:
		return symbols.SyncLinear
	case ast.SyncSmooth:
		return symbols.SyncSmooth
	default:
		return symbols.SyncNotSynced
	}
}
