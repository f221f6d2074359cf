package semantic

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/symbols"
	"github.com/norilang/nori/internal/types"
)

// analyzeBodies is pass two: every function, event handler, and custom
// event body is walked in its own child scope of the global scope.
func (a *Analyzer) analyzeBodies(mod *ast.Module) {
	for _, decl := range mod.Declarations {
		switch d := decl.(type) {
		case *ast.VarDecl:
			a.analyzeTopLevelVarInit(d)
		case *ast.FuncDecl:
			a.analyzeFuncBody(d)
		case *ast.EventDecl:
			a.analyzeEventBody(d)
		case *ast.CustomEventDecl:
			a.analyzeCustomEventBody(d)
		}
	}
}

// analyzeTopLevelVarInit type-checks a module-level variable's
// initializer against the global scope, which pass one has already
// fully populated, so a heap cell may reference any other global
// regardless of declaration order.
func (a *Analyzer) analyzeTopLevelVarInit(d *ast.VarDecl) {
	if d.Init == nil {
		return
	}
	a.analyzeExpr(d.Init, a.global)
	sym, ok := a.global.Resolve(d.Name)
	if !ok {
		return
	}
	if arr, isArr := d.Init.(*ast.ArrayLit); isArr && len(arr.Elements) == 0 && sym.Type != "" {
		a.setType(d.Init, sym.Type)
		return
	}
	if sym.Type == "" {
		sym.Type = d.Init.Resolved().Type
		return
	}
	if !types.Assignable(d.Init.Resolved().Type, sym.Type, a.catalog) {
		a.diags.Errorf(diag.ErrTypeError, d.Init.Span(),
			"cannot assign %s to %s '%s'", d.Init.Resolved().Type, sym.Type, d.Name)
	}
}

func (a *Analyzer) analyzeFuncBody(d *ast.FuncDecl) {
	scope := symbols.NewChildScope(a.global)
	sig := a.funcs[d.Name]
	for i, p := range d.Params {
		pt := ""
		if sig != nil && i < len(sig.paramTypes) {
			pt = sig.paramTypes[i]
		}
		scope.Define(&symbols.Symbol{Name: p.Name, Type: pt, Kind: symbols.KindParameter, Span: p.Span()})
	}
	a.nodeScopes[d] = scope
	prevFunc := a.currentFunc
	a.currentFunc = d.Name
	a.analyzeBlock(d.Body, scope)
	a.currentFunc = prevFunc
}

func (a *Analyzer) analyzeEventBody(d *ast.EventDecl) {
	scope := symbols.NewChildScope(a.global)
	shadowed := false
	for _, p := range d.Params {
		scope.Define(&symbols.Symbol{Name: p.Name, Type: a.resolveTypeExpr(p.Type), Kind: symbols.KindParameter, Span: p.Span()})
		if p.Name == "result" {
			shadowed = true
		}
	}
	if implicitType, ok := ImplicitParamTable[d.EventName]; ok && !shadowed {
		scope.Define(&symbols.Symbol{Name: "result", Type: implicitType, Kind: symbols.KindParameter, Span: d.Span()})
	}
	if _, known := EventTable[d.EventName]; !known {
		a.diags.Warnf(diag.WarnUnknownEvent, d.Span(), "'%s' is not a recognized VRChat event name", d.EventName)
	}
	a.nodeScopes[d] = scope
	prevFunc := a.currentFunc
	a.currentFunc = ""
	a.analyzeBlock(d.Body, scope)
	a.currentFunc = prevFunc
}

func (a *Analyzer) analyzeCustomEventBody(d *ast.CustomEventDecl) {
	scope := symbols.NewChildScope(a.global)
	a.nodeScopes[d] = scope
	prevFunc := a.currentFunc
	a.currentFunc = ""
	a.analyzeBlock(d.Body, scope)
	a.currentFunc = prevFunc
}

func (a *Analyzer) analyzeBlock(body []ast.Stmt, scope *symbols.Scope) {
	for _, s := range body {
		a.analyzeStmt(s, scope)
	}
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt, scope *symbols.Scope) {
	a.nodeScopes[stmt] = scope
	switch s := stmt.(type) {
	case *ast.VarDecl:
		a.analyzeLocalVarDecl(s, scope)
	case *ast.AssignStmt:
		a.analyzeAssignStmt(s, scope)
	case *ast.IfStmt:
		a.analyzeExpr(s.Cond, scope)
		a.analyzeBlock(s.Then, symbols.NewChildScope(scope))
		if s.Else != nil {
			a.analyzeBlock(s.Else, symbols.NewChildScope(scope))
		}
	case *ast.WhileStmt:
		a.analyzeExpr(s.Cond, scope)
		a.loopDepth++
		a.analyzeBlock(s.Body, symbols.NewChildScope(scope))
		a.loopDepth--
	case *ast.ForRangeStmt:
		a.analyzeExpr(s.Start, scope)
		a.analyzeExpr(s.End, scope)
		inner := symbols.NewChildScope(scope)
		inner.Define(&symbols.Symbol{Name: s.Var, Type: typeInt, Kind: symbols.KindVariable, Span: s.Span()})
		a.loopDepth++
		a.analyzeBlock(s.Body, inner)
		a.loopDepth--
	case *ast.ForEachStmt:
		a.analyzeExpr(s.Collection, scope)
		collType := s.Collection.Resolved().Type
		elem := elementType(collType)
		inner := symbols.NewChildScope(scope)
		inner.Define(&symbols.Symbol{Name: s.Var, Type: elem, Kind: symbols.KindVariable, Span: s.Span()})
		a.loopDepth++
		a.analyzeBlock(s.Body, inner)
		a.loopDepth--
	case *ast.ReturnStmt:
		if s.Value != nil {
			a.analyzeExpr(s.Value, scope)
		}
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.diags.Errorf(diag.ErrBreakOutsideLoop, s.Span(), "'break' used outside of a loop")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.diags.Errorf(diag.ErrContinueOutsideLoop, s.Span(), "'continue' used outside of a loop")
		}
	case *ast.SendStmt:
		if _, ok := a.customEvents[s.EventName]; !ok {
			a.diags.Errorf(diag.ErrCustomEvent, s.Span(), "'%s' is not a declared custom event", s.EventName)
		}
	case *ast.ExprStmt:
		a.analyzeExpr(s.X, scope)
	}
}

func (a *Analyzer) analyzeLocalVarDecl(d *ast.VarDecl, scope *symbols.Scope) {
	var declaredType string
	if d.Type != nil {
		declaredType = a.resolveTypeExpr(d.Type)
	}
	if d.Init != nil {
		a.analyzeExpr(d.Init, scope)
		if arr, ok := d.Init.(*ast.ArrayLit); ok && len(arr.Elements) == 0 && declaredType != "" {
			// An empty array literal has no element to infer a type from;
			// narrow it to the declared variable's element type instead
			// of leaving it typed as the universal top array.
			a.setType(d.Init, declaredType)
		} else if declaredType == "" {
			declaredType = d.Init.Resolved().Type
		} else if !types.Assignable(d.Init.Resolved().Type, declaredType, a.catalog) {
			a.diags.Errorf(diag.ErrTypeError, d.Init.Span(),
				"cannot assign %s to %s '%s'", d.Init.Resolved().Type, declaredType, d.Name)
		}
	}
	sym := &symbols.Symbol{
		Name:    d.Name,
		Type:    declaredType,
		Kind:    symbols.KindVariable,
		Span:    d.Span(),
		IsArray: d.Type != nil && d.Type.IsArray,
	}
	if !scope.Define(sym) {
		a.diags.Errorf(diag.ErrUndefinedVariable, d.Span(), "'%s' is already declared in this scope", d.Name)
	}
}

func (a *Analyzer) analyzeAssignStmt(s *ast.AssignStmt, scope *symbols.Scope) {
	a.analyzeExpr(s.Target, scope)
	a.analyzeExpr(s.Value, scope)
	if mem, ok := s.Target.(*ast.MemberExpr); ok {
		if prop, ok := mem.Extern.(*catalog.PropertyInfo); ok && prop.Setter == nil {
			a.diags.Errorf(diag.ErrPropertyNotWritable, s.Span(), "property '%s' is read-only", mem.Name)
		}
	}
	targetType := s.Target.Resolved().Type
	valueType := s.Value.Resolved().Type
	if s.Op == ast.Assign {
		if targetType != "" && valueType != "" && !types.Assignable(valueType, targetType, a.catalog) {
			a.diags.Errorf(diag.ErrTypeError, s.Span(), "cannot assign %s to %s", valueType, targetType)
		}
		return
	}
	op, ok := assignOpBinary[s.Op]
	if !ok {
		return
	}
	if resolved, ok := a.catalog.ResolveOperator(op, targetType, valueType); ok {
		s.ResolvedOp = resolved
	} else {
		a.diags.Errorf(diag.ErrTypeError, s.Span(), "no '%s' operator for %s and %s", op, targetType, valueType)
	}
}

var assignOpBinary = map[ast.AssignOp]string{
	ast.AssignAdd: "+",
	ast.AssignSub: "-",
	ast.AssignMul: "*",
	ast.AssignDiv: "/",
}

// elementType strips the catalog array suffix from a collection's
// resolved type to find the type bound to a for-each loop variable.
func elementType(collType string) string {
	const suffix = types.ArraySuffix
	if len(collType) > len(suffix) && collType[len(collType)-len(suffix):] == suffix {
		return collType[:len(collType)-len(suffix)]
	}
	return types.UniversalTop
}
