package semantic

import (
	"strings"

	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
	"github.com/norilang/nori/internal/symbols"
	"github.com/norilang/nori/internal/types"
)

// analyzeExpr walks expr bottom-up, annotating it and every subexpression
// with a resolved catalog-qualified type via a.setType.
func (a *Analyzer) analyzeExpr(expr ast.Expr, scope *symbols.Scope) {
	switch e := expr.(type) {
	case *ast.IntLit:
		a.setType(e, typeInt)
	case *ast.FloatLit:
		a.setType(e, typeFloat)
	case *ast.BoolLit:
		a.setType(e, typeBool)
	case *ast.NullLit:
		a.setType(e, types.UniversalTop)
	case *ast.StringLit:
		a.setType(e, typeString)
	case *ast.InterpString:
		for _, part := range e.Parts {
			if part.Expr != nil {
				a.analyzeExpr(part.Expr, scope)
			}
		}
		a.setType(e, typeString)
	case *ast.NameExpr:
		a.analyzeNameExpr(e, scope)
	case *ast.BinaryExpr:
		a.analyzeBinaryExpr(e, scope)
	case *ast.UnaryExpr:
		a.analyzeUnaryExpr(e, scope)
	case *ast.MemberExpr:
		a.analyzeMemberExpr(e, scope)
	case *ast.CallExpr:
		a.analyzeCallExpr(e, scope)
	case *ast.IndexExpr:
		a.analyzeIndexExpr(e, scope)
	case *ast.ArrayLit:
		a.analyzeArrayLit(e, scope)
	case *ast.CastExpr:
		a.analyzeCastExpr(e, scope)
	}
}

func (a *Analyzer) undefinedName(name string, span lexer.Span, scope *symbols.Scope) {
	a.diags.Add(diag.Diagnostic{
		Severity:   diag.Error,
		Code:       diag.ErrUndefinedVariable,
		Message:    "undefined name '" + name + "'",
		Span:       span,
		Suggestion: scope.Suggest(name),
	})
}

func (a *Analyzer) analyzeNameExpr(e *ast.NameExpr, scope *symbols.Scope) {
	sym, ok := scope.Resolve(e.Name)
	if !ok {
		a.undefinedName(e.Name, e.Span(), scope)
		a.setType(e, types.UniversalTop)
		return
	}
	switch sym.Kind {
	case symbols.KindVariable, symbols.KindParameter:
		a.setType(e, sym.Type)
	case symbols.KindStaticType, symbols.KindEnumType:
		// Type-as-value: the name denotes the type itself, not an
		// instance of it. MemberExpr and CallExpr inspect EnumType to
		// recover which type this sentinel refers to.
		a.setType(e, types.ReflectedType)
		e.EnumType = sym.Type
	case symbols.KindFunction:
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "'%s' is a function; call it with ()", e.Name)
		a.setType(e, types.UniversalTop)
	case symbols.KindCustomEvent:
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "'%s' is a custom event; use 'send %s'", e.Name, e.Name)
		a.setType(e, types.UniversalTop)
	case symbols.KindBuiltin:
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "'%s' is a function; call it with ()", e.Name)
		a.setType(e, types.UniversalTop)
	default:
		a.setType(e, types.UniversalTop)
	}
}

var binaryOpToken = map[ast.BinaryOp]string{
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/", ast.OpMod: "%",
	ast.OpEq: "==", ast.OpNotEq: "!=", ast.OpLess: "<", ast.OpGreater: ">",
	ast.OpLessEq: "<=", ast.OpGreaterEq: ">=", ast.OpAnd: "&&", ast.OpOr: "||",
}

var unaryOpToken = map[ast.UnaryOp]string{
	ast.OpNeg: "-", ast.OpNot: "!",
}

func (a *Analyzer) analyzeBinaryExpr(e *ast.BinaryExpr, scope *symbols.Scope) {
	a.analyzeExpr(e.Left, scope)
	a.analyzeExpr(e.Right, scope)
	op := binaryOpToken[e.Op]
	leftType := e.Left.Resolved().Type
	rightType := e.Right.Resolved().Type

	if resolved, ok := a.catalog.ResolveOperator(op, leftType, rightType); ok {
		e.Extern = resolved
		a.setType(e, resolved.ReturnType)
		return
	}
	// No exact-type operator; try widening one operand to the other's
	// type and record the conversion on that operand for lowering.
	if types.IsWidening(leftType, rightType) {
		if resolved, ok := a.catalog.ResolveOperator(op, rightType, rightType); ok {
			a.applyConversion(e.Left, leftType, rightType)
			e.Extern = resolved
			a.setType(e, resolved.ReturnType)
			return
		}
	}
	if types.IsWidening(rightType, leftType) {
		if resolved, ok := a.catalog.ResolveOperator(op, leftType, leftType); ok {
			a.applyConversion(e.Right, rightType, leftType)
			e.Extern = resolved
			a.setType(e, resolved.ReturnType)
			return
		}
	}
	a.diags.Errorf(diag.ErrTypeError, e.Span(), "no '%s' operator for %s and %s", op, leftType, rightType)
	a.setType(e, types.UniversalTop)
}

// applyConversion records on operand the implicit-conversion extern
// needed to widen it from 'from' to 'to', for the lowerer to insert.
func (a *Analyzer) applyConversion(operand ast.Expr, from, to string) {
	if conv, ok := a.catalog.GetImplicitConversion(from, to); ok {
		operand.Resolved().Conv = conv.Mangled()
	}
}

func (a *Analyzer) analyzeUnaryExpr(e *ast.UnaryExpr, scope *symbols.Scope) {
	a.analyzeExpr(e.Operand, scope)
	op := unaryOpToken[e.Op]
	operandType := e.Operand.Resolved().Type
	resolved, ok := a.catalog.ResolveUnaryOperator(op, operandType)
	if !ok {
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "no unary '%s' operator for %s", op, operandType)
		a.setType(e, types.UniversalTop)
		return
	}
	e.Extern = resolved
	a.setType(e, resolved.ReturnType)
}

func (a *Analyzer) analyzeMemberExpr(e *ast.MemberExpr, scope *symbols.Scope) {
	a.analyzeExpr(e.Receiver, scope)
	recv := e.Receiver.Resolved()
	if recv.Type == types.ReflectedType && recv.EnumType != "" {
		a.analyzeStaticMember(e, recv.EnumType)
		return
	}
	prop, ok := a.catalog.ResolveProperty(recv.Type, e.Name)
	if !ok {
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "type %s has no member '%s'", recv.Type, e.Name)
		a.setType(e, types.UniversalTop)
		return
	}
	e.Extern = prop
	a.setType(e, prop.Type)
}

func (a *Analyzer) analyzeStaticMember(e *ast.MemberExpr, owner string) {
	if a.catalog.IsEnumType(owner) {
		info, _ := a.catalog.ResolveEnum(owner)
		if val, ok := info.Values[e.Name]; ok {
			e.EnumValue = val
			e.EnumType = owner
			e.IsEnumMember = true
			a.setType(e, owner)
			return
		}
		a.diags.Errorf(diag.ErrUnknownEnumValue, e.Span(), "%s has no member '%s'", owner, e.Name)
		a.setType(e, typeInt)
		return
	}
	if prop, ok := a.catalog.ResolveProperty(owner, e.Name); ok {
		e.Extern = prop
		a.setType(e, prop.Type)
		return
	}
	a.diags.Errorf(diag.ErrTypeError, e.Span(), "type %s has no static member '%s'", owner, e.Name)
	a.setType(e, types.UniversalTop)
}

func (a *Analyzer) analyzeCallExpr(e *ast.CallExpr, scope *symbols.Scope) {
	switch callee := e.Callee.(type) {
	case *ast.NameExpr:
		sym, ok := scope.Resolve(callee.Name)
		if !ok {
			a.undefinedName(callee.Name, callee.Span(), scope)
			a.analyzeArgs(e.Args, scope)
			a.setType(e, types.UniversalTop)
			return
		}
		switch sym.Kind {
		case symbols.KindBuiltin:
			a.analyzeBuiltinCall(e, callee.Name, scope)
		case symbols.KindFunction:
			a.analyzeUserFuncCall(e, callee.Name, scope)
		case symbols.KindStaticType:
			a.analyzeConstructorCall(e, sym.Type, scope)
		case symbols.KindCustomEvent:
			a.diags.Errorf(diag.ErrTypeError, callee.Span(), "'%s' is a custom event; use 'send %s'", callee.Name, callee.Name)
			a.analyzeArgs(e.Args, scope)
			a.setType(e, types.UniversalTop)
		default:
			a.diags.Errorf(diag.ErrTypeError, callee.Span(), "'%s' is not callable", callee.Name)
			a.analyzeArgs(e.Args, scope)
			a.setType(e, types.UniversalTop)
		}
	case *ast.MemberExpr:
		a.analyzeMethodCall(e, callee, scope)
	default:
		a.analyzeExpr(e.Callee, scope)
		a.analyzeArgs(e.Args, scope)
		a.setType(e, types.UniversalTop)
	}
}

func (a *Analyzer) analyzeArgs(args []ast.Expr, scope *symbols.Scope) []string {
	argTypes := make([]string, len(args))
	for i, arg := range args {
		a.analyzeExpr(arg, scope)
		argTypes[i] = arg.Resolved().Type
	}
	return argTypes
}

func (a *Analyzer) analyzeBuiltinCall(e *ast.CallExpr, name string, scope *symbols.Scope) {
	sig := a.builtins[name]
	argTypes := a.analyzeArgs(e.Args, scope)
	if len(argTypes) != len(sig.paramTypes) {
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "'%s' expects %d argument(s), got %d", name, len(sig.paramTypes), len(argTypes))
	} else {
		for i, want := range sig.paramTypes {
			if !types.Assignable(argTypes[i], want, a.catalog) {
				a.diags.Errorf(diag.ErrTypeError, e.Args[i].Span(), "argument %d to '%s': cannot use %s as %s", i+1, name, argTypes[i], want)
			}
		}
	}
	a.setType(e, sig.returnType)
}

func (a *Analyzer) analyzeUserFuncCall(e *ast.CallExpr, name string, scope *symbols.Scope) {
	sig := a.funcs[name]
	argTypes := a.analyzeArgs(e.Args, scope)
	if sig == nil {
		a.setType(e, types.UniversalTop)
		return
	}
	if len(argTypes) != len(sig.paramTypes) {
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "'%s' expects %d argument(s), got %d", name, len(sig.paramTypes), len(argTypes))
	} else {
		for i, want := range sig.paramTypes {
			if !types.Assignable(argTypes[i], want, a.catalog) {
				a.diags.Errorf(diag.ErrTypeError, e.Args[i].Span(), "argument %d to '%s': cannot use %s as %s", i+1, name, argTypes[i], want)
			}
		}
	}
	if a.currentFunc != "" {
		a.callGraph[a.currentFunc][name] = true
	}
	a.setType(e, sig.returnType)
}

func (a *Analyzer) analyzeConstructorCall(e *ast.CallExpr, owner string, scope *symbols.Scope) {
	argTypes := a.analyzeArgs(e.Args, scope)
	resolved, ok := a.catalog.ResolveStaticMethod(owner, "new", argTypes)
	if !ok {
		a.diags.Errorf(diag.ErrNoMatchingOverload, e.Span(), "no constructor of %s matches (%s)", owner, strings.Join(argTypes, ", "))
		a.setType(e, owner)
		return
	}
	e.Extern = resolved
	a.applyParamConversions(e.Args, argTypes, resolved.ParamTypes)
	a.setType(e, owner)
}

func (a *Analyzer) analyzeMethodCall(e *ast.CallExpr, m *ast.MemberExpr, scope *symbols.Scope) {
	a.analyzeExpr(m.Receiver, scope)
	recv := m.Receiver.Resolved()

	if recv.Type == types.ReflectedType && recv.EnumType != "" {
		owner := recv.EnumType
		argTypes := a.analyzeArgs(e.Args, scope)
		resolved, ok := a.catalog.ResolveStaticMethod(owner, m.Name, argTypes)
		if !ok {
			a.diags.Errorf(diag.ErrNoMatchingOverload, e.Span(), "no overload of %s.%s matches (%s)",
				owner, m.Name, strings.Join(argTypes, ", "))
			a.setType(e, types.UniversalTop)
			return
		}
		m.Extern = resolved
		e.Extern = resolved
		a.applyParamConversions(e.Args, argTypes, resolved.ParamTypes)
		a.setType(e, a.componentReturnType(resolved, e.Args))
		return
	}

	argTypes := a.analyzeArgs(e.Args, scope)
	resolved, ok := a.catalog.ResolveMethod(recv.Type, m.Name, argTypes)
	if !ok {
		hint := candidateHint(a.catalog.GetMethodOverloads(recv.Type, m.Name))
		a.diags.Add(diag.Diagnostic{
			Severity: diag.Error, Code: diag.ErrNoMatchingOverload, Span: e.Span(),
			Message: "no overload of " + recv.Type + "." + m.Name + " matches (" + strings.Join(argTypes, ", ") + ")",
			Hint:    hint,
		})
		a.setType(e, types.UniversalTop)
		return
	}
	m.Extern = resolved
	e.Extern = resolved
	a.applyParamConversions(e.Args, argTypes, resolved.ParamTypes)
	a.setType(e, a.componentReturnType(resolved, e.Args))
}

// componentReturnType special-cases GetComponent-family methods: their
// catalog return type is a generic component type, but the actual
// result is whatever concrete type was passed as the type-as-value
// argument.
func (a *Analyzer) componentReturnType(sig *catalog.ExternSignature, args []ast.Expr) string {
	if sig.Name != "GetComponent" || len(args) == 0 {
		return sig.ReturnType
	}
	info := args[0].Resolved()
	if info.Type == types.ReflectedType && info.EnumType != "" {
		return info.EnumType
	}
	return sig.ReturnType
}

func (a *Analyzer) applyParamConversions(args []ast.Expr, argTypes, paramTypes []string) {
	for i, want := range paramTypes {
		if i >= len(args) {
			break
		}
		if argTypes[i] != want && types.IsWidening(argTypes[i], want) {
			a.applyConversion(args[i], argTypes[i], want)
		}
	}
}

func candidateHint(sigs []*catalog.ExternSignature) string {
	if len(sigs) == 0 {
		return ""
	}
	parts := make([]string, len(sigs))
	for i, s := range sigs {
		parts[i] = s.String()
	}
	return "candidates: " + strings.Join(parts, "; ")
}

func (a *Analyzer) analyzeIndexExpr(e *ast.IndexExpr, scope *symbols.Scope) {
	a.analyzeExpr(e.Collection, scope)
	a.analyzeExpr(e.Index, scope)
	collType := e.Collection.Resolved().Type
	if !isArrayType(collType) {
		a.diags.Errorf(diag.ErrTypeError, e.Span(), "cannot index non-array type %s", collType)
		a.setType(e, types.UniversalTop)
		return
	}
	if idxType := e.Index.Resolved().Type; idxType != typeInt {
		a.diags.Errorf(diag.ErrTypeError, e.Index.Span(), "array index must be int, got %s", idxType)
	}
	a.setType(e, elementType(collType))
}

func (a *Analyzer) analyzeArrayLit(e *ast.ArrayLit, scope *symbols.Scope) {
	if len(e.Elements) == 0 {
		a.setType(e, types.UniversalTop+types.ArraySuffix)
		return
	}
	a.analyzeExpr(e.Elements[0], scope)
	elem := e.Elements[0].Resolved().Type
	for _, el := range e.Elements[1:] {
		a.analyzeExpr(el, scope)
		if t := el.Resolved().Type; t != elem && !types.Assignable(t, elem, a.catalog) {
			a.diags.Errorf(diag.ErrTypeError, el.Span(), "array element type %s does not match %s", t, elem)
		}
	}
	a.setType(e, elem+types.ArraySuffix)
}

func (a *Analyzer) analyzeCastExpr(e *ast.CastExpr, scope *symbols.Scope) {
	a.analyzeExpr(e.Value, scope)
	target := a.resolveTypeExpr(e.Type)
	if conv, ok := a.catalog.GetImplicitConversion(e.Value.Resolved().Type, target); ok {
		e.Conv = conv.Mangled()
	}
	a.setType(e, target)
}

func isArrayType(t string) bool {
	return len(t) > len(types.ArraySuffix) && strings.HasSuffix(t, types.ArraySuffix)
}
