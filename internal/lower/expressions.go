package lower

import (
	"fmt"

	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/ir"
	"github.com/norilang/nori/internal/types"
)

// sharedFalseCell backs every materialized `true` literal: negating a
// known-false cell is the only way to produce a true value, since the
// data section can only ever encode `null` (false) for a boolean.
const sharedFalseCell = "__false"

func (l *Lowerer) declareSharedFalse() {
	l.addVar(&ir.Variable{Name: sharedFalseCell, Type: typeBool, Init: "null"})
	l.usedNames[sharedFalseCell] = true
}

// lowerExpr evaluates e, emitting whatever instructions are needed, and
// returns the cell holding its value. A bare name or an already-pooled
// constant returns an existing cell with no instructions emitted; a
// call, operator, or index expression computes into a fresh temp.
func (l *Lowerer) lowerExpr(e ast.Expr) string {
	raw := l.lowerExprRaw(e)
	conv := e.Resolved().Conv
	if conv == "" {
		return raw
	}
	tmp := l.newTemp(e.Resolved().Type)
	l.emitExtern(conv, []string{raw}, tmp, true)
	return tmp
}

func (l *Lowerer) lowerExprRaw(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.IntLit:
		return l.constCell(typeInt, fmt.Sprintf("%d", ex.Value))
	case *ast.FloatLit:
		return l.constCell(typeFloat, fmt.Sprintf("%g", ex.Value))
	case *ast.StringLit:
		return l.constCell(typeString, ex.Value)
	case *ast.NullLit:
		return l.constCell(e.Resolved().Type, "null")
	case *ast.BoolLit:
		if !ex.Value {
			return l.constCell(typeBool, "null")
		}
		tmp := l.newTemp(typeBool)
		l.materializeTrue(tmp)
		return tmp
	case *ast.InterpString:
		return l.lowerInterpString(ex)
	case *ast.NameExpr:
		return l.lowerNameExpr(ex)
	case *ast.BinaryExpr:
		return l.lowerBinaryExpr(ex)
	case *ast.UnaryExpr:
		return l.lowerUnaryExpr(ex)
	case *ast.MemberExpr:
		return l.lowerMemberExpr(ex)
	case *ast.CallExpr:
		return l.lowerCallExpr(ex)
	case *ast.IndexExpr:
		return l.lowerIndexExpr(ex)
	case *ast.ArrayLit:
		return l.lowerArrayLit(ex)
	case *ast.CastExpr:
		return l.lowerCastExpr(ex)
	default:
		return l.newTemp("")
	}
}

// materializeTrue negates the shared false cell into dst.
func (l *Lowerer) materializeTrue(dst string) {
	sig, ok := l.catalog.ResolveUnaryOperator("!", typeBool)
	if !ok {
		sig = &catalog.ExternSignature{Owner: typeBool, Name: "op_UnaryNegation", ParamTypes: []string{typeBool}, ReturnType: typeBool}
	}
	l.emitExtern(sig.Mangled(), []string{sharedFalseCell}, dst, true)
}

// constCell interns a literal value so two identical constants anywhere
// in the module share one heap cell instead of allocating a fresh one
// per occurrence.
func (l *Lowerer) constCell(typ, literal string) string {
	key := typ + "|" + literal
	if cell, ok := l.constPool[key]; ok {
		return cell
	}
	l.constSeq++
	name := fmt.Sprintf("__const_%d", l.constSeq)
	l.addVar(&ir.Variable{Name: name, Type: typ, Init: literal})
	l.constPool[key] = name
	return name
}

func (l *Lowerer) lowerNameExpr(e *ast.NameExpr) string {
	if e.IsEnumMember {
		return l.constCell(e.EnumType, fmt.Sprintf("%d", e.EnumValue))
	}
	if e.Name == "localPlayer" {
		tmp := l.newTemp(typePlayer)
		l.emitExtern(localPlayerGetter.Mangled(), nil, tmp, true)
		return tmp
	}
	return l.cellFor(e.Name)
}

var localPlayerGetter = &catalog.ExternSignature{
	Owner: "VRCSDKBaseNetworking", Name: "get_LocalPlayer", Kind: catalog.KindStaticMethod,
	ReturnType: typePlayer,
}

func (l *Lowerer) lowerBinaryExpr(e *ast.BinaryExpr) string {
	left := l.lowerExpr(e.Left)
	right := l.lowerExpr(e.Right)
	sig, _ := e.Extern.(*catalog.ExternSignature)
	tmp := l.newTemp(e.Resolved().Type)
	if sig == nil {
		return tmp
	}
	l.emitExtern(sig.Mangled(), []string{left, right}, tmp, true)
	return tmp
}

func (l *Lowerer) lowerUnaryExpr(e *ast.UnaryExpr) string {
	operand := l.lowerExpr(e.Operand)
	sig, _ := e.Extern.(*catalog.ExternSignature)
	tmp := l.newTemp(e.Resolved().Type)
	if sig == nil {
		return tmp
	}
	l.emitExtern(sig.Mangled(), []string{operand}, tmp, true)
	return tmp
}

// lowerMemberExpr reads a property. An enum member access never reaches
// here (the analyzer resolves it to a constant on the MemberExpr node
// itself); a static property read (e.g. `Vector3.zero`) and an instance
// property read share the same PropertyInfo.Getter shape, differing
// only in whether a receiver cell is pushed.
func (l *Lowerer) lowerMemberExpr(e *ast.MemberExpr) string {
	if e.IsEnumMember {
		return l.constCell(e.EnumType, fmt.Sprintf("%d", e.EnumValue))
	}
	prop, ok := e.Extern.(*catalog.PropertyInfo)
	if !ok || prop.Getter == nil {
		return l.newTemp(e.Resolved().Type)
	}
	recvInfo := e.Receiver.Resolved()
	tmp := l.newTemp(e.Resolved().Type)
	if recvInfo.Type == types.ReflectedType {
		l.emitExtern(prop.Getter.Mangled(), nil, tmp, true)
		return tmp
	}
	recv := l.lowerExpr(e.Receiver)
	l.emitExtern(prop.Getter.Mangled(), []string{recv}, tmp, true)
	return tmp
}

func (l *Lowerer) lowerCallExpr(e *ast.CallExpr) string {
	switch callee := e.Callee.(type) {
	case *ast.NameExpr:
		if sig := builtinExterns[callee.Name]; sig != nil {
			return l.lowerBuiltinCall(e, sig)
		}
		if info, ok := l.funcs[callee.Name]; ok {
			return l.lowerUserCall(e, info)
		}
		return l.newTemp(e.Resolved().Type)
	case *ast.MemberExpr:
		return l.lowerMethodCallExpr(e, callee)
	default:
		return l.newTemp(e.Resolved().Type)
	}
}

func (l *Lowerer) lowerBuiltinCall(e *ast.CallExpr, sig *catalog.ExternSignature) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = l.lowerExpr(a)
	}
	if sig.Instance {
		args = append([]string{behaviorCell}, args...)
	}
	if sig.ReturnType == typeVoid || sig.ReturnType == "" {
		l.emitExtern(sig.Mangled(), args, "", false)
		return ""
	}
	tmp := l.newTemp(sig.ReturnType)
	l.emitExtern(sig.Mangled(), args, tmp, true)
	return tmp
}

// lowerMethodCallExpr handles both a static-type-as-value method call
// (e.g. `Debug.Log(...)` spelled through a catalog static method rather
// than the fixed builtin table, or `Vector3.Lerp(...)`) and an instance
// method call on a receiver expression.
func (l *Lowerer) lowerMethodCallExpr(e *ast.CallExpr, m *ast.MemberExpr) string {
	sig, _ := e.Extern.(*catalog.ExternSignature)
	if sig == nil {
		for _, a := range e.Args {
			l.lowerExpr(a)
		}
		return l.newTemp(e.Resolved().Type)
	}

	recvInfo := m.Receiver.Resolved()
	isStaticCall := recvInfo.Type == types.ReflectedType && recvInfo.EnumType != ""

	args := make([]string, 0, len(e.Args)+1)
	if !isStaticCall {
		args = append(args, l.lowerExpr(m.Receiver))
	}
	for i, a := range e.Args {
		if sig.Name == "GetComponent" && i == 0 {
			argInfo := a.Resolved()
			if argInfo.Type == types.ReflectedType && argInfo.EnumType != "" {
				args = append(args, l.typeValueCell(argInfo.EnumType))
				continue
			}
		}
		args = append(args, l.lowerExpr(a))
	}

	if sig.ReturnType == typeVoid || sig.ReturnType == "" {
		l.emitExtern(sig.Mangled(), args, "", false)
		return ""
	}
	tmp := l.newTemp(e.Resolved().Type)
	l.emitExtern(sig.Mangled(), args, tmp, true)
	return tmp
}

// typeValueCell interns the constant cell backing a bare type-as-value
// reference (e.g. the `Transform` argument to `GetComponent(Transform)`):
// a SystemType-typed cell whose literal value is the qualified type name.
func (l *Lowerer) typeValueCell(qualifiedName string) string {
	return l.constCell(types.ReflectedType, qualifiedName)
}

// lowerUserCall implements the call-by-return-address convention: the
// return point is a fresh block label, written as a literal placeholder
// into a dedicated constant cell that is then copied into the callee's
// shared return-address cell. The callee's closing JumpIndirect reads
// that cell to find its way back, since there is no call stack to pop.
func (l *Lowerer) lowerUserCall(e *ast.CallExpr, info *funcInfo) string {
	for i, a := range e.Args {
		val := l.lowerExpr(a)
		if i < len(info.paramSlots) {
			l.emit(ir.Copy(val, info.paramSlots[i]))
		}
	}
	retLabel := l.newLabel()
	l.constSeq++
	retConst := fmt.Sprintf("__retaddr_%d", l.constSeq)
	l.addVar(&ir.Variable{Name: retConst, Type: typeInt, Init: "__label__" + retLabel})
	l.emit(ir.Copy(retConst, info.returnAddr))
	l.emit(ir.Jump(info.label))

	next := l.newBlock(retLabel, false)
	l.enterBlock(next)

	if info.returnValue == "" {
		return ""
	}
	tmp := l.newTemp(info.returnType)
	l.emit(ir.Copy(info.returnValue, tmp))
	return tmp
}

func (l *Lowerer) lowerIndexExpr(e *ast.IndexExpr) string {
	collType := e.Collection.Resolved().Type
	elem := e.Resolved().Type
	recv := l.lowerExpr(e.Collection)
	idx := l.lowerExpr(e.Index)
	tmp := l.newTemp(elem)
	sig := &catalog.ExternSignature{Owner: collType, Name: "Get", ParamTypes: []string{typeInt}, ReturnType: elem}
	l.emitExtern(sig.Mangled(), []string{recv, idx}, tmp, true)
	return tmp
}

func (l *Lowerer) lowerArrayLit(e *ast.ArrayLit) string {
	elemType := elemTypeOf(e.Resolved().Type)
	ctor := &catalog.ExternSignature{Owner: e.Resolved().Type, Name: "ctor", ParamTypes: []string{typeInt}, ReturnType: e.Resolved().Type}
	tmp := l.newTemp(e.Resolved().Type)
	lenCell := l.constCell(typeInt, fmt.Sprintf("%d", len(e.Elements)))
	l.emitExtern(ctor.Mangled(), []string{lenCell}, tmp, true)
	setSig := &catalog.ExternSignature{Owner: e.Resolved().Type, Name: "Set", ParamTypes: []string{typeInt, elemType}, ReturnType: typeVoid}
	for i, el := range e.Elements {
		val := l.lowerExpr(el)
		idx := l.constCell(typeInt, fmt.Sprintf("%d", i))
		l.emitExtern(setSig.Mangled(), []string{tmp, idx, val}, "", false)
	}
	return tmp
}

func elemTypeOf(arrType string) string {
	const suffix = "Array"
	if len(arrType) > len(suffix) && arrType[len(arrType)-len(suffix):] == suffix {
		return arrType[:len(arrType)-len(suffix)]
	}
	return arrType
}

func (l *Lowerer) lowerCastExpr(e *ast.CastExpr) string {
	val := l.lowerExpr(e.Value)
	if e.Conv == "" {
		return val
	}
	tmp := l.newTemp(e.Resolved().Type)
	l.emitExtern(e.Conv, []string{val}, tmp, true)
	return tmp
}

// lowerInterpString folds an interpolated string into a left-to-right
// chain of string concatenations, converting each non-string hole to a
// string via the universal ToString extern first; string-typed holes are
// concatenated as they are.
func (l *Lowerer) lowerInterpString(e *ast.InterpString) string {
	concat, _ := l.catalog.ResolveOperator("+", typeString, typeString)
	toString := &catalog.ExternSignature{Owner: "SystemObject", Name: "ToString", ParamTypes: nil, ReturnType: typeString, Instance: true}

	var acc string
	first := true
	for _, part := range e.Parts {
		var seg string
		if part.Expr == nil {
			seg = l.constCell(typeString, part.Text)
		} else {
			val := l.lowerExpr(part.Expr)
			if part.Expr.Resolved().Type == typeString {
				seg = val
			} else {
				seg = l.newTemp(typeString)
				l.emitExtern(toString.Mangled(), []string{val}, seg, true)
			}
		}
		if first {
			acc = seg
			first = false
			continue
		}
		tmp := l.newTemp(typeString)
		if concat != nil {
			l.emitExtern(concat.Mangled(), []string{acc, seg}, tmp, true)
		}
		acc = tmp
	}
	if acc == "" {
		return l.constCell(typeString, "")
	}
	return acc
}

// builtinExterns is the fixed extern shape of spec.md's six
// always-available functions, resolved independently of the catalog the
// way the analyzer's builtinSig table is.
var builtinExterns = map[string]*catalog.ExternSignature{
	"log": {Owner: "UnityEngineDebug", Name: "Log", Kind: catalog.KindStaticMethod,
		ParamTypes: []string{"SystemObject"}, ReturnType: typeVoid},
	"warn": {Owner: "UnityEngineDebug", Name: "LogWarning", Kind: catalog.KindStaticMethod,
		ParamTypes: []string{"SystemObject"}, ReturnType: typeVoid},
	"error": {Owner: "UnityEngineDebug", Name: "LogError", Kind: catalog.KindStaticMethod,
		ParamTypes: []string{"SystemObject"}, ReturnType: typeVoid},
	"RequestSerialization": {Owner: typeBehavior, Name: "RequestSerialization", Kind: catalog.KindMethod,
		Instance: true, ReturnType: typeVoid},
	"IsValid": {Owner: "VRCUdonCommonUtilitiesUtilityMethods", Name: "IsValid", Kind: catalog.KindStaticMethod,
		ParamTypes: []string{"SystemObject"}, ReturnType: typeBool},
	"SendCustomEventDelayedSeconds": {Owner: typeBehavior, Name: "SendCustomEventDelayedSeconds", Kind: catalog.KindMethod,
		Instance: true, ParamTypes: []string{typeString, typeFloat}, ReturnType: typeVoid},
}
