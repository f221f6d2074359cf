package lower

import (
	"fmt"

	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/ir"
	"github.com/norilang/nori/internal/semantic"
)

// lowerGlobalVarDecl allocates the heap cell for a top-level variable. A
// literal initializer that the data section can represent is encoded
// directly; `true` and any non-literal expression get a zero-valued
// placeholder and are scheduled to run in `_start` before user code,
// since the data section has no way to express them (spec.md's `true`
// can't be declared directly — the parser only ever writes `null` for a
// false boolean constant).
func (l *Lowerer) lowerGlobalVarDecl(d *ast.VarDecl) {
	typ := l.resolveType(d.Type)
	if typ == "" && d.Init != nil {
		typ = d.Init.Resolved().Type
	}

	lit, simple := literalInit(d.Init)
	init := lit
	if !simple {
		init = zeroLiteral(typ)
	}

	v := l.addVar(&ir.Variable{
		Name:   d.Name,
		Type:   typ,
		Init:   init,
		Export: d.Public,
		Sync:   lowerSyncMode(d.Sync),
	})
	l.usedNames[d.Name] = true

	if d.Init != nil && !simple {
		l.deferred = append(l.deferred, deferredInit{cell: v.Name, typ: typ, expr: d.Init})
	}
}

// literalInit reports the data-section literal encoding of expr, if it
// is one the assembler can write directly. `true` is deliberately
// excluded — every boolean constant the data section can hold is false.
func literalInit(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case nil:
		return "", false
	case *ast.IntLit:
		return fmt.Sprintf("%d", e.Value), true
	case *ast.FloatLit:
		return fmt.Sprintf("%g", e.Value), true
	case *ast.StringLit:
		return e.Value, true
	case *ast.NullLit:
		return "null", true
	case *ast.BoolLit:
		if !e.Value {
			return "null", true
		}
		return "", false
	case *ast.NameExpr:
		if e.IsEnumMember {
			return fmt.Sprintf("%d", e.EnumValue), true
		}
		return "", false
	case *ast.MemberExpr:
		if e.IsEnumMember {
			return fmt.Sprintf("%d", e.EnumValue), true
		}
		return "", false
	default:
		return "", false
	}
}

// zeroLiteral is the placeholder data-section value for a cell whose
// real initial value isn't known until `_start` runs, or for a freshly
// allocated temp/local cell with no meaningful starting value.
func zeroLiteral(typ string) string {
	switch typ {
	case typeInt:
		return "0"
	case typeFloat:
		return "0"
	case typeString:
		return ""
	default:
		return "null"
	}
}

// registerFuncSig allocates the fixed cells every call to d needs before
// any body is lowered, so a call site encountered earlier in source (or
// in another function lowered before d) can already reference them.
func (l *Lowerer) registerFuncSig(d *ast.FuncDecl) {
	label := "__fn_" + d.Name
	info := &funcInfo{label: label}

	info.returnAddr = l.declareLocalCell("__ret_"+d.Name, typeInt)

	for _, p := range d.Params {
		pt := l.resolveType(p.Type)
		slot := l.declareLocalCell("__arg_"+d.Name+"_"+p.Name, pt)
		info.paramSlots = append(info.paramSlots, slot)
		info.paramTypes = append(info.paramTypes, pt)
	}

	if d.ReturnType != nil {
		info.returnType = l.resolveType(d.ReturnType)
		info.returnValue = l.declareLocalCell("__retval_"+d.Name, info.returnType)
	}

	l.funcs[d.Name] = info
}

// lowerFuncBody emits the block a call to d jumps into: parameter slots
// are copied into the function's real local cells, the body runs, and
// control returns via an indirect jump through the return-address cell
// (spec.md §4.6's call-by-return-address convention — there is no
// native call stack to push/pop a frame on).
func (l *Lowerer) lowerFuncBody(d *ast.FuncDecl) {
	info := l.funcs[d.Name]
	l.curFn = info
	l.pushScope()

	b := l.newBlock(info.label, false)
	l.enterBlock(b)

	for i, p := range d.Params {
		local := l.declareLocalCell(p.Name, info.paramTypes[i])
		l.scope.bind(p.Name, local)
		l.emit(ir.Copy(info.paramSlots[i], local))
	}

	l.lowerStmts(d.Body)

	if !l.terminated {
		l.emit(ir.JumpIndirect(info.returnAddr))
	}

	l.popScope()
	l.curFn = nil
}

// lowerEventDecl lowers a VRChat event handler into its fixed VM entry
// block. Event names absent from semantic.EventTable still lower — they
// already raised W0010 at analysis time — to an underscore-prefixed
// label via the same semantic.VMLabelFor helper the analyzer used to
// validate the name.
func (l *Lowerer) lowerEventDecl(d *ast.EventDecl) {
	label, _ := semantic.VMLabelFor(d.EventName)
	l.pushScope()

	if implicitType, ok := semantic.ImplicitParamTable[d.EventName]; ok {
		shadowed := false
		for _, p := range d.Params {
			if p.Name == "result" {
				shadowed = true
			}
		}
		if !shadowed {
			cell := l.declareLocalCell("result", implicitType)
			l.scope.bind("result", cell)
		}
	}
	for _, p := range d.Params {
		pt := l.resolveType(p.Type)
		cell := l.declareLocalCell(p.Name, pt)
		l.scope.bind(p.Name, cell)
	}

	b := l.newBlock(label, true)
	l.enterBlock(b)
	l.lowerStmts(d.Body)
	if !l.terminated {
		l.emit(ir.Jump(ir.HaltLabel))
	}
	l.popScope()
}

// lowerCustomEventDecl lowers a user-defined `event Name { ... }` the
// same way as a built-in event, labeled with its surface name directly
// since custom events have no fixed VM label to match.
func (l *Lowerer) lowerCustomEventDecl(d *ast.CustomEventDecl) {
	l.pushScope()
	b := l.newBlock(d.Name, true)
	l.enterBlock(b)
	l.lowerStmts(d.Body)
	if !l.terminated {
		l.emit(ir.Jump(ir.HaltLabel))
	}
	l.popScope()
}

// flushDeferredInits prepends every scheduled runtime initializer to the
// `_start` block, creating it if no `Start` handler was declared, so a
// `true` literal or non-literal top-level initializer runs exactly once
// before any user code.
func (l *Lowerer) flushDeferredInits() {
	if len(l.deferred) == 0 {
		return
	}
	start := l.module.FindBlock("_start")
	if start == nil {
		start = &ir.Block{Label: "_start", Export: true}
		start.Emit(ir.Jump(ir.HaltLabel))
		l.module.Blocks = append([]*ir.Block{start}, l.module.Blocks...)
	}

	var prefix []ir.Instruction
	for _, di := range l.deferred {
		l.cur = &ir.Block{}
		l.terminated = false
		if boolLit, ok := di.expr.(*ast.BoolLit); ok && boolLit.Value {
			l.materializeTrue(di.cell)
			prefix = append(prefix, l.cur.Instructions...)
			continue
		}
		val := l.lowerExpr(di.expr)
		if val != di.cell {
			l.emit(ir.Copy(val, di.cell))
		}
		prefix = append(prefix, l.cur.Instructions...)
	}
	start.Instructions = append(prefix, start.Instructions...)
}
