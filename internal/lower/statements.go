package lower

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/ir"
	"github.com/norilang/nori/internal/types"
)

func (l *Lowerer) lowerStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		if l.terminated {
			// Unreachable code after a return/break/continue/send — the
			// analyzer doesn't flag this as an error, but emitting it
			// would only waste address space past a block that has
			// already jumped away.
			break
		}
		l.lowerStmt(s)
	}
}

func (l *Lowerer) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		l.lowerLocalVarDecl(s)
	case *ast.AssignStmt:
		l.lowerAssignStmt(s)
	case *ast.IfStmt:
		l.lowerIfStmt(s)
	case *ast.WhileStmt:
		l.lowerWhileStmt(s)
	case *ast.ForRangeStmt:
		l.lowerForRangeStmt(s)
	case *ast.ForEachStmt:
		l.lowerForEachStmt(s)
	case *ast.ReturnStmt:
		l.lowerReturnStmt(s)
	case *ast.BreakStmt:
		if loop, ok := l.currentLoop(); ok {
			l.emit(ir.Jump(loop.breakLabel))
		}
	case *ast.ContinueStmt:
		if loop, ok := l.currentLoop(); ok {
			l.emit(ir.Jump(loop.continueLabel))
		}
	case *ast.SendStmt:
		l.lowerSendStmt(s)
	case *ast.ExprStmt:
		l.lowerExpr(s.X)
	}
}

func (l *Lowerer) lowerLocalVarDecl(d *ast.VarDecl) {
	typ := l.resolveType(d.Type)
	if typ == "" && d.Init != nil {
		typ = d.Init.Resolved().Type
	}
	cell := l.declareLocalCell(d.Name, typ)
	l.scope.bind(d.Name, cell)
	if d.Init != nil {
		val := l.lowerExpr(d.Init)
		l.emit(ir.Copy(val, cell))
	}
}

func (l *Lowerer) lowerAssignStmt(s *ast.AssignStmt) {
	valCell := l.lowerExpr(s.Value)
	if s.Op != ast.Assign {
		cur := l.lowerExpr(s.Target)
		sig, _ := s.ResolvedOp.(*catalog.ExternSignature)
		tmp := l.newTemp(s.Target.Resolved().Type)
		if sig != nil {
			l.emitExtern(sig.Mangled(), []string{cur, valCell}, tmp, true)
		}
		valCell = tmp
	}
	l.storeTo(s.Target, valCell)
}

// storeTo writes valCell into the heap location target names: a bare
// name writes the cell directly, a property writes through its setter
// extern, and an array element writes through the index-set convention.
func (l *Lowerer) storeTo(target ast.Expr, valCell string) {
	switch t := target.(type) {
	case *ast.NameExpr:
		l.emit(ir.Copy(valCell, l.cellFor(t.Name)))
	case *ast.MemberExpr:
		prop, ok := t.Extern.(*catalog.PropertyInfo)
		if !ok || prop.Setter == nil {
			return
		}
		recvInfo := t.Receiver.Resolved()
		if recvInfo.Type == types.ReflectedType {
			l.emitExtern(prop.Setter.Mangled(), []string{valCell}, "", false)
			return
		}
		recv := l.lowerExpr(t.Receiver)
		l.emitExtern(prop.Setter.Mangled(), []string{recv, valCell}, "", false)
	case *ast.IndexExpr:
		collType := t.Collection.Resolved().Type
		elem := t.Resolved().Type
		recv := l.lowerExpr(t.Collection)
		idx := l.lowerExpr(t.Index)
		sig := &catalog.ExternSignature{Owner: collType, Name: "Set", ParamTypes: []string{typeInt, elem}, ReturnType: typeVoid}
		l.emitExtern(sig.Mangled(), []string{recv, idx, valCell}, "", false)
	}
}

// lowerIfStmt lowers `if`/`else` to the fallthrough block layout: the
// then-branch stays inline after the conditional jump, an explicit jump
// skips the else-branch when taken, and both paths fall through into a
// shared join block.
func (l *Lowerer) lowerIfStmt(s *ast.IfStmt) {
	cond := l.lowerExpr(s.Cond)
	endLabel := l.newLabel()

	if s.Else == nil {
		l.emit(ir.JumpIfFalse(cond, endLabel))
		l.lowerStmts(s.Then)
		end := l.newBlock(endLabel, false)
		l.enterBlock(end)
		return
	}

	elseLabel := l.newLabel()
	l.emit(ir.JumpIfFalse(cond, elseLabel))
	l.lowerStmts(s.Then)
	if !l.terminated {
		l.emit(ir.Jump(endLabel))
	}

	elseBlock := l.newBlock(elseLabel, false)
	l.enterBlock(elseBlock)
	l.lowerStmts(s.Else)

	end := l.newBlock(endLabel, false)
	l.enterBlock(end)
}

// lowerWhileStmt lowers to a labeled condition block so `continue` has
// somewhere to jump back to; the condition block is entered by falling
// straight through from whatever preceded the loop.
func (l *Lowerer) lowerWhileStmt(s *ast.WhileStmt) {
	condLabel := l.newLabel()
	endLabel := l.newLabel()

	condBlock := l.newBlock(condLabel, false)
	l.enterBlock(condBlock)
	cond := l.lowerExpr(s.Cond)
	l.emit(ir.JumpIfFalse(cond, endLabel))

	l.pushScope()
	l.pushLoop(endLabel, condLabel)
	l.lowerStmts(s.Body)
	l.popLoop()
	l.popScope()
	if !l.terminated {
		l.emit(ir.Jump(condLabel))
	}

	end := l.newBlock(endLabel, false)
	l.enterBlock(end)
}

// lowerForRangeStmt lowers `for v in start..end` as an inclusive
// counted loop, in the teacher's Pascal-descended `to` convention: the
// increment step is its own block so `continue` runs it instead of
// skipping straight back to the condition.
func (l *Lowerer) lowerForRangeStmt(s *ast.ForRangeStmt) {
	start := l.lowerExpr(s.Start)
	l.pushScope()
	varCell := l.declareLocalCell(s.Var, typeInt)
	l.scope.bind(s.Var, varCell)
	l.emit(ir.Copy(start, varCell))
	end := l.lowerExpr(s.End)

	condLabel := l.newLabel()
	incrLabel := l.newLabel()
	endLabel := l.newLabel()

	condBlock := l.newBlock(condLabel, false)
	l.enterBlock(condBlock)
	cmp := l.newTemp(typeBool)
	if sig, ok := l.catalog.ResolveOperator("<=", typeInt, typeInt); ok {
		l.emitExtern(sig.Mangled(), []string{varCell, end}, cmp, true)
	}
	l.emit(ir.JumpIfFalse(cmp, endLabel))

	l.pushLoop(endLabel, incrLabel)
	l.lowerStmts(s.Body)
	l.popLoop()
	if !l.terminated {
		l.emit(ir.Jump(incrLabel))
	}

	incrBlock := l.newBlock(incrLabel, false)
	l.enterBlock(incrBlock)
	one := l.constCell(typeInt, "1")
	next := l.newTemp(typeInt)
	if sig, ok := l.catalog.ResolveOperator("+", typeInt, typeInt); ok {
		l.emitExtern(sig.Mangled(), []string{varCell, one}, next, true)
	}
	l.emit(ir.Copy(next, varCell))
	l.emit(ir.Jump(condLabel))

	end2 := l.newBlock(endLabel, false)
	l.enterBlock(end2)
	l.popScope()
}

// lowerForEachStmt lowers `for v in collection` to an index-counted
// loop over the collection's invented Length/Get extern convention,
// mirroring the index get/set convention spec.md describes for `[]`.
func (l *Lowerer) lowerForEachStmt(s *ast.ForEachStmt) {
	collType := s.Collection.Resolved().Type
	elemType := elemTypeOf(collType)
	coll := l.lowerExpr(s.Collection)

	lengthSig := &catalog.ExternSignature{Owner: collType, Name: "get_Length", ReturnType: typeInt}
	length := l.newTemp(typeInt)
	l.emitExtern(lengthSig.Mangled(), []string{coll}, length, true)

	l.pushScope()
	idxCell := l.newTemp(typeInt)
	zero := l.constCell(typeInt, "0")
	l.emit(ir.Copy(zero, idxCell))
	elemCell := l.declareLocalCell(s.Var, elemType)
	l.scope.bind(s.Var, elemCell)

	condLabel := l.newLabel()
	incrLabel := l.newLabel()
	endLabel := l.newLabel()

	condBlock := l.newBlock(condLabel, false)
	l.enterBlock(condBlock)
	cmp := l.newTemp(typeBool)
	if sig, ok := l.catalog.ResolveOperator("<", typeInt, typeInt); ok {
		l.emitExtern(sig.Mangled(), []string{idxCell, length}, cmp, true)
	}
	l.emit(ir.JumpIfFalse(cmp, endLabel))
	getSig := &catalog.ExternSignature{Owner: collType, Name: "Get", ParamTypes: []string{typeInt}, ReturnType: elemType}
	l.emitExtern(getSig.Mangled(), []string{coll, idxCell}, elemCell, true)

	l.pushLoop(endLabel, incrLabel)
	l.lowerStmts(s.Body)
	l.popLoop()
	if !l.terminated {
		l.emit(ir.Jump(incrLabel))
	}

	incrBlock := l.newBlock(incrLabel, false)
	l.enterBlock(incrBlock)
	one := l.constCell(typeInt, "1")
	next := l.newTemp(typeInt)
	if sig, ok := l.catalog.ResolveOperator("+", typeInt, typeInt); ok {
		l.emitExtern(sig.Mangled(), []string{idxCell, one}, next, true)
	}
	l.emit(ir.Copy(next, idxCell))
	l.emit(ir.Jump(condLabel))

	end := l.newBlock(endLabel, false)
	l.enterBlock(end)
	l.popScope()
}

// lowerReturnStmt returns through the enclosing function's shared
// return-address cell, or, inside an event or custom event body (which
// have no caller to return to), jumps straight to the halt sentinel —
// an early `return` simply ends the handler.
func (l *Lowerer) lowerReturnStmt(s *ast.ReturnStmt) {
	if l.curFn == nil {
		l.emit(ir.Jump(ir.HaltLabel))
		return
	}
	if s.Value != nil && l.curFn.returnValue != "" {
		val := l.lowerExpr(s.Value)
		l.emit(ir.Copy(val, l.curFn.returnValue))
	}
	l.emit(ir.JumpIndirect(l.curFn.returnAddr))
}

// lowerSendStmt dispatches a custom event. Sending to self runs through
// the behavior's own SendCustomEvent extern rather than jumping directly
// to the target block, since the real VM (unlike a user function call)
// offers no direct address-based dispatch between event entry points.
func (l *Lowerer) lowerSendStmt(s *ast.SendStmt) {
	name := l.constCell(typeString, s.EventName)
	switch s.Target {
	case ast.SendLocal:
		sig := &catalog.ExternSignature{Owner: typeBehavior, Name: "SendCustomEvent", ParamTypes: []string{typeString}, ReturnType: typeVoid}
		l.emitExtern(sig.Mangled(), []string{behaviorCell, name}, "", false)
	case ast.SendAll, ast.SendOwner:
		targetVal := "0"
		if s.Target == ast.SendOwner {
			targetVal = "1"
		}
		targetCell := l.constCell("VRCUdonCommonInterfacesNetworkEventTarget", targetVal)
		sig := &catalog.ExternSignature{
			Owner: typeBehavior, Name: "SendCustomNetworkEvent",
			ParamTypes: []string{"VRCUdonCommonInterfacesNetworkEventTarget", typeString}, ReturnType: typeVoid,
		}
		l.emitExtern(sig.Mangled(), []string{behaviorCell, targetCell, name}, "", false)
	}
}
