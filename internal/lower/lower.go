// Package lower translates an analyzed AST into the heap-variable and
// labeled-block IR defined by internal/ir. The target machine has no
// locals and no call stack, so every intermediate value and every
// constant is given its own named heap cell; user functions return
// through an explicit return-address cell rather than a native call
// instruction.
package lower

import (
	"fmt"

	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/ir"
	"github.com/norilang/nori/internal/types"
)

const (
	typeVoid     = "SystemVoid"
	typeBool     = "SystemBoolean"
	typeInt      = "SystemInt32"
	typeFloat    = "SystemSingle"
	typeString   = "SystemString"
	typeGame     = "UnityEngineGameObject"
	typeXform    = "UnityEngineTransform"
	typePlayer   = "VRCSDKBaseVRCPlayerApi"
	typeBehavior = "VRCUdonUdonBehaviour"
)

// behaviorCell and the two fixed this-bound component cells are declared
// unconditionally at the very start of every lowered module.
const (
	behaviorCell   = "__this"
	gameObjectCell = "gameObject"
	transformCell  = "transform"
)

// funcInfo is everything a call site needs to know about a previously
// (or not-yet) lowered user function.
type funcInfo struct {
	label       string
	paramSlots  []string
	paramTypes  []string
	returnType  string
	returnAddr  string
	returnValue string
}

// deferredInit is a top-level variable whose data-section encoding can't
// represent its real initial value (a `true` boolean, or a non-literal
// expression); it is evaluated into its cell at the top of `_start`
// before any user code runs there.
type deferredInit struct {
	cell string
	typ  string
	expr ast.Expr // a literal `true` is negated from the shared false cell straight into cell
}

// Lowerer carries every counter and table threaded through lowering.
type Lowerer struct {
	catalog catalog.Catalog
	mapper  *types.Mapper

	module *ir.Module
	cur    *ir.Block

	scope *binderScope

	usedNames map[string]bool
	localSeq  int
	tempSeq   int
	labelSeq  int
	constSeq  int
	constPool map[string]string

	funcs map[string]*funcInfo
	curFn *funcInfo

	loops []loopCtx

	deferred []deferredInit

	// terminated is true once the current block's reachable flow has
	// already ended in an unconditional Jump/JumpIndirect; a further
	// terminator for the same block (the implicit end-of-body halt or
	// return-address jump) is then redundant and skipped.
	terminated bool
}

type loopCtx struct {
	breakLabel    string
	continueLabel string
}

// New constructs a Lowerer backed by cat, the same catalog the module
// was analyzed against (operator and conversion externs must match).
func New(cat catalog.Catalog) *Lowerer {
	if cat == nil {
		cat = catalog.NewBuiltin()
	}
	return &Lowerer{
		catalog:   cat,
		mapper:    types.NewMapper(cat),
		module:    &ir.Module{},
		usedNames: make(map[string]bool),
		constPool: make(map[string]string),
		funcs:     make(map[string]*funcInfo),
		scope:     newBinderScope(nil),
	}
}

// Lower runs the full AST->IR lowering over mod, which must already have
// been analyzed (every expression's ExprInfo populated).
func (l *Lowerer) Lower(mod *ast.Module) *ir.Module {
	l.declareFixedCells()

	for _, d := range mod.Declarations {
		if v, ok := d.(*ast.VarDecl); ok {
			l.lowerGlobalVarDecl(v)
		}
	}
	// Function signatures are registered before any body is lowered so
	// call sites can resolve a function regardless of declaration order.
	for _, d := range mod.Declarations {
		if f, ok := d.(*ast.FuncDecl); ok {
			l.registerFuncSig(f)
		}
	}
	for _, d := range mod.Declarations {
		if f, ok := d.(*ast.FuncDecl); ok {
			l.lowerFuncBody(f)
		}
	}
	for _, d := range mod.Declarations {
		switch decl := d.(type) {
		case *ast.EventDecl:
			l.lowerEventDecl(decl)
		case *ast.CustomEventDecl:
			l.lowerCustomEventDecl(decl)
		}
	}

	l.flushDeferredInits()
	return l.module
}

// declareFixedCells seeds the behavior self-reference and the two
// load-time-bound component cells. localPlayer is deliberately not a
// this-bound cell: real Udon exposes it through a getter, so it is
// lowered as a fresh call to that getter at every reference instead.
func (l *Lowerer) declareFixedCells() {
	l.addVar(&ir.Variable{Name: behaviorCell, Type: typeBehavior, Init: "this", IsThis: true})
	l.addVar(&ir.Variable{Name: gameObjectCell, Type: typeGame, Init: "this", IsThis: true})
	l.addVar(&ir.Variable{Name: transformCell, Type: typeXform, Init: "this", IsThis: true})
	l.usedNames[behaviorCell] = true
	l.usedNames[gameObjectCell] = true
	l.usedNames[transformCell] = true
	l.declareSharedFalse()
}

// emitExtern lowers one extern call per the fixed calling convention:
// every argument cell is pushed in order, then the destination cell (if
// the extern returns a value), then the call itself. There is no value
// stack underneath these pushes — PUSH makes a heap cell's address
// available to the next EXTERN, which reads and writes the named cells
// directly; this is how a call passes data with no native call stack.
func (l *Lowerer) emitExtern(mangled string, args []string, dst string, hasReturn bool) {
	for _, a := range args {
		l.emit(ir.Push(a))
	}
	if hasReturn && dst != "" {
		l.emit(ir.Push(dst))
	}
	l.emit(ir.Extern(mangled))
}

func (l *Lowerer) addVar(v *ir.Variable) *ir.Variable {
	return l.module.AddVariable(v)
}

func (l *Lowerer) emit(instr ir.Instruction) {
	l.cur.Emit(instr)
	switch instr.Kind {
	case ir.KindJump, ir.KindJumpIndirect:
		l.terminated = true
	default:
		l.terminated = false
	}
}

// newBlock starts and registers a new block, returning it without
// switching l.cur — callers that want to continue emitting into it call
// enterBlock as well.
func (l *Lowerer) newBlock(label string, export bool) *ir.Block {
	b := &ir.Block{Label: label, Export: export}
	l.module.Blocks = append(l.module.Blocks, b)
	return b
}

func (l *Lowerer) enterBlock(b *ir.Block) {
	l.cur = b
	l.terminated = false
}

func (l *Lowerer) newLabel() string {
	l.labelSeq++
	return fmt.Sprintf("__L%d", l.labelSeq)
}

func (l *Lowerer) newTemp(typ string) string {
	l.tempSeq++
	name := fmt.Sprintf("__tmp_%d", l.tempSeq)
	l.addVar(&ir.Variable{Name: name, Type: typ, Init: zeroLiteral(typ)})
	return name
}

// declareLocalCell allocates the heap cell backing a source-level
// binder (a parameter, a local var, or a loop variable). The natural
// name is used the first time it is requested; a second binder with the
// same surface name anywhere else in the module (a different function's
// same-named local, a second `for i` loop) is uniquified, since every
// binder lives in the single flat heap.
func (l *Lowerer) declareLocalCell(name, typ string) string {
	cell := name
	if l.usedNames[cell] {
		l.localSeq++
		cell = fmt.Sprintf("__lcl_%s_%s_%d", name, typ, l.localSeq)
	}
	l.usedNames[cell] = true
	l.addVar(&ir.Variable{Name: cell, Type: typ, Init: zeroLiteral(typ)})
	return cell
}

func (l *Lowerer) resolveType(t *ast.TypeExpr) string {
	if t == nil {
		return ""
	}
	q, ok := l.mapper.ToCatalog(t.Name, t.IsArray)
	if !ok {
		return types.UniversalTop
	}
	return q
}

func (l *Lowerer) pushLoop(breakLabel, continueLabel string) {
	l.loops = append(l.loops, loopCtx{breakLabel: breakLabel, continueLabel: continueLabel})
}

func (l *Lowerer) popLoop() {
	l.loops = l.loops[:len(l.loops)-1]
}

func (l *Lowerer) currentLoop() (loopCtx, bool) {
	if len(l.loops) == 0 {
		return loopCtx{}, false
	}
	return l.loops[len(l.loops)-1], true
}

func lowerSyncMode(m ast.SyncMode) ir.SyncMode {
	switch m {
	case ast.SyncNone:
		return ir.SyncNone
	case ast.SyncLinear:
		return ir.SyncLinear
	case ast.SyncSmooth:
		return ir.SyncSmooth
	default:
		return ir.NotSynced
	}
}
