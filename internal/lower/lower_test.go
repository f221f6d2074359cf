package lower

import (
	"testing"

	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/ir"
	"github.com/norilang/nori/internal/lexer"
	"github.com/norilang/nori/internal/parser"
	"github.com/norilang/nori/internal/semantic"
)

func lowerSource(t *testing.T, src string) *ir.Module {
	t.Helper()
	b := diag.NewBag()
	cat := catalog.NewBuiltin()
	toks := lexer.New(src, "test.nori", b).Lex()
	mod := parser.New(toks, "test.nori", b).ParseModule()
	a := semantic.New(cat, b)
	a.Analyze(mod)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	return New(cat).Lower(mod)
}

func findVar(m *ir.Module, name string) *ir.Variable {
	for _, v := range m.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func findBlock(m *ir.Module, label string) *ir.Block {
	return m.FindBlock(label)
}

func TestGlobalLiteralInit(t *testing.T) {
	m := lowerSource(t, `let health: int = 100`)
	v := findVar(m, "health")
	if v == nil {
		t.Fatalf("health cell not declared")
	}
	if v.Init != "100" {
		t.Fatalf("expected literal init 100, got %q", v.Init)
	}
}

func TestGlobalTrueDeferredInit(t *testing.T) {
	m := lowerSource(t, `
		let active: bool = true
		on Start { log(active) }
	`)
	v := findVar(m, "active")
	if v == nil {
		t.Fatalf("active cell not declared")
	}
	if v.Init != "null" {
		t.Fatalf("expected placeholder null init for deferred true, got %q", v.Init)
	}
	start := findBlock(m, "_start")
	if start == nil {
		t.Fatalf("_start block not found")
	}
	foundExtern := false
	for _, instr := range start.Instructions {
		if instr.Kind == ir.KindExtern {
			foundExtern = true
			break
		}
	}
	if !foundExtern {
		t.Fatalf("expected _start to materialize `true` via an extern call, got %v", start.Instructions)
	}
	foundNegationIntoActive := false
	for i, instr := range start.Instructions {
		if instr.Kind == ir.KindExtern && containsAll(instr.Signature, "UnaryNegation") &&
			i > 0 && start.Instructions[i-1].Kind == ir.KindPush && start.Instructions[i-1].Var == "active" {
			foundNegationIntoActive = true
		}
	}
	if !foundNegationIntoActive {
		t.Fatalf("expected the negation in _start to write into the active cell, got %v", start.Instructions)
	}
}

func TestUserFunctionCallReturnAddress(t *testing.T) {
	m := lowerSource(t, `
		fn add(a: int, b: int) -> int { return a + b }
		on Start { let x: int = add(1, 2) }
	`)
	fnBlock := findBlock(m, "__fn_add")
	if fnBlock == nil {
		t.Fatalf("expected __fn_add block, blocks: %v", blockLabels(m))
	}
	lastInstr := fnBlock.Instructions[len(fnBlock.Instructions)-1]
	if lastInstr.Kind != ir.KindJumpIndirect {
		t.Fatalf("expected function body to end with JumpIndirect, got %v", lastInstr)
	}

	start := findBlock(m, "_start")
	if start == nil {
		t.Fatalf("_start block not found")
	}
	sawCopyToRetAddr := false
	sawJumpToFn := false
	for _, instr := range start.Instructions {
		if instr.Kind == ir.KindCopy && instr.Dst == "__ret_add" {
			sawCopyToRetAddr = true
		}
		if instr.Kind == ir.KindJump && instr.Target == "__fn_add" {
			sawJumpToFn = true
		}
	}
	if !sawCopyToRetAddr {
		t.Fatalf("expected a copy into the __ret_add return-address cell, got %v", start.Instructions)
	}
	if !sawJumpToFn {
		t.Fatalf("expected a jump to __fn_add, got %v", start.Instructions)
	}

	sawRetAddrConst := false
	for _, v := range m.Variables {
		if len(v.Init) > len("__label__") && v.Init[:len("__label__")] == "__label__" {
			sawRetAddrConst = true
		}
	}
	if !sawRetAddrConst {
		t.Fatalf("expected a constant cell holding a __label__ placeholder for the call's return address")
	}
}

func TestIfElseFallthroughBlocks(t *testing.T) {
	m := lowerSource(t, `
		on Start {
			if true {
				log("yes")
			} else {
				log("no")
			}
		}
	`)
	start := findBlock(m, "_start")
	if start == nil {
		t.Fatalf("_start block not found")
	}
	sawCondJump := false
	for _, instr := range start.Instructions {
		if instr.Kind == ir.KindJumpIfFalse {
			sawCondJump = true
		}
	}
	if !sawCondJump {
		t.Fatalf("expected a JumpIfFalse for the if condition, got %v", start.Instructions)
	}
	// Two fresh blocks are appended for an if/else: the else block and the
	// join block, in addition to _start itself.
	if len(m.Blocks) < 3 {
		t.Fatalf("expected at least 3 blocks for an if/else inside _start, got %d: %v", len(m.Blocks), blockLabels(m))
	}
}

func TestWhileLoopWithBreak(t *testing.T) {
	m := lowerSource(t, `
		on Start {
			while true {
				break
			}
		}
	`)
	found := false
	for _, b := range m.Blocks {
		for _, instr := range b.Instructions {
			if instr.Kind == ir.KindJumpIfFalse {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a while loop condition check, blocks: %v", blockLabels(m))
	}
	// A condition block and an end block are appended beyond _start.
	if len(m.Blocks) < 3 {
		t.Fatalf("expected at least 3 blocks for a while loop inside _start, got %d: %v", len(m.Blocks), blockLabels(m))
	}
}

func TestSendCustomEvent(t *testing.T) {
	m := lowerSource(t, `
		event Ping { log("pinged") }
		on Start { send Ping }
	`)
	start := findBlock(m, "_start")
	if start == nil {
		t.Fatalf("_start block not found")
	}
	sawSendExtern := false
	for _, instr := range start.Instructions {
		if instr.Kind == ir.KindExtern && instr.Signature != "" {
			if containsAll(instr.Signature, "SendCustomEvent") {
				sawSendExtern = true
			}
		}
	}
	if !sawSendExtern {
		t.Fatalf("expected a SendCustomEvent extern call, got %v", start.Instructions)
	}
	if findBlock(m, "Ping") == nil {
		t.Fatalf("expected a Ping block for the custom event declaration, blocks: %v", blockLabels(m))
	}
}

func blockLabels(m *ir.Module) []string {
	labels := make([]string, len(m.Blocks))
	for i, b := range m.Blocks {
		labels[i] = b.Label
	}
	return labels
}

func containsAll(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
