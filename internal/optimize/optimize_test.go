package optimize

import (
	"testing"

	"github.com/norilang/nori/internal/ir"
)

func TestResultSlotShortcut(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "__tmp_1", Type: "SystemInt32", Init: "0"})
	mod.AddVariable(&ir.Variable{Name: "x", Type: "SystemInt32", Init: "0"})
	b := &ir.Block{Label: "_start", Export: true}
	b.Emit(ir.Push("a"))
	b.Emit(ir.Push("__tmp_1"))
	b.Emit(ir.Extern("SystemInt32.__Add__SystemInt32_SystemInt32__SystemInt32"))
	b.Emit(ir.Copy("__tmp_1", "x"))
	mod.Blocks = append(mod.Blocks, b)

	stats := Optimize(mod)

	if len(b.Instructions) != 3 {
		t.Fatalf("expected 3 instructions after shortcut, got %d: %v", len(b.Instructions), b.Instructions)
	}
	if b.Instructions[1].Var != "x" {
		t.Fatalf("expected extern's push to target x, got %v", b.Instructions[1])
	}
	for _, v := range mod.Variables {
		if v.Name == "__tmp_1" {
			t.Fatalf("expected __tmp_1 to be eliminated as dead, variables: %v", mod.Variables)
		}
	}
	if stats.VariablesBefore != 2 || stats.VariablesAfter != 1 {
		t.Fatalf("unexpected variable counts: %+v", stats)
	}
	wantPass := false
	for _, p := range stats.PassesRun {
		if p == string(PassCopyPropagation) {
			wantPass = true
		}
	}
	if !wantPass {
		t.Fatalf("expected copy-propagation to be recorded as run, got %v", stats.PassesRun)
	}
}

func TestCopyChainCollapse(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "s", Type: "SystemInt32", Init: "0"})
	mod.AddVariable(&ir.Variable{Name: "__tmp_1", Type: "SystemInt32", Init: "0"})
	mod.AddVariable(&ir.Variable{Name: "x", Type: "SystemInt32", Init: "0"})
	b := &ir.Block{Label: "_start", Export: true}
	b.Emit(ir.Copy("s", "__tmp_1"))
	b.Emit(ir.Copy("__tmp_1", "x"))
	mod.Blocks = append(mod.Blocks, b)

	Optimize(mod)

	if len(b.Instructions) != 1 {
		t.Fatalf("expected the chain to collapse to one copy, got %v", b.Instructions)
	}
	got := b.Instructions[0]
	if got.Kind != ir.KindCopy || got.Var != "s" || got.Dst != "x" {
		t.Fatalf("expected copy s -> x, got %v", got)
	}
}

func TestInterferenceBlocksShortcut(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "__tmp_1", Type: "SystemInt32", Init: "0"})
	mod.AddVariable(&ir.Variable{Name: "x", Type: "SystemInt32", Init: "0"})
	b := &ir.Block{Label: "_start", Export: true}
	b.Emit(ir.Push("a"))
	b.Emit(ir.Push("__tmp_1"))
	b.Emit(ir.Extern("Foo.__Bar__SystemInt32__SystemInt32"))
	b.Emit(ir.Push("x")) // interferes with x before the copy lands
	b.Emit(ir.Copy("__tmp_1", "x"))
	mod.Blocks = append(mod.Blocks, b)

	Optimize(mod)

	sawCopy := false
	for _, instr := range b.Instructions {
		if instr.Kind == ir.KindCopy {
			sawCopy = true
		}
	}
	if !sawCopy {
		t.Fatalf("expected the copy to survive when x interferes, got %v", b.Instructions)
	}
}

func TestDeadVariablesPreservesExportedAndThis(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "__this", Type: "VRCSDKBaseVRCPlayerApi", Init: "this", IsThis: true})
	mod.AddVariable(&ir.Variable{Name: "score", Type: "SystemInt32", Init: "0", Export: true})
	mod.AddVariable(&ir.Variable{Name: "__tmp_99", Type: "SystemInt32", Init: "0"})
	mod.Blocks = append(mod.Blocks, &ir.Block{Label: "_start", Export: true})

	stats := Optimize(mod)

	if len(mod.Variables) != 2 {
		t.Fatalf("expected unreferenced __tmp_99 removed and the rest kept, got %v", mod.Variables)
	}
	if stats.VariablesBefore != 3 || stats.VariablesAfter != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
}

func TestDisabledPassLeavesModuleUntouched(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "__tmp_1", Type: "SystemInt32", Init: "0"})
	b := &ir.Block{Label: "_start", Export: true}
	mod.Blocks = append(mod.Blocks, b)

	Optimize(mod, WithPass(PassDeadVariables, false))

	if len(mod.Variables) != 1 {
		t.Fatalf("expected dead-variable elimination disabled to keep __tmp_1, got %v", mod.Variables)
	}
}
