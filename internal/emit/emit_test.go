package emit

import (
	"strings"
	"testing"

	"github.com/norilang/nori/internal/ir"
)

func TestResolveAddressesFixedSizes(t *testing.T) {
	mod := &ir.Module{}
	start := &ir.Block{Label: "_start", Export: true}
	start.Emit(ir.Push("cond"))
	start.Emit(ir.Pop())
	start.Emit(ir.Extern("Foo.__Bar__SystemVoid"))
	mod.Blocks = append(mod.Blocks, start)

	next := &ir.Block{Label: "_next"}
	mod.Blocks = append(mod.Blocks, next)

	addrs := ResolveAddresses(mod)
	if addrs["_start"] != 0 {
		t.Fatalf("expected _start at 0, got %d", addrs["_start"])
	}
	if want := uint32(8 + 4 + 8); addrs["_next"] != want {
		t.Fatalf("expected _next at %d, got %d", want, addrs["_next"])
	}
}

func TestResolveTargetHalt(t *testing.T) {
	addr, ok := ResolveTarget(map[string]uint32{}, ir.HaltLabel)
	if !ok || addr != HaltAddress {
		t.Fatalf("expected halt sentinel %#x, got %#x ok=%v", HaltAddress, addr, ok)
	}
}

func TestRewriteLabelPlaceholders(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "__const_1", Type: "SystemInt32", Init: "__label____fn_add_ret_1"})
	b := &ir.Block{Label: "__fn_add_ret_1"}
	mod.Blocks = append(mod.Blocks, &ir.Block{Label: "_start"}, b)

	addrs := ResolveAddresses(mod)
	if err := RewriteLabelPlaceholders(mod, addrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := formatAddress(addrs["__fn_add_ret_1"])
	if mod.Variables[0].Init != want {
		t.Fatalf("expected rewritten init %q, got %q", want, mod.Variables[0].Init)
	}
}

func TestRewriteLabelPlaceholdersUnresolved(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "bad", Type: "SystemInt32", Init: "__label__nope"})
	if err := RewriteLabelPlaceholders(mod, ResolveAddresses(mod)); err == nil {
		t.Fatalf("expected an error for an unresolved label placeholder")
	}
}

func helloModule() *ir.Module {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "__this", Type: "VRCUdonUdonBehaviour", Init: "this", IsThis: true})
	mod.AddVariable(&ir.Variable{Name: "__const_1", Type: "SystemString", Init: "\"Hello from Nori!\""})
	start := &ir.Block{Label: "_start", Export: true}
	start.Emit(ir.Push("__const_1"))
	start.Emit(ir.Extern("UnityEngineDebug.__Log__SystemObject__SystemVoid"))
	start.Emit(ir.Jump(ir.HaltLabel))
	mod.Blocks = append(mod.Blocks, start)
	return mod
}

func TestEmitToStringHelloScenario(t *testing.T) {
	text, err := EmitToString(helloModule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		".export _start",
		"_start:",
		`EXTERN, "UnityEngineDebug.__Log__SystemObject__SystemVoid"`,
		"JUMP, 0xFFFFFFFC",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestEmitCopyInstructionShape(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "a", Type: "SystemInt32", Init: "0"})
	mod.AddVariable(&ir.Variable{Name: "b", Type: "SystemInt32", Init: "0"})
	b := &ir.Block{Label: "_start", Export: true}
	b.Emit(ir.Copy("a", "b"))
	b.Emit(ir.Jump(ir.HaltLabel))
	mod.Blocks = append(mod.Blocks, b)

	text, err := EmitToString(mod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "PUSH, a\n        PUSH, b\n        COPY") {
		t.Fatalf("expected the two-push-then-copy shape, got:\n%s", text)
	}
}

func TestEmitDataSectionGrouping(t *testing.T) {
	mod := &ir.Module{}
	mod.AddVariable(&ir.Variable{Name: "max_score", Type: "SystemInt32", Init: "10", Export: true})
	mod.AddVariable(&ir.Variable{Name: "score", Type: "SystemInt32", Init: "0", Sync: ir.SyncNone})
	mod.Blocks = append(mod.Blocks, &ir.Block{Label: "_start", Export: true})

	text, err := EmitToString(mod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		".export max_score",
		".sync   score, none",
		"max_score: %SystemInt32, 10",
		"score: %SystemInt32, 0",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected data section to contain %q, got:\n%s", want, text)
		}
	}
}
