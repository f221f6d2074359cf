package ir

import "testing"

func TestInstructionConstructors(t *testing.T) {
	tests := []struct {
		name     string
		instr    Instruction
		wantKind Kind
		wantStr  string
	}{
		{"push", Push("x"), KindPush, "PUSH x"},
		{"pop", Pop(), KindPop, "POP"},
		{"extern", Extern("Foo.__Bar__SystemVoid"), KindExtern, `EXTERN "Foo.__Bar__SystemVoid"`},
		{"jump", Jump("_start"), KindJump, "JUMP _start"},
		{"jump if false", JumpIfFalse("cond", "L1"), KindJumpIfFalse, "JUMP_IF_FALSE cond, L1"},
		{"jump indirect", JumpIndirect("ret"), KindJumpIndirect, "JUMP_INDIRECT ret"},
		{"copy", Copy("a", "b"), KindCopy, "COPY a -> b"},
		{"comment", Comment("note"), KindComment, "# note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.instr.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", tt.instr.Kind, tt.wantKind)
			}
			if got := tt.instr.String(); got != tt.wantStr {
				t.Fatalf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindPush.String() != "PUSH" {
		t.Fatalf("expected PUSH, got %s", KindPush.String())
	}
	if Kind(99).String() != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN for an out-of-range kind")
	}
}

func TestModuleAddVariableAndFindBlock(t *testing.T) {
	m := &Module{}
	m.AddVariable(&Variable{Name: "health", Type: "SystemInt32", Init: "0"})
	if len(m.Variables) != 1 || m.Variables[0].Name != "health" {
		t.Fatalf("expected one variable named health, got %+v", m.Variables)
	}
	block := &Block{Label: "_start", Export: true}
	block.Emit(Push("health"))
	m.Blocks = append(m.Blocks, block)
	if got := m.FindBlock("_start"); got == nil || got != block {
		t.Fatalf("expected FindBlock to return the appended block")
	}
	if m.FindBlock("nope") != nil {
		t.Fatalf("expected nil for an unknown label")
	}
}
