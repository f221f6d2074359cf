package ir

import "fmt"

// Kind is the closed set of instruction shapes the target machine
// supports. There are only eight: Udon Assembly has no stack-frame
// opcodes, no locals, and no closures to encode.
type Kind int

const (
	KindPush Kind = iota
	KindPop
	KindExtern
	KindJump
	KindJumpIfFalse
	KindJumpIndirect
	KindCopy
	KindComment
)

var kindNames = [...]string{
	KindPush:         "PUSH",
	KindPop:          "POP",
	KindExtern:       "EXTERN",
	KindJump:         "JUMP",
	KindJumpIfFalse:  "JUMP_IF_FALSE",
	KindJumpIndirect: "JUMP_INDIRECT",
	KindCopy:         "COPY",
	KindComment:      "COMMENT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Instruction is a single IR instruction. Only the fields relevant to
// its Kind are populated; the rest are zero. This mirrors the target
// machine's own text encoding, where each mnemonic takes a fixed,
// kind-specific argument shape.
type Instruction struct {
	Kind Kind

	// Var names the heap cell operated on: Push's operand, JumpIfFalse's
	// condition cell, JumpIndirect's address cell, or Copy's source.
	Var string
	// Dst is Copy's destination cell.
	Dst string
	// Signature is Extern's mangled extern string.
	Signature string
	// Target is the symbolic label a Jump/JumpIfFalse transfers control
	// to; the emitter resolves it to an absolute address.
	Target string
	// Text is a Comment's text.
	Text string
}

func Push(name string) Instruction    { return Instruction{Kind: KindPush, Var: name} }
func Pop() Instruction                { return Instruction{Kind: KindPop} }
func Extern(signature string) Instruction {
	return Instruction{Kind: KindExtern, Signature: signature}
}
func Jump(targetLabel string) Instruction {
	return Instruction{Kind: KindJump, Target: targetLabel}
}
func JumpIfFalse(cond, targetLabel string) Instruction {
	return Instruction{Kind: KindJumpIfFalse, Var: cond, Target: targetLabel}
}
func JumpIndirect(addrCell string) Instruction {
	return Instruction{Kind: KindJumpIndirect, Var: addrCell}
}
func Copy(src, dst string) Instruction {
	return Instruction{Kind: KindCopy, Var: src, Dst: dst}
}
func Comment(text string) Instruction { return Instruction{Kind: KindComment, Text: text} }

// String renders a human-readable form for disassembly/debug output; it
// is not the emitted assembly syntax (see internal/emit for that).
func (i Instruction) String() string {
	switch i.Kind {
	case KindPush:
		return fmt.Sprintf("PUSH %s", i.Var)
	case KindPop:
		return "POP"
	case KindExtern:
		return fmt.Sprintf("EXTERN %q", i.Signature)
	case KindJump:
		return fmt.Sprintf("JUMP %s", i.Target)
	case KindJumpIfFalse:
		return fmt.Sprintf("JUMP_IF_FALSE %s, %s", i.Var, i.Target)
	case KindJumpIndirect:
		return fmt.Sprintf("JUMP_INDIRECT %s", i.Var)
	case KindCopy:
		return fmt.Sprintf("COPY %s -> %s", i.Var, i.Dst)
	case KindComment:
		return fmt.Sprintf("# %s", i.Text)
	default:
		return "UNKNOWN"
	}
}

// HaltLabel is the symbolic jump target the emitter resolves to the
// fixed halt sentinel address 0xFFFFFFFC, rather than to any block.
const HaltLabel = "__halt__"
