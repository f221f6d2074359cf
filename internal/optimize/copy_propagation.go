package optimize

import (
	"strings"

	"github.com/norilang/nori/internal/ir"
)

const tempPrefix = "__tmp_"

func isTempCell(name string) bool {
	return strings.HasPrefix(name, tempPrefix)
}

// propagateCopies rewrites every block to a fixpoint using the two
// copy-propagation shapes: a result-slot shortcut that aims an extern's
// output directly at its eventual destination, and a copy-chain
// collapse that short-circuits a temp purely used to relay one cell's
// value into another.
func propagateCopies(mod *ir.Module) bool {
	changed := false
	for _, b := range mod.Blocks {
		for rewriteOnce(b) {
			changed = true
		}
	}
	return changed
}

func rewriteOnce(b *ir.Block) bool {
	if tryResultSlotShortcut(b) {
		return true
	}
	if tryCopyChainCollapse(b) {
		return true
	}
	return false
}

// tryResultSlotShortcut finds "push T; extern Op; ...; copy T, X" with T
// a two-reference temp and X untouched in between, and rewrites it to
// "push X; extern Op; ..." so the extern writes its result straight into
// X instead of through T.
func tryResultSlotShortcut(b *ir.Block) bool {
	refs := countRefs(b.Instructions)
	for i := 0; i+1 < len(b.Instructions); i++ {
		push := b.Instructions[i]
		if push.Kind != ir.KindPush || !isTempCell(push.Var) {
			continue
		}
		t := push.Var
		if refs[t] != 2 {
			continue
		}
		if b.Instructions[i+1].Kind != ir.KindExtern {
			continue
		}
		j, ok := nextReference(b.Instructions, i+2, t)
		if !ok {
			continue
		}
		cur := b.Instructions[j]
		if cur.Kind != ir.KindCopy || cur.Var != t {
			continue
		}
		x := cur.Dst
		if referencedInRange(b.Instructions, i+2, j, x) {
			continue
		}
		b.Instructions[i].Var = x
		b.Instructions = append(b.Instructions[:j], b.Instructions[j+1:]...)
		return true
	}
	return false
}

// tryCopyChainCollapse finds "copy S, T; ...; copy T, X" with T a
// two-reference temp and X untouched in between, and rewrites it to a
// single "copy S, X".
func tryCopyChainCollapse(b *ir.Block) bool {
	refs := countRefs(b.Instructions)
	for i := 0; i < len(b.Instructions); i++ {
		first := b.Instructions[i]
		if first.Kind != ir.KindCopy || !isTempCell(first.Dst) {
			continue
		}
		t := first.Dst
		if refs[t] != 2 {
			continue
		}
		s := first.Var
		j, ok := nextReference(b.Instructions, i+1, t)
		if !ok {
			continue
		}
		cur := b.Instructions[j]
		if cur.Kind != ir.KindCopy || cur.Var != t {
			continue
		}
		x := cur.Dst
		if referencedInRange(b.Instructions, i+1, j, x) {
			continue
		}
		b.Instructions[i] = ir.Copy(s, x)
		b.Instructions = append(b.Instructions[:j], b.Instructions[j+1:]...)
		return true
	}
	return false
}

// countRefs tallies, per cell name, how many instruction operands in
// instrs name it: a push's operand, both sides of a copy, a
// jump-if-false's condition, or a jump-indirect's address.
func countRefs(instrs []ir.Instruction) map[string]int {
	refs := make(map[string]int)
	for _, instr := range instrs {
		switch instr.Kind {
		case ir.KindPush, ir.KindJumpIfFalse, ir.KindJumpIndirect:
			refs[instr.Var]++
		case ir.KindCopy:
			refs[instr.Var]++
			refs[instr.Dst]++
		}
	}
	return refs
}

// nextReference returns the index of the first instruction at or after
// from that references name, per the same operand rules as countRefs.
func nextReference(instrs []ir.Instruction, from int, name string) (int, bool) {
	for i := from; i < len(instrs); i++ {
		if references(instrs[i], name) {
			return i, true
		}
	}
	return 0, false
}

// referencedInRange reports whether any instruction in instrs[start:end]
// references name.
func referencedInRange(instrs []ir.Instruction, start, end int, name string) bool {
	for i := start; i < end && i < len(instrs); i++ {
		if references(instrs[i], name) {
			return true
		}
	}
	return false
}
