package optimize

import (
	"strings"

	"github.com/norilang/nori/internal/ir"
)

const constPrefix = "__const_"

// eliminateDeadVariables drops compiler-generated cells no instruction
// references any more. Only `__tmp_` and `__const_` cells are ever
// eligible: exported cells, synced cells, this-bound cells, and every
// user-named cell keep their declaration even when unreferenced, since
// a user can legitimately declare a variable it never reads.
func eliminateDeadVariables(mod *ir.Module) bool {
	live := make(map[string]bool)
	for _, b := range mod.Blocks {
		for _, instr := range b.Instructions {
			markOperands(instr, live)
		}
	}

	kept := mod.Variables[:0:0]
	changed := false
	for _, v := range mod.Variables {
		if eligibleForRemoval(v) && !live[v.Name] {
			changed = true
			continue
		}
		kept = append(kept, v)
	}
	mod.Variables = kept
	return changed
}

func eligibleForRemoval(v *ir.Variable) bool {
	if v.Export || v.Sync != ir.NotSynced || v.IsThis {
		return false
	}
	return strings.HasPrefix(v.Name, tempPrefix) || strings.HasPrefix(v.Name, constPrefix)
}

func markOperands(instr ir.Instruction, live map[string]bool) {
	switch instr.Kind {
	case ir.KindPush, ir.KindJumpIfFalse, ir.KindJumpIndirect:
		live[instr.Var] = true
	case ir.KindCopy:
		live[instr.Var] = true
		live[instr.Dst] = true
	}
}
