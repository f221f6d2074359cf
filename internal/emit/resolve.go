// Package emit resolves the symbolic labels a lowered and optimized
// module still carries into absolute byte addresses, then serializes
// the module to Udon Assembly text.
package emit

import (
	"fmt"
	"strings"

	"github.com/norilang/nori/internal/ir"
)

// HaltAddress is the fixed sentinel address that ends every event and
// custom-event entry block.
const HaltAddress uint32 = 0xFFFFFFFC

const labelPlaceholderPrefix = "__label__"

// instructionSize is the fixed byte size of one IR instruction once
// serialized, used to compute label addresses with a single linear scan.
func instructionSize(instr ir.Instruction) uint32 {
	switch instr.Kind {
	case ir.KindPush:
		return 8
	case ir.KindPop:
		return 4
	case ir.KindExtern:
		return 8
	case ir.KindJump:
		return 8
	case ir.KindJumpIfFalse:
		return 16
	case ir.KindJumpIndirect:
		return 16
	case ir.KindCopy:
		return 20
	case ir.KindComment:
		return 0
	default:
		return 0
	}
}

// ResolveAddresses assigns each block label a running byte offset, in
// module block order, starting at zero.
func ResolveAddresses(mod *ir.Module) map[string]uint32 {
	addrs := make(map[string]uint32, len(mod.Blocks))
	var offset uint32
	for _, b := range mod.Blocks {
		addrs[b.Label] = offset
		for _, instr := range b.Instructions {
			offset += instructionSize(instr)
		}
	}
	return addrs
}

// ResolveTarget returns the address a Jump/JumpIfFalse target resolves
// to: the halt sentinel for ir.HaltLabel, or the block address it names.
func ResolveTarget(addrs map[string]uint32, target string) (uint32, bool) {
	if target == ir.HaltLabel {
		return HaltAddress, true
	}
	addr, ok := addrs[target]
	return addr, ok
}

// RewriteLabelPlaceholders replaces every heap variable's __label__<L>
// initial value with the resolved hex address of L, in place.
func RewriteLabelPlaceholders(mod *ir.Module, addrs map[string]uint32) error {
	for _, v := range mod.Variables {
		if !strings.HasPrefix(v.Init, labelPlaceholderPrefix) {
			continue
		}
		label := strings.TrimPrefix(v.Init, labelPlaceholderPrefix)
		addr, ok := ResolveTarget(addrs, label)
		if !ok {
			return fmt.Errorf("emit: variable %q references unresolved label %q", v.Name, label)
		}
		v.Init = formatAddress(addr)
	}
	return nil
}

func formatAddress(addr uint32) string {
	return fmt.Sprintf("0x%08X", addr)
}
