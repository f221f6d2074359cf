package emit

import (
	"fmt"
	"strings"

	"github.com/norilang/nori/internal/ir"
)

// DisassembleToString renders a per-block instruction listing with
// resolved addresses, for the CLI's --disassemble flag. addrs must come
// from ResolveAddresses against the same module; mod's label
// placeholders need not have been rewritten first, since this only
// reads block/instruction shape, not heap-cell initial values.
func DisassembleToString(mod *ir.Module, addrs map[string]uint32) string {
	var sb strings.Builder
	for _, b := range mod.Blocks {
		offset := addrs[b.Label]
		exported := ""
		if b.Export {
			exported = " (exported)"
		}
		fmt.Fprintf(&sb, "%s:%s ; 0x%08X\n", b.Label, exported, offset)
		for _, instr := range b.Instructions {
			fmt.Fprintf(&sb, "    0x%08X  %s\n", offset, instr.String())
			offset += instructionSize(instr)
		}
	}
	return sb.String()
}
