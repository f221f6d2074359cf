package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/norilang/nori/internal/ir"
)

// Emitter writes a resolved module's assembly text to an io.Writer,
// mirroring the disassembler's writer-plus-subject shape: construct
// once, call Emit once.
type Emitter struct {
	writer io.Writer
	module *ir.Module
	addrs  map[string]uint32
}

// NewEmitter returns an Emitter for module, writing to w. addrs must
// have been produced by ResolveAddresses against the same module, after
// RewriteLabelPlaceholders has already run.
func NewEmitter(module *ir.Module, addrs map[string]uint32, w io.Writer) *Emitter {
	return &Emitter{writer: w, module: module, addrs: addrs}
}

// Emit writes the full `.data_start`…`.data_end` / `.code_start`…
// `.code_end` program to the underlying writer.
func (e *Emitter) Emit() error {
	if err := e.emitData(); err != nil {
		return err
	}
	return e.emitCode()
}

func (e *Emitter) emitData() error {
	fmt.Fprintln(e.writer, ".data_start")
	for _, v := range e.module.Variables {
		if v.Export {
			fmt.Fprintf(e.writer, "    .export %s\n", v.Name)
		}
	}
	for _, v := range e.module.Variables {
		if v.Sync != ir.NotSynced {
			fmt.Fprintf(e.writer, "    .sync   %s, %s\n", v.Name, v.Sync.String())
		}
	}
	for _, v := range e.module.Variables {
		fmt.Fprintf(e.writer, "    %s: %%%s, %s\n", v.Name, v.Type, v.Init)
	}
	fmt.Fprintln(e.writer, ".data_end")
	fmt.Fprintln(e.writer)
	return nil
}

func (e *Emitter) emitCode() error {
	fmt.Fprintln(e.writer, ".code_start")
	for _, b := range e.module.Blocks {
		if b.Export {
			fmt.Fprintf(e.writer, "    .export %s\n", b.Label)
		}
	}
	for _, b := range e.module.Blocks {
		fmt.Fprintf(e.writer, "    %s:\n", b.Label)
		for _, instr := range b.Instructions {
			if err := e.emitInstruction(instr); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(e.writer, ".code_end")
	return nil
}

func (e *Emitter) emitInstruction(instr ir.Instruction) error {
	switch instr.Kind {
	case ir.KindPush:
		fmt.Fprintf(e.writer, "        PUSH, %s\n", instr.Var)
	case ir.KindPop:
		fmt.Fprintln(e.writer, "        POP")
	case ir.KindExtern:
		fmt.Fprintf(e.writer, "        EXTERN, %q\n", instr.Signature)
	case ir.KindJump:
		addr, ok := ResolveTarget(e.addrs, instr.Target)
		if !ok {
			return fmt.Errorf("emit: jump to unresolved label %q", instr.Target)
		}
		fmt.Fprintf(e.writer, "        JUMP, %s\n", formatAddress(addr))
	case ir.KindJumpIfFalse:
		addr, ok := ResolveTarget(e.addrs, instr.Target)
		if !ok {
			return fmt.Errorf("emit: jump-if-false to unresolved label %q", instr.Target)
		}
		fmt.Fprintf(e.writer, "        PUSH, %s\n", instr.Var)
		fmt.Fprintf(e.writer, "        JUMP_IF_FALSE, %s\n", formatAddress(addr))
	case ir.KindJumpIndirect:
		fmt.Fprintf(e.writer, "        PUSH, %s\n", instr.Var)
		fmt.Fprintf(e.writer, "        JUMP_INDIRECT, %s\n", instr.Var)
	case ir.KindCopy:
		fmt.Fprintf(e.writer, "        PUSH, %s\n", instr.Var)
		fmt.Fprintf(e.writer, "        PUSH, %s\n", instr.Dst)
		fmt.Fprintln(e.writer, "        COPY")
	case ir.KindComment:
		fmt.Fprintf(e.writer, "        # %s\n", instr.Text)
	default:
		return fmt.Errorf("emit: unknown instruction kind %v", instr.Kind)
	}
	return nil
}

// EmitToString resolves addresses, rewrites label placeholders, and
// renders module to assembly text in one call, for callers (the
// compiler pipeline, tests) that just want the final string.
func EmitToString(module *ir.Module) (string, error) {
	addrs := ResolveAddresses(module)
	if err := RewriteLabelPlaceholders(module, addrs); err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := NewEmitter(module, addrs, &sb).Emit(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
