// Package optimize rewrites a lowered module's blocks in place before
// address resolution. Copy propagation reasons only about references
// within a single block; dead-variable elimination scans every block of
// the module for remaining references before it drops a cell.
package optimize

import "github.com/norilang/nori/internal/ir"

// Pass names one optimization pass, mirroring the lowerer's own small,
// named-constant style for closed enumerations.
type Pass string

const (
	PassCopyPropagation Pass = "copy-propagation"
	PassDeadVariables   Pass = "dead-variables"
)

// Option toggles an optimization pass on or off.
type Option func(*config)

type config struct {
	enabled map[Pass]bool
}

func defaultConfig() config {
	return config{enabled: map[Pass]bool{
		PassCopyPropagation: true,
		PassDeadVariables:   true,
	}}
}

func (c config) isEnabled(p Pass) bool {
	enabled, ok := c.enabled[p]
	if !ok {
		return true
	}
	return enabled
}

// WithPass enables or disables a single pass.
func WithPass(p Pass, enabled bool) Option {
	return func(c *config) {
		if c.enabled == nil {
			c.enabled = make(map[Pass]bool)
		}
		c.enabled[p] = enabled
	}
}

// Stats reports how many cells, blocks, and instructions a module held
// before and after optimization, and which passes actually ran. The
// pipeline orchestrator surfaces this in its metadata record.
type Stats struct {
	VariablesBefore    int
	VariablesAfter     int
	BlocksBefore       int
	BlocksAfter        int
	InstructionsBefore int
	InstructionsAfter  int
	PassesRun          []string
}

type pass struct {
	id  Pass
	run func(*ir.Module) bool
}

// Optimize runs the enabled passes over mod in place, to a fixpoint: a
// pass registers as "run" only the first time it changes something, but
// passes keep iterating as long as any pass in the round produced a
// change, since a dead-variable sweep can remove the last reference a
// copy-propagation rewrite left behind and vice versa.
func Optimize(mod *ir.Module, opts ...Option) Stats {
	stats := Stats{
		VariablesBefore:    len(mod.Variables),
		BlocksBefore:       len(mod.Blocks),
		InstructionsBefore: countInstructions(mod),
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	passes := []pass{
		{PassCopyPropagation, propagateCopies},
		{PassDeadVariables, eliminateDeadVariables},
	}

	ran := make(map[Pass]bool)
	for {
		changed := false
		for _, p := range passes {
			if !cfg.isEnabled(p.id) {
				continue
			}
			if p.run(mod) {
				changed = true
				ran[p.id] = true
			}
		}
		if !changed {
			break
		}
	}

	for _, p := range passes {
		if ran[p.id] {
			stats.PassesRun = append(stats.PassesRun, string(p.id))
		}
	}
	stats.VariablesAfter = len(mod.Variables)
	stats.BlocksAfter = len(mod.Blocks)
	stats.InstructionsAfter = countInstructions(mod)
	return stats
}

func countInstructions(mod *ir.Module) int {
	n := 0
	for _, b := range mod.Blocks {
		n += len(b.Instructions)
	}
	return n
}

// references reports whether instr reads or writes name as an operand.
func references(instr ir.Instruction, name string) bool {
	switch instr.Kind {
	case ir.KindPush:
		return instr.Var == name
	case ir.KindCopy:
		return instr.Var == name || instr.Dst == name
	case ir.KindJumpIfFalse:
		return instr.Var == name
	case ir.KindJumpIndirect:
		return instr.Var == name
	default:
		return false
	}
}
