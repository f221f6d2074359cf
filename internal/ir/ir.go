// Package ir defines the intermediate representation the lowerer builds,
// the optimizer rewrites in place, and the emitter serializes to Udon
// Assembly text. The target machine has no call stack and no local
// frames, so every heap variable is a named, globally-visible cell and
// control flow is expressed purely through labeled blocks and jumps.
package ir

// SyncMode mirrors ast.SyncMode for a lowered heap variable.
type SyncMode int

const (
	NotSynced SyncMode = iota
	SyncNone
	SyncLinear
	SyncSmooth
)

func (m SyncMode) String() string {
	switch m {
	case SyncNone:
		return "none"
	case SyncLinear:
		return "linear"
	case SyncSmooth:
		return "smooth"
	default:
		return ""
	}
}

// Variable is one heap cell: a name, its catalog-qualified type, and an
// optional initial value encoded in the literal form the VM's text
// parser accepts (a stringified literal, the sentinels "null"/"this", or
// the placeholder "__label__<L>" rewritten to an address at emission
// time). This flag is kept separate from Sync/Export because a variable
// can be this-bound without being exported or synced.
type Variable struct {
	Name    string
	Type    string
	Init    string
	Export  bool
	Sync    SyncMode
	IsThis  bool
}

// Module is the complete lowered program: every heap variable in
// declaration order, and every labeled block in emission order.
type Module struct {
	Variables []*Variable
	Blocks    []*Block
}

// AddVariable appends v and returns it, for fluent construction in the
// lowerer.
func (m *Module) AddVariable(v *Variable) *Variable {
	m.Variables = append(m.Variables, v)
	return v
}

// FindBlock returns the block with the given label, or nil.
func (m *Module) FindBlock(label string) *Block {
	for _, b := range m.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// Block is a labeled, ordered sequence of instructions. Export marks a
// block the VM may enter directly as an event handler.
type Block struct {
	Label        string
	Export       bool
	Instructions []Instruction
}

// Emit appends instr to the block.
func (b *Block) Emit(instr Instruction) {
	b.Instructions = append(b.Instructions, instr)
}
