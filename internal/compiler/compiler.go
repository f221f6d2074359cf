// Package compiler wires the lexer, parser, semantic analyzer, IR
// lowerer, optimizer, and emitter into the two entry points external
// callers actually invoke: Compile, the short-circuiting batch
// pipeline, and Analyze, the best-effort front-end pipeline an editor
// integration drives on every keystroke. This is the teacher's
// compileScript phase sequence, lifted out of the CLI into a reusable
// library entry point so both cmd/nori and any future embedder share it.
package compiler

import (
	"strings"

	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/emit"
	"github.com/norilang/nori/internal/lexer"
	"github.com/norilang/nori/internal/lower"
	"github.com/norilang/nori/internal/optimize"
	"github.com/norilang/nori/internal/parser"
	"github.com/norilang/nori/internal/semantic"
	"github.com/norilang/nori/internal/symbols"
)

// Metadata describes what a Compile run actually did, for the
// disassemble/verbose CLI output and for tests asserting optimization
// fired. Before/after counts are only meaningful once lowering ran;
// they stay zero if the pipeline stopped earlier.
type Metadata struct {
	PhasesRun []string

	VariablesBefore    int
	VariablesAfter     int
	BlocksBefore       int
	BlocksAfter        int
	InstructionsBefore int
	InstructionsAfter  int

	OptimizationPasses []string

	// EventLabels lists the exported event-entry block labels actually
	// produced by lowering, in module order.
	EventLabels []string
}

// Result is what Compile returns.
type Result struct {
	Success      bool
	AssemblyText string
	AST          *ast.Module
	Diagnostics  []diag.Diagnostic
	Metadata     *Metadata

	// Disassembly is only populated when WithDisassembly is passed to
	// Compile and the pipeline reached address resolution.
	Disassembly string
}

// Option configures an optional, off-by-default Compile behavior.
type Option func(*options)

type options struct {
	disassemble bool
}

// WithDisassembly asks Compile to also produce a per-block instruction
// listing with resolved addresses, for the CLI's --disassemble flag.
func WithDisassembly() Option {
	return func(o *options) { o.disassemble = true }
}

// AnalysisResult is what Analyze returns.
type AnalysisResult struct {
	Tokens      []lexer.Token
	AST         *ast.Module
	Diagnostics []diag.Diagnostic
	TypeMap     map[ast.Expr]string
	ScopeMap    map[ast.Node]*symbols.Scope
}

func resolveCatalog(cat catalog.Catalog) catalog.Catalog {
	if cat == nil {
		return catalog.NewBuiltin()
	}
	return cat
}

// Compile runs lex, parse, semantic analysis, lowering, optimization,
// and emission in sequence, stopping after the first phase that leaves
// error-severity diagnostics in the bag: a broken parse never reaches
// the analyzer, and a rejected program never reaches lowering or
// emission. Metadata is populated whenever parsing produced an AST,
// even if a later phase failed.
//
// Internal invariant violations (a bug in an earlier phase slipping a
// malformed tree past validation) surface as a Go panic rather than a
// user-facing diagnostic, per the "fatal vs reported" design: these are
// programming errors, not something an end user can act on. Compile
// recovers them at this boundary so a host embedding the compiler as a
// library never crashes on a compiler bug; it just gets Success: false.
func Compile(source, file string, cat catalog.Catalog, opts ...Option) (result Result) {
	defer func() {
		if recover() != nil {
			result.Success = false
		}
	}()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cat = resolveCatalog(cat)
	bag := diag.NewBag()
	meta := &Metadata{}
	result.Metadata = meta

	toks := lexer.New(source, file, bag).Lex()
	meta.PhasesRun = append(meta.PhasesRun, "lex")
	if bag.HasErrors() {
		result.Diagnostics = bag.All()
		return result
	}

	mod := parser.New(toks, file, bag).ParseModule()
	meta.PhasesRun = append(meta.PhasesRun, "parse")
	result.AST = mod
	if bag.HasErrors() {
		result.Diagnostics = bag.All()
		return result
	}

	analyzer := semantic.New(cat, bag)
	analyzer.Analyze(mod)
	meta.PhasesRun = append(meta.PhasesRun, "semantic")
	if bag.HasErrors() {
		result.Diagnostics = bag.All()
		return result
	}

	irMod := lower.New(cat).Lower(mod)
	meta.PhasesRun = append(meta.PhasesRun, "lower")
	meta.VariablesBefore = len(irMod.Variables)
	meta.BlocksBefore = len(irMod.Blocks)
	for _, b := range irMod.Blocks {
		meta.InstructionsBefore += len(b.Instructions)
		if b.Export {
			meta.EventLabels = append(meta.EventLabels, b.Label)
		}
	}

	stats := optimize.Optimize(irMod)
	meta.PhasesRun = append(meta.PhasesRun, "optimize")
	meta.OptimizationPasses = stats.PassesRun
	meta.VariablesAfter = stats.VariablesAfter
	meta.BlocksAfter = stats.BlocksAfter
	meta.InstructionsAfter = stats.InstructionsAfter

	addrs := emit.ResolveAddresses(irMod)
	if o.disassemble {
		result.Disassembly = emit.DisassembleToString(irMod, addrs)
	}
	if err := emit.RewriteLabelPlaceholders(irMod, addrs); err != nil {
		panic(err)
	}
	var sb strings.Builder
	if err := emit.NewEmitter(irMod, addrs, &sb).Emit(); err != nil {
		panic(err)
	}
	assembly := sb.String()
	meta.PhasesRun = append(meta.PhasesRun, "emit")

	result.Success = true
	result.AssemblyText = assembly
	result.Diagnostics = bag.All()
	return result
}

// Analyze runs every front-end phase regardless of errors, so editor
// integrations get a best-effort tree, type map, and scope map even for
// a program that doesn't compile. It never touches lowering, the
// optimizer, or the emitter: those only make sense for an accepted
// program.
func Analyze(source, file string, cat catalog.Catalog) AnalysisResult {
	cat = resolveCatalog(cat)
	bag := diag.NewBag()

	toks := lexer.New(source, file, bag).Lex()
	mod := parser.New(toks, file, bag).ParseModule()
	analyzer := semantic.New(cat, bag)
	analyzer.Analyze(mod)

	return AnalysisResult{
		Tokens:      toks,
		AST:         mod,
		Diagnostics: bag.All(),
		TypeMap:     analyzer.TypeMap(),
		ScopeMap:    analyzer.ScopeMap(),
	}
}
