package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/norilang/nori/internal/compiler"
	"github.com/norilang/nori/internal/diag"
	"github.com/spf13/cobra"
)

var (
	compileOutput      string
	compileDisassemble bool
	compileCatalogPath string
	compileVerbose     bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Nori file to Udon Assembly",
	Long: `Compile a Nori program through every compiler phase and write the
resulting Udon Assembly text to a .uasm file.

Examples:
  nori compile script.nori
  nori compile script.nori -o -
  nori compile script.nori --disassemble
  nori compile script.nori --catalog vrchat.catalog.json`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file, or - for stdout (default: <input>.uasm)")
	compileCmd.Flags().BoolVar(&compileDisassemble, "disassemble", false, "print a resolved-address instruction listing to stderr")
	compileCmd.Flags().StringVar(&compileCatalogPath, "catalog", "", "path to a catalog JSON document (default: built-in catalog)")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	cat, err := loadCatalog(compileCatalogPath)
	if err != nil {
		return err
	}

	var opts []compiler.Option
	if compileDisassemble {
		opts = append(opts, compiler.WithDisassembly())
	}
	result := compiler.Compile(input, filename, cat, opts...)

	for _, d := range result.Diagnostics {
		fmt.Fprint(os.Stderr, diag.Format(d, input, true))
	}
	if !result.Success {
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(result.Diagnostics))
	}

	if compileVerbose && result.Metadata != nil {
		m := result.Metadata
		fmt.Fprintf(os.Stderr, "Phases run: %s\n", strings.Join(m.PhasesRun, ", "))
		fmt.Fprintf(os.Stderr, "Variables: %d -> %d\n", m.VariablesBefore, m.VariablesAfter)
		fmt.Fprintf(os.Stderr, "Instructions: %d -> %d\n", m.InstructionsBefore, m.InstructionsAfter)
		if len(m.OptimizationPasses) > 0 {
			fmt.Fprintf(os.Stderr, "Optimizations applied: %s\n", strings.Join(m.OptimizationPasses, ", "))
		}
		fmt.Fprintf(os.Stderr, "Event entry labels: %s\n", strings.Join(m.EventLabels, ", "))
	}

	if compileDisassemble {
		fmt.Fprintf(os.Stderr, "\n== Disassembly (%s) ==\n", filename)
		fmt.Fprint(os.Stderr, result.Disassembly)
		fmt.Fprintln(os.Stderr)
	}

	if compileOutput == "-" {
		fmt.Print(result.AssemblyText)
		return nil
	}

	outFile := compileOutput
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".uasm"
		} else {
			outFile = filename + ".uasm"
		}
	}
	if err := os.WriteFile(outFile, []byte(result.AssemblyText), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Assembly written to %s (%d bytes)\n", outFile, len(result.AssemblyText))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}
	return nil
}
