package cmd

import (
	"fmt"
	"os"

	"github.com/norilang/nori/internal/catalog"
	"github.com/norilang/nori/internal/compiler"
	"github.com/norilang/nori/internal/diag"
	"github.com/spf13/cobra"
)

var analyzeCatalogPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the front-end phases and report diagnostics",
	Long: `Run the lexer, parser, and semantic analyzer over a Nori file and
print every diagnostic found. Unlike compile, analyze never stops early:
it always runs every front-end phase, even over a program with errors,
matching the best-effort mode an editor integration needs.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeCatalogPath, "catalog", "", "path to a catalog JSON document (default: built-in catalog)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	cat, err := loadCatalog(analyzeCatalogPath)
	if err != nil {
		return err
	}

	result := compiler.Analyze(input, filename, cat)

	fmt.Printf("Tokens: %d\n", len(result.Tokens))
	fmt.Printf("Declarations: %d\n", len(result.AST.Declarations))
	fmt.Printf("Diagnostics: %d\n", len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		fmt.Fprint(os.Stderr, diag.Format(d, input, true))
	}
	if hasErrors(result.Diagnostics) {
		return fmt.Errorf("analysis failed with %d diagnostic(s)", len(result.Diagnostics))
	}
	return nil
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func loadCatalog(path string) (catalog.Catalog, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	cat, err := catalog.LoadJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return cat, nil
}
