package cmd

import (
	"fmt"
	"os"

	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEval       string
	lexShowPos    bool
	lexShowType   bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Nori file or expression",
	Long: `Tokenize a Nori program and print the resulting tokens.

Examples:
  nori lex script.nori
  nori lex -e "let x: int = 42"
  nori lex --show-type --show-pos script.nori
  nori lex --only-errors script.nori`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only the diagnostics the lexer raised")
}

func lexScript(cmd *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case lexEval != "":
		input = lexEval
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	bag := diag.NewBag()
	tokens := lexer.New(input, filename, bag).Lex()

	if !lexOnlyErrors {
		for _, tok := range tokens {
			printToken(tok)
		}
	}

	if bag.Len() > 0 {
		fmt.Fprint(os.Stderr, diag.FormatAll(bag, input, true))
	}
	if bag.HasErrors() {
		return fmt.Errorf("lexing failed with %d diagnostic(s)", bag.Len())
	}
	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", len(tokens))
	}
	return nil
}

func printToken(tok lexer.Token) {
	output := ""
	if lexShowType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}
	if tok.Literal == "" {
		output += fmt.Sprintf(" %s", tok.Type)
	} else {
		output += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		output += fmt.Sprintf(" @%s", tok.Span.Start)
	}
	fmt.Println(output)
}
