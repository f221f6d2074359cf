package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
	"github.com/norilang/nori/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Nori source code and display the AST",
	Long: `Parse Nori source code and dump the Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse inline
source code instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "expression", "e", "", "parse inline source code instead of a file")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case parseExpr != "":
		input = parseExpr
		filename = "<eval>"
	case len(args) > 0:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		filename = "<stdin>"
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	bag := diag.NewBag()
	tokens := lexer.New(input, filename, bag).Lex()
	mod := parser.New(tokens, filename, bag).ParseModule()

	if bag.Len() > 0 {
		fmt.Fprint(os.Stderr, diag.FormatAll(bag, input, true))
	}
	if bag.HasErrors() {
		return fmt.Errorf("parsing failed with %d diagnostic(s)", bag.Len())
	}

	fmt.Println("Module")
	for _, d := range mod.Declarations {
		dumpASTNode(d, 1)
	}
	return nil
}

func indent(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "  "
	}
	return s
}

// dumpASTNode prints a small recursive tree of a node's shape. It is
// not exhaustive over every expression kind: anything it doesn't
// recognize falls through to a one-line %T/%+v dump.
func dumpASTNode(node any, depth int) {
	pad := indent(depth)
	switch n := node.(type) {
	case *ast.VarDecl:
		fmt.Printf("%sVarDecl %s : %s (pub=%v sync=%s)\n", pad, n.Name, typeName(n.Type), n.Public, n.Sync)
		if n.Init != nil {
			dumpASTNode(n.Init, depth+1)
		}
	case *ast.FuncDecl:
		fmt.Printf("%sFuncDecl %s\n", pad, n.Name)
		for _, s := range n.Body {
			dumpASTNode(s, depth+1)
		}
	case *ast.EventDecl:
		fmt.Printf("%sEventDecl %s\n", pad, n.Name)
		for _, s := range n.Body {
			dumpASTNode(s, depth+1)
		}
	case *ast.CustomEventDecl:
		fmt.Printf("%sCustomEventDecl %s\n", pad, n.Name)
		for _, s := range n.Body {
			dumpASTNode(s, depth+1)
		}
	case *ast.IfStmt:
		fmt.Printf("%sIfStmt\n", pad)
		dumpASTNode(n.Cond, depth+1)
		for _, s := range n.Then {
			dumpASTNode(s, depth+1)
		}
		if len(n.Else) > 0 {
			fmt.Printf("%sElse\n", pad)
			for _, s := range n.Else {
				dumpASTNode(s, depth+1)
			}
		}
	case *ast.WhileStmt:
		fmt.Printf("%sWhileStmt\n", pad)
		dumpASTNode(n.Cond, depth+1)
		for _, s := range n.Body {
			dumpASTNode(s, depth+1)
		}
	case *ast.ForRangeStmt:
		fmt.Printf("%sForRangeStmt %s\n", pad, n.Var)
		for _, s := range n.Body {
			dumpASTNode(s, depth+1)
		}
	case *ast.ForEachStmt:
		fmt.Printf("%sForEachStmt %s\n", pad, n.Var)
		for _, s := range n.Body {
			dumpASTNode(s, depth+1)
		}
	case *ast.ReturnStmt:
		fmt.Printf("%sReturnStmt\n", pad)
		if n.Value != nil {
			dumpASTNode(n.Value, depth+1)
		}
	case *ast.BreakStmt:
		fmt.Printf("%sBreakStmt\n", pad)
	case *ast.ContinueStmt:
		fmt.Printf("%sContinueStmt\n", pad)
	case *ast.SendStmt:
		fmt.Printf("%sSendStmt %s\n", pad, n.Event)
	case *ast.AssignStmt:
		fmt.Printf("%sAssignStmt\n", pad)
		dumpASTNode(n.Target, depth+1)
		dumpASTNode(n.Value, depth+1)
	case *ast.ExprStmt:
		dumpASTNode(n.X, depth)
	case *ast.BinaryExpr:
		fmt.Printf("%sBinaryExpr\n", pad)
		dumpASTNode(n.Left, depth+1)
		dumpASTNode(n.Right, depth+1)
	case *ast.UnaryExpr:
		fmt.Printf("%sUnaryExpr\n", pad)
		dumpASTNode(n.Operand, depth+1)
	case *ast.CallExpr:
		fmt.Printf("%sCallExpr\n", pad)
		dumpASTNode(n.Callee, depth+1)
		for _, a := range n.Args {
			dumpASTNode(a, depth+1)
		}
	case *ast.MemberExpr:
		fmt.Printf("%sMemberExpr .%s\n", pad, n.Name)
		dumpASTNode(n.Receiver, depth+1)
	case *ast.IndexExpr:
		fmt.Printf("%sIndexExpr\n", pad)
		dumpASTNode(n.Collection, depth+1)
		dumpASTNode(n.Index, depth+1)
	case *ast.NameExpr:
		fmt.Printf("%sNameExpr %s\n", pad, n.Name)
	case *ast.IntLit:
		fmt.Printf("%sIntLit %d\n", pad, n.Value)
	case *ast.FloatLit:
		fmt.Printf("%sFloatLit %g\n", pad, n.Value)
	case *ast.StringLit:
		fmt.Printf("%sStringLit %q\n", pad, n.Value)
	case *ast.BoolLit:
		fmt.Printf("%sBoolLit %v\n", pad, n.Value)
	case *ast.NullLit:
		fmt.Printf("%sNullLit\n", pad)
	case *ast.InterpString:
		fmt.Printf("%sInterpString (%d parts)\n", pad, len(n.Parts))
	case *ast.ArrayLit:
		fmt.Printf("%sArrayLit (%d elements)\n", pad, len(n.Elements))
		for _, el := range n.Elements {
			dumpASTNode(el, depth+1)
		}
	case *ast.CastExpr:
		fmt.Printf("%sCastExpr -> %s\n", pad, typeName(n.Type))
		dumpASTNode(n.Value, depth+1)
	default:
		fmt.Printf("%s%T: %+v\n", pad, node, node)
	}
}

func typeName(t *ast.TypeExpr) string {
	if t == nil {
		return "<inferred>"
	}
	if t.IsArray {
		return t.Name + "[]"
	}
	return t.Name
}
