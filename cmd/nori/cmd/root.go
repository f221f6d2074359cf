// Package cmd implements the nori command-line tool: a thin cobra
// shell over internal/compiler's Compile/Analyze entry points, mirroring
// the teacher's cmd/dwscript/cmd layout one file per subcommand.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nori",
	Short: "Nori compiler",
	Long: `nori is the compiler for Nori, a statically-typed scripting
language that targets Udon Assembly, VRChat's restricted stack-based
bytecode for UdonBehaviour scripts.

It exposes the compiler's five phases both as standalone inspection
commands (lex, parse, analyze) and as the full pipeline (compile).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
