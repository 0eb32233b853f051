package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/ctrc/pkg/compiler"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run the checker only and report diagnostics",
	Long: `Check stops after the resolver/checker pass: it reports every diagnostic
from the scanner, tree builder and checker, but never lowers to target text.

Examples:
  ctrc check account.ctr
  ctrc check --json account.ctr`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&emitJSONOut, "json", false, "emit diagnostics as JSON instead of text")
}

func runCheck(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	src := string(content)
	opts := optionsFromFlags(cmd)

	result := compiler.Check(src, filename, opts)
	printDiagnostics(result.Diagnostics, src, emitJSONOut)

	if result.Failed() {
		return fmt.Errorf("check failed with %d error(s)", result.Diagnostics.ErrorCount())
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%s: no errors\n", filename)
	}
	return nil
}
