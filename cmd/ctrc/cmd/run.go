package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/cwbudde/ctrc/pkg/compiler"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile and execute a source file",
	Long: `Run compiles a source file to target text and hands it to the host
interpreter (node, for the javascript/typescript dialects) for execution.
Compilation and execution of the host text are entirely separate: ctrc's
core never executes anything itself.

Examples:
  ctrc run account.ctr
  ctrc run -e "fn main() -> Void { }" `,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var runEvalExpr string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "run inline code instead of reading from file")
}

func runRun(cmd *cobra.Command, args []string) error {
	var src, filename string
	switch {
	case runEvalExpr != "":
		src, filename = runEvalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		src = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	opts := optionsFromFlags(cmd)
	result := compiler.Compile(src, filename, opts)
	printDiagnostics(result.Diagnostics, src, emitJSONOut)

	if result.Failed() {
		return fmt.Errorf("compilation failed with %d error(s)", result.Diagnostics.ErrorCount())
	}

	tmp, err := os.CreateTemp("", "ctrc-run-*.mjs")
	if err != nil {
		return fmt.Errorf("failed to create temp file for execution: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(result.Target); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	nodePath, err := exec.LookPath("node")
	if err != nil {
		return fmt.Errorf("running target text requires node on PATH: %w", err)
	}

	execCmd := exec.Command(nodePath, tmp.Name())
	execCmd.Stdin = os.Stdin
	execCmd.Stdout = os.Stdout
	execCmd.Stderr = os.Stderr
	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}
