package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/ctrc/pkg/compiler"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Repl accumulates input lines until braces balance, then invokes the core
on the accumulated chunk. Bare expressions, which the core grammar has no
top-level form for, are synthesized into a throwaway wrapper function
before being handed to the core; the core itself never special-cases this.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var replChunkSeq int

// wrapBareExpression decides whether chunk looks like a bare expression
// (no top-level `fn`/`let`/`type`/... keyword) and, if so, wraps it in a
// throwaway function so the core's grammar — which has no top-level
// expression-statement form — accepts it. This wrapping is entirely the
// REPL collaborator's concern; the core
// pipeline (pkg/compiler.Compile) is never told the difference.
func wrapBareExpression(chunk string) string {
	trimmed := strings.TrimSpace(chunk)
	if trimmed == "" {
		return chunk
	}
	for _, kw := range []string{"fn", "let", "type", "struct", "enum", "trait",
		"impl", "contract", "intent", "effect", "capability", "import", "export"} {
		if strings.HasPrefix(trimmed, kw+" ") || strings.HasPrefix(trimmed, kw+"(") {
			return chunk
		}
	}
	replChunkSeq++
	stmt := trimmed
	if !strings.HasSuffix(stmt, ";") && !strings.HasSuffix(stmt, "}") {
		stmt += ";"
	}
	return fmt.Sprintf("fn __repl_%d() -> Void { %s }", replChunkSeq, stmt)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	opts := optionsFromFlags(cmd)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("ctrc repl — enter declarations or expressions, Ctrl-D to exit")

	var pending strings.Builder
	depth := 0
	prompt := "ctrc> "

	fmt.Print(prompt)
	for scanner.Scan() {
		line := scanner.Text()
		pending.WriteString(line)
		pending.WriteByte('\n')
		depth += strings.Count(line, "{") - strings.Count(line, "}")

		if depth > 0 {
			fmt.Print("...   ")
			continue
		}

		chunk := wrapBareExpression(pending.String())
		result := compiler.Compile(chunk, "<repl>", opts)
		printDiagnostics(result.Diagnostics, chunk, false)
		if !result.Failed() {
			fmt.Println(result.Target)
		}

		pending.Reset()
		depth = 0
		fmt.Print(prompt)
	}
	fmt.Println()
	return scanner.Err()
}
