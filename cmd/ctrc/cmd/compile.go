package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/ctrc/internal/config"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/pkg/compiler"
	"github.com/spf13/cobra"
)

var (
	outputFile  string
	emitJSONOut bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a source file to target text",
	Long: `Compile runs the full pipeline (scan, parse, resolve, check, lower) and
writes the emitted target text to an output file.

Examples:
  # Compile a file, writing alongside it with a .js suffix
  ctrc compile account.ctr

  # Compile to TypeScript
  ctrc compile --dialect typescript account.ctr -o account.ts

  # Compile without runtime contract instrumentation
  ctrc compile --no-runtime-contracts account.ctr`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input> with dialect's suffix)")
	compileCmd.Flags().BoolVar(&emitJSONOut, "json", false, "emit diagnostics as JSON instead of text")
}

func runCompile(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	src := string(content)
	opts := optionsFromFlags(cmd)

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s (dialect=%s module=%s contracts=%v)...\n",
			filename, opts.Dialect, opts.Module, opts.RuntimeContracts)
	}

	result := compiler.Compile(src, filename, opts)
	printDiagnostics(result.Diagnostics, src, emitJSONOut)

	if result.Failed() {
		return fmt.Errorf("compilation failed with %d error(s)", result.Diagnostics.ErrorCount())
	}

	out := outputFile
	if out == "" {
		out = defaultOutputName(filename, opts.Dialect)
	}
	if err := os.WriteFile(out, []byte(result.Target), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, out)
	}
	return nil
}

func defaultOutputName(filename string, d config.Dialect) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	if d == config.TypeScript {
		return base + ".ts"
	}
	return base + ".js"
}

func printDiagnostics(sink *diag.Sink, src string, asJSON bool) {
	ds := sink.Diagnostics()
	if len(ds) == 0 {
		return
	}
	if asJSON {
		doc, err := diag.FormatJSON(ds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to render diagnostics as JSON: %v\n", err)
			return
		}
		fmt.Fprintln(os.Stderr, doc)
		return
	}
	fmt.Fprint(os.Stderr, diag.FormatText(ds, src, false))
}
