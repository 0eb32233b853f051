package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/pkg/compiler"
	"github.com/maruel/natural"
	"github.com/spf13/cobra"
)

var symbolsJSON bool

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "List top-level declared symbols and their resolved types",
	Long: `Symbols runs the checker and prints every top-level ordinary symbol
(function, variable, struct/enum/trait/effect/capability constructor) with
its resolved type, in natural sort order (Item2 before Item10) so the
listing reads the way a human would expect rather than by strict byte
order. Diagnostics are reported the same way "ctrc check" reports them.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().BoolVar(&symbolsJSON, "json", false, "emit the symbol list as JSON")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	src := string(content)
	opts := optionsFromFlags(cmd)

	result := compiler.Check(src, filename, opts)
	printDiagnostics(result.Diagnostics, src, false)
	if result.Checked == nil || result.Checked.Global == nil {
		return fmt.Errorf("no symbols: checking did not complete")
	}

	names := make([]string, 0)
	syms := result.Checked.Global.Symbols()
	for name := range syms {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))

	if symbolsJSON {
		doc := "[]"
		for i, name := range names {
			sym := syms[name]
			doc, err = diag.SetSymbolEntry(doc, i, name, sym.Type.String(), sym.Mut)
			if err != nil {
				return fmt.Errorf("failed to render symbols as JSON: %w", err)
			}
		}
		fmt.Println(doc)
		return nil
	}

	for _, name := range names {
		sym := syms[name]
		mut := ""
		if sym.Mut {
			mut = " mut"
		}
		fmt.Printf("%s: %s%s\n", name, sym.Type.String(), mut)
	}

	if result.Failed() {
		return fmt.Errorf("checking reported %d error(s)", result.Diagnostics.ErrorCount())
	}
	return nil
}
