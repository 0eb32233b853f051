// Command ctrc is the CLI collaborator for the contract-language front end
//: it owns file I/O and exit codes, and feeds source text to
// pkg/compiler, which does everything else.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/ctrc/cmd/ctrc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
