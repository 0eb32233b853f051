package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/ctrc/internal/config"
	"github.com/spf13/cobra"
)

// Version information, set by build flags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ctrc",
	Short: "Contract-oriented language front-end compiler",
	Long: `ctrc is a front-end compiler for a contract-oriented source language.

It tokenizes, parses, resolves names and checks types, effects, capabilities
and contracts, then lowers to JavaScript or TypeScript with optional runtime
contract instrumentation (preconditions, postconditions, invariants).

This tool owns file I/O, option parsing, and exit codes; the core pipeline
itself (pkg/compiler) is a pure function of source text and options.`,
	Version: Version,
}

// shared flags, set up per-subcommand but read from one place so
// optionsFromFlags can build a config.CompileOptions consistently.
var (
	configPath       string
	flagDialect      string
	flagModule       string
	flagNoContracts  bool
	flagVerifyLevel  string
	flagStopOnError  bool
	verbose          bool
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ctrc.yaml", "project config file (optional)")
	rootCmd.PersistentFlags().StringVar(&flagDialect, "dialect", "", "target dialect: javascript|typescript")
	rootCmd.PersistentFlags().StringVar(&flagModule, "module", "", "module system: esm|commonjs")
	rootCmd.PersistentFlags().BoolVar(&flagNoContracts, "no-runtime-contracts", false, "disable runtime contract instrumentation")
	rootCmd.PersistentFlags().StringVar(&flagVerifyLevel, "verify", "", "verify level: full|runtime|trusted")
	rootCmd.PersistentFlags().BoolVar(&flagStopOnError, "stop-on-first-error", false, "exit after any pass reports errors")
}

// optionsFromFlags builds a config.CompileOptions by loading configPath (if
// it exists) and overlaying any flags the user actually set, matching the
// option precedence a CLI with both a config file and flags is expected to
// have: flags win.
func optionsFromFlags(cmd *cobra.Command) config.CompileOptions {
	opts, err := config.Load(configPath)
	if err != nil && !os.IsNotExist(err) {
		if verbose {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		opts = config.Default()
	}

	if cmd.Flags().Changed("dialect") {
		opts.Dialect = config.Dialect(flagDialect)
	}
	if cmd.Flags().Changed("module") {
		opts.Module = config.ModuleSystem(flagModule)
	}
	if cmd.Flags().Changed("no-runtime-contracts") {
		opts.RuntimeContracts = !flagNoContracts
	}
	if cmd.Flags().Changed("verify") {
		opts.Verify = config.VerifyLevel(flagVerifyLevel)
		if opts.Verify == config.VerifyTrusted {
			opts.RuntimeContracts = false
		}
	}
	if cmd.Flags().Changed("stop-on-first-error") {
		opts.StopOnFirstError = flagStopOnError
	}
	return opts
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
