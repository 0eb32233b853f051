// Package compiler wires the four core pipeline stages — lexer, parser,
// checker, lowerer — into the single entry point the CLI collaborator
// (cmd/ctrc) and the REPL drive. Compile is a
// pure function of its inputs: it retains no state between calls,
// so a caller may invoke it from multiple goroutines concurrently.
package compiler

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/checker"
	"github.com/cwbudde/ctrc/internal/config"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/lexer"
	"github.com/cwbudde/ctrc/internal/lower"
	"github.com/cwbudde/ctrc/internal/parser"
)

// Result is everything a compilation produced: the diagnostic sink (never
// nil, even on success), the parsed tree (nil only if parsing produced no
// program at all, which does not happen — an empty program is still a
// valid *ast.Program), the checker's symbol/type result, and the lowered
// target text (empty when lowering did not run).
type Result struct {
	Diagnostics *diag.Sink
	Program     *ast.Program
	Checked     *checker.Result
	Target      string
}

// Failed reports whether any stage that ran emitted an Error-severity
// diagnostic. The CLI's exit status is non-zero precisely when this is
// true.
func (r *Result) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Compile runs source through the full pipeline: scan, parse, resolve,
// check, and — unless stopped early — lower to target text. Every stage
// that runs appends to one shared sink in pipeline order; later
// stages run on a best-effort basis even after earlier stages reported
// errors, except when opts.StopOnFirstError is set, in which case lowering
// is skipped once the checker (or an earlier stage) has reported any error.
//
// file is the display name attached to positions and diagnostics; it may be
// "<eval>" or "<repl>" for collaborator-synthesized input that was never
// read from disk.
func Compile(src, file string, opts config.CompileOptions) *Result {
	sink := diag.New()

	lx := lexer.New(src, file, sink)
	p := parser.New(lx, sink, file)
	prog := p.ParseProgram()

	if opts.StopOnFirstError && sink.HasErrors() {
		return &Result{Diagnostics: sink, Program: prog}
	}

	collector := checker.NewCollector(sink)
	global := collector.Collect(prog)
	checked := checker.Check(sink, global, prog)

	if opts.StopOnFirstError && sink.HasErrors() {
		return &Result{Diagnostics: sink, Program: prog, Checked: checked}
	}

	target, err := lower.Lower(sink, checked, prog, src, opts)
	if err != nil {
		// lower.Lower has already recorded a codegen diagnostic on sink;
		// the error value only tells this caller to treat target as
		// unusable rather than a partial emission.
		target = ""
	}

	return &Result{Diagnostics: sink, Program: prog, Checked: checked, Target: target}
}

// Check runs the pipeline through the checker only, skipping lowering
// entirely, the contract behind `ctrc check`: report, never emit.
func Check(src, file string, opts config.CompileOptions) *Result {
	sink := diag.New()

	lx := lexer.New(src, file, sink)
	p := parser.New(lx, sink, file)
	prog := p.ParseProgram()

	if opts.StopOnFirstError && sink.HasErrors() {
		return &Result{Diagnostics: sink, Program: prog}
	}

	collector := checker.NewCollector(sink)
	global := collector.Collect(prog)
	checked := checker.Check(sink, global, prog)

	return &Result{Diagnostics: sink, Program: prog, Checked: checked}
}
