// Package lower translates a checked syntax tree into JavaScript or
// TypeScript target text. It is the last pipeline stage:
// everything it consumes has already passed the checker, so it reports
// internal inconsistencies as codegen-phase diagnostics rather than
// re-validating the tree.
package lower

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/checker"
	"github.com/cwbudde/ctrc/internal/config"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/source"
)

// codegenPanic is the internal "this should never happen" signal raised by
// lowering helpers that have no sane recovery (an unresolved struct name, an
// expression kind the checker should have rejected). It is recovered at
// Lower's entry and turned into a single codegen diagnostic, and the
// partially emitted text is discarded.
type codegenPanic struct {
	pos source.Position
	msg string
}

func panicCodegen(pos source.Position, format string, args ...any) {
	panic(codegenPanic{pos: pos, msg: fmt.Sprintf(format, args...)})
}

// lowerer holds the per-compilation state threaded through every lowering
// method: the target options, the checked result (for field order and
// expression types), and the output builder.
type lowerer struct {
	sink *diag.Sink
	res  *checker.Result
	opts config.CompileOptions
	src  string

	out strings.Builder

	// oldNames maps an *ast.OldExpr (by pointer identity, scoped to the
	// function currently being lowered) to the name of the binding its
	// snapshot was assigned to. Rebuilt per function by collectOldExprs.
	oldNames map[*ast.OldExpr]string

	// resultName is the fresh binding name standing for `result` while
	// lowering a function body with ensures clauses; "" when the enclosing
	// function has none.
	resultName string
	anonCount  int

	// currentEnsures holds the ensures clauses of the function currently
	// being lowered, consulted by every return path inside its body.
	currentEnsures []*ast.EnsuresAnno
}

// Lower translates prog into target-language text. On success it returns
// the emitted text and a nil error; on an internal codegen failure it
// returns "" plus the error, having already recorded a codegen diagnostic
// on sink.
func Lower(sink *diag.Sink, res *checker.Result, prog *ast.Program, src string, opts config.CompileOptions) (out string, err error) {
	l := &lowerer{sink: sink, res: res, opts: opts, src: src}

	defer func() {
		if r := recover(); r != nil {
			cp, ok := r.(codegenPanic)
			if !ok {
				panic(r)
			}
			sink.Errorf(diag.Codegen, cp.pos, "%s", cp.msg)
			out, err = "", fmt.Errorf("codegen: %s", cp.msg)
		}
	}()

	l.writePrelude()
	for _, d := range prog.Decls {
		l.lowerTopDecl(d)
	}
	return l.out.String(), nil
}

// freshName returns a unique identifier for compiler-introduced bindings
// (old() snapshots, result bindings, IIFE temporaries), never colliding
// with a user identifier because user identifiers cannot contain "$".
func (l *lowerer) freshName(prefix string) string {
	l.anonCount++
	return fmt.Sprintf("$%s%d", prefix, l.anonCount)
}

func (l *lowerer) isTS() bool {
	return l.opts.Dialect == config.TypeScript
}

// guardsEnabled reports whether contract guard call sites (__requires,
// __ensures, __invariant and their old() snapshots) are emitted. Both the
// runtime-contracts switch and the "trusted" verify level suppress them
//; the prelude itself is still emitted, since
// Result/Option construction needs it regardless.
func (l *lowerer) guardsEnabled() bool {
	return l.opts.RuntimeContracts && l.opts.Verify != config.VerifyTrusted
}

// clauseText slices the original source covering pos, for use as the
// human-readable clause label __requires/__ensures/__invariant report on
// violation. Falls back to the position string if the span is out of
// bounds (should not happen for a well-formed tree, but guards against a
// synthetic position on a node lowering never expected to carry one).
func (l *lowerer) clauseText(pos source.Position) string {
	if pos.Offset < 0 || pos.End() > len(l.src) || pos.Offset > pos.End() {
		return pos.String()
	}
	return strings.TrimSpace(l.src[pos.Offset:pos.End()])
}

// jsString renders s as a double-quoted JS string literal.
func jsString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
