// Package diag implements the shared diagnostic sink threaded through the
// scanner, tree builder, checker and lowerer. No stage aborts on the first
// error; every stage appends to the same sink and keeps going.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/ctrc/internal/source"
)

// Phase identifies which pipeline stage produced a diagnostic.
type Phase string

const (
	Lexer    Phase = "lexer"
	Parser   Phase = "parser"
	Analyzer Phase = "analyzer"
	Codegen  Phase = "codegen"
)

// Severity ranks a diagnostic's importance.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Diagnostic is a single reported record: kind, severity, position, message.
type Diagnostic struct {
	Phase    Phase
	Severity Severity
	Pos      source.Position
	Message  string
}

// Sink accumulates diagnostics in the order they are reported. A sink is
// shared by value-holding pointer across a whole compilation; nothing in it
// aborts early.
type Sink struct {
	diags []Diagnostic
}

// New returns an empty sink.
func New() *Sink {
	return &Sink{}
}

// Add appends a diagnostic verbatim.
func (s *Sink) Add(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Report is a convenience constructor for Add.
func (s *Sink) Report(phase Phase, severity Severity, pos source.Position, format string, args ...any) {
	s.Add(Diagnostic{
		Phase:    phase,
		Severity: severity,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Errorf reports an Error-severity diagnostic.
func (s *Sink) Errorf(phase Phase, pos source.Position, format string, args ...any) {
	s.Report(phase, Error, pos, format, args...)
}

// Warnf reports a Warning-severity diagnostic.
func (s *Sink) Warnf(phase Phase, pos source.Position, format string, args ...any) {
	s.Report(phase, Warning, pos, format, args...)
}

// Diagnostics returns every diagnostic reported so far, in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}

// HasErrors reports whether any Error-severity diagnostic was reported.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of Error-severity diagnostics. The CLI's
// exit status is non-zero precisely when this is greater than zero.
func (s *Sink) ErrorCount() int {
	n := 0
	for _, d := range s.diags {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// Merge appends another sink's diagnostics in pipeline order (the caller is
// responsible for merging lexer, parser, analyzer and codegen sinks in that
// sequence so the pipeline-order guarantee holds).
func (s *Sink) Merge(other *Sink) {
	s.diags = append(s.diags, other.diags...)
}

// phaseOrder gives the pipeline-order rank used only to keep a stable merge
// when diagnostics from different phases are combined out of call order.
var phaseOrder = map[Phase]int{Lexer: 0, Parser: 1, Analyzer: 2, Codegen: 3}

// SortPipelineOrder stable-sorts diagnostics by phase, keeping each phase's
// internal source-order intact. Callers that build one sink per stage and
// call Merge in pipeline order never need this; it exists for callers that
// collect diagnostics from several sinks out of order.
func SortPipelineOrder(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return phaseOrder[diags[i].Phase] < phaseOrder[diags[j].Phase]
	})
}

// FormatText renders diagnostics in the CLI's human format:
//
//	[phase] file:line:column: error: message
//
// Warnings carry the label "warning" instead of "error" so tools can filter.
func FormatText(diags []Diagnostic, source string, color bool) string {
	var sb strings.Builder
	lines := strings.Split(source, "\n")

	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		label := "error"
		if d.Severity == Warning {
			label = "warning"
		} else if d.Severity == Info {
			label = "info"
		}
		sb.WriteString(fmt.Sprintf("[%s] %s: %s: %s\n", d.Phase, d.Pos.String(), label, d.Message))

		if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
			lineText := lines[d.Pos.Line-1]
			prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
			sb.WriteString(prefix)
			sb.WriteString(lineText)
			sb.WriteByte('\n')
			col := d.Pos.Column - 1
			if col < 0 {
				col = 0
			}
			sb.WriteString(strings.Repeat(" ", len(prefix)+col))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
