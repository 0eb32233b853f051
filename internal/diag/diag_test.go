package diag_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/source"
	"github.com/tidwall/gjson"
)

func sampleSink() *diag.Sink {
	sink := diag.New()
	sink.Errorf(diag.Lexer, source.Position{File: "a.ctr", Line: 1, Column: 5}, "unexpected character %q", '#')
	sink.Warnf(diag.Analyzer, source.Position{File: "a.ctr", Line: 3, Column: 2}, "match arms have different types: Int and String")
	sink.Errorf(diag.Codegen, source.Position{File: "a.ctr", Line: 9, Column: 1}, "internal failure")
	return sink
}

func TestSinkCountsAndOrder(t *testing.T) {
	sink := sampleSink()
	if !sink.HasErrors() {
		t.Fatal("expected errors")
	}
	if got := sink.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount = %d, want 2", got)
	}
	ds := sink.Diagnostics()
	if len(ds) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(ds))
	}
	if ds[0].Phase != diag.Lexer || ds[2].Phase != diag.Codegen {
		t.Errorf("diagnostics not in report order: %v", ds)
	}
}

func TestFormatTextShape(t *testing.T) {
	sink := diag.New()
	src := "fn f() { # }"
	sink.Errorf(diag.Lexer, source.Position{File: "a.ctr", Line: 1, Column: 10}, "unexpected character '#'")
	out := diag.FormatText(sink.Diagnostics(), src, false)
	if !strings.Contains(out, "[lexer] a.ctr:1:10: error: unexpected character '#'") {
		t.Errorf("unexpected header line:\n%s", out)
	}
	if !strings.Contains(out, src) {
		t.Errorf("expected the offending source line rendered:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret under the offending column:\n%s", out)
	}
}

func TestFormatJSONQueriesWithGjson(t *testing.T) {
	doc, err := diag.FormatJSON(sampleSink().Diagnostics())
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}
	if got := gjson.Get(doc, "#").Int(); got != 3 {
		t.Errorf("array length = %d, want 3", got)
	}
	if got := gjson.Get(doc, "0.phase").String(); got != "lexer" {
		t.Errorf("0.phase = %q, want lexer", got)
	}
	if got := gjson.Get(doc, "1.severity").String(); got != "warning" {
		t.Errorf("1.severity = %q, want warning", got)
	}
	if got := gjson.Get(doc, "2.line").Int(); got != 9 {
		t.Errorf("2.line = %d, want 9", got)
	}

	if got := diag.CountBySeverity(doc, "error"); got != 2 {
		t.Errorf("CountBySeverity(error) = %d, want 2", got)
	}
	if got := diag.CountBySeverity(doc, "warning"); got != 1 {
		t.Errorf("CountBySeverity(warning) = %d, want 1", got)
	}
}

func TestSortPipelineOrderIsStable(t *testing.T) {
	sink := diag.New()
	sink.Errorf(diag.Codegen, source.Position{Line: 1, Column: 1}, "late")
	sink.Errorf(diag.Lexer, source.Position{Line: 5, Column: 1}, "first lexer")
	sink.Errorf(diag.Lexer, source.Position{Line: 7, Column: 1}, "second lexer")
	ds := sink.Diagnostics()
	diag.SortPipelineOrder(ds)
	if ds[0].Phase != diag.Lexer || ds[1].Phase != diag.Lexer || ds[2].Phase != diag.Codegen {
		t.Errorf("unexpected phase order: %v", ds)
	}
	if ds[0].Message != "first lexer" || ds[1].Message != "second lexer" {
		t.Errorf("stable sort should keep source order within a phase: %v", ds)
	}
}
