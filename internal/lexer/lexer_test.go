package lexer_test

import (
	"testing"

	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/lexer"
	"github.com/cwbudde/ctrc/internal/token"
)

func scan(t *testing.T, src string) ([]token.Token, *diag.Sink) {
	t.Helper()
	sink := diag.New()
	toks := lexer.ScanAll(src, "test.ctr", sink)
	return toks, sink
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func TestKeywordsAndIdents(t *testing.T) {
	toks, sink := scan(t, "fn divide(a: Int, b: Int) -> Int")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := []token.Kind{
		token.FN, token.IDENT, token.LPAREN, token.IDENT, token.COLON, token.IDENT, token.COMMA,
		token.IDENT, token.COLON, token.IDENT, token.RPAREN, token.ARROW, token.IDENT, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestMaximalMunchOperators(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"<", token.LT}, {"<=", token.LE}, {"<<", token.SHL},
		{".", token.DOT}, {"..", token.DOTDOT}, {"..=", token.DOTDOTEQ},
		{"-", token.MINUS}, {"->", token.ARROW}, {"-=", token.MINUSEQ},
		{"*", token.STAR}, {"**", token.STARSTAR},
	}
	for _, c := range cases {
		toks, sink := scan(t, c.src)
		if sink.HasErrors() {
			t.Fatalf("%q: unexpected errors: %v", c.src, sink.Diagnostics())
		}
		if toks[0].Kind != c.kind {
			t.Errorf("%q: got %s, want %s", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestNestedBlockComment(t *testing.T) {
	_, sink := scan(t, "/* outer /* inner */ still outer */ fn")
	if sink.HasErrors() {
		t.Fatalf("nested comment should not error: %v", sink.Diagnostics())
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, sink := scan(t, "/* never closed")
	if !sink.HasErrors() {
		t.Fatal("expected an unterminated comment diagnostic")
	}
}

func TestIntegerLiteralBases(t *testing.T) {
	cases := map[string]int64{
		"1_000_000": 1000000,
		"0xFF":      255,
		"0b1010":    10,
		"0o17":      15,
	}
	for src, want := range cases {
		toks, sink := scan(t, src)
		if sink.HasErrors() {
			t.Fatalf("%q: unexpected errors: %v", src, sink.Diagnostics())
		}
		if toks[0].Kind != token.INT {
			t.Fatalf("%q: expected INT, got %s", src, toks[0].Kind)
		}
		if toks[0].Literal.(int64) != want {
			t.Errorf("%q: got %v, want %d", src, toks[0].Literal, want)
		}
	}
}

func TestFloatLiteral(t *testing.T) {
	toks, sink := scan(t, "3.14 1e10 2.5e-3")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	for _, tk := range toks {
		if tk.Kind == token.EOF {
			continue
		}
		if tk.Kind != token.FLOAT {
			t.Errorf("%q: expected FLOAT, got %s", tk.Text, tk.Kind)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks, sink := scan(t, `"a\nb\tc\\d\"e\u{1F600}"`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	got := toks[0].Literal.(string)
	want := "a\nb\tc\\d\"e\U0001F600"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnexpectedCharacterProducesIllegalAndDiagnostic(t *testing.T) {
	toks, sink := scan(t, "fn f() { # }")
	if !sink.HasErrors() {
		t.Fatal("expected an unexpected-character diagnostic")
	}
	found := false
	for _, tk := range toks {
		if tk.Kind == token.ILLEGAL {
			found = true
		}
	}
	if !found {
		t.Error("expected an ILLEGAL token for '#'")
	}
}

func TestTokenTextMatchesSourceSlice(t *testing.T) {
	src := "fn divide(a: Int, b: Int) -> Int { return a / b }"
	toks, sink := scan(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	for _, tk := range toks {
		if tk.Kind == token.EOF || tk.Kind == token.STRING || tk.Kind == token.CHAR {
			continue
		}
		slice := src[tk.Pos.Offset : tk.Pos.Offset+tk.Pos.Length]
		if slice != tk.Text {
			t.Errorf("token %v: slice %q != text %q", tk.Kind, slice, tk.Text)
		}
	}
}

func TestWildcardUnderscore(t *testing.T) {
	toks, _ := scan(t, "_ x_1 _x")
	if toks[0].Kind != token.UNDERSCORE {
		t.Errorf("got %s, want UNDERSCORE", toks[0].Kind)
	}
	if toks[1].Kind != token.IDENT || toks[1].Text != "x_1" {
		t.Errorf("got %v", toks[1])
	}
	if toks[2].Kind != token.IDENT || toks[2].Text != "_x" {
		t.Errorf("got %v", toks[2])
	}
}
