package parser_test

import (
	"testing"

	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/lexer"
	"github.com/cwbudde/ctrc/internal/parser"
	"github.com/cwbudde/ctrc/internal/source"
	"github.com/google/go-cmp/cmp"
)

// ignorePositions compares trees structurally, treating every Position and
// ExprID as equal; tests that care about spans assert on them directly.
var ignorePositions = cmp.Options{
	cmp.Comparer(func(a, b source.Position) bool { return true }),
	cmp.Comparer(func(a, b ast.ExprID) bool { return true }),
}

func parse(t *testing.T, src string) (*ast.Program, *diag.Sink) {
	t.Helper()
	sink := diag.New()
	lx := lexer.New(src, "test.ctr", sink)
	prog := parser.New(lx, sink, "test.ctr").ParseProgram()
	return prog, sink
}

func TestParseFuncDeclWithContract(t *testing.T) {
	prog, sink := parse(t, `
fn divide(a: Int, b: Int) -> Int
  @requires b != 0
  @ensures result == a / b
{
  return a / b;
}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Decls[0])
	}
	if fn.Name != "divide" {
		t.Errorf("got name %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if len(fn.Annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(fn.Annotations))
	}
	if _, ok := fn.Annotations[0].(*ast.RequiresAnno); !ok {
		t.Errorf("expected first annotation to be @requires, got %T", fn.Annotations[0])
	}
	if _, ok := fn.Annotations[1].(*ast.EnsuresAnno); !ok {
		t.Errorf("expected second annotation to be @ensures, got %T", fn.Annotations[1])
	}
	if fn.Body == nil || len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected a one-statement body, got %#v", fn.Body)
	}
}

func TestParseStructDeclWithInvariant(t *testing.T) {
	prog, sink := parse(t, `
struct Account {
  balance: Int,
  @invariant balance >= 0
}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	sd, ok := prog.Decls[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", prog.Decls[0])
	}
	if len(sd.Fields) != 1 || sd.Fields[0].Name != "balance" {
		t.Fatalf("unexpected fields: %#v", sd.Fields)
	}
	if len(sd.Invariants) != 1 {
		t.Fatalf("expected 1 invariant, got %d", len(sd.Invariants))
	}
}

func TestParseEnumWithTupleVariant(t *testing.T) {
	prog, sink := parse(t, `enum Shape { Circle(Float64), Square(Float64), Point }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	ed, ok := prog.Decls[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", prog.Decls[0])
	}
	if len(ed.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(ed.Variants))
	}
	if len(ed.Variants[0].Fields) != 1 {
		t.Errorf("expected Circle to carry 1 field, got %d", len(ed.Variants[0].Fields))
	}
	if len(ed.Variants[2].Fields) != 0 {
		t.Errorf("expected Point to be a unit variant")
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog, sink := parse(t, `fn f() -> Int { return 1 + 2 * 3 ** 2; }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected top-level BinaryExpr, got %T", ret.Value)
	}
	if top.Operator != "+" {
		t.Fatalf("expected '+' at the top, got %q", top.Operator)
	}
	rhs, ok := top.Right.(*ast.BinaryExpr)
	if !ok || rhs.Operator != "*" {
		t.Fatalf("expected '*' on the right of '+', got %#v", top.Right)
	}
	pow, ok := rhs.Right.(*ast.BinaryExpr)
	if !ok || pow.Operator != "**" {
		t.Fatalf("expected '**' nested under '*', got %#v", rhs.Right)
	}
}

func TestParseMatchExprWithEnumVariantPattern(t *testing.T) {
	prog, sink := parse(t, `
fn area(s: Shape) -> Float64 {
  match s {
    Shape::Circle(r) => r * r,
    Shape::Square(side) => side * side,
    _ => 0.0,
  }
}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn := prog.Decls[0].(*ast.FuncDecl)
	me, ok := fn.Body.Trailer.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected a trailing MatchExpr, got %#v", fn.Body.Trailer)
	}
	if len(me.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(me.Arms))
	}
	vp, ok := me.Arms[0].Pattern.(*ast.EnumVariantPattern)
	if !ok {
		t.Fatalf("expected EnumVariantPattern, got %T", me.Arms[0].Pattern)
	}
	if vp.TypeName != "Shape" || vp.Variant != "Circle" || len(vp.Fields) != 1 {
		t.Errorf("unexpected variant pattern: %#v", vp)
	}
	if _, ok := me.Arms[2].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("expected the last arm to be a wildcard, got %T", me.Arms[2].Pattern)
	}
}

func TestParseStructLiteralAndSpread(t *testing.T) {
	prog, sink := parse(t, `
fn withBalance(a: Account, n: Int) -> Account {
  Account { balance: n, ..a }
}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn := prog.Decls[0].(*ast.FuncDecl)
	sl, ok := fn.Body.Trailer.(*ast.StructLiteral)
	if !ok {
		t.Fatalf("expected a trailing StructLiteral, got %#v", fn.Body.Trailer)
	}
	if sl.TypeName != "Account" || len(sl.Fields) != 1 || sl.Spread == nil {
		t.Errorf("unexpected struct literal: %#v", sl)
	}
}

func TestParseContractIntentAndCapability(t *testing.T) {
	prog, sink := parse(t, `
contract Positive {
  @requires x > 0
}
intent SortedResult {
  @ensures forall i in 0..1: true
}
capability FileAccess {
  path: String,
}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	if len(prog.Decls) != 3 {
		t.Fatalf("expected 3 decls, got %d", len(prog.Decls))
	}
	if _, ok := prog.Decls[0].(*ast.ContractDecl); !ok {
		t.Errorf("expected ContractDecl, got %T", prog.Decls[0])
	}
	if _, ok := prog.Decls[1].(*ast.IntentDecl); !ok {
		t.Errorf("expected IntentDecl, got %T", prog.Decls[1])
	}
	if _, ok := prog.Decls[2].(*ast.CapabilityDecl); !ok {
		t.Errorf("expected CapabilityDecl, got %T", prog.Decls[2])
	}
}

func TestParseImportAndExport(t *testing.T) {
	prog, sink := parse(t, `
import std.math { sqrt, pow as power };
export fn helper() -> Void {}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	imp, ok := prog.Decls[0].(*ast.ImportDecl)
	if !ok {
		t.Fatalf("expected ImportDecl, got %T", prog.Decls[0])
	}
	if len(imp.Path) != 2 || imp.Path[1] != "math" || len(imp.Items) != 2 {
		t.Errorf("unexpected import: %#v", imp)
	}
	if imp.Items[1].Alias != "power" {
		t.Errorf("expected alias 'power', got %q", imp.Items[1].Alias)
	}
	exp, ok := prog.Decls[1].(*ast.ExportDecl)
	if !ok {
		t.Fatalf("expected ExportDecl, got %T", prog.Decls[1])
	}
	if _, ok := exp.Inner.(*ast.FuncDecl); !ok {
		t.Errorf("expected exported FuncDecl, got %T", exp.Inner)
	}
}

func TestParseOldInEnsures(t *testing.T) {
	prog, sink := parse(t, `
fn credit(a: Account, n: Int) -> Account
  @ensures result.balance == old(a.balance) + n
{
  Account { balance: a.balance + n }
}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn := prog.Decls[0].(*ast.FuncDecl)
	ens := fn.Annotations[0].(*ast.EnsuresAnno)
	eq, ok := ens.Cond.(*ast.BinaryExpr)
	if !ok || eq.Operator != "==" {
		t.Fatalf("expected top-level '==', got %#v", ens.Cond)
	}
	addExpr, ok := eq.Right.(*ast.BinaryExpr)
	if !ok || addExpr.Operator != "+" {
		t.Fatalf("expected '+' on the right of '==', got %#v", eq.Right)
	}
	if _, ok := addExpr.Left.(*ast.OldExpr); !ok {
		t.Errorf("expected old(...) on the left of '+', got %T", addExpr.Left)
	}
}

func TestParseImportStructural(t *testing.T) {
	prog, sink := parse(t, `import std.io { read, write as w };`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := &ast.ImportDecl{
		Path:  []string{"std", "io"},
		Items: []ast.ImportItem{{Name: "read"}, {Name: "write", Alias: "w"}},
	}
	if diff := cmp.Diff(want, prog.Decls[0], ignorePositions); diff != "" {
		t.Errorf("import tree differs (-want +got):\n%s", diff)
	}
}

func TestParseEnumStructural(t *testing.T) {
	prog, sink := parse(t, `enum Color { Red, Rgb(Int, Int, Int) }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := &ast.EnumDecl{
		Name: "Color",
		Variants: []ast.EnumVariant{
			{Name: "Red"},
			{Name: "Rgb", Fields: []ast.TypeExpr{
				&ast.PrimitiveTypeExpr{Name: "Int"},
				&ast.PrimitiveTypeExpr{Name: "Int"},
				&ast.PrimitiveTypeExpr{Name: "Int"},
			}},
		},
	}
	if diff := cmp.Diff(want, prog.Decls[0], ignorePositions); diff != "" {
		t.Errorf("enum tree differs (-want +got):\n%s", diff)
	}
}

func TestParseTupleAndParenUnwrap(t *testing.T) {
	prog, sink := parse(t, `fn f() -> Int { return (1); }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if _, ok := ret.Value.(*ast.IntLiteral); !ok {
		t.Errorf("a single parenthesized element should unwrap, got %T", ret.Value)
	}

	prog2, sink2 := parse(t, `fn g() -> (Int, Int) { return (1, 2); }`)
	if sink2.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink2.Diagnostics())
	}
	fn2 := prog2.Decls[0].(*ast.FuncDecl)
	ret2 := fn2.Body.Stmts[0].(*ast.ReturnStmt)
	tup, ok := ret2.Value.(*ast.TupleLiteral)
	if !ok || len(tup.Elements) != 2 {
		t.Errorf("two parenthesized elements should become a tuple, got %#v", ret2.Value)
	}
}

func TestParseLambdaWithReturnType(t *testing.T) {
	prog, sink := parse(t, `fn f() -> Void { let g = |x: Int| -> Int x * 2; }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn := prog.Decls[0].(*ast.FuncDecl)
	ds := fn.Body.Stmts[0].(*ast.DeclStmt)
	vd := ds.Decl.(*ast.VarDecl)
	lam, ok := vd.Init.(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expected LambdaExpr, got %T", vd.Init)
	}
	if len(lam.Params) != 1 || lam.Params[0].Name != "x" || lam.ReturnType == nil {
		t.Errorf("unexpected lambda shape: %#v", lam)
	}
}

func TestParserRecoversAfterSyntaxError(t *testing.T) {
	prog, sink := parse(t, `
fn broken( {
}
fn ok() -> Int { return 1; }
`)
	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for the malformed parameter list")
	}
	found := false
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Error("expected the parser to recover and still parse the trailing 'ok' function")
	}
}

func TestParsePositionsAreContaining(t *testing.T) {
	prog, sink := parse(t, `fn f(a: Int) -> Int { return a; }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn := prog.Decls[0].(*ast.FuncDecl)
	if !fn.Pos().Contains(fn.Body.Pos()) {
		t.Errorf("function position %v does not contain its body %v", fn.Pos(), fn.Body.Pos())
	}
}
