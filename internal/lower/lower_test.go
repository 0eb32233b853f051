package lower_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/ctrc/internal/checker"
	"github.com/cwbudde/ctrc/internal/config"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/lexer"
	"github.com/cwbudde/ctrc/internal/lower"
	"github.com/cwbudde/ctrc/internal/parser"
	"github.com/kr/pretty"
)

// emit runs the full front half of the pipeline and then Lower, failing the
// test on any diagnostic along the way.
func emit(t *testing.T, src string, opts config.CompileOptions) string {
	t.Helper()
	sink := diag.New()
	lx := lexer.New(src, "test.ctr", sink)
	prog := parser.New(lx, sink, "test.ctr").ParseProgram()
	global := checker.NewCollector(sink).Collect(prog)
	res := checker.Check(sink, global, prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics before lowering:\n%s", pretty.Sprint(sink.Diagnostics()))
	}
	out, err := lower.Lower(sink, res, prog, src, opts)
	if err != nil {
		t.Fatalf("lowering failed: %v\ndiagnostics:\n%s", err, pretty.Sprint(sink.Diagnostics()))
	}
	return out
}

func TestRequiresGuardEmitted(t *testing.T) {
	src := `
fn divide(a: Int, b: Int) -> Int
  @requires b != 0
{
  return a / b;
}
`
	out := emit(t, src, config.Default())
	// Call sites quote the clause text; the prelude's definition of
	// __requires does not, so this matches emissions only.
	if !strings.Contains(out, `__requires("`) {
		t.Errorf("expected a __requires call site, got:\n%s", out)
	}
}

func TestContractsOffSuppressesGuards(t *testing.T) {
	src := `
fn divide(a: Int, b: Int) -> Int
  @requires b != 0
  @ensures result == a / b
{
  return a / b;
}
`
	out := emit(t, src, config.New(config.WithRuntimeContracts(false)))
	for _, guard := range []string{`__requires("`, `__ensures("`, "__clone(a"} {
		if strings.Contains(out, guard) {
			t.Errorf("runtime contracts off: expected no %s call site, got:\n%s", guard, out)
		}
	}
	if !strings.Contains(out, "return (a / b);") {
		t.Errorf("expected a plain return with contracts off, got:\n%s", out)
	}
}

func TestTrustedVerifyLevelSuppressesGuards(t *testing.T) {
	src := `
struct Account {
  balance: Float64,
  @invariant balance >= 0.0
}
`
	out := emit(t, src, config.New(config.WithVerifyLevel(config.VerifyTrusted)))
	if strings.Contains(out, `__invariant("`) {
		t.Errorf("trusted verify level: expected no __invariant call site, got:\n%s", out)
	}
}

func TestEnsuresSnapshotsOldWithClone(t *testing.T) {
	src := `
fn inc(x: mut Int) -> Void
  @ensures x == old(x) + 1
{
  x += 1;
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "__clone(x)") {
		t.Errorf("expected old(x) to snapshot via __clone at entry, got:\n%s", out)
	}
	if !strings.Contains(out, `__ensures("`) {
		t.Errorf("expected an __ensures call site, got:\n%s", out)
	}
	// The snapshot must precede the body so later mutation cannot affect it.
	snap := strings.Index(out, "__clone(x)")
	body := strings.Index(out, "x += 1")
	if snap < 0 || body < 0 || snap > body {
		t.Errorf("old() snapshot must be emitted before the body, got:\n%s", out)
	}
}

func TestStructInvariantInConstructor(t *testing.T) {
	src := `
struct Account {
  balance: Float64,
  @invariant balance >= 0.0
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "function Account(balance)") {
		t.Errorf("expected a constructor taking fields in declaration order, got:\n%s", out)
	}
	if !strings.Contains(out, `__invariant("`) {
		t.Errorf("expected the invariant checked after field assignment, got:\n%s", out)
	}
}

func TestEnumVariantsLowerToTaggedRecords(t *testing.T) {
	src := `enum Shape { Circle(Float64), Point }`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, `Circle: function(f0) { return { tag: "Circle", fields: [f0] }; }`) {
		t.Errorf("expected a tagged-record factory for Circle, got:\n%s", out)
	}
	if !strings.Contains(out, `Point: { tag: "Point", fields: [] }`) {
		t.Errorf("expected a singleton tagged record for the unit variant, got:\n%s", out)
	}
}

func TestMatchWithoutWildcardEmitsMatchFail(t *testing.T) {
	src := `
enum Shape { Circle(Int), Square(Int) }

fn area(s: Shape) -> Int {
  match s {
    Shape::Circle(r) => { return r * r; }
    Shape::Square(side) => { return side * side; }
  }
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, `__matchFail("`) {
		t.Errorf("expected a __matchFail fallback clause, got:\n%s", out)
	}
	if !strings.Contains(out, `.tag === "Circle"`) {
		t.Errorf("expected enum patterns to test the tag field, got:\n%s", out)
	}
}

func TestMatchWithWildcardHasNoMatchFail(t *testing.T) {
	src := `
fn classify(n: Int) -> Int {
  match n {
    0 => { return 0; }
    _ => { return 1; }
  }
}
`
	out := emit(t, src, config.Default())
	if strings.Contains(out, `__matchFail("`) {
		t.Errorf("a wildcard-terminated match needs no __matchFail clause, got:\n%s", out)
	}
}

func TestStructLiteralSpreadCopyExtends(t *testing.T) {
	src := `
struct Point { x: Int, y: Int }

fn moved(p: Point) -> Point {
  return Point { x: p.x + 1, ..p };
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "Object.assign({}, p, { x:") {
		t.Errorf("expected the JS spread form to copy-extend via Object.assign, got:\n%s", out)
	}

	tsOut := emit(t, src, config.New(config.WithTargetDialect(config.TypeScript)))
	if !strings.Contains(tsOut, "{ ...p, x:") {
		t.Errorf("expected the TS spread form to use an object spread, got:\n%s", tsOut)
	}
}

func TestStructLiteralNonSpreadCallsConstructor(t *testing.T) {
	src := `
struct Point { x: Int, y: Int }

fn origin() -> Point {
  return Point { y: 0, x: 0 };
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "new Point(0, 0)") {
		t.Errorf("expected the constructor called in field declaration order, got:\n%s", out)
	}
}

func TestQuantifierLowersToEvery(t *testing.T) {
	src := `
fn check(a: [Int]) -> Bool {
  return forall i in a: i >= 0;
}
`
	out := emit(t, src, config.New(config.WithRuntimeContracts(false)))
	if !strings.Contains(out, "a.every(function(i) { return (i >= 0); })") {
		t.Errorf("expected forall to lower to an every() check, got:\n%s", out)
	}
}

func TestTryLowersToUnwrap(t *testing.T) {
	src := `
fn parse(s: String) -> Result<Int, String> {
  return Result::Ok(1);
}

fn go(s: String) -> Result<Int, String> {
  return Result::Ok(parse(s)? + 1);
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "unwrap(parse(s))") {
		t.Errorf("expected e? to lower to unwrap(e), got:\n%s", out)
	}
}

func TestImportsPerModuleSystem(t *testing.T) {
	src := `import std.math { sqrt, pow as power };`

	esm := emit(t, src, config.Default())
	if !strings.Contains(esm, `import { sqrt, pow as power } from "std/math";`) {
		t.Errorf("unexpected ESM import shape:\n%s", esm)
	}

	cjs := emit(t, src, config.New(config.WithModuleSystem(config.CommonJS)))
	if !strings.Contains(cjs, `const { sqrt, pow: power } = require("std/math");`) {
		t.Errorf("unexpected CommonJS import shape:\n%s", cjs)
	}
}

func TestExportPerModuleSystem(t *testing.T) {
	src := `export fn helper() -> Int { return 1; }`

	esm := emit(t, src, config.Default())
	if !strings.Contains(esm, "export function helper()") {
		t.Errorf("unexpected ESM export shape:\n%s", esm)
	}

	cjs := emit(t, src, config.New(config.WithModuleSystem(config.CommonJS)))
	if !strings.Contains(cjs, "module.exports.helper = helper;") {
		t.Errorf("unexpected CommonJS export shape:\n%s", cjs)
	}
}

func TestIfExpressionLowersToIIFE(t *testing.T) {
	src := `
fn pick(c: Bool) -> Int {
  let v: Int = if c { 1 } else { 2 };
  return v;
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "(() => {") {
		t.Errorf("expected the if expression wrapped in an IIFE, got:\n%s", out)
	}
}

func TestEffectDeclEmitsHandlerRecord(t *testing.T) {
	src := `
effect Log {
  fn emit(msg: String) -> Void;
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "const Log = {") || !strings.Contains(out, "emit: function(a0) { return a0; }") {
		t.Errorf("expected an identity-stub handler record, got:\n%s", out)
	}
}

func TestPreludeAlwaysCarriesResultHelpers(t *testing.T) {
	out := emit(t, `fn id(x: Int) -> Int { return x; }`, config.New(config.WithRuntimeContracts(false)))
	for _, helper := range []string{"function Ok(", "function Err(", "function unwrap(", "function Some(", "function None("} {
		if !strings.Contains(out, helper) {
			t.Errorf("prelude should always define %s...", helper)
		}
	}
}

func TestGenericFunctionAndStructLower(t *testing.T) {
	src := `
struct Box<T> {
  value: T,
}

fn identity<T>(x: T) -> T {
  return x;
}

fn wrap(n: Int) -> Box<Int> {
  return Box { value: identity(n) };
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "function identity(x)") {
		t.Errorf("generic parameters should erase from the emitted signature, got:\n%s", out)
	}
	if !strings.Contains(out, "function Box(value)") {
		t.Errorf("expected a constructor for the generic struct, got:\n%s", out)
	}
	if !strings.Contains(out, "new Box(identity(n))") {
		t.Errorf("expected the generic struct literal to call the constructor, got:\n%s", out)
	}
}

func TestReferenceAndDerefAreErased(t *testing.T) {
	src := `
fn read(r: &Int) -> Int {
  return *r;
}
`
	out := emit(t, src, config.Default())
	if !strings.Contains(out, "return r;") {
		t.Errorf("expected & and * to erase, got:\n%s", out)
	}
}
