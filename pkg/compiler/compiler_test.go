package compiler_test

import (
	"os"
	"testing"

	"github.com/cwbudde/ctrc/internal/config"
	"github.com/cwbudde/ctrc/pkg/compiler"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestMain lets go-snaps clean up any snapshot entries this package
// stopped producing.
func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestDivideWithPrecondition(t *testing.T) {
	src := `
fn divide(a: Int, b: Int) -> Int
  @requires b != 0
{
  return a / b;
}
`
	result := compiler.Compile(src, "divide.ctr", config.Default())
	if result.Failed() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics.Diagnostics())
	}
	snaps.MatchSnapshot(t, result.Target)
}

func TestBankAccountInvariant(t *testing.T) {
	src := `
struct Account {
  balance: Float64,
  @invariant balance >= 0.0
}
`
	result := compiler.Compile(src, "account.ctr", config.Default())
	if result.Failed() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics.Diagnostics())
	}
	snaps.MatchSnapshot(t, result.Target)
}

func TestEnsuresWithOld(t *testing.T) {
	src := `
fn inc(x: mut Int) -> Void
  @ensures x == old(x) + 1
{
  x += 1;
}
`
	result := compiler.Compile(src, "inc.ctr", config.Default())
	if result.Failed() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics.Diagnostics())
	}
	snaps.MatchSnapshot(t, result.Target)
}

func TestTypeScriptDialectSnapshot(t *testing.T) {
	src := `
fn square(x: Int) -> Int {
  return x * x;
}
`
	opts := config.New(config.WithTargetDialect(config.TypeScript))
	result := compiler.Compile(src, "square.ctr", opts)
	if result.Failed() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics.Diagnostics())
	}
	snaps.MatchSnapshot(t, result.Target)
}

func TestEffectDisciplineDiagnostic(t *testing.T) {
	src := `
effect IO {
  fn write(s: String) -> Void;
}

fn logIt(s: String) -> Void
  @effect[IO]
{
}

fn caller() -> Void {
  logIt("hi");
}
`
	result := compiler.Check(src, "effects.ctr", config.Default())
	if !result.Failed() {
		t.Fatal("expected an effect-discipline error for the undeclared effect in caller()")
	}
}

func TestStopOnFirstErrorSkipsLowering(t *testing.T) {
	src := `fn broken( -> Int { return 1; }`
	opts := config.New(config.WithStopOnFirstError(true))
	result := compiler.Compile(src, "broken.ctr", opts)
	if !result.Failed() {
		t.Fatal("expected a parse error")
	}
	if result.Target != "" {
		t.Fatal("stop-on-first-error should skip lowering entirely")
	}
}

func TestCompileIsConcurrencySafe(t *testing.T) {
	src := `
fn id(x: Int) -> Int {
  return x;
}
`
	done := make(chan *compiler.Result, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- compiler.Compile(src, "id.ctr", config.Default())
		}()
	}
	for i := 0; i < 8; i++ {
		r := <-done
		if r.Failed() {
			t.Errorf("unexpected diagnostics: %v", r.Diagnostics.Diagnostics())
		}
	}
}
