package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/ctrc/internal/config"
)

func TestDefaults(t *testing.T) {
	opts := config.Default()
	if opts.Dialect != config.JavaScript {
		t.Errorf("default dialect = %q, want javascript", opts.Dialect)
	}
	if opts.Module != config.ESM {
		t.Errorf("default module system = %q, want esm", opts.Module)
	}
	if !opts.RuntimeContracts {
		t.Error("runtime contracts should default to on")
	}
	if opts.Verify != config.VerifyRuntime {
		t.Errorf("default verify level = %q, want runtime", opts.Verify)
	}
	if opts.SourceMap || opts.Minify || opts.StopOnFirstError {
		t.Error("sourceMap, minify and stopOnFirstError should default to off")
	}
}

func TestFunctionalOptions(t *testing.T) {
	opts := config.New(
		config.WithTargetDialect(config.TypeScript),
		config.WithModuleSystem(config.CommonJS),
		config.WithStopOnFirstError(true),
	)
	if opts.Dialect != config.TypeScript || opts.Module != config.CommonJS || !opts.StopOnFirstError {
		t.Errorf("options not applied: %+v", opts)
	}
}

func TestTrustedVerifyDisablesContracts(t *testing.T) {
	opts := config.New(config.WithVerifyLevel(config.VerifyTrusted))
	if opts.RuntimeContracts {
		t.Error("the trusted verify level should suppress runtime contracts")
	}
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctrc.yaml")
	content := []byte("dialect: typescript\nmodule: commonjs\nruntimeContracts: false\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Dialect != config.TypeScript {
		t.Errorf("dialect = %q, want typescript", opts.Dialect)
	}
	if opts.Module != config.CommonJS {
		t.Errorf("module = %q, want commonjs", opts.Module)
	}
	if opts.RuntimeContracts {
		t.Error("runtimeContracts: false should disable contracts")
	}
	// Fields absent from the file keep their defaults.
	if opts.Verify != config.VerifyRuntime {
		t.Errorf("verify = %q, want the runtime default", opts.Verify)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
	if opts != config.Default() {
		t.Errorf("a missing file should yield defaults, got %+v", opts)
	}
}
