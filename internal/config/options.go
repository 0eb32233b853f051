// Package config defines the compile-time options consumed by the core
// pipeline and the functional-option constructors used to build them.
package config

// Dialect selects the target host-language surface.
type Dialect string

const (
	JavaScript Dialect = "javascript"
	TypeScript Dialect = "typescript"
)

// ModuleSystem selects the shape of emitted imports/exports.
type ModuleSystem string

const (
	ESM      ModuleSystem = "esm"
	CommonJS ModuleSystem = "commonjs"
)

// VerifyLevel controls whether and how runtime guards are emitted.
type VerifyLevel string

const (
	VerifyFull    VerifyLevel = "full"
	VerifyRuntime VerifyLevel = "runtime"
	VerifyTrusted VerifyLevel = "trusted" // suppresses guard emission
)

// CompileOptions is the full set of switches the pipeline consumes.
type CompileOptions struct {
	Dialect          Dialect
	Module           ModuleSystem
	RuntimeContracts bool
	Verify           VerifyLevel
	SourceMap        bool
	Minify           bool
	StopOnFirstError bool
}

// Default returns the table's documented defaults: javascript, esm, runtime
// contracts on, verify level runtime, source map off, minify off,
// stop-on-first-error off.
func Default() CompileOptions {
	return CompileOptions{
		Dialect:          JavaScript,
		Module:           ESM,
		RuntimeContracts: true,
		Verify:           VerifyRuntime,
		SourceMap:        false,
		Minify:           false,
		StopOnFirstError: false,
	}
}

// Option configures a CompileOptions value.
type Option func(*CompileOptions)

func WithTargetDialect(d Dialect) Option {
	return func(o *CompileOptions) { o.Dialect = d }
}

func WithModuleSystem(m ModuleSystem) Option {
	return func(o *CompileOptions) { o.Module = m }
}

func WithRuntimeContracts(on bool) Option {
	return func(o *CompileOptions) { o.RuntimeContracts = on }
}

func WithVerifyLevel(v VerifyLevel) Option {
	return func(o *CompileOptions) {
		o.Verify = v
		if v == VerifyTrusted {
			o.RuntimeContracts = false
		}
	}
}

func WithSourceMap(on bool) Option {
	return func(o *CompileOptions) { o.SourceMap = on }
}

func WithMinify(on bool) Option {
	return func(o *CompileOptions) { o.Minify = on }
}

func WithStopOnFirstError(on bool) Option {
	return func(o *CompileOptions) { o.StopOnFirstError = on }
}

// New builds a CompileOptions starting from Default and applying opts in
// order.
func New(opts ...Option) CompileOptions {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
