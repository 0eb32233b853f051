package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// fileShape mirrors a ctrc.yaml project file. Every field is optional; an
// absent field leaves the corresponding CompileOptions field at its
// Default() value.
type fileShape struct {
	Dialect          *string `yaml:"dialect"`
	Module           *string `yaml:"module"`
	RuntimeContracts *bool   `yaml:"runtimeContracts"`
	Verify           *string `yaml:"verify"`
	SourceMap        *bool   `yaml:"sourceMap"`
	Minify           *bool   `yaml:"minify"`
	StopOnFirstError *bool   `yaml:"stopOnFirstError"`
}

// Load reads a ctrc.yaml project file at path and returns CompileOptions
// built from Default() with the file's fields overlaid. A missing file is
// not an error: callers that only want flags-or-defaults can ignore
// os.ErrNotExist from the returned error.
func Load(path string) (CompileOptions, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	var shape fileShape
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return opts, fmt.Errorf("parsing %s: %w", path, err)
	}
	if shape.Dialect != nil {
		opts.Dialect = Dialect(*shape.Dialect)
	}
	if shape.Module != nil {
		opts.Module = ModuleSystem(*shape.Module)
	}
	if shape.RuntimeContracts != nil {
		opts.RuntimeContracts = *shape.RuntimeContracts
	}
	if shape.Verify != nil {
		opts.Verify = VerifyLevel(*shape.Verify)
		if opts.Verify == VerifyTrusted && shape.RuntimeContracts == nil {
			opts.RuntimeContracts = false
		}
	}
	if shape.SourceMap != nil {
		opts.SourceMap = *shape.SourceMap
	}
	if shape.Minify != nil {
		opts.Minify = *shape.Minify
	}
	if shape.StopOnFirstError != nil {
		opts.StopOnFirstError = *shape.StopOnFirstError
	}
	return opts, nil
}
