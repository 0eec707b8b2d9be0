package board

import (
	"github.com/conneroisu/fpgagen/internal/defaults"
)

// setupConfig collects the selection filters of one setup call.
type setupConfig struct {
	projectName    interface{}
	hasProjectName bool
	features       map[string]bool
	functions      map[string]bool
	params         defaults.FunctionParams
	core           string
	outputDir      string
	message        string
	reset          bool
}

func newSetupConfig(opts []SetupOption) *setupConfig {
	cfg := &setupConfig{reset: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// SetupOption is one selection filter or override applied by Setup.
type SetupOption func(*setupConfig)

// WithProjectName sets the project name. A list wrapped around the name is
// unwrapped to its first element before validation.
func WithProjectName(name interface{}) SetupOption {
	return func(c *setupConfig) {
		c.projectName = name
		c.hasProjectName = true
	}
}

// WithFeatureFilter enables the feature keys whose lowercase form maps to
// true. Keys are used as given.
func WithFeatureFilter(filter map[string]bool) SetupOption {
	return func(c *setupConfig) {
		if c.features == nil {
			c.features = make(map[string]bool, len(filter))
		}
		for key, enabled := range filter {
			c.features[key] = enabled
		}
	}
}

// WithFeatures enables the named feature keys, in any case.
func WithFeatures(keys ...string) SetupOption {
	return func(c *setupConfig) {
		if c.features == nil {
			c.features = make(map[string]bool, len(keys))
		}
		for _, key := range keys {
			c.features[lower(key)] = true
		}
	}
}

// WithFunctions selects auxiliary modules by exact name.
func WithFunctions(names ...string) SetupOption {
	return func(c *setupConfig) {
		if c.functions == nil {
			c.functions = make(map[string]bool, len(names))
		}
		for _, name := range names {
			c.functions[name] = true
		}
	}
}

// WithFunctionParams merges overrides into the shared module parameters.
func WithFunctionParams(params defaults.FunctionParams) SetupOption {
	return func(c *setupConfig) {
		c.params = params
	}
}

// WithCore selects a secondary core variant. Unknown variants select none.
func WithCore(variant string) SetupOption {
	return func(c *setupConfig) {
		c.core = variant
	}
}

// WithOutputDirectory overrides the project output directory setting.
func WithOutputDirectory(dir string) SetupOption {
	return func(c *setupConfig) {
		c.outputDir = dir
	}
}

// WithMessage overrides the board message placed in the top-level module.
func WithMessage(message string) SetupOption {
	return func(c *setupConfig) {
		c.message = message
	}
}

// WithoutReset applies the filters on top of the current working copy
// instead of reloading the defaults first.
func WithoutReset() SetupOption {
	return func(c *setupConfig) {
		c.reset = false
	}
}
