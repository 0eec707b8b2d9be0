// Package config provides configuration management for fpgagen using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration system supports a .fpgagen.yml file, environment variable
// overrides with the FPGAGEN_ prefix, defaults applied after unmarshalling,
// and validation of directories and log settings.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/fpgagen/internal/logging"
	"github.com/conneroisu/fpgagen/internal/validation"
)

// Defaults applied when a key is unset.
const (
	DefaultLicense     = "LICENSE"
	DefaultOutputDir   = "."
	DefaultWorkers     = 4
	DefaultEncoding    = "utf-8"
	DefaultProjectName = "MyFpgaProject"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
)

// EnvPrefix prefixes every environment override, e.g. FPGAGEN_ENGINE_WORKERS.
const EnvPrefix = "FPGAGEN"

// EnvKeyReplacer maps nested config keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

type Config struct {
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

type EngineConfig struct {
	// StaticDir and TemplateDir override the embedded assets when set.
	StaticDir          string `mapstructure:"static_dir" yaml:"static_dir"`
	TemplateDir        string `mapstructure:"template_dir" yaml:"template_dir"`
	License            string `mapstructure:"license" yaml:"license"`
	OutputDir          string `mapstructure:"output_dir" yaml:"output_dir"`
	Workers            int    `mapstructure:"workers" yaml:"workers"`
	Encoding           string `mapstructure:"encoding" yaml:"encoding"`
	DefaultProjectName string `mapstructure:"default_project_name" yaml:"default_project_name"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration held by the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config, v)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	config := &Config{}
	applyDefaults(config, viper.New())

	return config
}

func applyDefaults(config *Config, v *viper.Viper) {
	if config.Engine.License == "" {
		config.Engine.License = DefaultLicense
	}
	if config.Engine.OutputDir == "" {
		config.Engine.OutputDir = DefaultOutputDir
	}
	// An explicit zero is kept so validation can reject it.
	if !v.IsSet("engine.workers") && config.Engine.Workers == 0 {
		config.Engine.Workers = DefaultWorkers
	}
	if config.Engine.Encoding == "" {
		config.Engine.Encoding = DefaultEncoding
	}
	if config.Engine.DefaultProjectName == "" {
		config.Engine.DefaultProjectName = DefaultProjectName
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateEngineConfig(&config.Engine); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validateEngineConfig(config *EngineConfig) error {
	if config.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", config.Workers)
	}

	for key, dir := range map[string]string{
		"static_dir":   config.StaticDir,
		"template_dir": config.TemplateDir,
	} {
		if dir == "" {
			continue
		}
		if err := validation.ValidatePath(dir); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", key, dir, err)
		}
	}

	if err := validation.ValidatePath(config.OutputDir); err != nil {
		return fmt.Errorf("invalid output_dir '%s': %w", config.OutputDir, err)
	}

	if err := validation.ValidateProjectName(config.DefaultProjectName); err != nil {
		return fmt.Errorf("default_project_name: %w", err)
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return err
	}

	switch strings.ToLower(config.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("unknown log format %q (json|console)", config.Format)
	}
}

// LoggerConfig converts the log section into a logging.LoggerConfig.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	level, _ := logging.ParseLevel(c.Log.Level)
	loggerConfig := logging.DefaultConfig()
	loggerConfig.Level = level
	loggerConfig.Format = strings.ToLower(c.Log.Format)

	return loggerConfig
}

// Embedded reports whether the engine reads its assets from the binary.
func (c *EngineConfig) Embedded() bool {
	return c.StaticDir == "" && c.TemplateDir == ""
}
