package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/fpgagen/internal/logging"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, config *Config)
	}{
		{
			name:  "defaults",
			setup: func() { viper.Reset() },
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, DefaultWorkers, config.Engine.Workers)
				assert.Equal(t, DefaultLicense, config.Engine.License)
				assert.Equal(t, DefaultOutputDir, config.Engine.OutputDir)
				assert.Equal(t, DefaultEncoding, config.Engine.Encoding)
				assert.Equal(t, DefaultProjectName, config.Engine.DefaultProjectName)
				assert.Equal(t, "info", config.Log.Level)
				assert.True(t, config.Engine.Embedded())
			},
		},
		{
			name: "custom engine settings",
			setup: func() {
				viper.Reset()
				viper.Set("engine.static_dir", "./static")
				viper.Set("engine.workers", 8)
				viper.Set("engine.default_project_name", "Blink")
				viper.Set("log.level", "debug")
				viper.Set("log.format", "json")
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, "./static", config.Engine.StaticDir)
				assert.Equal(t, 8, config.Engine.Workers)
				assert.Equal(t, "Blink", config.Engine.DefaultProjectName)
				assert.False(t, config.Engine.Embedded())

				loggerConfig := config.LoggerConfig()
				assert.Equal(t, logging.LevelDebug, loggerConfig.Level)
				assert.Equal(t, "json", loggerConfig.Format)
			},
		},
		{
			name: "explicit zero workers",
			setup: func() {
				viper.Reset()
				viper.Set("engine.workers", 0)
			},
			expectError: true,
		},
		{
			name: "traversal in template dir",
			setup: func() {
				viper.Reset()
				viper.Set("engine.template_dir", "../../templates")
			},
			expectError: true,
		},
		{
			name: "invalid default project name",
			setup: func() {
				viper.Reset()
				viper.Set("engine.default_project_name", "my-project")
			},
			expectError: true,
		},
		{
			name: "unknown log level",
			setup: func() {
				viper.Reset()
				viper.Set("log.level", "chatty")
			},
			expectError: true,
		},
		{
			name: "unknown log format",
			setup: func() {
				viper.Reset()
				viper.Set("log.format", "xml")
			},
			expectError: true,
		},
		{
			name: "invalid viper config",
			setup: func() {
				viper.Reset()
				viper.Set("engine.workers", "many")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			config, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, config)
			tt.check(t, config)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fpgagen.yml")
	content := `engine:
  template_dir: templates
  workers: 2
  license: COPYING
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	config, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "templates", config.Engine.TemplateDir)
	assert.Equal(t, 2, config.Engine.Workers)
	assert.Equal(t, "COPYING", config.Engine.License)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FPGAGEN_ENGINE_WORKERS", "3")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()
	v.SetDefault("engine.workers", DefaultWorkers)

	config, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Engine.Workers)
}

func TestDefault(t *testing.T) {
	config := Default()

	assert.NoError(t, validateConfig(config))
	assert.Equal(t, DefaultWorkers, config.Engine.Workers)
}
