//go:build property
// +build property

package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("worker count lower bound", prop.ForAll(
		func(workers int) bool {
			cfg := Default()
			cfg.Engine.Workers = workers

			err := validateConfig(cfg)

			return (err == nil) == (workers >= 1)
		},
		gen.IntRange(-64, 64),
	))

	properties.Property("plain relative asset dirs are accepted", prop.ForAll(
		func(dir string) bool {
			cfg := Default()
			cfg.Engine.StaticDir = dir
			cfg.Engine.TemplateDir = dir + "/templates"

			return validateConfig(cfg) == nil
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{0,15}(/[a-z0-9_]{1,8}){0,3}$`),
	))

	properties.Property("parent traversal is rejected", prop.ForAll(
		func(depth int) bool {
			dir := "static"
			for i := 0; i < depth; i++ {
				dir = "../" + dir
			}
			cfg := Default()
			cfg.Engine.StaticDir = dir

			return validateConfig(cfg) != nil
		},
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
