package version

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, version, commit, built string) {
	t.Helper()
	oldVersion, oldCommit, oldBuilt := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuilt
	})
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{input: "2017-12-27T12:40:01Z", expected: time.Date(2017, 12, 27, 12, 40, 1, 0, time.UTC)},
		{input: "2017-12-27T12:40:01", expected: time.Date(2017, 12, 27, 12, 40, 1, 0, time.UTC)},
		{input: "2017-12-27 12:40:01", expected: time.Date(2017, 12, 27, 12, 40, 1, 0, time.UTC)},
		{input: "unknown"},
		{input: ""},
		{input: "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(parseISOTime(tt.input)))
		})
	}
}

func TestLdflagsVersion(t *testing.T) {
	withBuildVars(t, "v1.2.0", "0123456789abcdef", "2017-12-27T12:40:01Z")

	assert.Equal(t, "v1.2.0", GetVersion())
	assert.Equal(t, "0123456789abcdef", GetGitCommit())
	assert.Equal(t, "v1.2.0 (0123456)", GetShortVersion())
	assert.True(t, IsRelease())

	info := GetBuildInfo()
	assert.Equal(t, 2017, info.BuildTime.Year())
	assert.True(t, info.Release)
	assert.True(t, strings.HasPrefix(GetDetailedVersion(), "Version: v1.2.0\nCommit: 0123456789abcdef\nBuilt: 2017-12-27T12:40:01Z"))
}

func TestDevVersion(t *testing.T) {
	withBuildVars(t, "dev", "fedcba9876543210", "unknown")

	assert.False(t, IsRelease() && GetVersion() == "dev")
	assert.NotContains(t, GetDetailedVersion(), "Built:")
	assert.NotEmpty(t, GetShortVersion())
}
