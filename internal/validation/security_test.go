package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/fpgagen/internal/errors"
)

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "default name", input: "MyFpgaProject"},
		{name: "single letter", input: "a"},
		{name: "underscores and digits", input: "blink_2_leds"},
		{name: "trailing underscore", input: "top_"},
		{name: "empty", input: "", wantErr: true},
		{name: "leading digit", input: "1abc", wantErr: true},
		{name: "leading underscore", input: "_abc", wantErr: true},
		{name: "contains dash", input: "my-project", wantErr: true},
		{name: "contains space", input: "my project", wantErr: true},
		{name: "contains dot", input: "my.project", wantErr: true},
		{name: "non ascii letter", input: "проект", wantErr: true},
		{name: "trailing newline", input: "abc\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.input)
			assert.Equal(t, !tt.wantErr, ValidProjectName(tt.input))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidProjectName)
			var engineErr *errors.EngineError
			require.ErrorAs(t, err, &engineErr)
			assert.Equal(t, tt.input, engineErr.Context["project_name"])
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "relative dir", path: "static"},
		{name: "nested relative", path: "./assets/templates"},
		{name: "absolute", path: "/opt/fpgagen/static"},
		{name: "dots inside name", path: "boards..old"},
		{name: "empty", path: "", wantErr: true},
		{name: "parent traversal", path: "../../etc", wantErr: true},
		{name: "hidden traversal", path: "static/../../etc", wantErr: true},
		{name: "command substitution", path: "static$(id)", wantErr: true},
		{name: "pipe", path: "static|cat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEntryName(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		wantErr bool
	}{
		{name: "root file", entry: "LICENSE"},
		{name: "group file", entry: "functions/Seven.v"},
		{name: "nested core file", entry: "mips/simple/sm_cpu.v"},
		{name: "empty", entry: "", wantErr: true},
		{name: "absolute", entry: "/etc/passwd", wantErr: true},
		{name: "parent", entry: "../outside", wantErr: true},
		{name: "collapsing parent", entry: "mips/../../outside", wantErr: true},
		{name: "backslash", entry: `mips\..\x`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntryName(tt.entry)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFileExtension(t *testing.T) {
	allowed := []string{"yml", ".json", "TOML", "bin"}

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "yaml", filename: "marsohod2.yml"},
		{name: "json with dot allowlist", filename: "marsohod2.json"},
		{name: "upper case", filename: "DE1SOC.TOML"},
		{name: "binary", filename: "marsohod3.bin"},
		{name: "no extension", filename: "LICENSE", wantErr: true},
		{name: "not allowed", filename: "board.xml", wantErr: true},
		{name: "empty", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileExtension(tt.filename, allowed)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func BenchmarkValidateProjectName(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ValidProjectName("blink_2_leds")
	}
}

func BenchmarkValidatePath(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ValidatePath("./assets/templates/functions")
	}
}
