package testutils

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestWriteAndReadTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"LICENSE":           "MIT",
		"functions/Seven.v": "module Seven();",
		"mips/core/alu.v":   "module alu();",
	}

	WriteTree(t, fs, "out", files)

	assert.Equal(t, files, ReadTree(t, fs, "out"))
	AssertTree(t, fs, "out", files)
	assert.Equal(t, map[string]string{"Seven.v": "module Seven();"}, ReadTree(t, fs, "out/functions"))
}
