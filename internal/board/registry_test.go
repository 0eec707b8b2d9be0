package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/fpgagen/internal/errors"
)

func TestLookupBoard(t *testing.T) {
	tests := []struct {
		input    string
		expected Board
		wantErr  bool
	}{
		{input: "marsohod2", expected: Marsohod2},
		{input: "Marsohod3B", expected: Marsohod3B},
		{input: " DE1SOC ", expected: DE1SoC},
		{input: "", wantErr: true},
		{input: "marsohod4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := LookupBoard(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrUnsupportedBoard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b)
		})
	}
}

func TestBoardsSorted(t *testing.T) {
	assert.Equal(t, []string{"de1soc", "marsohod2", "marsohod2b", "marsohod3", "marsohod3b"}, Boards())
}

func TestParseCoreVariant(t *testing.T) {
	tests := []struct {
		input    string
		expected CoreVariant
		ok       bool
	}{
		{input: "", expected: CoreNone, ok: true},
		{input: "none", expected: CoreNone, ok: true},
		{input: "Pipeline_IRQ", expected: CorePipelineIRQ, ok: true},
		{input: "simple", expected: CoreSimple, ok: true},
		{input: "superscalar", expected: CoreNone, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, ok := ParseCoreVariant(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestFunctions(t *testing.T) {
	assert.Equal(t, []string{"ButtonDebouncer", "Demultiplexer", "Generator", "Seven", "Uart8"}, FunctionNames())
	assert.True(t, IsFunction("Seven"))
	assert.False(t, IsFunction("seven"))
}
