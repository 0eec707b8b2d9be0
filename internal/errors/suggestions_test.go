package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestUnsupportedBoard(t *testing.T) {
	ctx := &SuggestionContext{Boards: []string{"de1soc", "marsohod2", "marsohod3"}}

	suggestions := Suggest(fmt.Errorf("lookup: %w", UnsupportedBoard("Marsohod", ctx.Boards)), ctx)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "fpgagen boards", suggestions[0].Command)
	assert.Equal(t, "Did you mean 'marsohod2'?", suggestions[1].Title)

	suggestions = Suggest(UnsupportedBoard("nexys4", ctx.Boards), ctx)
	assert.Len(t, suggestions, 1)
}

func TestSuggestByCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "invalid name", err: InvalidProjectName("1x"), expected: 1},
		{name: "destination exists", err: DestinationExists("out/p"), expected: 1},
		{name: "unsupported archive", err: UnsupportedArchive("p.rar", "rar"), expected: 1},
		{name: "config not found with path", err: ConfigNotFound("marsohod2", nil), expected: 2},
		{name: "render failure has none", err: RenderFailed(1, errors.New("boom")), expected: 0},
		{name: "plain error has none", err: errors.New("boom"), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Suggest(tt.err, &SuggestionContext{ConfigPath: ".fpgagen.yml"}), tt.expected)
		})
	}
}

func TestFormatSuggestions(t *testing.T) {
	assert.Equal(t, "title", FormatSuggestions("title", nil))

	formatted := FormatSuggestions("Error: boom", []ErrorSuggestion{
		{Title: "First", Command: "fpgagen boards"},
		{Title: "Second", Description: "why", Example: "x"},
	})
	assert.Equal(t, "Error: boom\n\nSuggestions:\n"+
		"  1. First\n     Run: fpgagen boards\n"+
		"  2. Second\n     why\n     Example: x\n", formatted)
}
