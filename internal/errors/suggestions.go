package errors

import (
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext lists the names a caller may choose from.
type SuggestionContext struct {
	Boards     []string
	ConfigPath string
}

// Suggest returns fix suggestions for the engine error in err's tree, or
// nil when there is nothing useful to say.
func Suggest(err error, ctx *SuggestionContext) []ErrorSuggestion {
	var ee *EngineError
	if !As(err, &ee) {
		return nil
	}
	if ctx == nil {
		ctx = &SuggestionContext{}
	}

	switch ee.Code {
	case ErrCodeUnsupportedBoard:
		name, _ := ee.Context["board"].(string)
		return unsupportedBoardSuggestions(name, ctx)
	case ErrCodeInvalidProjectName:
		return []ErrorSuggestion{{
			Title:       "Use an identifier as the project name",
			Description: "Names start with a letter followed by letters, digits or underscores",
			Example:     "fpgagen generate marsohod2 -n Blinky_2",
		}}
	case ErrCodeDestinationExists:
		return []ErrorSuggestion{{
			Title:       "Replace the existing destination",
			Description: "The previous project is removed before the new one is written",
			Command:     "fpgagen generate <board> --rewrite",
		}}
	case ErrCodeUnsupportedArchive:
		return []ErrorSuggestion{{
			Title:       "Use a supported archive name",
			Description: "tar accepts gz, bz2 and xz; zip accepts deflate, bzip2 and lzma",
			Example:     "project.tar.gz, project.zip.lzma",
		}}
	case ErrCodeConfigNotFound, ErrCodeInvalidConfig:
		suggestions := []ErrorSuggestion{{
			Title:       "Check the asset directories",
			Description: "Unset engine.static_dir and engine.template_dir to use the embedded defaults",
		}}
		if ctx.ConfigPath != "" {
			suggestions = append(suggestions, ErrorSuggestion{
				Title:   "Review the configuration file",
				Command: "cat " + ctx.ConfigPath,
			})
		}
		return suggestions
	}

	return nil
}

func unsupportedBoardSuggestions(name string, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{{
		Title:   "List supported boards",
		Command: "fpgagen boards",
	}}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return suggestions
	}
	for _, board := range ctx.Boards {
		if strings.Contains(board, needle) || strings.Contains(needle, board) {
			suggestions = append(suggestions, ErrorSuggestion{
				Title:       "Did you mean '" + board + "'?",
				Description: "Similar board found",
				Command:     "fpgagen board " + board,
			})
			break
		}
	}

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
	}

	return output.String()
}
