// Package defaults holds the typed form of board and auxiliary core default
// documents. Loaded documents are validated against a JSON schema and then
// decoded with mapstructure; values handed to callers are deep copies.
package defaults

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/conneroisu/fpgagen/internal/errors"
)

// DefaultOutputDirectory is used when settings.project_output_directory is unset.
const DefaultOutputDirectory = "output_files"

// BoardDefaults is the source of truth loaded for one board.
type BoardDefaults struct {
	Project     ProjectSection     `mapstructure:"project" json:"project"`
	Settings    SettingsSection    `mapstructure:"settings" json:"settings"`
	Constraints ConstraintsSection `mapstructure:"constraints" json:"constraints"`
	Hardware    HardwareSection    `mapstructure:"hardware" json:"hardware"`
	Misc        MiscSection        `mapstructure:"misc" json:"misc"`
}

type ProjectSection struct {
	QuartusVersion string            `mapstructure:"quartus_version" json:"quartus_version"`
	Meta           map[string]string `mapstructure:"meta" json:"meta,omitempty"`
}

type SettingsSection struct {
	Family                 string `mapstructure:"family" json:"family"`
	Device                 string `mapstructure:"device" json:"device"`
	OriginalQuartusVersion string `mapstructure:"original_quartus_version" json:"original_quartus_version,omitempty"`
	LastQuartusVersion     string `mapstructure:"last_quartus_version" json:"last_quartus_version,omitempty"`
	ProjectOutputDirectory string `mapstructure:"project_output_directory" json:"project_output_directory,omitempty"`
	// GlobalAssignments are always emitted.
	GlobalAssignments map[string]string `mapstructure:"global_assignments" json:"global_assignments"`
	// UserAssignments maps a feature key to its assignment lines.
	UserAssignments map[string][]string `mapstructure:"user_assignments" json:"user_assignments"`
}

type ConstraintsSection struct {
	Blocks []ConstraintBlock `mapstructure:"blocks" json:"blocks"`
}

// ConstraintBlock is a commented group of timing constraint statements.
type ConstraintBlock struct {
	Comment    string   `mapstructure:"comment" json:"comment"`
	Statements []string `mapstructure:"statements" json:"statements"`
}

type HardwareSection struct {
	// Assignments maps a feature key to its wiring and port declarations.
	Assignments map[string][]string `mapstructure:"assignments" json:"assignments"`
	Functions   FunctionParams      `mapstructure:"functions" json:"functions"`
}

type MiscSection struct {
	Message string `mapstructure:"message" json:"message"`
}

// CoreDefaults is the optional secondary core bundle.
type CoreDefaults struct {
	Settings CoreSettings `mapstructure:"settings" json:"settings"`
	Hardware CoreHardware `mapstructure:"hardware" json:"hardware"`
	// Exclude lists doublestar patterns of variant files left out of the
	// generated source tree.
	Exclude []string `mapstructure:"exclude" json:"exclude,omitempty"`
	// Payload is the shared program image copied next to every variant.
	Payload string `mapstructure:"payload" json:"payload"`
}

type CoreSettings struct {
	GlobalAssignments map[string]string `mapstructure:"global_assignments" json:"global_assignments"`
	// SourceFiles is filled at generate time from the variant directory.
	SourceFiles []string `mapstructure:"-" json:"source_files,omitempty"`
}

type CoreHardware struct {
	Assignments map[string][]string `mapstructure:"assignments" json:"assignments"`
}

// DecodeBoard validates doc and decodes it into BoardDefaults. Derived fields
// are filled in: both Quartus version settings default to the project
// version and the output directory defaults to DefaultOutputDirectory.
func DecodeBoard(source string, doc map[string]interface{}) (*BoardDefaults, error) {
	if err := validate(source, boardSchema, doc); err != nil {
		return nil, err
	}

	board := &BoardDefaults{}
	if err := decode(doc, board); err != nil {
		return nil, errors.MalformedBoardDefaults(source, err.Error())
	}

	if board.Settings.OriginalQuartusVersion == "" {
		board.Settings.OriginalQuartusVersion = board.Project.QuartusVersion
	}
	if board.Settings.LastQuartusVersion == "" {
		board.Settings.LastQuartusVersion = board.Project.QuartusVersion
	}
	if board.Settings.ProjectOutputDirectory == "" {
		board.Settings.ProjectOutputDirectory = DefaultOutputDirectory
	}
	if board.Settings.GlobalAssignments == nil {
		board.Settings.GlobalAssignments = map[string]string{}
	}
	if board.Settings.UserAssignments == nil {
		board.Settings.UserAssignments = map[string][]string{}
	}
	if board.Hardware.Assignments == nil {
		board.Hardware.Assignments = map[string][]string{}
	}

	return board, nil
}

// DecodeCore validates doc and decodes it into CoreDefaults.
func DecodeCore(source string, doc map[string]interface{}) (*CoreDefaults, error) {
	if err := validate(source, coreSchema, doc); err != nil {
		return nil, err
	}

	core := &CoreDefaults{}
	if err := decode(doc, core); err != nil {
		return nil, errors.MalformedBoardDefaults(source, err.Error())
	}

	return core, nil
}

func decode(input interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("decoder: %w", err)
	}

	return decoder.Decode(input)
}

// FeatureKeys returns the user assignment feature keys in sorted order.
func (b *BoardDefaults) FeatureKeys() []string {
	return slices.Sorted(maps.Keys(b.Settings.UserAssignments))
}

// Clone returns a deep copy of b.
func (b *BoardDefaults) Clone() *BoardDefaults {
	if b == nil {
		return nil
	}

	out := *b
	out.Project.Meta = maps.Clone(b.Project.Meta)
	out.Settings.GlobalAssignments = maps.Clone(b.Settings.GlobalAssignments)
	out.Settings.UserAssignments = cloneLines(b.Settings.UserAssignments)
	out.Constraints.Blocks = slices.Clone(b.Constraints.Blocks)
	for i := range out.Constraints.Blocks {
		out.Constraints.Blocks[i].Statements = slices.Clone(b.Constraints.Blocks[i].Statements)
	}
	out.Hardware.Assignments = cloneLines(b.Hardware.Assignments)
	out.Hardware.Functions = b.Hardware.Functions.Clone()

	return &out
}

// Clone returns a deep copy of c.
func (c *CoreDefaults) Clone() *CoreDefaults {
	if c == nil {
		return nil
	}

	out := *c
	out.Settings.GlobalAssignments = maps.Clone(c.Settings.GlobalAssignments)
	out.Settings.SourceFiles = slices.Clone(c.Settings.SourceFiles)
	out.Hardware.Assignments = cloneLines(c.Hardware.Assignments)
	out.Exclude = slices.Clone(c.Exclude)

	return &out
}

// FilterFeatures keeps the keys whose lowercase form is true in filter.
func FilterFeatures(assignments map[string][]string, filter map[string]bool) map[string][]string {
	out := make(map[string][]string, len(assignments))
	for key, lines := range assignments {
		if filter[strings.ToLower(key)] {
			out[key] = slices.Clone(lines)
		}
	}

	return out
}

func cloneLines(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for key, lines := range in {
		out[key] = slices.Clone(lines)
	}

	return out
}
