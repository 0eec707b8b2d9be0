package render

import (
	"maps"
	"slices"
	"strings"

	"dario.cat/mergo"

	"github.com/conneroisu/fpgagen/internal/defaults"
	"github.com/conneroisu/fpgagen/internal/errors"
)

// ProjectContext feeds the project file template.
type ProjectContext struct {
	ProjectName string
	Meta        map[string]string
	Revisions   map[string]string
}

// SettingsContext feeds the settings file template.
type SettingsContext struct {
	ProjectName       string
	GlobalAssignments map[string]string
	UserAssignments   map[string][]string
	Functions         []string
	Core              *CoreSettingsContext
}

// CoreSettingsContext is the settings fragment of the secondary core.
type CoreSettingsContext struct {
	Variant      string
	VerilogFiles []string
}

// ConstraintsContext feeds the timing constraints template.
type ConstraintsContext struct {
	ProjectName string
	Blocks      []defaults.ConstraintBlock
	Core        bool
}

// TopContext feeds the top-level hardware description template.
type TopContext struct {
	ProjectName string
	Message     string
	Ports       []string
	Wiring      map[string][]string
	Functions   []string
}

// ModuleContext feeds an auxiliary module template.
type ModuleContext struct {
	Name string
	defaults.Values
}

func buildContext(kind Kind, in *Input, module string) (interface{}, error) {
	if in.Board == nil {
		return nil, errors.MalformedBoardDefaults(in.ProjectName, "board defaults are not loaded")
	}

	switch kind {
	case KindProject:
		return projectContext(in)
	case KindSettings:
		return settingsContext(in)
	case KindConstraints:
		return constraintsContext(in), nil
	case KindHardwareTop:
		return topContext(in)
	case KindAuxiliary:
		return &ModuleContext{Name: module, Values: in.Board.Hardware.Functions.Resolve()}, nil
	default:
		return nil, errors.MalformedBoardDefaults(string(kind), "unknown output kind")
	}
}

func projectContext(in *Input) (*ProjectContext, error) {
	version := in.Board.Project.QuartusVersion
	if version == "" {
		return nil, errors.MalformedBoardDefaults("project", "quartus_version is required")
	}

	meta := maps.Clone(in.Board.Project.Meta)
	if meta == nil {
		meta = make(map[string]string)
	}
	meta["date"] = FormatDate(in.Created, false, true)
	meta["quartus_version"] = version

	return &ProjectContext{
		ProjectName: in.ProjectName,
		Meta:        meta,
		Revisions:   map[string]string{"project_revision": in.ProjectName},
	}, nil
}

func settingsContext(in *Input) (*SettingsContext, error) {
	settings := in.Board.Settings
	if settings.Family == "" || settings.Device == "" {
		return nil, errors.MalformedBoardDefaults("settings", "family and device are required")
	}

	original := settings.OriginalQuartusVersion
	if original == "" {
		original = in.Board.Project.QuartusVersion
	}
	last := settings.LastQuartusVersion
	if last == "" {
		last = in.Board.Project.QuartusVersion
	}
	if original == "" || last == "" {
		return nil, errors.MalformedBoardDefaults("settings", "quartus version is required")
	}

	outputDir := settings.ProjectOutputDirectory
	if outputDir == "" {
		outputDir = defaults.DefaultOutputDirectory
	}

	global := maps.Clone(settings.GlobalAssignments)
	if global == nil {
		global = make(map[string]string)
	}
	maps.Copy(global, map[string]string{
		"project_creation_time_date": strings.ToUpper(FormatDate(in.Created, true, false)),
		"family":                     quote(settings.Family),
		"device":                     quote(settings.Device),
		"original_quartus_version":   quote(original),
		"last_quartus_version":       quote(last),
		"project_output_directory":   outputDir,
	})

	ctx := &SettingsContext{
		ProjectName:       in.ProjectName,
		GlobalAssignments: global,
		UserAssignments:   settings.UserAssignments,
		Functions:         slices.Clone(in.Functions),
	}

	if in.Core != nil && in.Core.Defaults != nil {
		// Board assignments win over the core fragment.
		if err := mergo.Merge(&ctx.GlobalAssignments, in.Core.Defaults.Settings.GlobalAssignments); err != nil {
			return nil, errors.MalformedBoardDefaults("core settings", err.Error())
		}
		ctx.Core = &CoreSettingsContext{Variant: in.Core.Variant}
		for _, file := range in.Core.Files {
			if strings.HasSuffix(file, ".v") || strings.HasSuffix(file, ".sv") {
				ctx.Core.VerilogFiles = append(ctx.Core.VerilogFiles, file)
			}
		}
	}

	return ctx, nil
}

func constraintsContext(in *Input) *ConstraintsContext {
	return &ConstraintsContext{
		ProjectName: in.ProjectName,
		Blocks:      in.Board.Constraints.Blocks,
		Core:        in.Core != nil,
	}
}

func topContext(in *Input) (*TopContext, error) {
	assignments := make(map[string][]string, len(in.Board.Hardware.Assignments))
	for key, lines := range in.Board.Hardware.Assignments {
		assignments[key] = slices.Clone(lines)
	}

	if in.Core != nil && in.Core.Defaults != nil {
		if err := mergo.Merge(&assignments, in.Core.Defaults.Hardware.Assignments); err != nil {
			return nil, errors.MalformedBoardDefaults("core hardware", err.Error())
		}
	}

	ctx := &TopContext{
		ProjectName: in.ProjectName,
		Message:     in.Message,
		Wiring:      make(map[string][]string),
		Functions:   slices.Clone(in.Functions),
	}

	for _, key := range slices.Sorted(maps.Keys(assignments)) {
		for _, line := range assignments[key] {
			if isPortDeclaration(line) {
				ctx.Ports = append(ctx.Ports, line)
			} else {
				ctx.Wiring[key] = append(ctx.Wiring[key], line)
			}
		}
	}

	return ctx, nil
}

func isPortDeclaration(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "input", "output", "inout":
		return true
	default:
		return false
	}
}

func quote(s string) string {
	return `"` + s + `"`
}
