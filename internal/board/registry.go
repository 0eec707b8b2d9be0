// Package board composes complete FPGA projects for the supported
// development boards.
package board

import (
	"slices"
	"strings"

	"github.com/conneroisu/fpgagen/internal/errors"
)

// Board is a supported board identifier.
type Board string

const (
	Marsohod2  Board = "marsohod2"
	Marsohod2B Board = "marsohod2b"
	Marsohod3  Board = "marsohod3"
	Marsohod3B Board = "marsohod3b"
	DE1SoC     Board = "de1soc"
)

// boards maps each board to the name of its static defaults file.
var boards = map[Board]string{
	Marsohod2:  "marsohod2",
	Marsohod2B: "marsohod2b",
	Marsohod3:  "marsohod3",
	Marsohod3B: "marsohod3b",
	DE1SoC:     "de1soc",
}

// Boards returns the supported board identifiers in sorted order.
func Boards() []string {
	names := make([]string, 0, len(boards))
	for b := range boards {
		names = append(names, string(b))
	}
	slices.Sort(names)

	return names
}

// LookupBoard resolves a board identifier case-insensitively.
func LookupBoard(name string) (Board, error) {
	b := Board(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := boards[b]; !ok {
		return "", errors.UnsupportedBoard(name, Boards())
	}

	return b, nil
}

// StaticName returns the static defaults file name of b.
func (b Board) StaticName() string {
	return boards[b]
}

// Function is an auxiliary module that can be added to a project.
type Function struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Functions lists the auxiliary modules in rendering order.
var Functions = []Function{
	{Name: "ButtonDebouncer", Description: "Button Debouncer: add delay between button inputs"},
	{Name: "Demultiplexer", Description: "Simple Demultiplexer"},
	{Name: "Generator", Description: "Frequency Generator: decrease internal board clock rate"},
	{Name: "Seven", Description: "7-segment indicator controller"},
	{Name: "Uart8", Description: "Simple 8-bit UART"},
}

// FunctionNames returns the auxiliary module names in rendering order.
func FunctionNames() []string {
	names := make([]string, len(Functions))
	for i, f := range Functions {
		names[i] = f.Name
	}

	return names
}

// IsFunction reports whether name is a known auxiliary module.
func IsFunction(name string) bool {
	return slices.Contains(FunctionNames(), name)
}

// CoreVariant selects the secondary instruction core.
type CoreVariant string

const (
	CoreNone        CoreVariant = ""
	CoreSimple      CoreVariant = "simple"
	CoreMMIO        CoreVariant = "mmio"
	CoreIRQ         CoreVariant = "irq"
	CorePipeline    CoreVariant = "pipeline"
	CorePipelineIRQ CoreVariant = "pipeline_irq"
	CorePipelineAHB CoreVariant = "pipeline_ahb"
)

// CoreVariants lists the selectable core variants.
var CoreVariants = []CoreVariant{CoreSimple, CoreMMIO, CoreIRQ, CorePipeline, CorePipelineIRQ, CorePipelineAHB}

const (
	// CoreStaticDir holds the core bundle and one directory per variant.
	CoreStaticDir = "school_mips"
	// CoreOutputDir is the project subdirectory of the core sources.
	CoreOutputDir = "mips"
	coreBundle    = "school_mips"
)

// ParseCoreVariant matches s against the known variants. The empty string
// and "none" select no core.
func ParseCoreVariant(s string) (CoreVariant, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return CoreNone, true
	}

	v := CoreVariant(s)
	if slices.Contains(CoreVariants, v) {
		return v, true
	}

	return CoreNone, false
}
