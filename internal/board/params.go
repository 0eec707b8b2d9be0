package board

import (
	"slices"

	"github.com/conneroisu/fpgagen/internal/defaults"
)

// ParamKind is the value type of a configurable parameter.
type ParamKind string

const (
	ParamString ParamKind = "string"
	ParamBool   ParamKind = "bool"
	ParamInt    ParamKind = "int"
)

// Param describes one configurable parameter of a board. Items holds the
// selectable keys with their labels when the parameter is a set.
type Param struct {
	Key   string    `json:"key" yaml:"key"`
	Label string    `json:"label" yaml:"label"`
	Kind  ParamKind `json:"kind" yaml:"kind"`
	Items []Item    `json:"items,omitempty" yaml:"items,omitempty"`
}

// Item is a selectable key of a set parameter.
type Item struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Params returns the parameter catalog of the loaded board.
func (c *Composer) Params() []Param {
	var features []Item
	if c.defaults != nil {
		keys := make([]string, 0, len(c.defaults.Settings.UserAssignments))
		for key := range c.defaults.Settings.UserAssignments {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			features = append(features, Item{Key: key, Label: key})
		}
	}

	functions := make([]Item, len(Functions))
	for i, f := range Functions {
		functions[i] = Item{Key: f.Name, Label: f.Description}
	}

	conf := make([]Item, len(defaults.ParamNames))
	for i, p := range defaults.ParamNames {
		conf[i] = Item{Key: p.Key, Label: p.Label}
	}

	cores := make([]Item, len(CoreVariants))
	for i, v := range CoreVariants {
		cores[i] = Item{Key: string(v), Label: string(v)}
	}

	return []Param{
		{Key: "project_name", Label: "Project Name", Kind: ParamString},
		{Key: "project_output_directory", Label: "Project Output Dir", Kind: ParamString},
		{Key: "message", Label: "Additional Message", Kind: ParamString},
		{Key: "flt", Label: "Features", Kind: ParamBool, Items: features},
		{Key: "func", Label: "Functions", Kind: ParamBool, Items: functions},
		{Key: "conf", Label: "Function Parameters", Kind: ParamInt, Items: conf},
		{Key: "mips", Label: "SchoolMIPS Core", Kind: ParamString, Items: cores},
	}
}
