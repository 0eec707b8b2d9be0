package defaults

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/fpgagen/internal/errors"
)

const boardDoc = `project:
  quartus_version: 13.1
settings:
  family: Cyclone III
  device: EP3C10E144C8
  global_assignments:
    top_level_entity: top
  user_assignments:
    Key:
      - set_location_assignment PIN_58 -to KEY0
    Clock:
      - set_location_assignment PIN_25 -to CLK100MHZ
    Led:
      - set_location_assignment PIN_43 -to LED0
constraints:
  blocks:
    - comment: Clocks
      statements:
        - create_clock -period 10 [get_ports CLK100MHZ]
hardware:
  assignments:
    Key:
      - input [1:0] KEY
    Led:
      - output [3:0] LED
  functions:
    clock_rate: 100000000
    delay: null
misc:
  message: Marsohod2 board
`

func parse(t *testing.T, text string) map[string]interface{} {
	t.Helper()
	doc := map[string]interface{}{}
	require.NoError(t, yaml.Unmarshal([]byte(text), &doc))
	return doc
}

func TestDecodeBoard(t *testing.T) {
	board, err := DecodeBoard("marsohod2.yml", parse(t, boardDoc))
	require.NoError(t, err)

	assert.Equal(t, "13.1", board.Project.QuartusVersion)
	assert.Equal(t, "13.1", board.Settings.OriginalQuartusVersion)
	assert.Equal(t, "13.1", board.Settings.LastQuartusVersion)
	assert.Equal(t, DefaultOutputDirectory, board.Settings.ProjectOutputDirectory)
	assert.Equal(t, []string{"Clock", "Key", "Led"}, board.FeatureKeys())
	require.Len(t, board.Constraints.Blocks, 1)
	assert.Equal(t, "Clocks", board.Constraints.Blocks[0].Comment)
	require.NotNil(t, board.Hardware.Functions.ClockRate)
	assert.Equal(t, int64(100000000), *board.Hardware.Functions.ClockRate)
	assert.Nil(t, board.Hardware.Functions.Delay)
	assert.Equal(t, "Marsohod2 board", board.Misc.Message)
}

func TestDecodeBoardMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing quartus version", doc: "project: {}\nsettings: {family: a, device: b}\nhardware: {}\n"},
		{name: "missing project", doc: "settings: {family: a, device: b}\nhardware: {}\n"},
		{name: "missing device", doc: "project: {quartus_version: '9.0'}\nsettings: {family: a}\nhardware: {}\n"},
		{name: "assignments not lists", doc: "project: {quartus_version: '9.0'}\nsettings: {family: a, device: b, user_assignments: {Key: 3}}\nhardware: {}\n"},
		{name: "non numeric function param", doc: "project: {quartus_version: '9.0'}\nsettings: {family: a, device: b}\nhardware: {functions: {delay: soon}}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBoard("broken.yml", parse(t, tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrMalformedBoardDefaults)
			assert.True(t, errors.IsFatal(err))
		})
	}
}

func TestDecodeCore(t *testing.T) {
	doc := parse(t, `settings:
  global_assignments:
    search_path: mips
hardware:
  assignments:
    Mips:
      - sm_top sm_top(.clkIn(CLK), .rst_n(KEY[0]));
exclude: ["**/*.md"]
payload: program.hex
`)

	core, err := DecodeCore("school_mips.yml", doc)
	require.NoError(t, err)
	assert.Equal(t, "program.hex", core.Payload)
	assert.Equal(t, []string{"**/*.md"}, core.Exclude)
	assert.Contains(t, core.Hardware.Assignments, "Mips")

	_, err = DecodeCore("school_mips.yml", parse(t, "settings: {}\nhardware: {}\n"))
	assert.ErrorIs(t, err, errors.ErrMalformedBoardDefaults)
}

func TestCloneIsDeep(t *testing.T) {
	board, err := DecodeBoard("marsohod2.yml", parse(t, boardDoc))
	require.NoError(t, err)

	clone := board.Clone()
	if diff := cmp.Diff(board, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.Settings.UserAssignments["Key"][0] = "changed"
	clone.Settings.GlobalAssignments["top_level_entity"] = "other"
	clone.Constraints.Blocks[0].Statements[0] = "changed"
	*clone.Hardware.Functions.ClockRate = 1

	assert.Equal(t, "set_location_assignment PIN_58 -to KEY0", board.Settings.UserAssignments["Key"][0])
	assert.Equal(t, "top", board.Settings.GlobalAssignments["top_level_entity"])
	assert.Equal(t, "create_clock -period 10 [get_ports CLK100MHZ]", board.Constraints.Blocks[0].Statements[0])
	assert.Equal(t, int64(100000000), *board.Hardware.Functions.ClockRate)
}

func TestFilterFeatures(t *testing.T) {
	assignments := map[string][]string{
		"Key":   {"KEY"},
		"Clock": {"CLK"},
		"Led":   {"LED"},
	}

	tests := []struct {
		name     string
		filter   map[string]bool
		expected []string
	}{
		{name: "lowercase key enables", filter: map[string]bool{"key": true}, expected: []string{"Key"}},
		{name: "false is excluded", filter: map[string]bool{"key": true, "led": false}, expected: []string{"Key"}},
		{name: "mixed case filter key does not match", filter: map[string]bool{"Key": true}, expected: []string{}},
		{name: "empty filter", filter: map[string]bool{}, expected: []string{}},
		{name: "all", filter: map[string]bool{"key": true, "clock": true, "led": true}, expected: []string{"Clock", "Key", "Led"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterFeatures(assignments, tt.filter)
			keys := make([]string, 0, len(filtered))
			for _, key := range []string{"Clock", "Key", "Led"} {
				if _, ok := filtered[key]; ok {
					keys = append(keys, key)
				}
			}
			assert.Equal(t, tt.expected, keys)
		})
	}
}
