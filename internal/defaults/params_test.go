package defaults

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestResolveDefaults(t *testing.T) {
	values := FunctionParams{}.Resolve()

	assert.Equal(t, Values{
		ClockRate: DefaultClockRate,
		ClockFreq: DefaultClockRate,
		Delay:     DefaultDelay,
		Width:     DefaultWidth,
		OutFreq:   DefaultOutFreq,
		BaudRate:  DefaultBaudRate,
	}, values)
}

func TestResolveClockAlias(t *testing.T) {
	tests := []struct {
		name     string
		params   FunctionParams
		expected int64
	}{
		{name: "clock_rate wins", params: FunctionParams{ClockRate: Int64(50), ClockFreq: Int64(25)}, expected: 50},
		{name: "clock_freq feeds both", params: FunctionParams{ClockFreq: Int64(25)}, expected: 25},
		{name: "zero clock falls back", params: FunctionParams{ClockRate: Int64(0)}, expected: DefaultClockRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := tt.params.Resolve()
			assert.Equal(t, tt.expected, values.ClockRate)
			assert.Equal(t, tt.expected, values.ClockFreq)
		})
	}
}

func TestMerge(t *testing.T) {
	base := FunctionParams{Delay: Int64(100), Width: Int64(2)}
	overrides := FunctionParams{Delay: Int64(250), BaudRate: Int64(115200), Width: nil}

	require.NoError(t, base.Merge(overrides))

	values := base.Resolve()
	assert.Equal(t, int64(250), values.Delay)
	assert.Equal(t, int64(2), values.Width)
	assert.Equal(t, int64(115200), values.BaudRate)

	*overrides.Delay = 1
	*overrides.BaudRate = 1
	assert.Equal(t, int64(250), *base.Delay)
	assert.Equal(t, int64(115200), *base.BaudRate)
}

func TestSet(t *testing.T) {
	var params FunctionParams

	require.NoError(t, params.Set("delay", "300"))
	require.NoError(t, params.Set("OUT_FREQ", " 5000 "))
	require.NoError(t, params.Set("width", "4"))
	require.NoError(t, params.Set("width", "null"))

	assert.Equal(t, int64(300), *params.Delay)
	assert.Equal(t, int64(5000), *params.OutFreq)
	assert.Nil(t, params.Width)
	assert.Equal(t, []string{"width"}, params.Cleared)

	require.NoError(t, params.Set("width", "8"))
	assert.Nil(t, params.Cleared)

	assert.Error(t, params.Set("voltage", "3"))
	assert.Error(t, params.Set("delay", "fast"))
}

func TestMergeClearsNulledKeys(t *testing.T) {
	base := FunctionParams{ClockRate: Int64(50000000), Delay: Int64(100)}

	var overrides FunctionParams
	require.NoError(t, overrides.Set("clock_rate", "null"))
	require.NoError(t, overrides.Set("delay", "250"))

	require.NoError(t, base.Merge(overrides))

	assert.Nil(t, base.ClockRate)
	assert.Equal(t, []string{"clock_rate"}, base.Cleared)

	values := base.Resolve()
	assert.Equal(t, DefaultClockRate, values.ClockRate)
	assert.Equal(t, DefaultClockRate, values.ClockFreq)
	assert.Equal(t, int64(250), values.Delay)

	require.NoError(t, base.Merge(FunctionParams{ClockRate: Int64(25)}))
	assert.Equal(t, int64(25), *base.ClockRate)
	assert.Nil(t, base.Cleared)
}

func TestParamsFromMap(t *testing.T) {
	params, err := ParamsFromMap(map[string]interface{}{
		"baud_rate": 57600,
		"delay":     nil,
		"width":     float64(4),
		"OUT_FREQ":  "2000",
		"voltage":   3,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(57600), *params.BaudRate)
	assert.Equal(t, int64(4), *params.Width)
	assert.Equal(t, int64(2000), *params.OutFreq)
	assert.Nil(t, params.Delay)
	assert.Equal(t, []string{"delay"}, params.Cleared)

	_, err = ParamsFromMap(map[string]interface{}{"width": 2.5})
	assert.Error(t, err)
}

func TestUnmarshalKeepsNulls(t *testing.T) {
	var fromJSON FunctionParams
	require.NoError(t, json.Unmarshal([]byte(`{"clock_rate": null, "baud_rate": 115200}`), &fromJSON))
	assert.Equal(t, []string{"clock_rate"}, fromJSON.Cleared)
	assert.Equal(t, int64(115200), *fromJSON.BaudRate)

	var fromYAML FunctionParams
	require.NoError(t, yaml.Unmarshal([]byte("clock_rate: null\nbaud_rate: 115200\n"), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)
}
