package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/fpgagen/internal/static"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		format  static.Format
		data    string
		cleared []string
	}{
		{
			name:   "json",
			format: static.FormatJSON,
			data:   `{"board": "marsohod2", "name": ["Requested"], "mips": "simple", "conf": ["Clock", "key"], "func": ["Uart8"], "params": {"baud_rate": 115200, "delay": null}}`,
			cleared: []string{"delay"},
		},
		{
			name:   "yaml",
			format: static.FormatYML,
			data:   "board: marsohod2\nname: [Requested]\nmips: simple\nconf: [Clock, key]\nfunc: [Uart8]\nparams:\n  baud_rate: 115200\n  delay: null\n",
			cleared: []string{"delay"},
		},
		{
			name:   "toml",
			format: static.FormatTOML,
			data:   "board = \"marsohod2\"\nname = [\"Requested\"]\nmips = \"simple\"\nconf = [\"Clock\", \"key\"]\nfunc = [\"Uart8\"]\n[params]\nbaud_rate = 115200\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.data), tt.format)
			require.NoError(t, err)

			assert.Equal(t, "marsohod2", req.Board)
			assert.Equal(t, "simple", req.Mips)
			assert.Equal(t, []string{"Clock", "key"}, req.Conf)
			assert.Equal(t, []string{"Uart8"}, req.Func)
			require.NotNil(t, req.Params.BaudRate)
			assert.Equal(t, int64(115200), *req.Params.BaudRate)
			assert.Nil(t, req.Params.Delay)
			assert.Equal(t, tt.cleared, req.Params.Cleared)
		})
	}
}

func TestEngineGenerateRequest(t *testing.T) {
	e, _ := newTestEngine(t)
	req, err := DecodeRequest([]byte(`{"board": "MARSOHOD2", "name": ["Requested"], "mips": "simple", "conf": ["Clock", "key"], "func": ["Uart8"], "params": {"baud_rate": 115200}}`), static.FormatJSON)
	require.NoError(t, err)

	c, p, err := e.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Requested", p.Name)
	assert.Equal(t, CoreSimple, c.Core())
	uart, ok := p.Files.Get("functions/Uart8.v")
	require.True(t, ok)
	assert.Contains(t, uart, "115200")

	settings, _ := p.Files.Get("Requested.qsf")
	assert.Contains(t, settings, "-to CLK100MHZ")
	assert.Contains(t, settings, "-to KEY[0]")
	assert.NotContains(t, settings, "-to LED[0]")
}

func TestRequestNullParamRestoresDefault(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, format := range []static.Format{static.FormatJSON, static.FormatYML} {
		t.Run(string(format), func(t *testing.T) {
			data := `{"board": "de1soc", "name": "Nulled", "func": ["Generator"], "params": {"clock_rate": null}}`
			req, err := DecodeRequest([]byte(data), format)
			require.NoError(t, err)

			_, p, err := e.Generate(context.Background(), req)
			require.NoError(t, err)

			generator, ok := p.Files.Get("functions/Generator.v")
			require.True(t, ok)
			assert.Contains(t, generator, "parameter CLOCK_FREQ = 100000000")
			assert.NotContains(t, generator, "50000000")
		})
	}
}

func TestEngineGenerateUnknownBoard(t *testing.T) {
	e, _ := newTestEngine(t)

	_, _, err := e.Generate(context.Background(), &Request{Board: "zedboard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marsohod2")
}
