package defaults

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Function parameter defaults.
const (
	DefaultClockRate int64 = 100000000
	DefaultDelay     int64 = 100
	DefaultWidth     int64 = 2
	DefaultOutFreq   int64 = 1000000
	DefaultBaudRate  int64 = 9600
)

// FunctionParams is the single parameter namespace shared by every selected
// auxiliary module. A nil field means "not set" and falls back to the
// default when resolved. Keys explicitly set to null are listed in Cleared
// so that merging them removes the value they override.
type FunctionParams struct {
	ClockRate *int64 `mapstructure:"clock_rate" json:"clock_rate,omitempty" yaml:"clock_rate,omitempty"`
	ClockFreq *int64 `mapstructure:"clock_freq" json:"clock_freq,omitempty" yaml:"clock_freq,omitempty"`
	Delay     *int64 `mapstructure:"delay" json:"delay,omitempty" yaml:"delay,omitempty"`
	Width     *int64 `mapstructure:"width" json:"width,omitempty" yaml:"width,omitempty"`
	OutFreq   *int64 `mapstructure:"out_freq" json:"out_freq,omitempty" yaml:"out_freq,omitempty"`
	BaudRate  *int64 `mapstructure:"baud_rate" json:"baud_rate,omitempty" yaml:"baud_rate,omitempty"`

	Cleared []string `mapstructure:"-" json:"-" yaml:"-"`
}

// ParamNames are the user-tunable parameters with their display labels.
var ParamNames = []struct {
	Key   string
	Label string
}{
	{"delay", "Delay"},
	{"width", "Input Width"},
	{"out_freq", "Output Frequency"},
	{"baud_rate", "Board Baud Rate"},
}

// Values is the fully resolved parameter set passed to module templates.
type Values struct {
	ClockRate int64
	ClockFreq int64
	Delay     int64
	Width     int64
	OutFreq   int64
	BaudRate  int64
}

// Clone copies p without sharing any pointer.
func (p FunctionParams) Clone() FunctionParams {
	return FunctionParams{
		ClockRate: clonePtr(p.ClockRate),
		ClockFreq: clonePtr(p.ClockFreq),
		Delay:     clonePtr(p.Delay),
		Width:     clonePtr(p.Width),
		OutFreq:   clonePtr(p.OutFreq),
		BaudRate:  clonePtr(p.BaudRate),
		Cleared:   slices.Clone(p.Cleared),
	}
}

// Merge overrides the fields of p that are set in overrides. Nil fields in
// overrides leave p untouched unless the key is listed in overrides.Cleared,
// in which case the field of p is cleared too.
func (p *FunctionParams) Merge(overrides FunctionParams) error {
	src := overrides.Clone()
	src.Cleared = nil
	if err := mergo.Merge(p, src, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge function params: %w", err)
	}

	for _, key := range paramKeys {
		target, _ := p.field(key)
		if *target != nil {
			p.markCleared(key, false)
		}
	}
	for _, key := range overrides.Cleared {
		target, err := p.field(key)
		if err != nil {
			return fmt.Errorf("merge function params: %w", err)
		}
		*target = nil
		p.markCleared(key, true)
	}

	return nil
}

// Resolve applies defaults to unset fields. clock_rate and clock_freq are
// aliases; whichever is set feeds both.
func (p FunctionParams) Resolve() Values {
	clock := DefaultClockRate
	switch {
	case p.ClockRate != nil && *p.ClockRate != 0:
		clock = *p.ClockRate
	case p.ClockFreq != nil && *p.ClockFreq != 0:
		clock = *p.ClockFreq
	}

	return Values{
		ClockRate: clock,
		ClockFreq: clock,
		Delay:     valueOr(p.Delay, DefaultDelay),
		Width:     valueOr(p.Width, DefaultWidth),
		OutFreq:   valueOr(p.OutFreq, DefaultOutFreq),
		BaudRate:  valueOr(p.BaudRate, DefaultBaudRate),
	}
}

// Set assigns one parameter by its key. An empty or "null" value clears it
// and records the key in Cleared.
func (p *FunctionParams) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	target, err := p.field(key)
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "null") || strings.EqualFold(value, "none") {
		*target = nil
		p.markCleared(key, true)
		return nil
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("function parameter %s: %w", key, err)
	}
	*target = &n
	p.markCleared(key, false)

	return nil
}

// ParamsFromMap builds parameters from a decoded document. Nil values are
// explicit nulls. Unknown keys are ignored.
func ParamsFromMap(doc map[string]interface{}) (FunctionParams, error) {
	var params FunctionParams

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := params.field(strings.ToLower(strings.TrimSpace(key))); err != nil {
			continue
		}
		value, err := paramString(doc[key])
		if err != nil {
			return FunctionParams{}, fmt.Errorf("function parameter %s: %w", key, err)
		}
		if err := params.Set(key, value); err != nil {
			return FunctionParams{}, err
		}
	}

	return params, nil
}

// UnmarshalJSON keeps explicit nulls as cleared keys.
func (p *FunctionParams) UnmarshalJSON(data []byte) error {
	var doc map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return err
	}

	params, err := ParamsFromMap(doc)
	if err != nil {
		return err
	}
	*p = params

	return nil
}

// UnmarshalYAML keeps explicit nulls as cleared keys.
func (p *FunctionParams) UnmarshalYAML(value *yaml.Node) error {
	var doc map[string]interface{}
	if err := value.Decode(&doc); err != nil {
		return err
	}

	params, err := ParamsFromMap(doc)
	if err != nil {
		return err
	}
	*p = params

	return nil
}

var paramKeys = []string{"clock_rate", "clock_freq", "delay", "width", "out_freq", "baud_rate"}

func (p *FunctionParams) field(key string) (**int64, error) {
	switch key {
	case "clock_rate":
		return &p.ClockRate, nil
	case "clock_freq":
		return &p.ClockFreq, nil
	case "delay":
		return &p.Delay, nil
	case "width":
		return &p.Width, nil
	case "out_freq":
		return &p.OutFreq, nil
	case "baud_rate":
		return &p.BaudRate, nil
	default:
		return nil, fmt.Errorf("unknown function parameter %q", key)
	}
}

func (p *FunctionParams) markCleared(key string, cleared bool) {
	i := slices.Index(p.Cleared, key)
	switch {
	case cleared && i < 0:
		p.Cleared = append(p.Cleared, key)
	case !cleared && i >= 0:
		p.Cleared = slices.Delete(p.Cleared, i, i+1)
		if len(p.Cleared) == 0 {
			p.Cleared = nil
		}
	}
}

func paramString(v interface{}) (string, error) {
	switch n := v.(type) {
	case nil:
		return "null", nil
	case string:
		return n, nil
	case json.Number:
		return n.String(), nil
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case int8, int16, int32, uint, uint8, uint16, uint32:
		return fmt.Sprint(n), nil
	case float64:
		if n != math.Trunc(n) {
			return "", fmt.Errorf("not an integer: %v", n)
		}
		return strconv.FormatInt(int64(n), 10), nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

func clonePtr(v *int64) *int64 {
	if v == nil {
		return nil
	}
	n := *v

	return &n
}

func valueOr(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}

	return *v
}
