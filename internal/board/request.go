package board

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/fpgagen/internal/defaults"
	"github.com/conneroisu/fpgagen/internal/project"
	"github.com/conneroisu/fpgagen/internal/static"
)

// Request is a complete generation request as sent by a caller: a board,
// a project name and the selection filters as lists of names.
type Request struct {
	Board string `json:"board" yaml:"board" mapstructure:"board"`
	// Name may arrive wrapped in a list and is unwrapped by Setup.
	Name   interface{}             `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Mips   string                  `json:"mips,omitempty" yaml:"mips,omitempty" mapstructure:"mips"`
	Conf   []string                `json:"conf,omitempty" yaml:"conf,omitempty" mapstructure:"conf"`
	Func   []string                `json:"func,omitempty" yaml:"func,omitempty" mapstructure:"func"`
	Params defaults.FunctionParams `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	// Message and OutputDirectory override the board settings when set.
	Message         string `json:"message,omitempty" yaml:"message,omitempty" mapstructure:"message"`
	OutputDirectory string `json:"project_output_directory,omitempty" yaml:"project_output_directory,omitempty" mapstructure:"project_output_directory"`
}

// DecodeRequest parses a request document in the given static format.
func DecodeRequest(data []byte, format static.Format) (*Request, error) {
	req := &Request{}

	switch format {
	case static.FormatYML, static.FormatYAML:
		if err := yaml.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
	case static.FormatJSON:
		if err := json.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
	default:
		doc, err := static.Unmarshal(data, format)
		if err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		config := &mapstructure.DecoderConfig{
			Result:           req,
			WeaklyTypedInput: true,
			DecodeHook:       functionParamsHook,
		}
		decoder, err := mapstructure.NewDecoder(config)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(doc); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
	}

	return req, nil
}

// Options converts the request into setup options.
func (r *Request) Options() []SetupOption {
	opts := []SetupOption{
		WithFeatures(r.Conf...),
		WithFunctions(r.Func...),
		WithFunctionParams(r.Params),
		WithCore(r.Mips),
	}
	if r.Name != nil {
		opts = append(opts, WithProjectName(r.Name))
	}
	if r.Message != "" {
		opts = append(opts, WithMessage(r.Message))
	}
	if r.OutputDirectory != "" {
		opts = append(opts, WithOutputDirectory(r.OutputDirectory))
	}

	return opts
}

// Generate runs a request end to end and returns the composer holding the
// generated project.
func (e *Engine) Generate(ctx context.Context, req *Request) (*Composer, *project.Project, error) {
	c, err := e.Board(ctx, req.Board)
	if err != nil {
		return nil, nil, err
	}

	p, err := c.Generate(ctx, req.Options()...)
	if err != nil {
		return nil, nil, err
	}

	return c, p, nil
}

// functionParamsHook decodes parameter maps with ParamsFromMap so explicit
// nulls survive decoding.
func functionParamsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(defaults.FunctionParams{}) {
		return data, nil
	}
	doc, ok := data.(map[string]interface{})
	if !ok {
		return data, nil
	}

	return defaults.ParamsFromMap(doc)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
