package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/fpgagen/internal/defaults"
)

// SetViperBindings binds flags to viper configuration keys
func SetViperBindings(cmd *cobra.Command, bindings map[string]string) {
	for flagName, configKey := range bindings {
		flag := cmd.PersistentFlags().Lookup(flagName)
		if flag == nil {
			flag = cmd.Flags().Lookup(flagName)
		}
		if flag == nil {
			continue
		}
		_ = viper.BindPFlag(configKey, flag)
	}
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}

	return v.Value.Set(val)
}

// ValidateChoice returns a validator accepting the listed values only.
func ValidateChoice(valid []string) func(string) error {
	return func(value string) error {
		if slices.Contains(valid, value) {
			return nil
		}

		return fmt.Errorf("invalid value %q, must be one of: %s", value, strings.Join(valid, ", "))
	}
}

// paramsValue collects repeated --param key=value flags into function
// parameters.
type paramsValue struct {
	params *defaults.FunctionParams
	set    []string
}

func newParamsValue(params *defaults.FunctionParams) *paramsValue {
	return &paramsValue{params: params}
}

func (p *paramsValue) String() string {
	return strings.Join(p.set, ",")
}

// Set parses comma separated key=value pairs. An empty value clears
// everything collected so far.
func (p *paramsValue) Set(value string) error {
	if value == "" {
		p.reset()
		return nil
	}

	for _, pair := range strings.Split(value, ",") {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", pair)
		}
		if err := p.params.Set(key, val); err != nil {
			return err
		}
		p.set = append(p.set, strings.TrimSpace(pair))
	}

	return nil
}

func (p *paramsValue) Type() string {
	return "key=value"
}

// Changed reports whether any parameter was given.
func (p *paramsValue) Changed() bool {
	return len(p.set) > 0
}

func (p *paramsValue) reset() {
	*p.params = defaults.FunctionParams{}
	p.set = nil
}
