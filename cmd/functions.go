package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/fpgagen/internal/board"
	"github.com/conneroisu/fpgagen/internal/defaults"
)

var functionsCmd = &cobra.Command{
	Use:     "functions",
	Aliases: []string{"funcs"},
	Short:   "List auxiliary modules and their parameters",
	Long: `List the auxiliary Verilog modules a project can include and the
parameters shared by all of them, with their defaults.

Examples:
  fpgagen functions
  fpgagen functions -o json`,
	Args: cobra.NoArgs,
	RunE: runFunctions,
}

var functionsFormat string

func init() {
	rootCmd.AddCommand(functionsCmd)

	functionsCmd.Flags().StringVarP(&functionsFormat, "output", "o", "table", "Output format (table, json, yaml)")
	AddFlagValidation(functionsCmd, "output", ValidateChoice(outputFormats))
}

type functionsInfo struct {
	Functions []board.Function `json:"functions" yaml:"functions"`
	Defaults  defaults.Values  `json:"defaults" yaml:"defaults"`
}

func runFunctions(cmd *cobra.Command, args []string) error {
	info := functionsInfo{
		Functions: board.Functions,
		Defaults:  defaults.FunctionParams{}.Resolve(),
	}

	return writeFormatted(cmd.OutOrStdout(), functionsFormat, info, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "MODULE\tDESCRIPTION")
		for _, f := range info.Functions {
			fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Description)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PARAMETER\tDEFAULT")
		fmt.Fprintf(w, "clock_rate\t%d\n", info.Defaults.ClockRate)
		fmt.Fprintf(w, "delay\t%d\n", info.Defaults.Delay)
		fmt.Fprintf(w, "width\t%d\n", info.Defaults.Width)
		fmt.Fprintf(w, "out_freq\t%d\n", info.Defaults.OutFreq)
		fmt.Fprintf(w, "baud_rate\t%d\n", info.Defaults.BaudRate)
	})
}
