package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/fpgagen/internal/board"
)

var outputFormats = []string{"table", "json", "yaml"}

var boardsCmd = &cobra.Command{
	Use:     "boards",
	Aliases: []string{"ls"},
	Short:   "List supported boards",
	Long: `List the supported boards with the device and family of their defaults.

Examples:
  fpgagen boards            # table
  fpgagen boards -o json    # JSON`,
	Args: cobra.NoArgs,
	RunE: runBoards,
}

var boardCmd = &cobra.Command{
	Use:   "board <name>",
	Short: "Show the configurable parameters of a board",
	Long: `Show every parameter a generate call accepts for one board: the project
settings, the feature keys of the board, the auxiliary modules, their
parameters and the SchoolMIPS core variants.

Examples:
  fpgagen board marsohod2
  fpgagen board de1soc -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBoard,
}

var (
	boardsFormat string
	boardFormat  string
)

func init() {
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(boardCmd)

	boardsCmd.Flags().StringVarP(&boardsFormat, "output", "o", "table", "Output format (table, json, yaml)")
	boardCmd.Flags().StringVarP(&boardFormat, "output", "o", "table", "Output format (table, json, yaml)")
	AddFlagValidation(boardsCmd, "output", ValidateChoice(outputFormats))
	AddFlagValidation(boardCmd, "output", ValidateChoice(outputFormats))
}

type boardInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Family   string   `json:"family" yaml:"family"`
	Device   string   `json:"device" yaml:"device"`
	Features []string `json:"features" yaml:"features"`
}

func runBoards(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	infos := make([]boardInfo, 0, len(board.Boards()))
	for _, name := range board.Boards() {
		c, err := appEngine.Board(ctx, name)
		if err != nil {
			return err
		}
		d := c.Defaults()
		infos = append(infos, boardInfo{
			Name:     name,
			Family:   d.Settings.Family,
			Device:   d.Settings.Device,
			Features: d.FeatureKeys(),
		})
	}

	return writeFormatted(cmd.OutOrStdout(), boardsFormat, infos, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "BOARD\tFAMILY\tDEVICE\tFEATURES")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Family, info.Device, strings.Join(info.Features, ", "))
		}
	})
}

func runBoard(cmd *cobra.Command, args []string) error {
	c, err := appEngine.Board(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	params := c.Params()

	return writeFormatted(cmd.OutOrStdout(), boardFormat, params, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "KEY\tKIND\tLABEL")
		for _, p := range params {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Key, p.Kind, p.Label)
			for _, item := range p.Items {
				fmt.Fprintf(w, "  %s\t\t%s\n", item.Key, item.Label)
			}
		}
	})
}

// writeFormatted encodes v as JSON or YAML, or calls table for the table
// format.
func writeFormatted(out io.Writer, format string, v interface{}, table func(w *tabwriter.Writer)) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(v)
	case "table", "":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(outputFormats, ", "))
	}
}
