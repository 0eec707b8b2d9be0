package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conneroisu/fpgagen/internal/static"
	"github.com/conneroisu/fpgagen/internal/validation"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert static default files between formats",
	Long: `Re-encode board default files as yml, yaml, json, toml or bin. Each
converted file is written next to its source with the new extension.

Examples:
  fpgagen convert static/marsohod2.yml --to json
  fpgagen convert static/*.yml --to bin --rewrite`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var (
	convertTo      string
	convertRewrite bool
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertTo, "to", "t", string(static.FormatJSON), "Target format (yml, yaml, json, toml, bin)")
	convertCmd.Flags().BoolVar(&convertRewrite, "rewrite", false, "Replace existing destination files")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := static.ParseFormat(convertTo)
	if err != nil {
		return err
	}

	structured := make([]string, len(static.Extensions))
	for i, ext := range static.Extensions {
		structured[i] = string(ext)
	}

	for _, src := range args {
		if err := validation.ValidateFileExtension(src, structured); err != nil {
			return fmt.Errorf("convert %s: %w", src, err)
		}
		store := static.NewDirStore(filepath.Dir(src), appLogger)
		dst, err := store.Convert(cmd.Context(), filepath.Base(src), format, convertRewrite)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", src, filepath.Join(filepath.Dir(src), dst))
	}

	return nil
}
