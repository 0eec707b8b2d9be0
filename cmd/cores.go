package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/fpgagen/internal/board"
	"github.com/conneroisu/fpgagen/internal/static"
)

var coresCmd = &cobra.Command{
	Use:   "cores",
	Short: "List SchoolMIPS core variants",
	Long: `List the SchoolMIPS core variants accepted by "generate --mips" and the
source files each one adds under mips/.

Examples:
  fpgagen cores
  fpgagen cores --files`,
	Args: cobra.NoArgs,
	RunE: runCores,
}

var coresFiles bool

func init() {
	rootCmd.AddCommand(coresCmd)

	coresCmd.Flags().BoolVar(&coresFiles, "files", false, "List the source files of each variant")
}

func runCores(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	store := appEngine.Store()

	for _, variant := range board.CoreVariants {
		fmt.Fprintln(out, variant)
		if !coresFiles {
			continue
		}

		files, err := store.ListTree(static.Join(board.CoreStaticDir, string(variant)))
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	return nil
}
