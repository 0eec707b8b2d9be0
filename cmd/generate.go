package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/fpgagen/internal/board"
	"github.com/conneroisu/fpgagen/internal/defaults"
	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/project"
	"github.com/conneroisu/fpgagen/internal/static"
)

var generateCmd = &cobra.Command{
	Use:     "generate [board]",
	Aliases: []string{"g", "gen"},
	Short:   "Generate a project for a board",
	Long: `Generate a complete project for a board and write it as a directory tree
or as a single archive.

The board may be given as an argument or by the "board" key of a request file.
Flags override the matching request keys. Feature keys are matched
case-insensitively; auxiliary module names are matched exactly.

Archive destinations infer their format from the name: .tar, .tar.gz,
.tar.bz2, .tar.xz, .zip, .zip.deflate, .zip.bzip2 and .zip.lzma. A name
without a known method gets .tar appended.

Examples:
  fpgagen generate marsohod2 -n Blinky                      # write ./Blinky
  fpgagen generate marsohod2 -f key -f led -F Seven         # select features and modules
  fpgagen generate de1soc -m pipeline -P baud_rate=115200   # add a core, tune a parameter
  fpgagen generate marsohod3 -a -p out/Blinky.tar.gz        # archive instead of dump
  fpgagen generate -r request.yml --dry-run                 # print the project as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	generateName        string
	generateFeatures    []string
	generateAllFeatures bool
	generateFunctions   []string
	generateParams      defaults.FunctionParams
	generateParamsFlag  = newParamsValue(&generateParams)
	generateMips        string
	generateRequest     string
	generateMessage     string
	generateOutputDir   string
	generateArchive     bool
	generatePath        string
	generateRewrite     bool
	generateDryRun      bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.StringVarP(&generateName, "name", "n", "", "project name")
	flags.StringSliceVarP(&generateFeatures, "feature", "f", nil, "enable a board feature key (repeatable)")
	flags.BoolVar(&generateAllFeatures, "all-features", false, "enable every feature key of the board")
	flags.StringSliceVarP(&generateFunctions, "function", "F", nil, "include an auxiliary module (repeatable)")
	flags.VarP(generateParamsFlag, "param", "P", "set a module parameter, e.g. delay=250; null restores the default (repeatable)")
	flags.StringVarP(&generateMips, "mips", "m", "", "SchoolMIPS core variant to include")
	flags.StringVarP(&generateRequest, "request", "r", "", "request file (json, yml, yaml, toml)")
	flags.StringVar(&generateMessage, "message", "", "message placed in the top-level module")
	flags.StringVar(&generateOutputDir, "output-dir", "", "Quartus project_output_directory")
	flags.BoolVarP(&generateArchive, "archive", "a", false, "archive the project instead of writing a directory")
	flags.StringVarP(&generatePath, "path", "p", "", "destination directory or archive path")
	flags.BoolVar(&generateRewrite, "rewrite", false, "replace an existing destination")
	flags.BoolVar(&generateDryRun, "dry-run", false, "print the generated project as JSON without writing it")

	variants := []string{"none"}
	for _, v := range board.CoreVariants {
		variants = append(variants, string(v))
	}
	AddFlagValidation(generateCmd, "mips", ValidateChoice(variants))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, p, err := buildProject(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case generateDryRun:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(p)
	case generateArchive:
		result, err := c.Archive(ctx, generatePath, generateRewrite)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Archived %d file(s) of %s to %s (%s)\n", result.Added, p.Name, result.Path, result.Format)
		if result.Failed() > 0 {
			return errors.FileWrite(result.Path, fmt.Errorf("%d file(s) skipped", result.Failed()))
		}
	default:
		result, err := c.Dump(ctx, generatePath, generateRewrite)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d file(s) of %s to %s\n", result.Written, p.Name, result.Path)
		if result.Failed() > 0 {
			return result.Err()
		}
	}

	return nil
}

// buildProject composes a fresh project for the request described by the
// generate flags.
func buildProject(cmd *cobra.Command, args []string) (*board.Composer, *project.Project, error) {
	ctx := cmd.Context()

	req, err := generateRequestFromFlags(cmd, args)
	if err != nil {
		return nil, nil, err
	}

	c, err := appEngine.Board(ctx, req.Board)
	if err != nil {
		return nil, nil, err
	}
	if generateAllFeatures {
		req.Conf = c.Defaults().FeatureKeys()
	}

	p, err := c.Generate(ctx, req.Options()...)
	if err != nil {
		return nil, nil, err
	}

	return c, p, nil
}

// generateRequestFromFlags loads the request file, if any, and applies the
// flags given on the command line on top of it.
func generateRequestFromFlags(cmd *cobra.Command, args []string) (*board.Request, error) {
	req := &board.Request{}
	if generateRequest != "" {
		data, err := os.ReadFile(generateRequest)
		if err != nil {
			return nil, errors.ConfigNotFound(generateRequest, err)
		}
		req, err = board.DecodeRequest(data, static.FormatOf(generateRequest))
		if err != nil {
			return nil, errors.InvalidConfig(err)
		}
	}

	if len(args) == 1 {
		req.Board = args[0]
	}
	if req.Board == "" {
		return nil, errors.UnsupportedBoard("", board.Boards())
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = generateName
	}
	if flags.Changed("feature") {
		req.Conf = generateFeatures
	}
	if flags.Changed("function") {
		req.Func = generateFunctions
	}
	if generateParamsFlag.Changed() {
		if err := req.Params.Merge(generateParams); err != nil {
			return nil, err
		}
	}
	if flags.Changed("mips") {
		req.Mips = generateMips
	}
	if flags.Changed("message") {
		req.Message = generateMessage
	}
	if flags.Changed("output-dir") {
		req.OutputDirectory = generateOutputDir
	}

	return req, nil
}
