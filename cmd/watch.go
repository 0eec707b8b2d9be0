package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch [board]",
	Aliases: []string{"w"},
	Short:   "Regenerate a project whenever its defaults or templates change",
	Long: `Watch the on-disk static and template directories and regenerate the
project from scratch after every change. The destination is always
rewritten. Watching requires --static-dir or --template-dir (or the matching
config keys); the embedded assets never change.

Generation flags are the same as for "generate".

Examples:
  fpgagen watch marsohod2 --template-dir ./templates -n Blinky
  fpgagen watch -r request.yml --static-dir ./static --template-dir ./templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var (
	watchDebounce time.Duration
	watchVerbose  bool
)

// Generation flags that make no sense while watching.
var watchSkippedFlags = map[string]bool{"archive": true, "rewrite": true, "dry-run": true}

func init() {
	rootCmd.AddCommand(watchCmd)

	generateCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !watchSkippedFlags[flag.Name] {
			watchCmd.Flags().AddFlag(flag)
		}
	})
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period before regenerating")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Print every changed file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dirs := make([]string, 0, 2)
	for _, dir := range []string{appConfig.Engine.StaticDir, appConfig.Engine.TemplateDir} {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return errors.InvalidConfig(fmt.Errorf("watch needs --static-dir or --template-dir"))
	}

	regenerate := func(ctx context.Context) error {
		c, p, err := buildProject(cmd, args)
		if err != nil {
			return err
		}
		result, err := c.Dump(ctx, generatePath, true)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d file(s) of %s to %s\n", result.Written, p.Name, result.Path)

		return result.Err()
	}

	if err := regenerate(ctx); err != nil {
		if errors.Is(err, errors.ErrUnsupportedBoard) || errors.Is(err, errors.ErrInvalidProjectName) {
			return err
		}
		appLogger.Error(ctx, err, "Initial generation failed")
	}

	fileWatcher, err := watcher.NewFileWatcher(watchDebounce, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.AnyFilter(watcher.StaticFilter, watcher.TemplateFilter))
	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		if watchVerbose {
			for _, event := range events {
				fmt.Fprintf(out, "%s: %s\n", event.Type, event.Path)
			}
		} else {
			fmt.Fprintf(out, "%d file(s) changed\n", len(events))
		}

		return regenerate(ctx)
	})

	for _, dir := range dirs {
		if err := fileWatcher.AddRecursive(dir); err != nil {
			return errors.InvalidConfig(err)
		}
		fmt.Fprintf(out, "Watching %s\n", dir)
	}

	fileWatcher.Start(ctx)
	fmt.Fprintln(out, "Watching for changes... (Press Ctrl+C to stop)")

	<-ctx.Done()
	fmt.Fprintln(out, "Stopping file watcher...")

	return nil
}
