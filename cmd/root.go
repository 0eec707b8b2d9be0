// Package cmd provides the command-line interface for fpgagen.
//
// Configuration System:
//
//	Settings are read from several sources, highest priority first:
//	1. Command-line flags (--config, --static-dir, --workers, etc.)
//	2. FPGAGEN_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (FPGAGEN_ENGINE_WORKERS, etc.)
//	4. Configuration file (.fpgagen.yml in the current directory)
//
// Environment Variables:
//
//	FPGAGEN_CONFIG_FILE: Path to custom configuration file
//	FPGAGEN_ENGINE_STATIC_DIR: Read board defaults from this directory
//	FPGAGEN_ENGINE_TEMPLATE_DIR: Read templates from this directory
//	FPGAGEN_LOG_LEVEL: debug, info, warn or error
//	And every other key following the FPGAGEN_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/fpgagen/internal/board"
	"github.com/conneroisu/fpgagen/internal/config"
	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/logging"
)

// Process exit codes.
const (
	ExitOK                 = 0
	ExitConfigError        = 3
	ExitInvalidProjectName = 5
	ExitUnknownError       = 255
)

var cfgFile string

// Set by the root command before any subcommand runs.
var (
	appConfig *config.Config
	appLogger *logging.EngineLogger
	appEngine *board.Engine
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fpgagen",
	Short: "Generate FPGA board projects from versioned defaults",
	Long: `fpgagen composes complete Quartus projects for supported development boards:
project, settings, timing constraints and top-level Verilog, plus optional
auxiliary modules and a SchoolMIPS core. Projects are written as a directory
tree or as a single tar or zip archive.

Quick Start:
  fpgagen boards                          List supported boards
  fpgagen board marsohod2                 Show the parameters of a board
  fpgagen generate marsohod2 -n Blinky    Write ./Blinky
  fpgagen generate de1soc -m irq -a p.zip Archive a project with a core

Command Aliases (for faster typing):
  generate (g), boards (ls), watch (w)`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: bootstrap,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The command context is cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		suggestions := errors.Suggest(err, &errors.SuggestionContext{
			Boards:     board.Boards(),
			ConfigPath: viper.ConfigFileUsed(),
		})
		fmt.Fprintln(rootCmd.ErrOrStderr(), errors.FormatSuggestions("Error: "+err.Error(), suggestions))
	}

	return err
}

// ExitCode maps an error returned by Execute onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errors.ErrInvalidProjectName):
		return ExitInvalidProjectName
	case errors.TypeOf(err) == errors.ErrorTypeConfig:
		return ExitConfigError
	default:
		return ExitUnknownError
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .fpgagen.yml, can also use FPGAGEN_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (console, json)")
	flags.String("static-dir", "", "directory holding board defaults (default: embedded)")
	flags.String("template-dir", "", "directory holding templates (default: embedded)")
	flags.IntP("workers", "w", config.DefaultWorkers, "number of concurrent render and write workers")

	SetViperBindings(rootCmd, map[string]string{
		"log-level":    "log.level",
		"log-format":   "log.format",
		"static-dir":   "engine.static_dir",
		"template-dir": "engine.template_dir",
		"workers":      "engine.workers",
	})
}

// initConfig selects the config file: the --config flag, then
// FPGAGEN_CONFIG_FILE, then .fpgagen.yml in the current directory. A missing
// file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fpgagen")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bootstrap loads the configuration and builds the shared logger and engine.
func bootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.InvalidConfig(err)
	}

	logger, err := logging.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return errors.InvalidConfig(err)
	}

	appConfig = cfg
	appLogger = logger
	appEngine = board.NewEngine(&cfg.Engine, logger)

	return nil
}
