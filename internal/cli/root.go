// Package cli implements the cascade command line.
package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dshills/cascade/internal/config"
	"github.com/dshills/cascade/internal/logging"
)

// BuildInfo identifies the binary. Fields are set via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// RootOptions holds global flags and the state shared by all commands.
type RootOptions struct {
	LogLevel string
	Format   string // "text" | "json"
	NoColor  bool

	Config config.Config
	Logger *logrus.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{logging.FormatText, logging.FormatJSON}

// NewRootCommand creates the root command for the cascade CLI.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Cascade - hierarchical event dispatch",
		Long: "Run event scenarios against an emitter that delivers each event to the\n" +
			"subscribers of its kind and of every ancestor kind.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", logging.FormatText, "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewKindsCommand(opts))
	cmd.AddCommand(NewVersionCommand(info))

	return cmd
}

// setup parses the environment configuration, applies flags that were set
// explicitly, validates the result and builds the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if flags.Changed("format") {
		cfg.LogFormat = o.Format
	}
	if flags.Changed("no-color") {
		cfg.NoColor = o.NoColor
	}
	if !isValidFormat(cfg.LogFormat) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.LogFormat, ValidFormats))
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	o.LogLevel = cfg.LogLevel
	o.Format = cfg.LogFormat
	o.NoColor = cfg.NoColor
	o.Config = cfg

	logOpts := cfg.LoggingOptions()
	logOpts.Output = cmd.ErrOrStderr()
	logger, err := logging.New(logOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid logging options", err)
	}
	o.Logger = logger
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
