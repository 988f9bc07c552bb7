package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/cascade/internal/app"
	"github.com/dshills/cascade/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Strict        bool
	RecoverPanics bool
	TraceEvents   bool
	Select        string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print its trace",
		Long: `Run executes the steps of a scenario file against a fresh emitter and
prints one line per operation and per listener call.

--select takes a GJSON path evaluated against the JSON trace, for example
'records.#(op=="call")#.listener' or 'stats.Delivered'.

Failed steps are part of the trace. With --strict they also make the
command exit with status 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit with status 1 if any step failed")
	cmd.Flags().BoolVar(&opts.RecoverPanics, "recover", false, "recover listener panics inside the emitter")
	cmd.Flags().BoolVar(&opts.TraceEvents, "trace-events", false, "write every event to the log sink")
	cmd.Flags().StringVar(&opts.Select, "select", "", "print only the part of the JSON trace matching this GJSON path")

	return cmd
}

func runScenario(cmd *cobra.Command, opts *RunOptions, path string) error {
	s, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	hostOpts := s.HostOptions()
	hostOpts.Logger = opts.Logger
	hostOpts.RecoverPanics = hostOpts.RecoverPanics || opts.RecoverPanics || opts.Config.RecoverPanics

	h, err := app.New(hostOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "start host", err)
	}
	defer h.Close()

	if opts.TraceEvents {
		if err := h.Trace(); err != nil {
			return WrapExitError(ExitCommandError, "trace events", err)
		}
	}

	trace, err := scenario.Run(h, s)
	if err != nil {
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	p := newPrinter(cmd.OutOrStdout(), opts.RootOptions)
	if opts.Select != "" {
		err = p.selection(trace, opts.Select)
	} else {
		err = p.trace(trace)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "write trace", err)
	}

	if failed := len(trace.Errors()); opts.Strict && failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d operation(s) failed", failed))
	}
	return nil
}
