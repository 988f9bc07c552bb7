package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/cascade/internal/event"
	"github.com/dshills/cascade/internal/scenario"
)

// NewKindsCommand creates the kinds command.
func NewKindsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds <scenario.yaml>",
		Short: "Print the kind hierarchy declared by a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load scenario", err)
			}

			catalog := event.NewCatalog()
			for _, name := range s.Kinds {
				if _, err := catalog.Define(name); err != nil {
					return WrapExitError(ExitCommandError, "define kinds", err)
				}
			}

			if err := newPrinter(cmd.OutOrStdout(), opts).kinds(catalog.All()); err != nil {
				return WrapExitError(ExitCommandError, "write kinds", err)
			}
			return nil
		},
	}
}
