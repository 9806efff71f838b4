package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	workdir    string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gridstack",
		Short:         "Stack video clips side by side, top to bottom or in a grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&workdir, "workdir", "", "Path to working directory (defaults to the current directory)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newComposeCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newProbeCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
