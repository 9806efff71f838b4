package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridstack/internal/layoutfile"
	"gridstack/internal/paths"
	"gridstack/internal/stack"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <layout-file>",
		Short: "Show the merged clips and the stacking mode without probing",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	ws, err := paths.Resolve(workdir)
	if err != nil {
		return err
	}

	layout, err := layoutfile.Load(ws.Resolve(args[0]))
	if err != nil {
		return err
	}

	stacker := stack.NewStacker(layout.Primed())
	ordered := stacker.Ordered()

	var xstackLayout string
	if stacker.Mode == stack.Grid {
		xstackLayout = stack.NewXstack(len(ordered)).Layout()
	}

	if outputJSON {
		payload := struct {
			Mode   stack.Mode     `json:"mode"`
			Layout string         `json:"layout,omitempty"`
			Clips  []stack.Primed `json:"clips"`
		}{
			Mode:   stacker.Mode,
			Layout: xstackLayout,
			Clips:  ordered,
		}
		if payload.Clips == nil {
			payload.Clips = []stack.Primed{}
		}
		return writeJSON(cmd, payload)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mode: %s\n", stacker.Mode)
	if xstackLayout != "" {
		fmt.Fprintf(out, "Layout: %s\n", xstackLayout)
	}
	fmt.Fprintf(out, "Clips: %d\n", len(ordered))
	for _, p := range ordered {
		fmt.Fprintln(out, p.String())
	}
	return nil
}
