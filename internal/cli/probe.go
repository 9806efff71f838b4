package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gridstack/internal/config"
	"gridstack/internal/paths"
	"gridstack/internal/probe"
	"gridstack/internal/tui"
)

var probeCache bool

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Print the width, height and duration of media files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runProbe,
	}
	cmd.Flags().BoolVar(&probeCache, "probe-cache", false, "Reuse probe results for files unchanged since an earlier run")
	return cmd
}

type probeRow struct {
	ID       string  `json:"id"`
	Path     string  `json:"path"`
	Width    uint16  `json:"width,omitempty"`
	Height   uint16  `json:"height,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ws, err := paths.Resolve(workdir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(ws.ConfigFile)
	if err != nil {
		return err
	}

	targets := make([]probe.Target, len(args))
	for i, arg := range args {
		targets[i] = probe.Target{ID: strconv.Itoa(i + 1), Path: ws.Resolve(arg)}
	}

	fn, save, err := cachedProbeFunc(ws, cfg, probeCache)
	if err != nil {
		return err
	}
	svc := probe.NewService(fn, cfg.Probe.Concurrency, nil)
	results := svc.All(ctx, targets, nil)
	if err := save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	if outputJSON {
		rows := make([]probeRow, len(results))
		for i, res := range results {
			rows[i] = probeRow{
				ID:       res.ID,
				Path:     res.Path,
				Width:    res.Probed.Width,
				Height:   res.Probed.Height,
				Duration: res.Probed.Duration,
			}
			if res.Err != nil {
				rows[i].Error = res.Err.Error()
			}
		}
		if err := writeJSON(cmd, rows); err != nil {
			return err
		}
	} else {
		writeProbeTable(cmd, results)
	}

	if failed := probe.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d files could not be probed", len(failed), len(results))
	}
	return nil
}

func writeProbeTable(cmd *cobra.Command, results []probe.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tFILE\tSIZE\tDURATION\tERROR")
	for _, res := range results {
		fields := tui.ProbeFields(res)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			res.ID,
			fields["STATUS"],
			res.Path,
			tui.NonEmptyOrDash(fields["SIZE"]),
			tui.NonEmptyOrDash(fields["DURATION"]),
			tui.NonEmptyOrDash(fields["ERROR"]),
		)
	}
	w.Flush()
}
