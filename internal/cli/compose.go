package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gridstack/internal/cache"
	"gridstack/internal/config"
	"gridstack/internal/layoutfile"
	"gridstack/internal/logx"
	"gridstack/internal/paths"
	"gridstack/internal/probe"
	"gridstack/internal/runner"
	"gridstack/internal/stack"
	"gridstack/internal/tui"
)

var (
	composeOut         string
	composeDryRun      bool
	composeConcurrency int
	composeNoProgress  bool
	composeProbeCache  bool
)

// Swappable for tests.
var (
	newRunner    = func() runner.Runner { return runner.CmdRunner{} }
	newProbeFunc = defaultProbeFunc
)

func defaultProbeFunc(cfg config.Config) probe.Func {
	if cfg.CustomFFprobe() {
		return probe.WithRunner(newRunner(), cfg.Tools.FFprobe, cfg.ProbeTimeout())
	}
	return probe.FFmpegGo(cfg.ProbeTimeout())
}

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <layout-file>",
		Short: "Stack the clips in a layout file into one video",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompose,
	}

	cmd.Flags().StringVar(&composeOut, "out", "", "Output directory (overrides the layout file and config)")
	cmd.Flags().BoolVar(&composeDryRun, "dry-run", false, "Print the ffmpeg arguments without running them")
	cmd.Flags().IntVar(&composeConcurrency, "concurrency", 0, "Number of clips to probe in parallel (defaults to config)")
	cmd.Flags().BoolVar(&composeNoProgress, "no-progress", false, "Disable interactive progress output")
	cmd.Flags().BoolVar(&composeProbeCache, "probe-cache", false, "Reuse probe results for clips unchanged since an earlier run")

	return cmd
}

// composeReport is the outcome of a compose run in JSON mode.
type composeReport struct {
	RequestID  string   `json:"request_id"`
	Status     string   `json:"status"`
	Category   Category `json:"category,omitempty"`
	Message    string   `json:"message"`
	Mode       string   `json:"mode,omitempty"`
	Args       []string `json:"args,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
	DryRun     bool     `json:"dry_run,omitempty"`
}

func runCompose(cmd *cobra.Command, args []string) error {
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
	if err := validateConfig(cmd, cfg); err != nil {
		return err
	}

	logger, requestID, closer, err := logx.New(ws)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("gridstack compose: workdir=%s layout=%s", ws.Root, args[0])

	report := composeReport{RequestID: requestID}
	command, err := compose(ctx, cmd, ws, cfg, logger, args[0])
	if command != nil {
		report.Mode = command.Mode.String()
		report.Args = command.Args()
		report.OutputPath = command.OutputPath
	}
	report.DryRun = composeDryRun

	if err != nil {
		logger.Printf("compose failed: %v", err)
		report.Status = "FAILED"
		report.Category = categoryOf(err)
		report.Message = err.Error()
		if outputJSON {
			if werr := writeJSON(cmd, report); werr != nil {
				return werr
			}
		} else if h := hint(err); h != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), tui.HintStyle.Render("hint: "+h))
		}
		return err
	}

	report.Status = "SUCCESS"
	if composeDryRun {
		report.Message = "dry run: ffmpeg not started"
	} else {
		report.Message = "wrote " + command.OutputPath
	}
	logger.Printf("compose finished: %s", report.Message)

	if outputJSON {
		return writeJSON(cmd, report)
	}
	if composeDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Mode: %s\n", command.Mode)
		fmt.Fprintln(cmd.OutOrStdout(), shellJoin(command.Args()))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s stack written to %s\n", command.Mode, command.OutputPath)
	return nil
}

// compose runs the pipeline up to and including ffmpeg. The assembled command
// is returned whenever assembly succeeded, even if ffmpeg then failed.
func compose(ctx context.Context, cmd *cobra.Command, ws paths.Workspace, cfg config.Config, logger *log.Logger, layoutPath string) (*stack.Command, error) {
	layout, err := layoutfile.Load(ws.Resolve(layoutPath))
	if err != nil {
		return nil, err
	}

	primed := layout.Primed()
	logger.Printf("merged %d clips (%d positions, %d sources, %d sliders)",
		len(primed), len(layout.Positions), len(layout.Sources), len(layout.Sliders))
	if len(primed) == 0 || len(primed) < cfg.Compose.MinClips {
		return nil, categorize(CategoryNothingToDo,
			fmt.Errorf("need at least %d clips with a source, got %d", max(cfg.Compose.MinClips, 1), len(primed)))
	}

	stacker := stack.NewStacker(primed)
	stacker.ExtraArgs = cfg.Compose.ExtraArgs
	ordered := stacker.Ordered()
	logger.Printf("mode %s", stacker.Mode)
	for _, p := range ordered {
		logger.Print(p.String())
	}

	results, err := probeClips(ctx, cmd, ws, cfg, logger, ordered)
	if err != nil {
		return nil, err
	}
	if failed := probe.Failed(results); len(failed) > 0 {
		ids := make([]string, len(failed))
		for i, f := range failed {
			ids[i] = f.ID
		}
		return nil, categorize(probeFailureCategory(failed[0].Err),
			fmt.Errorf("can't process stack with failed probes (clips %s): %w", strings.Join(ids, ", "), failed[0].Err))
	}

	probed := make([]probe.Probed, len(results))
	for i, res := range results {
		probed[i] = res.Probed
	}
	if err := stack.Check(stacker.Mode, probed); err != nil {
		return nil, categorize(CategoryIncompatible, err)
	}
	if err := stack.CheckTrims(ordered, probed); err != nil {
		return nil, categorize(CategoryIncompatible, err)
	}

	outDir := ws.OutputDir(cfg, composeOut, layout.Output)
	command, err := stacker.Assemble(outDir)
	if err != nil {
		return nil, err
	}
	logger.Printf("ffmpeg %s", shellJoin(command.Args()))

	if composeDryRun {
		return &command, nil
	}

	if err := paths.EnsureDir(outDir); err != nil {
		return &command, categorize(CategoryExecution, err)
	}

	runCtx := ctx
	if timeout := cfg.ComposeTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var status *tui.StatusWriter
	if tui.DetectMode(cmd.ErrOrStderr(), composeNoProgress, outputJSON) == tui.ModeTUI {
		status = tui.NewStatusWriter(cmd.ErrOrStderr())
		status.Update(fmt.Sprintf("Composing %d clips (%s)", len(ordered), stacker.Mode))
	}
	res := runner.Execute(runCtx, newRunner(), cfg.Tools.FFmpeg, command, runner.RunOptions{Dir: ws.Root})
	if status != nil {
		status.Stop()
	}

	logger.Printf("ffmpeg %s (exit %d)", res.Status, res.ExitCode)
	if !res.OK() {
		if tail := lastLines(string(res.Detail), 5); tail != "" {
			logger.Printf("ffmpeg stderr:\n%s", tail)
			return &command, categorize(CategoryExecution, fmt.Errorf("%w\n%s", res.Err, tail))
		}
		return &command, categorize(CategoryExecution, res.Err)
	}
	return &command, nil
}

// probeClips measures each clip, showing a live table on a terminal. Relative
// source paths are probed from the workspace root, where ffmpeg also runs.
func probeClips(ctx context.Context, cmd *cobra.Command, ws paths.Workspace, cfg config.Config, logger *log.Logger, ordered []stack.Primed) ([]probe.Result, error) {
	targets := make([]probe.Target, len(ordered))
	for i, p := range ordered {
		targets[i] = probe.Target{ID: p.ID, Path: ws.Resolve(p.Path)}
	}

	concurrency := cfg.Probe.Concurrency
	if composeConcurrency > 0 {
		concurrency = composeConcurrency
	}
	fn, save, err := cachedProbeFunc(ws, cfg, composeProbeCache)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := save(); err != nil {
			logger.Printf("save probe cache: %v", err)
		}
	}()
	svc := probe.NewService(fn, concurrency, logger)

	switch tui.DetectMode(cmd.OutOrStdout(), composeNoProgress, outputJSON) {
	case tui.ModeTUI:
		var results []probe.Result
		err = tui.RunWithWork(cmd.OutOrStdout(), tui.NewProbeModel(targets), func(send func(tea.Msg)) {
			results = svc.All(ctx, targets, tui.NewProbeReporter(send))
		})
		if err != nil {
			return nil, err
		}
		return results, nil
	case tui.ModePlain:
		results := svc.All(ctx, targets, nil)
		writeProbeTable(cmd, results)
		return results, nil
	default:
		return svc.All(ctx, targets, nil), nil
	}
}

// cachedProbeFunc returns the configured probe, wrapped with the workspace
// probe cache when enabled. The returned save function persists new entries.
func cachedProbeFunc(ws paths.Workspace, cfg config.Config, enabled bool) (probe.Func, func() error, error) {
	fn := newProbeFunc(cfg)
	if !enabled {
		return fn, func() error { return nil }, nil
	}
	idx, err := cache.LoadFromPath(ws.ProbeCache)
	if err != nil {
		return nil, nil, err
	}
	return idx.Wrap(fn), func() error { return cache.SaveToPath(ws.ProbeCache, idx) }, nil
}

func validateConfig(cmd *cobra.Command, cfg config.Config) error {
	results := cfg.Validate()
	var errs []string
	for _, v := range results {
		switch v.Level {
		case "warning":
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", v.Message)
		case "error":
			errs = append(errs, v.Message)
		}
	}
	if len(errs) > 0 {
		return errors.New("config validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

func writeJSON(cmd *cobra.Command, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// shellJoin renders args for display, quoting those with spaces or brackets.
func shellJoin(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t'\"[];") {
			parts[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}

func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
