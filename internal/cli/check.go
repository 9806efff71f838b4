package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"gridstack/internal/config"
	"gridstack/internal/paths"
	"gridstack/internal/tools"
)

var checkStrict bool

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg and ffprobe availability",
		RunE:  runCheck,
	}

	cmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when a tool is missing or too old for xstack")

	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
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

	statuses := tools.Detect(ctx, newRunner(), cfg)
	validations := cfg.Validate()

	if outputJSON {
		payload := struct {
			Workdir     string                    `json:"workdir"`
			Tools       []tools.Status            `json:"tools"`
			Validations []config.ValidationResult `json:"validations,omitempty"`
		}{
			Workdir:     ws.Root,
			Tools:       statuses,
			Validations: validations,
		}
		if err := writeJSON(cmd, payload); err != nil {
			return err
		}
	} else {
		printCheckResult(cmd, ws.Root, statuses, validations)
	}

	if checkStrict {
		if failures := tools.Unsatisfied(statuses); failures != "" {
			return errors.New("tool check failed: " + failures)
		}
		if config.HasErrors(validations) {
			return errors.New("config validation failed")
		}
	}
	return nil
}

func printCheckResult(cmd *cobra.Command, root string, statuses []tools.Status, validations []config.ValidationResult) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)

	cmd.Println(bold.Render("Workdir:") + " " + root)
	cmd.Println()

	for _, st := range statuses {
		if st.Satisfied {
			headline := green.Render("✓") + " " + bold.Render(st.Tool) + " v" + st.Version
			headline += faint.Render(" (minimum: " + st.Minimum + ")")
			cmd.Println(headline)
			cmd.Println(faint.Render("  " + st.Path))
		} else {
			headline := red.Render("✗") + " " + bold.Render(st.Tool)
			if st.Error != "" {
				headline += red.Render(" (" + st.Error + ")")
			}
			cmd.Println(headline)
			for _, h := range st.Hints {
				cmd.Println(faint.Render("  " + h))
			}
		}
		cmd.Println()
	}

	for _, v := range validations {
		style := red
		if v.Level == "warning" {
			style = faint
		}
		cmd.Println(style.Render(fmt.Sprintf("%s: %s", v.Level, v.Message)))
	}
}
