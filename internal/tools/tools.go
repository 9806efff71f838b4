// Package tools locates the external ffmpeg binaries and checks that they
// are recent enough to provide the xstack filter.
package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"gridstack/internal/config"
	"gridstack/internal/runner"
)

// XstackMinimum is the first ffmpeg release that ships the xstack filter.
const XstackMinimum = "4.1"

// Status reports availability and version details for one binary.
type Status struct {
	Tool      string   `json:"tool"`
	Binary    string   `json:"binary"`
	Path      string   `json:"path,omitempty"`
	Version   string   `json:"version,omitempty"`
	Minimum   string   `json:"minimum,omitempty"`
	Satisfied bool     `json:"satisfied"`
	Error     string   `json:"error,omitempty"`
	Hints     []string `json:"hints,omitempty"`
}

var lookPath = exec.LookPath

type versionJob struct{}

func (versionJob) Args() []string          { return []string{"-version"} }
func (versionJob) Capture() runner.Capture { return runner.CaptureStdout }

// Detect checks the ffmpeg and ffprobe binaries named in cfg. A nil ctx gets
// a five second budget.
func Detect(ctx context.Context, r runner.Runner, cfg config.Config) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	return []Status{
		detectOne(ctx, r, "ffmpeg", cfg.Tools.FFmpeg),
		detectOne(ctx, r, "ffprobe", cfg.Tools.FFprobe),
	}
}

func detectOne(ctx context.Context, r runner.Runner, tool, binary string) Status {
	st := Status{Tool: tool, Binary: binary, Minimum: XstackMinimum}

	path, err := lookPath(binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			st.Error = "not found"
		} else {
			st.Error = err.Error()
		}
		st.Hints = installHints()
		return st
	}
	st.Path = path

	res := runner.Execute(ctx, r, path, versionJob{}, runner.RunOptions{})
	if !res.OK() {
		st.Error = res.Err.Error()
		return st
	}

	st.Version = normalizeVersion(firstLine(strings.TrimSpace(string(res.Output))))
	st.Satisfied = meetsMinimum(st.Version, st.Minimum)
	if !st.Satisfied {
		st.Error = fmt.Sprintf("version %s is older than %s", st.Version, st.Minimum)
	}
	return st
}

// Unsatisfied returns a joined description of every failing tool, or an
// empty string when all tools are usable.
func Unsatisfied(statuses []Status) string {
	var failures []string
	for _, st := range statuses {
		if st.Satisfied {
			continue
		}
		msg := st.Tool
		if st.Error != "" {
			msg = fmt.Sprintf("%s (%s)", st.Tool, st.Error)
		}
		failures = append(failures, msg)
	}
	return strings.Join(failures, ", ")
}
