package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"gridstack/internal/config"
	"gridstack/internal/probe"
	"gridstack/internal/runner"
)

// testEnv points the package globals at a temporary workspace and restores
// them when the test ends.
func testEnv(t *testing.T, jsonOut bool) string {
	t.Helper()
	prevWorkdir, prevJSON := workdir, outputJSON
	prevRunner, prevProbe := newRunner, newProbeFunc
	t.Cleanup(func() {
		workdir, outputJSON = prevWorkdir, prevJSON
		newRunner, newProbeFunc = prevRunner, prevProbe
	})

	workdir = t.TempDir()
	outputJSON = jsonOut
	return workdir
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// fakeProbe answers with fixed dimensions and a 30s duration per clip base
// name. Unknown names come back as audio-only files.
func fakeProbe(sizes map[string][2]int) func(config.Config) probe.Func {
	return func(config.Config) probe.Func {
		return func(_ context.Context, path string) ([]byte, error) {
			size, ok := sizes[filepath.Base(path)]
			if !ok {
				return []byte(fmt.Sprintf(`{"streams":[{"codec_type":"audio"}],"format":{"filename":%q}}`, path)), nil
			}
			return []byte(fmt.Sprintf(
				`{"streams":[{"codec_type":"video","width":%d,"height":%d,"duration":"30.0"}],"format":{"filename":%q}}`,
				size[0], size[1], path)), nil
		}
	}
}

type recordingRunner struct {
	command string
	args    []string
	stderr  string
	err     error
}

func (r *recordingRunner) Run(_ context.Context, command string, args []string, _ runner.RunOptions) (runner.RunResult, error) {
	r.command = command
	r.args = append([]string(nil), args...)
	return runner.RunResult{Stderr: []byte(r.stderr)}, r.err
}

func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
