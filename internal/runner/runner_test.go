package runner

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

type job struct {
	args    []string
	capture Capture
}

func (j job) Args() []string   { return j.args }
func (j job) Capture() Capture { return j.capture }

type stubRunner struct {
	result RunResult
	err    error
}

func (s stubRunner) Run(context.Context, string, []string, RunOptions) (RunResult, error) {
	return s.result, s.err
}

func TestExecuteCapturesDeclaredStream(t *testing.T) {
	r := stubRunner{result: RunResult{Stdout: []byte("out"), Stderr: []byte("err")}}

	res := Execute(context.Background(), r, "tool", job{capture: CaptureStdout}, RunOptions{})
	if !res.OK() || string(res.Output) != "out" {
		t.Fatalf("expected stdout capture, got %+v", res)
	}

	res = Execute(context.Background(), r, "tool", job{capture: CaptureStderr}, RunOptions{})
	if !res.OK() || string(res.Output) != "err" {
		t.Fatalf("expected stderr capture, got %+v", res)
	}
}

func TestExecuteSpawnFailure(t *testing.T) {
	r := stubRunner{err: exec.ErrNotFound}
	res := Execute(context.Background(), r, "missing-tool", job{}, RunOptions{})

	if res.Status != StatusSpawnFailed {
		t.Fatalf("expected spawn failure, got %v", res.Status)
	}
	if !errors.Is(res.Err, exec.ErrNotFound) {
		t.Fatalf("expected wrapped ErrNotFound, got %v", res.Err)
	}
	var rerr *Error
	if !errors.As(res.Err, &rerr) || rerr.Status != StatusSpawnFailed || rerr.Command != "missing-tool" {
		t.Fatalf("expected tagged spawn error, got %#v", res.Err)
	}
	if !strings.HasPrefix(res.Err.Error(), "start missing-tool: ") {
		t.Fatalf("unexpected message %q", res.Err.Error())
	}
	if res.Output != nil {
		t.Fatal("failed result must not carry output")
	}
}

func TestCmdRunnerExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	res := Execute(context.Background(), CmdRunner{}, "sh", job{args: []string{"-c", "echo oops >&2; exit 3"}, capture: CaptureStderr}, RunOptions{})
	if res.Status != StatusFailed {
		t.Fatalf("expected failed status, got %v (%v)", res.Status, res.Err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
	var rerr *Error
	if !errors.As(res.Err, &rerr) || rerr.Status != StatusFailed || rerr.ExitCode != 3 {
		t.Fatalf("expected tagged exit error, got %#v", res.Err)
	}
	if string(res.Detail) != "oops\n" {
		t.Fatalf("expected stderr detail, got %q", res.Detail)
	}

	res = Execute(context.Background(), CmdRunner{}, "sh", job{args: []string{"-c", "echo ok"}}, RunOptions{})
	if !res.OK() || string(res.Output) != "ok\n" {
		t.Fatalf("expected success with stdout, got %+v", res)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusSuccess:     "success",
		StatusSpawnFailed: "spawn_failed",
		StatusFailed:      "failed",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	if got := Classify("ffprobe", exec.ErrNotFound); got.Status != StatusSpawnFailed || got.ExitCode != -1 {
		t.Fatalf("unexpected classification %+v", got)
	}
	if !errors.Is(Classify("ffprobe", exec.ErrNotFound), exec.ErrNotFound) {
		t.Fatal("classified error should unwrap to its cause")
	}
}
