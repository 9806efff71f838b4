package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Capture names the process stream a job wants collected.
type Capture int

const (
	CaptureStdout Capture = iota
	CaptureStderr
)

func (c Capture) String() string {
	if c == CaptureStderr {
		return "stderr"
	}
	return "stdout"
}

// Job is an assembled external command: an ordered argument list plus the
// stream its useful output arrives on.
type Job interface {
	Args() []string
	Capture() Capture
}

type RunOptions struct {
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

type RunResult struct {
	Stdout []byte
	Stderr []byte
}

type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = teeTo(&stdout, opts.Stdout)
	cmd.Stderr = teeTo(&stderr, opts.Stderr)

	err := cmd.Run()
	return RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

func teeTo(buf *bytes.Buffer, extra io.Writer) io.Writer {
	if extra == nil {
		return buf
	}
	return io.MultiWriter(buf, extra)
}

var _ Runner = CmdRunner{}

// Status tags the outcome of Execute.
type Status int

const (
	StatusSuccess Status = iota
	// StatusSpawnFailed means the process never ran (missing binary,
	// permissions, cancelled before start).
	StatusSpawnFailed
	// StatusFailed means the process ran and exited non-zero or was killed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSpawnFailed:
		return "spawn_failed"
	default:
		return "failed"
	}
}

// Result is the tagged outcome of running a Job. Output holds the captured
// stream on success only.
type Result struct {
	Status   Status
	ExitCode int
	Output   []byte
	Detail   []byte // captured stream on failure, for diagnostics
	Err      error
}

// OK reports whether the job completed successfully.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Execute runs job with command through r and classifies the outcome.
func Execute(ctx context.Context, r Runner, command string, job Job, opts RunOptions) Result {
	if r == nil {
		r = CmdRunner{}
	}
	res, err := r.Run(ctx, command, job.Args(), opts)

	captured := res.Stdout
	if job.Capture() == CaptureStderr {
		captured = res.Stderr
	}

	if err == nil {
		return Result{Status: StatusSuccess, Output: captured}
	}

	failure := Classify(command, err)
	return Result{
		Status:   failure.Status,
		ExitCode: failure.ExitCode,
		Detail:   captured,
		Err:      failure,
	}
}

// Error is the failure carried by a Result that is not OK. It distinguishes
// a process that never ran from one that exited badly.
type Error struct {
	Command  string
	Status   Status
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.Status == StatusFailed {
		return fmt.Sprintf("%s exited with code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("start %s: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify tags err from running command. An *exec.ExitError means the
// process ran and failed; anything else means it never started.
func Classify(command string, err error) *Error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Error{Command: command, Status: StatusFailed, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &Error{Command: command, Status: StatusSpawnFailed, ExitCode: -1, Err: err}
}
