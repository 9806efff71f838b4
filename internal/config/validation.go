package config

import (
	"fmt"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate reports configuration values that would break a composition run.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult

	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		results = append(results, errorf("tools.ffmpeg is empty"))
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		results = append(results, errorf("tools.ffprobe is empty"))
	}
	if c.Probe.TimeoutSec < 0 {
		results = append(results, errorf("probe.timeout_s must not be negative (got %d)", c.Probe.TimeoutSec))
	}
	if c.Probe.Concurrency < 0 {
		results = append(results, errorf("probe.concurrency must not be negative (got %d)", c.Probe.Concurrency))
	}
	if c.Compose.MinClips < 1 {
		results = append(results, errorf("compose.min_clips must be at least 1 (got %d)", c.Compose.MinClips))
	} else if c.Compose.MinClips < 2 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "compose.min_clips below 2 allows single-clip compositions",
		})
	}
	if c.Compose.TimeoutMin < 0 {
		results = append(results, errorf("compose.timeout_min must not be negative (got %d)", c.Compose.TimeoutMin))
	}
	for _, arg := range c.Compose.ExtraArgs {
		switch strings.TrimSpace(arg) {
		case "-i", "-filter_complex", "-map", "-ss", "-to":
			results = append(results, errorf("compose.extra_args must not contain %s; inputs and filters are generated", arg))
		}
	}

	return results
}

// HasErrors reports whether any finding is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}

func errorf(format string, args ...any) ValidationResult {
	return ValidationResult{Level: "error", Message: fmt.Sprintf(format, args...)}
}
