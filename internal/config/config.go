package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures tool locations and composition defaults for a workspace.
type Config struct {
	Version int           `yaml:"version"`
	Tools   ToolsConfig   `yaml:"tools"`
	Output  OutputConfig  `yaml:"output"`
	Probe   ProbeConfig   `yaml:"probe"`
	Compose ComposeConfig `yaml:"compose"`
}

// ToolsConfig names the ffmpeg and ffprobe binaries. Bare names are looked up
// on PATH.
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// OutputConfig controls where composed videos are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ProbeConfig tunes clip probing.
type ProbeConfig struct {
	TimeoutSec  int `yaml:"timeout_s"`
	Concurrency int `yaml:"concurrency"`
}

// ComposeConfig tunes the ffmpeg composition run.
type ComposeConfig struct {
	MinClips   int      `yaml:"min_clips"`
	TimeoutMin int      `yaml:"timeout_min"`
	ExtraArgs  []string `yaml:"extra_args,omitempty"`
}

const (
	defaultFFmpeg  = "ffmpeg"
	defaultFFprobe = "ffprobe"
)

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Tools: ToolsConfig{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Output: OutputConfig{
			Dir: "output",
		},
		Probe: ProbeConfig{
			TimeoutSec:  30,
			Concurrency: 4,
		},
		Compose: ComposeConfig{
			MinClips:   2,
			TimeoutMin: 60,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML left empty or zeroed.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaults.Tools.FFmpeg
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaults.Tools.FFprobe
	}
	if c.Output.Dir == "" {
		c.Output.Dir = defaults.Output.Dir
	}
	if c.Probe.TimeoutSec == 0 {
		c.Probe.TimeoutSec = defaults.Probe.TimeoutSec
	}
	if c.Probe.Concurrency == 0 {
		c.Probe.Concurrency = defaults.Probe.Concurrency
	}
	if c.Compose.MinClips == 0 {
		c.Compose.MinClips = defaults.Compose.MinClips
	}
	if c.Compose.TimeoutMin == 0 {
		c.Compose.TimeoutMin = defaults.Compose.TimeoutMin
	}
}

// ProbeTimeout returns the per-clip ffprobe timeout.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSec) * time.Second
}

// ComposeTimeout returns the ffmpeg run timeout.
func (c Config) ComposeTimeout() time.Duration {
	return time.Duration(c.Compose.TimeoutMin) * time.Minute
}

// CustomFFprobe reports whether a specific ffprobe binary was configured
// rather than the one on PATH.
func (c Config) CustomFFprobe() bool {
	return c.Tools.FFprobe != "" && c.Tools.FFprobe != defaultFFprobe
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
