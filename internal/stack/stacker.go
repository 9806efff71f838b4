package stack

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pion/randutil"

	"gridstack/internal/runner"
)

const (
	outputPrefix    = "stacked-"
	outputExt       = ".mkv"
	outputRandomLen = 30
	alphanumeric    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrNothingToDo is returned when no clip survives the merge.
var ErrNothingToDo = errors.New("nothing to stack")

// OutputName returns a fresh stacked-<30 alphanumerics>.mkv file name. The
// suffix is drawn from crypto/rand, so concurrent callers need no
// coordination.
func OutputName() (string, error) {
	suffix, err := randutil.GenerateCryptoRandomString(outputRandomLen, alphanumeric)
	if err != nil {
		return "", fmt.Errorf("generate output name: %w", err)
	}
	return outputPrefix + suffix + outputExt, nil
}

// Command is an assembled ffmpeg invocation. Arguments end with OutputPath.
type Command struct {
	Mode       Mode     `json:"mode"`
	Arguments  []string `json:"args"`
	OutputPath string   `json:"output_path"`
}

// Args returns a copy of the ffmpeg arguments.
func (c Command) Args() []string {
	return append([]string(nil), c.Arguments...)
}

// Capture reports that ffmpeg's diagnostics arrive on stderr.
func (Command) Capture() runner.Capture { return runner.CaptureStderr }

var _ runner.Job = Command{}

// Stacker turns primed clips into an ffmpeg command for their mode.
type Stacker struct {
	Mode   Mode
	Primed []Primed
	// ExtraArgs are inserted immediately before the output path.
	ExtraArgs []string

	name func() (string, error)
}

// NewStacker classifies primed and prepares a Stacker for it.
func NewStacker(primed []Primed) *Stacker {
	return &Stacker{
		Mode:   Identify(primed),
		Primed: primed,
		name:   OutputName,
	}
}

// Ordered sorts the clips into composition order and returns them.
func (s *Stacker) Ordered() []Primed {
	Order(s.Mode, s.Primed)
	return s.Primed
}

// Assemble sorts the clips and builds the ffmpeg arguments writing into
// outputDir.
func (s *Stacker) Assemble(outputDir string) (Command, error) {
	if len(s.Primed) == 0 {
		return Command{}, ErrNothingToDo
	}
	if strings.TrimSpace(outputDir) == "" {
		return Command{}, errors.New("output directory is empty")
	}

	var args []string
	for _, p := range s.Ordered() {
		if strings.TrimSpace(p.Path) == "" {
			return Command{}, fmt.Errorf("clip %s has no source path", p.ID)
		}
		if p.Trim != nil {
			args = append(args,
				"-ss", Timestamp(p.Trim.Start),
				"-to", Timestamp(p.Trim.End),
			)
		}
		args = append(args, "-i", p.Path)
	}

	n := len(s.Primed)
	switch s.Mode {
	case Horizontal:
		args = append(args, "-filter_complex", fmt.Sprintf("hstack=inputs=%d", n))
	case Vertical:
		args = append(args, "-filter_complex", fmt.Sprintf("vstack=inputs=%d", n))
	default:
		args = append(args, "-filter_complex", NewXstack(n).Filter(), "-map", "[v]")
	}

	args = append(args, s.ExtraArgs...)

	nameFn := s.name
	if nameFn == nil {
		nameFn = OutputName
	}
	name, err := nameFn()
	if err != nil {
		return Command{}, err
	}
	output := filepath.Join(outputDir, name)
	args = append(args, output)

	return Command{Mode: s.Mode, Arguments: args, OutputPath: output}, nil
}
