// Package probe reads clip dimensions and duration with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"gridstack/internal/runner"
)

var (
	// ErrMalformed means ffprobe ran but its output could not be decoded.
	ErrMalformed = errors.New("malformed ffprobe output")
	// ErrNoVideoStream means the file has no video stream to measure.
	ErrNoVideoStream = errors.New("no video stream")
)

// Probed is the measured metadata of one clip. The zero value means unknown.
type Probed struct {
	Filename string  `json:"filename"`
	Width    uint16  `json:"width"`
	Height   uint16  `json:"height"`
	Duration float64 `json:"duration"`
}

// Known reports whether both dimensions were measured.
func (p Probed) Known() bool {
	return p.Width > 0 && p.Height > 0
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

type ffprobeFormat struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
}

// Parse decodes ffprobe's JSON (-show_format -show_streams) into Probed using
// the first video stream.
func Parse(data []byte) (Probed, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Probed{}, errors.Wrap(ErrMalformed, err.Error())
	}

	for _, stream := range out.Streams {
		if stream.CodecType != "" && stream.CodecType != "video" {
			continue
		}
		if stream.Width <= 0 || stream.Height <= 0 || stream.Width > 0xffff || stream.Height > 0xffff {
			return Probed{}, errors.Wrapf(ErrMalformed, "video stream reports %dx%d", stream.Width, stream.Height)
		}
		duration := parseSeconds(stream.Duration)
		if duration == 0 {
			duration = parseSeconds(out.Format.Duration)
		}
		return Probed{
			Filename: out.Format.Filename,
			Width:    uint16(stream.Width),
			Height:   uint16(stream.Height),
			Duration: duration,
		}, nil
	}
	return Probed{}, ErrNoVideoStream
}

func parseSeconds(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Func returns raw ffprobe JSON for path.
type Func func(ctx context.Context, path string) ([]byte, error)

// defaultLimit bounds an ffprobe run when neither the caller nor the context
// sets a limit.
const defaultLimit = 30 * time.Second

var probeWithTimeout = ffmpeg.ProbeWithTimeout

// FFmpegGo probes through ffmpeg-go, which runs the ffprobe found on PATH.
// ffmpeg-go takes a timeout rather than a context, so a cancelled ctx returns
// immediately while the ffprobe child is left to its time limit, which is
// never unbounded.
func FFmpegGo(timeout time.Duration) Func {
	return func(ctx context.Context, path string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		limit := timeout
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); limit <= 0 || remaining < limit {
				limit = remaining
			}
		}
		if limit <= 0 {
			limit = defaultLimit
		}

		type reply struct {
			out string
			err error
		}
		done := make(chan reply, 1)
		run := probeWithTimeout
		go func() {
			out, err := run(path, limit, ffmpeg.KwArgs{"select_streams": "v:0"})
			done <- reply{out, err}
		}()

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "ffprobe %s", path)
		case r := <-done:
			if r.err != nil {
				return nil, errors.Wrapf(runner.Classify("ffprobe", r.err), "ffprobe %s", path)
			}
			return []byte(r.out), nil
		}
	}
}

// ffprobeJob is the argument list for a single ffprobe run.
type ffprobeJob struct {
	path string
}

func (j ffprobeJob) Args() []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		j.path,
	}
}

func (ffprobeJob) Capture() runner.Capture { return runner.CaptureStdout }

// WithRunner probes by running the ffprobe binary at bin through r. It is used
// when a specific ffprobe build is configured.
func WithRunner(r runner.Runner, bin string, timeout time.Duration) Func {
	return func(ctx context.Context, path string) ([]byte, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res := runner.Execute(ctx, r, bin, ffprobeJob{path: path}, runner.RunOptions{})
		if !res.OK() {
			return nil, errors.Wrapf(res.Err, "ffprobe %s", path)
		}
		return res.Output, nil
	}
}
