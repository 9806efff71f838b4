package probe

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"
)

// Target is one clip to measure.
type Target struct {
	ID   string
	Path string
}

// Result captures the outcome of probing one target.
type Result struct {
	ID     string
	Path   string
	Probed Probed
	Err    error
}

// Reporter receives notifications as targets are probed.
type Reporter interface {
	Start(target Target)
	Complete(result Result)
}

// Service probes clips concurrently.
type Service struct {
	Probe       Func
	Concurrency int
	Logger      *log.Logger
}

// NewService returns a Service using fn, or ffmpeg-go with no timeout when fn
// is nil.
func NewService(fn Func, concurrency int, logger *log.Logger) *Service {
	if fn == nil {
		fn = FFmpegGo(0)
	}
	return &Service{Probe: fn, Concurrency: concurrency, Logger: logger}
}

// One probes a single path.
func (s *Service) One(ctx context.Context, path string) (Probed, error) {
	raw, err := s.Probe(ctx, path)
	if err != nil {
		return Probed{}, err
	}
	probed, err := Parse(raw)
	if err != nil {
		return Probed{}, errors.WithMessage(err, path)
	}
	if probed.Filename == "" {
		probed.Filename = path
	}
	return probed, nil
}

// All probes every target and returns results in target order.
func (s *Service) All(ctx context.Context, targets []Target, reporter Reporter) []Result {
	if ctx == nil {
		ctx = context.Background()
	}
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(targets))
	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
	)

	for i, target := range targets {
		if reporter != nil {
			reporter.Start(target)
		}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			probed, err := s.One(ctx, target.Path)
			res := Result{ID: target.ID, Path: target.Path, Probed: probed, Err: err}
			if err != nil {
				s.logf("probe %s (%s) failed: %v", target.ID, target.Path, err)
			} else {
				s.logf("probe %s (%s): %dx%d %.3fs", target.ID, target.Path, probed.Width, probed.Height, probed.Duration)
			}
			results[i] = res
			if reporter != nil {
				reporter.Complete(res)
			}
		}()
	}

	wg.Wait()
	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

func (s *Service) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
