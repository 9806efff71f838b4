package stack

import (
	"errors"
	"fmt"

	"gridstack/internal/probe"
)

var (
	ErrWidthMismatch     = errors.New("vertical stacking requires every clip to have the same width")
	ErrHeightMismatch    = errors.New("horizontal stacking requires every clip to have the same height")
	ErrDimensionMismatch = errors.New("grid stacking requires every clip to have the same width and height")
	ErrUnknownMetadata   = errors.New("clip dimensions are unknown")
)

// MismatchError names the adjacent pair of clips that broke a mode's
// dimension requirement.
type MismatchError struct {
	Mode  Mode
	Index int // position of B in composition order
	A, B  probe.Probed
	Err   error
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: %s is %dx%d but %s is %dx%d",
		e.Err, e.A.Filename, e.A.Width, e.A.Height, e.B.Filename, e.B.Width, e.B.Height)
}

func (e *MismatchError) Unwrap() error { return e.Err }

// Check verifies that probed, given in composition order, can be stacked in
// mode. Nothing is rescaled; a mismatch is returned to the caller.
func Check(mode Mode, probed []probe.Probed) error {
	if len(probed) < 2 {
		return nil
	}
	for i, p := range probed {
		if !p.Known() {
			return fmt.Errorf("clip %d (%s): %w", i, p.Filename, ErrUnknownMetadata)
		}
	}

	for i := 1; i < len(probed); i++ {
		a, b := probed[i-1], probed[i]
		var err error
		switch mode {
		case Vertical:
			if a.Width != b.Width {
				err = ErrWidthMismatch
			}
		case Horizontal:
			if a.Height != b.Height {
				err = ErrHeightMismatch
			}
		default:
			if a.Width != b.Width || a.Height != b.Height {
				err = ErrDimensionMismatch
			}
		}
		if err != nil {
			return &MismatchError{Mode: mode, Index: i, A: a, B: b, Err: err}
		}
	}
	return nil
}

var (
	ErrTrimPastEnd = errors.New("trim ends after the clip does")
	ErrEmptyTrim   = errors.New("trim start and end are the same second")
)

// TrimError names the clip whose trim cannot be cut from its source.
type TrimError struct {
	ID       string
	Trim     Trim
	Duration float64
	Err      error
}

func (e *TrimError) Error() string {
	return fmt.Sprintf("clip %s: %v (%s to %s, clip is %.2fs)",
		e.ID, e.Err, Timestamp(e.Trim.Start), Timestamp(e.Trim.End), e.Duration)
}

func (e *TrimError) Unwrap() error { return e.Err }

// CheckTrims verifies each trim against the measured duration of its clip.
// primed and probed must be in the same order. A zero duration is unknown and
// only the empty-range rule applies.
func CheckTrims(primed []Primed, probed []probe.Probed) error {
	if len(primed) != len(probed) {
		return fmt.Errorf("%d clips but %d probe results", len(primed), len(probed))
	}
	for i, p := range primed {
		if p.Trim == nil {
			continue
		}
		duration := probed[i].Duration
		switch {
		case p.Trim.Start == p.Trim.End:
			return &TrimError{ID: p.ID, Trim: *p.Trim, Duration: duration, Err: ErrEmptyTrim}
		case duration > 0 && float64(p.Trim.End) > duration:
			return &TrimError{ID: p.ID, Trim: *p.Trim, Duration: duration, Err: ErrTrimPastEnd}
		}
	}
	return nil
}
