package stack

import "sort"

// Mode is the composition strategy for a set of clips.
type Mode int

const (
	// Vertical stacks clips top to bottom in a single column.
	Vertical Mode = iota
	// Horizontal stacks clips left to right in a single row.
	Horizontal
	// Grid arranges clips as a row-major mosaic.
	Grid
)

func (m Mode) String() string {
	switch m {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case Grid:
		return "grid"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Identify classifies the arrangement. Fewer than two clips are Vertical
// wherever they sit. Otherwise the vertical check runs first, so a set with
// every coordinate at zero is Vertical.
func Identify(primed []Primed) Mode {
	if len(primed) < 2 {
		return Vertical
	}
	if all(primed, func(p Primed) bool { return p.X == 0 }) {
		return Vertical
	}
	if all(primed, func(p Primed) bool { return p.Y == 0 }) {
		return Horizontal
	}
	return Grid
}

func all(primed []Primed, pred func(Primed) bool) bool {
	for _, p := range primed {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Order sorts primed in place into composition order for mode. The sort is
// stable; it is the only place composition order is decided.
func Order(mode Mode, primed []Primed) {
	var less func(a, b Primed) bool
	switch mode {
	case Horizontal:
		less = func(a, b Primed) bool { return a.X < b.X }
	case Vertical:
		less = func(a, b Primed) bool { return a.Y < b.Y }
	default:
		less = func(a, b Primed) bool {
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		}
	}
	sort.SliceStable(primed, func(i, j int) bool { return less(primed[i], primed[j]) })
}
