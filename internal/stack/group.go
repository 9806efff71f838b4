package stack

import (
	"math"
	"sort"
	"strings"
)

// Input is a single clip attribute received independently from the others.
// Position, Source and Slider are the three kinds.
type Input interface {
	InputID() string
	apply(p *Primed)
}

// Position places a clip on the grid. X is the column, Y the row.
type Position struct {
	ID string `json:"id" yaml:"id"`
	X  uint8  `json:"x" yaml:"x"`
	Y  uint8  `json:"y" yaml:"y"`
}

// Source names the media file backing a clip.
type Source struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
}

// Slider carries the trim range chosen for a clip, in seconds.
type Slider struct {
	ID     string     `json:"id" yaml:"id"`
	Values [2]float64 `json:"values" yaml:"values"`
}

func (p Position) InputID() string { return p.ID }
func (s Source) InputID() string   { return s.ID }
func (s Slider) InputID() string   { return s.ID }

func (p Position) apply(primed *Primed) {
	primed.X = p.X
	primed.Y = p.Y
}

func (s Source) apply(primed *Primed) {
	if strings.TrimSpace(s.Path) != "" {
		primed.Path = s.Path
	}
}

func (s Slider) apply(primed *Primed) {
	primed.Trim = &Trim{
		Start: wholeSeconds(s.Values[0]),
		End:   wholeSeconds(s.Values[1]),
	}
}

// wholeSeconds truncates v toward zero; negative and NaN values become 0.
func wholeSeconds(v float64) uint32 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(v)
}

// Inputs converts a typed attribute list for Group.Add.
func Inputs[T Input](values []T) []Input {
	out := make([]Input, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Group accumulates attributes by clip identifier.
type Group struct {
	inputs map[string][]Input
}

// NewGroup returns an empty Group.
func NewGroup() *Group {
	return &Group{inputs: make(map[string][]Input)}
}

// Add records each input under its identifier.
func (g *Group) Add(inputs []Input) *Group {
	for _, in := range inputs {
		id := in.InputID()
		g.inputs[id] = append(g.inputs[id], in)
	}
	return g
}

// Clean drops identifiers that never received a non-blank Source. A grid cell
// without a file has nothing to contribute to the composition.
func (g *Group) Clean() *Group {
	for id, inputs := range g.inputs {
		if !hasSource(inputs) {
			delete(g.inputs, id)
		}
	}
	return g
}

// Prime folds every identifier's attributes into one Primed record. Records
// are returned ordered by identifier; composition order is decided later by
// the Stacker.
func (g *Group) Prime() []Primed {
	ids := make([]string, 0, len(g.inputs))
	for id := range g.inputs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	primed := make([]Primed, 0, len(ids))
	for _, id := range ids {
		p := Primed{ID: id}
		for _, in := range g.inputs[id] {
			in.apply(&p)
		}
		primed = append(primed, p)
	}
	return primed
}

func hasSource(inputs []Input) bool {
	for _, in := range inputs {
		if src, ok := in.(Source); ok && strings.TrimSpace(src.Path) != "" {
			return true
		}
	}
	return false
}

// Merge groups positions, sources and sliders by identifier and returns one
// Primed record per identifier that has a source.
func Merge(positions []Position, sources []Source, sliders []Slider) []Primed {
	return NewGroup().
		Add(Inputs(positions)).
		Add(Inputs(sources)).
		Add(Inputs(sliders)).
		Clean().
		Prime()
}
