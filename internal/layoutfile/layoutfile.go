// Package layoutfile loads the clip arrangement produced by a layout editor:
// independent lists of grid positions, source files and trim sliders keyed by
// clip id. JSON documents are accepted as well as YAML.
package layoutfile

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gridstack/internal/stack"
)

const maxCoordinate = math.MaxUint8

// Layout is a validated layout file.
type Layout struct {
	Positions []stack.Position
	Sources   []stack.Source
	Sliders   []stack.Slider
	Output    string
}

// Primed merges the three lists into one record per sourced clip.
func (l Layout) Primed() []stack.Primed {
	return stack.Merge(l.Positions, l.Sources, l.Sliders)
}

type rawLayout struct {
	Positions []rawPosition `yaml:"positions"`
	Sources   []rawSource   `yaml:"sources"`
	Sliders   []rawSlider   `yaml:"sliders"`
	Output    string        `yaml:"output"`
}

type rawPosition struct {
	ID string `yaml:"id"`
	X  int    `yaml:"x"`
	Y  int    `yaml:"y"`
}

type rawSource struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

type rawSlider struct {
	ID     string    `yaml:"id"`
	Values []float64 `yaml:"values"`
}

// Load reads and validates the layout file at path.
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return Layout{}, errors.New("layout file is empty")
	}
	return Parse(data)
}

// Parse validates a layout document. All problems are collected into a
// ValidationErrors value rather than stopping at the first.
func Parse(data []byte) (Layout, error) {
	var raw rawLayout
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}

	var (
		layout = Layout{Output: strings.TrimSpace(raw.Output)}
		errs   ValidationErrors
	)

	for i, p := range raw.Positions {
		entry := i + 1
		id := strings.TrimSpace(p.ID)
		if id == "" {
			errs = append(errs, ValidationError{List: "positions", Entry: entry, Field: "id", Message: "is required"})
		}
		if p.X < 0 || p.X > maxCoordinate {
			errs = append(errs, ValidationError{List: "positions", Entry: entry, Field: "x", Message: fmt.Sprintf("%d outside 0-%d", p.X, maxCoordinate)})
		}
		if p.Y < 0 || p.Y > maxCoordinate {
			errs = append(errs, ValidationError{List: "positions", Entry: entry, Field: "y", Message: fmt.Sprintf("%d outside 0-%d", p.Y, maxCoordinate)})
		}
		layout.Positions = append(layout.Positions, stack.Position{ID: id, X: clampCoordinate(p.X), Y: clampCoordinate(p.Y)})
	}

	for i, s := range raw.Sources {
		entry := i + 1
		id := strings.TrimSpace(s.ID)
		if id == "" {
			errs = append(errs, ValidationError{List: "sources", Entry: entry, Field: "id", Message: "is required"})
		}
		layout.Sources = append(layout.Sources, stack.Source{ID: id, Path: s.Path})
	}

	for i, s := range raw.Sliders {
		entry := i + 1
		id := strings.TrimSpace(s.ID)
		if id == "" {
			errs = append(errs, ValidationError{List: "sliders", Entry: entry, Field: "id", Message: "is required"})
		}
		if len(s.Values) != 2 {
			errs = append(errs, ValidationError{List: "sliders", Entry: entry, Field: "values", Message: fmt.Sprintf("needs exactly 2 values, got %d", len(s.Values))})
			continue
		}
		start, end := s.Values[0], s.Values[1]
		if start < 0 || end < 0 || math.IsNaN(start) || math.IsNaN(end) {
			errs = append(errs, ValidationError{List: "sliders", Entry: entry, Field: "values", Message: "must be non-negative"})
		} else if start > end {
			errs = append(errs, ValidationError{List: "sliders", Entry: entry, Field: "values", Message: fmt.Sprintf("start %g is after end %g", start, end)})
		}
		layout.Sliders = append(layout.Sliders, stack.Slider{ID: id, Values: [2]float64{start, end}})
	}

	if dup := duplicateIDs(layout.Positions); dup != "" {
		errs = append(errs, ValidationError{List: "positions", Field: "id", Message: fmt.Sprintf("%q appears more than once", dup)})
	}
	if dup := duplicateIDs(layout.Sources); dup != "" {
		errs = append(errs, ValidationError{List: "sources", Field: "id", Message: fmt.Sprintf("%q appears more than once", dup)})
	}
	if dup := duplicateIDs(layout.Sliders); dup != "" {
		errs = append(errs, ValidationError{List: "sliders", Field: "id", Message: fmt.Sprintf("%q appears more than once", dup)})
	}

	if len(errs) > 0 {
		return layout, errs
	}
	return layout, nil
}

func clampCoordinate(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > maxCoordinate:
		return maxCoordinate
	}
	return uint8(v)
}

func duplicateIDs[T stack.Input](values []T) string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		id := v.InputID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			return id
		}
		seen[id] = struct{}{}
	}
	return ""
}
