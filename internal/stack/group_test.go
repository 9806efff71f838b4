package stack

import (
	"reflect"
	"testing"
)

func TestMergeGroupsByID(t *testing.T) {
	primed := Merge(
		[]Position{{ID: "1", X: 0, Y: 1}},
		[]Source{{ID: "1", Path: "x.mov"}},
		[]Slider{{ID: "1", Values: [2]float64{10, 20}}},
	)

	if len(primed) != 1 {
		t.Fatalf("expected 1 primed record, got %d", len(primed))
	}
	want := Primed{ID: "1", X: 0, Y: 1, Path: "x.mov", Trim: &Trim{Start: 10, End: 20}}
	if !reflect.DeepEqual(primed[0], want) {
		t.Fatalf("unexpected primed record:\n got %+v\nwant %+v", primed[0], want)
	}
}

func TestMergeDropsClipsWithoutSource(t *testing.T) {
	primed := Merge(
		[]Position{{ID: "a", X: 1}, {ID: "orphan", X: 2, Y: 2}},
		[]Source{{ID: "a", Path: "a.mp4"}, {ID: "blank", Path: "   "}},
		[]Slider{{ID: "ghost", Values: [2]float64{1, 2}}},
	)

	if len(primed) != 1 {
		t.Fatalf("expected only clip a to survive, got %+v", primed)
	}
	if primed[0].ID != "a" {
		t.Fatalf("expected clip a, got %q", primed[0].ID)
	}
	for _, p := range primed {
		if p.Path == "" {
			t.Fatalf("primed record %q has empty path", p.ID)
		}
	}
}

func TestMergeDefaults(t *testing.T) {
	primed := Merge(nil, []Source{{ID: "solo", Path: "solo.mkv"}}, nil)

	if len(primed) != 1 {
		t.Fatalf("expected 1 record, got %d", len(primed))
	}
	p := primed[0]
	if p.X != 0 || p.Y != 0 {
		t.Fatalf("expected default position 0,0, got %d,%d", p.X, p.Y)
	}
	if p.Trim != nil {
		t.Fatalf("expected no trim, got %+v", p.Trim)
	}
}

func TestMergeZeroTrimIsPresent(t *testing.T) {
	primed := Merge(nil,
		[]Source{{ID: "z", Path: "z.mov"}},
		[]Slider{{ID: "z", Values: [2]float64{0, 0}}},
	)
	if primed[0].Trim == nil {
		t.Fatal("expected [0,0] trim to be kept, got nil")
	}
}

func TestMergeCoercesTrim(t *testing.T) {
	tests := []struct {
		values [2]float64
		want   Trim
	}{
		{[2]float64{10.9, 30.2}, Trim{Start: 10, End: 30}},
		{[2]float64{-5, 3.999}, Trim{Start: 0, End: 3}},
		{[2]float64{0, 1e12}, Trim{Start: 0, End: 4294967295}},
	}

	for _, tt := range tests {
		primed := Merge(nil,
			[]Source{{ID: "c", Path: "c.mov"}},
			[]Slider{{ID: "c", Values: tt.values}},
		)
		if got := *primed[0].Trim; got != tt.want {
			t.Errorf("trim %v = %+v, want %+v", tt.values, got, tt.want)
		}
	}
}

func TestMergeIsOrderIndependent(t *testing.T) {
	positions := []Position{{ID: "1", X: 0, Y: 0}, {ID: "2", X: 1, Y: 0}, {ID: "3", X: 0, Y: 1}}
	sources := []Source{{ID: "1", Path: "1.mov"}, {ID: "2", Path: "2.mov"}, {ID: "3", Path: "3.mov"}}
	sliders := []Slider{{ID: "2", Values: [2]float64{4, 8}}}

	first := Merge(positions, sources, sliders)

	reversedPositions := []Position{positions[2], positions[1], positions[0]}
	reversedSources := []Source{sources[1], sources[2], sources[0]}
	second := Merge(reversedPositions, reversedSources, sliders)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("merge depends on input order:\n%+v\n%+v", first, second)
	}
}

func TestGroupAddAcceptsMixedInputs(t *testing.T) {
	primed := NewGroup().
		Add([]Input{Source{ID: "m", Path: "m.mov"}, Position{ID: "m", X: 3, Y: 4}}).
		Clean().
		Prime()

	if len(primed) != 1 || primed[0].X != 3 || primed[0].Y != 4 {
		t.Fatalf("unexpected result %+v", primed)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		seconds uint32
		want    string
	}{
		{0, "00:00:00"},
		{10, "00:00:10"},
		{2341, "00:39:01"},
		{4123, "01:08:43"},
		{100 * 3600, "100:00:00"},
	}
	for _, tt := range tests {
		if got := Timestamp(tt.seconds); got != tt.want {
			t.Errorf("Timestamp(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestPrimedString(t *testing.T) {
	p := Primed{ID: "7", X: 1, Y: 2, Path: "clip.mov"}
	want := "Id: 7 | x: 1, y: 2 | path: clip.mov | start: Not set, end: Not set"
	if got := p.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	p.Trim = &Trim{Start: 2341, End: 4123}
	want = "Id: 7 | x: 1, y: 2 | path: clip.mov | start: 00:39:01, end: 01:08:43"
	if got := p.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMergeKeepsPathVerbatim(t *testing.T) {
	primed := Merge(nil, []Source{{ID: "1", Path: " take one .mov "}}, nil)
	if len(primed) != 1 || primed[0].Path != " take one .mov " {
		t.Fatalf("expected path to be kept as given, got %+v", primed)
	}
}
