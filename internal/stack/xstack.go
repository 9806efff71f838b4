package stack

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Xstack describes an n-input mosaic for ffmpeg's xstack filter. Offsets are
// expressions over the input widths (w0, w1, ...) and heights (h0, h1, ...)
// that ffmpeg evaluates once the inputs are open.
type Xstack struct {
	n int
}

// NewXstack returns the layout for n inputs in row-major order.
func NewXstack(n int) Xstack {
	return Xstack{n: n}
}

// Columns is floor(sqrt(n)).
func (x Xstack) Columns() int {
	return int(math.Floor(math.Sqrt(float64(x.n))))
}

// Labels returns the input pad labels, [0:v][1:v]...[n-1:v]. Label order
// matches cell order in Layout.
func (x Xstack) Labels() string {
	var b strings.Builder
	for i := 0; i < x.n; i++ {
		fmt.Fprintf(&b, "[%d:v]", i)
	}
	return b.String()
}

// Layout returns the |-joined "{x}_{y}" cell offsets.
func (x Xstack) Layout() string {
	cols := x.Columns()
	if cols == 0 {
		return ""
	}
	cells := make([]string, x.n)
	for i := range cells {
		row, col := i/cols, i%cols
		cells[i] = offset("w", col) + "_" + offset("h", row)
	}
	return strings.Join(cells, "|")
}

// Filter returns the complete filter_complex expression, with the mosaic on
// the [v] output pad.
func (x Xstack) Filter() string {
	return fmt.Sprintf("%sxstack=inputs=%d:layout=%s[v]", x.Labels(), x.n, x.Layout())
}

// offset sums the first count dimensions named by prefix: "0", "w0",
// "w0+w1", ...
func offset(prefix string, count int) string {
	if count == 0 {
		return "0"
	}
	terms := make([]string, count)
	for i := range terms {
		terms[i] = prefix + strconv.Itoa(i)
	}
	return strings.Join(terms, "+")
}
