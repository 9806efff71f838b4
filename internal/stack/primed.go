package stack

import "fmt"

// Trim bounds a clip to the inclusive [Start, End] range, in whole seconds.
type Trim struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// Primed is the merged, normalized view of one clip on the grid.
type Primed struct {
	ID   string `json:"id"`
	X    uint8  `json:"x"`
	Y    uint8  `json:"y"`
	Path string `json:"path"`
	Trim *Trim  `json:"trim,omitempty"`
}

// Timestamp formats whole seconds as a zero-padded HH:MM:SS value. Hours are
// not wrapped at 24.
func Timestamp(seconds uint32) string {
	hours := seconds / 3600
	minutes := (seconds / 60) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds%60)
}

func (p Primed) String() string {
	start, end := "Not set", "Not set"
	if p.Trim != nil {
		start, end = Timestamp(p.Trim.Start), Timestamp(p.Trim.End)
	}
	return fmt.Sprintf("Id: %s | x: %d, y: %d | path: %s | start: %s, end: %s",
		p.ID, p.X, p.Y, p.Path, start, end)
}
