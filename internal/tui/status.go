package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const statusInterval = 100 * time.Millisecond

// StatusWriter keeps a single spinner line on w for long phases without a
// table, such as the ffmpeg run itself.
type StatusWriter struct {
	w    io.Writer
	stop chan struct{}

	mu      sync.Mutex
	message string
	since   time.Time
	closed  bool
}

// NewStatusWriter starts redrawing the status line on w.
func NewStatusWriter(w io.Writer) *StatusWriter {
	sw := &StatusWriter{w: w, stop: make(chan struct{}), since: time.Now()}
	go sw.run()
	return sw
}

// Update sets the message and restarts the elapsed timer.
func (sw *StatusWriter) Update(msg string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.message, sw.since = msg, time.Now()
}

// Stop erases the line and ends the redraw loop. Repeated calls are no-ops.
func (sw *StatusWriter) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.closed {
		return
	}
	sw.closed = true
	close(sw.stop)
	fmt.Fprint(sw.w, "\r\033[K")
}

func (sw *StatusWriter) run() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-sw.stop:
			return
		case <-ticker.C:
			sw.draw(frame)
		}
	}
}

func (sw *StatusWriter) draw(frame int) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.closed {
		return
	}
	fmt.Fprintf(sw.w, "\r\033[K%s %s (%s)",
		spinnerFrames[frame%len(spinnerFrames)], sw.message, formatElapsed(time.Since(sw.since)))
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
