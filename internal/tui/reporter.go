package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"gridstack/internal/probe"
)

// ProbeColumns is the table layout used while clips are probed.
var ProbeColumns = []Column{
	{Header: "ID", Width: 8},
	{Header: "STATUS", Width: 8},
	{Header: "FILE", Width: 32},
	{Header: "SIZE", Width: 11},
	{Header: "DURATION", Width: 9},
	{Header: "ERROR", Width: 40},
}

// NewProbeModel returns a progress table with one pending row per target.
func NewProbeModel(targets []probe.Target) ProgressModel {
	m := NewProgressModel("Probing clips", ProbeColumns)
	for _, t := range targets {
		m.AddRow(t.ID, []string{t.ID, "pending", t.Path, "-", "-", ""})
	}
	return m
}

// ProbeReporter adapts probe.Reporter to bubbletea row updates.
type ProbeReporter struct {
	send func(tea.Msg)
}

// NewProbeReporter wraps a tea.Program send function.
func NewProbeReporter(send func(tea.Msg)) *ProbeReporter {
	return &ProbeReporter{send: send}
}

// Start implements probe.Reporter.
func (r *ProbeReporter) Start(target probe.Target) {
	r.send(RowUpdateMsg{Key: target.ID, Fields: map[string]string{"STATUS": "probing"}})
}

// Complete implements probe.Reporter.
func (r *ProbeReporter) Complete(res probe.Result) {
	r.send(RowUpdateMsg{Key: res.ID, Fields: ProbeFields(res)})
}

// ProbeFields renders a probe result as table fields.
func ProbeFields(res probe.Result) map[string]string {
	if res.Err != nil {
		return map[string]string{"STATUS": "error", "ERROR": res.Err.Error()}
	}
	return map[string]string{
		"STATUS":   "probed",
		"SIZE":     fmt.Sprintf("%dx%d", res.Probed.Width, res.Probed.Height),
		"DURATION": fmt.Sprintf("%.2fs", res.Probed.Duration),
	}
}

var _ probe.Reporter = (*ProbeReporter)(nil)
