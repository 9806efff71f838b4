package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = spinner.MiniDot.Frames

type tickMsg time.Time

// Column is one fixed-width table column.
type Column struct {
	Header string
	Width  int
}

// Row is one clip's table line. Fields line up with the model's columns.
type Row struct {
	Key    string
	Fields []string
}

// ProgressModel renders a table with a row per clip and rewrites rows in
// place as RowUpdateMsg values arrive.
type ProgressModel struct {
	title   string
	columns []Column
	widths  []int
	rows    []Row
	byKey   map[string]int
	status  int // STATUS column index, -1 when absent
	frame   int
	done    bool
	err     error
}

// NewProgressModel returns an empty table. Rows are added with AddRow before
// the program starts.
func NewProgressModel(title string, columns []Column) ProgressModel {
	m := ProgressModel{
		title:   title,
		columns: columns,
		widths:  make([]int, len(columns)),
		byKey:   make(map[string]int),
		status:  -1,
	}
	for i, c := range columns {
		m.widths[i] = max(len(c.Header), c.Width)
		if m.status < 0 && strings.EqualFold(c.Header, "STATUS") {
			m.status = i
		}
	}
	return m
}

// AddRow appends a row. Missing trailing fields are left blank.
func (m *ProgressModel) AddRow(key string, fields []string) {
	row := Row{Key: key, Fields: make([]string, len(m.columns))}
	copy(row.Fields, fields)
	m.byKey[key] = len(m.rows)
	m.rows = append(m.rows, row)
}

func nextFrame() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return nextFrame()
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame++
		if m.done {
			return m, nil
		}
		return m, nextFrame()
	case RowUpdateMsg:
		m.apply(msg)
	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit
	case ErrorMsg:
		m.err, m.done = msg.Err, true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ProgressModel) apply(msg RowUpdateMsg) {
	idx, ok := m.byKey[msg.Key]
	if !ok {
		return
	}
	for i, c := range m.columns {
		if v, ok := msg.Fields[c.Header]; ok {
			m.rows[idx].Fields[i] = v
		}
	}
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	if m.done && m.err != nil {
		return ErrorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(TitleStyle.Render(m.title) + "\n")
	}
	b.WriteString(m.renderHeader() + "\n")
	for _, row := range m.rows {
		b.WriteString(m.renderRow(row) + "\n")
	}

	if !m.done {
		finished, failed, total := m.counts()
		footer := fmt.Sprintf("Probing %d/%d...", finished, total)
		if failed > 0 {
			footer += ErrorStyle.Render(fmt.Sprintf(" %d failed", failed))
		}
		fmt.Fprintf(&b, "\n%s %s\n", spinnerFrames[m.frame%len(spinnerFrames)], footer)
	}
	return b.String()
}

func (m ProgressModel) renderHeader() string {
	cells := make([]string, len(m.columns))
	for i, c := range m.columns {
		cells[i] = HeaderStyle.Render(pad(c.Header, m.widths[i]))
	}
	return strings.Join(cells, "  ")
}

func (m ProgressModel) renderRow(row Row) string {
	cells := make([]string, len(m.columns))
	for i := range m.columns {
		cell := pad(TruncateWithEllipsis(row.Fields[i], m.widths[i]), m.widths[i])
		if i == m.status {
			cell = StatusStyle(strings.TrimSpace(cell)).Render(cell)
		}
		cells[i] = cell
	}
	return strings.Join(cells, "  ")
}

// counts returns how many rows have settled, how many of those failed, and
// the row total. Rows that are pending or still probing have not settled.
func (m ProgressModel) counts() (finished, failed, total int) {
	total = len(m.rows)
	if m.status < 0 {
		return 0, 0, total
	}
	for _, row := range m.rows {
		switch strings.TrimSpace(row.Fields[m.status]) {
		case "", "pending", "probing":
		case "error":
			finished++
			failed++
		default:
			finished++
		}
	}
	return finished, failed, total
}

// Done reports whether the table has stopped updating.
func (m ProgressModel) Done() bool {
	return m.done
}

// Err returns the error delivered by ErrorMsg, if any.
func (m ProgressModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if n := width - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// NonEmptyOrDash returns "-" for blank values.
func NonEmptyOrDash(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return "-"
}

// TruncateWithEllipsis shortens value to limit bytes, ending in "..." when
// there is room for it.
func TruncateWithEllipsis(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	switch {
	case len(value) <= limit:
		return value
	case limit <= 3:
		return value[:limit]
	}
	return value[:limit-3] + "..."
}
