package tui

// RowUpdateMsg replaces the named columns of the row with the given key.
// Columns not present in Fields keep their current values.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// WorkDoneMsg is sent once every clip has been probed.
type WorkDoneMsg struct{}

// ErrorMsg aborts the table and renders Err instead.
type ErrorMsg struct {
	Err error
}
