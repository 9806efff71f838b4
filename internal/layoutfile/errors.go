package layoutfile

import (
	"strconv"
	"strings"
)

// ValidationError captures a single entry-level problem in a layout file.
type ValidationError struct {
	List    string // "positions", "sources" or "sliders"
	Entry   int    // 1-based position within the list
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	parts := []string{formatEntry(e.List, e.Entry)}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ValidationErrors aggregates multiple validation issues.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

func formatEntry(list string, entry int) string {
	if entry <= 0 {
		return list
	}
	return list + "[" + strconv.Itoa(entry) + "]"
}
