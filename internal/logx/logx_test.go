package logx

import (
	"os"
	"strings"
	"testing"

	"gridstack/internal/paths"
)

func TestNewWritesPrefixedLines(t *testing.T) {
	ws, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	logger, id, closer, err := New(ws)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	logger.Printf("merged %d clips", 4)
	if err := closer.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	entries, err := os.ReadDir(ws.LogsDir)
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log file, got %d", len(entries))
	}
	data, err := os.ReadFile(ws.LogsDir + string(os.PathSeparator) + entries[0].Name())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "["+id+"] merged 4 clips") {
		t.Fatalf("expected request id prefix in %q", line)
	}
}
